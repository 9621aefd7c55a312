package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agendly/booking-engine/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.ServiceSettingFreeze{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Base compartilhada entre conexões: limpa antes de cada teste.
	db.Exec("DELETE FROM service_setting_freezes")
	return db
}

func TestInsertFreezeIfAbsent_FirstSnapshotWins(t *testing.T) {
	db := openTestDB(t)
	repo := NewScheduleGormRepository(db)
	ctx := context.Background()

	first := models.FrozenSettings{
		DurationMin: 60,
		WeeklyWindows: []models.FrozenWindow{
			{Start: "09:00", End: "17:00"},
		},
	}
	settings, err := first.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := repo.InsertFreezeIfAbsent(ctx, &models.ServiceSettingFreeze{
		ServiceID: 10,
		Date:      "2025-03-03",
		Settings:  settings,
	}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	second := models.FrozenSettings{DurationMin: 30}
	settings2, err := second.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := repo.InsertFreezeIfAbsent(ctx, &models.ServiceSettingFreeze{
		ServiceID: 10,
		Date:      "2025-03-03",
		Settings:  settings2,
	}); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	fz, err := repo.GetFreeze(ctx, 10, "2025-03-03")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fz == nil {
		t.Fatalf("expected freeze row")
	}
	fs, err := fz.DecodeSettings()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fs.DurationMin != 60 {
		t.Fatalf("duration = %d, first snapshot must win", fs.DurationMin)
	}

	var count int64
	db.Model(&models.ServiceSettingFreeze{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
}

func TestGetFreeze_AbsentReturnsNil(t *testing.T) {
	repo := NewScheduleGormRepository(openTestDB(t))

	fz, err := repo.GetFreeze(context.Background(), 10, "2030-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fz != nil {
		t.Fatalf("expected nil for absent freeze, got %+v", fz)
	}
}

func TestInsertFreezeIfAbsent_DistinctDatesCoexist(t *testing.T) {
	db := openTestDB(t)
	repo := NewScheduleGormRepository(db)
	ctx := context.Background()

	fs := models.FrozenSettings{DurationMin: 45}
	settings, err := fs.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	for _, date := range []string{"2025-03-03", "2025-03-04"} {
		if err := repo.InsertFreezeIfAbsent(ctx, &models.ServiceSettingFreeze{
			ServiceID: 10,
			Date:      date,
			Settings:  settings,
		}); err != nil {
			t.Fatalf("insert %s: %v", date, err)
		}
	}

	var count int64
	db.Model(&models.ServiceSettingFreeze{}).Count(&count)
	if count != 2 {
		t.Fatalf("rows = %d, want 2", count)
	}
}
