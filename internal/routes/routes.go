package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/agendly/booking-engine/internal/config"
	"github.com/agendly/booking-engine/internal/events"
	"github.com/agendly/booking-engine/internal/handlers"
	infraRepo "github.com/agendly/booking-engine/internal/infra/repository"
	"github.com/agendly/booking-engine/internal/middleware"
	ucBooking "github.com/agendly/booking-engine/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	eventDispatcher := events.NewDispatcher(rdb)

	// ======================================================
	// USE CASES
	// ======================================================
	getAvailabilityUC := ucBooking.NewGetAvailability(scheduleRepo)
	commitBookingUC := ucBooking.NewCommitBooking(scheduleRepo, eventDispatcher)
	saveWeeklyUC := ucBooking.NewSaveServiceWeekly(scheduleRepo)
	createOverrideUC := ucBooking.NewCreateOverride(scheduleRepo)
	deleteOverrideUC := ucBooking.NewDeleteOverride(scheduleRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(scheduleRepo, getAvailabilityUC)
	bookingHandler := handlers.NewBookingHandler(scheduleRepo, commitBookingUC)
	scheduleHandler := handlers.NewScheduleHandler(saveWeeklyUC)
	overrideHandler := handlers.NewOverrideHandler(createOverrideUC, deleteOverrideUC)

	api := r.Group("/api")
	{
		// ------------------------------
		// API pública (fluxo de reserva)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services/:serviceID/availability", availabilityHandler.List)
			publicAPI.POST("/:slug/bookings", bookingHandler.Create)
		}

		// ------------------------------
		// API privada (equipe)
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.PUT("/services/:serviceID/weekly-availability", scheduleHandler.SaveServiceWeekly)

			secured.POST("/overrides", overrideHandler.Create)
			secured.DELETE("/overrides/:id", overrideHandler.Delete)
		}
	}
}
