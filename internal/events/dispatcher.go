package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const Channel = "bookings.committed"

// BookingCommitted é o evento emitido após cada commit bem-sucedido,
// consumido pelo subsistema externo de notificações.
type BookingCommitted struct {
	BookingID     uint      `json:"booking_id"`
	ReferenceCode string    `json:"reference_code"`
	OrgID         uint      `json:"org_id"`
	ServiceID     uint      `json:"service_id"`
	MemberID      *uint     `json:"member_id,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type Dispatcher struct {
	rdb   *redis.Client
	queue chan BookingCommitted
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	d := &Dispatcher{
		rdb:   rdb,
		queue: make(chan BookingCommitted, 100), // buffer seguro
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.publish(ev); err != nil {
			log.Println("events error:", err)
		}
	}
}

func (d *Dispatcher) publish(ev BookingCommitted) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if d.rdb == nil {
		log.Printf("booking committed (no broker): %s", payload)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return d.rdb.Publish(ctx, Channel, payload).Err()
}

func (d *Dispatcher) Dispatch(ev BookingCommitted) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos o evento (nunca quebrar o commit)
		log.Println("events queue full, dropping event")
	}
}
