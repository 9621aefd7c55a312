package events

import (
	"testing"
	"time"
)

func TestDispatch_WithoutBrokerDoesNotBlock(t *testing.T) {
	d := NewDispatcher(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			d.Dispatch(BookingCommitted{
				BookingID:     uint(i + 1),
				ReferenceCode: "ABCD2345",
				OrgID:         1,
				ServiceID:     10,
				StartTime:     time.Now(),
				EndTime:       time.Now().Add(time.Hour),
			})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch blocked with full queue")
	}
}
