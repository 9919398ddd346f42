package notification

import (
	"context"
	"log"
	"sync"
	"time"

	"umrahstay/internal/domain"
)

const defaultPublishTimeout = 5 * time.Second

// Notifier publishes booking events in the background. Failures are logged
// and never reach the caller.
type Notifier struct {
	pub     Publisher
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewNotifier(pub Publisher) *Notifier {
	if pub == nil {
		pub = LogPublisher{}
	}
	return &Notifier{pub: pub, timeout: defaultPublishTimeout}
}

func (n *Notifier) BookingCreated(b domain.Booking) {
	n.send(bookingEvent(TypeBookingCreated, b))
}

func (n *Notifier) BookingStatusChanged(b domain.Booking, from domain.BookingStatus) {
	e := bookingEvent(TypeBookingStatusChanged, b)
	e.PreviousStatus = string(from)
	n.send(e)
}

// Wait blocks until in-flight publishes finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) send(e Event) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("notification_error type=%s booking_id=%d panic=%v", e.Type, e.BookingID, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.pub.Publish(ctx, e); err != nil {
			log.Printf("notification_error type=%s booking_id=%d error=%q", e.Type, e.BookingID, err.Error())
		}
	}()
}
