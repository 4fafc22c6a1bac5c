// internal/app/system/notify/notify.go
package notify

import (
	"context"
	"sync"
	"time"

	notificationstore "github.com/dalemusser/azubihub/internal/app/store/notifications"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event is one notification to be delivered to one recipient.
type Event struct {
	UserID  primitive.ObjectID
	Type    string // models.NotifyGroupJoin | models.NotifyComment | models.NotifyRating
	Title   string
	Message string
	Link    string
}

// Dispatcher persists notification events from a background worker so
// request handlers never block, and never fail, on notification writes.
// Publish is fire-and-forget: a full queue drops the event with a log
// line rather than stalling the caller.
type Dispatcher struct {
	store  *notificationstore.Store
	log    *zap.Logger
	ch     chan Event
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given queue size.
func NewDispatcher(store *notificationstore.Store, logger *zap.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		store:  store,
		log:    logger,
		ch:     make(chan Event, queueSize),
		stopCh: make(chan struct{}),
	}
}

// Start begins the delivery loop.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
	d.log.Info("notification dispatcher started", zap.Int("queue_size", cap(d.ch)))
}

// Stop drains queued events, then stops the worker.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
	d.log.Info("notification dispatcher stopped")
}

// Publish enqueues an event. It never blocks and never returns an
// error; a notification that cannot be queued is logged and dropped.
// Events addressed to nobody are ignored.
func (d *Dispatcher) Publish(ev Event) {
	if ev.UserID.IsZero() {
		return
	}
	select {
	case d.ch <- ev:
	default:
		d.log.Warn("notification queue full, dropping event",
			zap.String("type", ev.Type),
			zap.String("user_id", ev.UserID.Hex()))
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case ev := <-d.ch:
			d.deliver(ev)
		case <-d.stopCh:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case ev := <-d.ch:
					d.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := d.store.Insert(ctx, models.Notification{
		UserID:  ev.UserID,
		Type:    ev.Type,
		Title:   ev.Title,
		Message: ev.Message,
		Link:    ev.Link,
	})
	if err != nil {
		d.log.Error("failed to persist notification",
			zap.String("type", ev.Type),
			zap.String("user_id", ev.UserID.Hex()),
			zap.Error(err))
	}
}
