package alert

import (
	"context"
	"sync"
	"time"

	"github.com/flagwise/flagwise/pkg/domain/alert"
	"github.com/flagwise/flagwise/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const deliveryTimeout = 10 * time.Second

// Sink delivers one alert event to a downstream destination. Delivery
// guarantees and retry policy belong to the sink, not to the dispatcher.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, evt *alert.Event) error
}

// Dispatcher queues alert events for asynchronous delivery. Dispatch never
// blocks the caller; a full queue drops the event with a warning rather
// than delaying the verdict path.
type Dispatcher interface {
	Dispatch(evt *alert.Event)
	Shutdown()
}

type dispatcher struct {
	logger logrus.FieldLogger
	sinks  []Sink
	events chan *alert.Event
	wg     sync.WaitGroup

	// mu orders sends against close: Shutdown takes the write lock before
	// closing events, so no Dispatch can send on a closed channel.
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger logrus.FieldLogger, bufferSize, workers int, sinks ...Sink) Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if workers <= 0 {
		workers = 4
	}
	d := &dispatcher{
		logger: logger,
		sinks:  sinks,
		events: make(chan *alert.Event, bufferSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

func (d *dispatcher) Dispatch(evt *alert.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.WithField("alert_id", evt.ID).Warn("dispatcher is shut down, dropping alert")
		return
	}
	select {
	case d.events <- evt:
	default:
		prometheus.AlertQueueDropsTotal.Inc()
		d.logger.WithFields(logrus.Fields{
			"alert_id":   evt.ID,
			"chatbot_id": evt.ChatbotID,
		}).Warn("alert queue full, dropping alert")
	}
}

// Shutdown stops accepting events and drains the queue.
func (d *dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()
	d.wg.Wait()
	d.logger.Info("alert dispatcher stopped")
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	for evt := range d.events {
		d.deliver(evt)
	}
}

func (d *dispatcher) deliver(evt *alert.Event) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		err := sink.Deliver(ctx, evt)
		cancel()
		if err != nil {
			prometheus.AlertsDispatchedTotal.WithLabelValues(sink.Name(), "error").Inc()
			d.logger.WithFields(logrus.Fields{
				"alert_id":   evt.ID,
				"chatbot_id": evt.ChatbotID,
				"sink":       sink.Name(),
			}).WithError(err).Error("alert delivery failed")
			continue
		}
		prometheus.AlertsDispatchedTotal.WithLabelValues(sink.Name(), "ok").Inc()
	}
}
