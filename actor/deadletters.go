package actor

import "sync"

// DeadLetterRecord describes one undeliverable message: the address it
// was aimed at, a short type hint for diagnostics, and the reason it
// could not be delivered.
type DeadLetterRecord struct {
	Address  Address
	TypeHint string
	Reason   error
}

// DeadLetterListener receives every record published to a DeadLetters
// sink. Subscription is synchronous: a slow listener delays the
// producer, by design, so callers that need fan-out-without-backpressure
// should hand records off to their own queue inside the listener.
type DeadLetterListener func(DeadLetterRecord)

// DeadLetters is the fan-out sink for messages that could not be
// delivered: sends to stopped actors, sends rejected by a full bounded
// mailbox under Reject, messages discarded under DropOldest/DropNewest,
// and messages still queued when a mailbox closes.
type DeadLetters struct {
	mu        sync.Mutex
	listeners map[int]DeadLetterListener
	nextID    int
	logger    Logger
}

// NewDeadLetters constructs an empty sink. logger may be nil (NopLogger
// is used in that case).
func NewDeadLetters(logger Logger) *DeadLetters {
	if logger == nil {
		logger = NopLogger{}
	}
	return &DeadLetters{listeners: make(map[int]DeadLetterListener), logger: logger}
}

// Subscribe registers listener and returns a token usable with
// Unsubscribe.
func (d *DeadLetters) Subscribe(listener DeadLetterListener) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners[id] = listener
	return id
}

// Unsubscribe removes a previously registered listener. Unknown tokens
// are ignored.
func (d *DeadLetters) Unsubscribe(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, id)
}

// Publish fans a record out to every current subscriber, synchronously,
// in registration order is not guaranteed (map iteration), and always
// logs at Warn level so a dead-letter never passes unnoticed even with
// zero subscribers.
func (d *DeadLetters) Publish(rec DeadLetterRecord) {
	d.mu.Lock()
	listeners := make([]DeadLetterListener, 0, len(d.listeners))
	for _, l := range d.listeners {
		listeners = append(listeners, l)
	}
	d.mu.Unlock()

	d.logger.Warnw("dead letter",
		"address", rec.Address.String(),
		"type", rec.TypeHint,
		"reason", rec.Reason,
	)
	for _, l := range listeners {
		l(rec)
	}
}
