package actor

import "sync"

// MailboxKind selects unbounded or bounded queuing.
type MailboxKind int

const (
	Unbounded MailboxKind = iota
	Bounded
)

// OverflowPolicy governs what happens when a Bounded mailbox is full at
// send time. It is meaningless for an Unbounded mailbox.
type OverflowPolicy int

const (
	// DropOldest discards the head of the queue to make room, routing it
	// to DeadLetters, and enqueues the new message.
	DropOldest OverflowPolicy = iota
	// DropNewest discards the incoming message to DeadLetters and leaves
	// the queue untouched.
	DropNewest
	// Reject refuses to enqueue, routes the new message to DeadLetters,
	// and rejects the caller's Future with ErrMailboxFull.
	Reject
)

// MailboxConfig configures one mailbox instance.
type MailboxConfig struct {
	Kind     MailboxKind
	Capacity int // only meaningful when Kind == Bounded
	Overflow OverflowPolicy
}

// DefaultMailboxConfig is an unbounded mailbox: the safe default for an
// actor whose callers haven't reasoned about backpressure yet.
func DefaultMailboxConfig() MailboxConfig {
	return MailboxConfig{Kind: Unbounded}
}

// Mailbox is the per-actor FIFO queue plus suspend/resume/close state and
// a self-draining dispatch algorithm.
//
// Exactly one goroutine at a time ever runs drain for a given Mailbox
// (enforced by the dispatching flag below), which is what gives an actor
// single-consumer, non-reentrant delivery without a dedicated goroutine
// per actor.
type Mailbox struct {
	mu          sync.Mutex
	cfg         MailboxConfig
	queue       []*Message
	suspended   bool
	closed      bool
	dispatching bool

	address     Address
	deadLetters *DeadLetters
	// deliver is supplied by the owning ActorCell; it runs one popped
	// Message against the live actor instance and settles its Future.
	deliver func(*Message)
}

// NewMailbox constructs a Mailbox bound to address, draining through
// deliver once it is set (set it before the first Send).
func NewMailbox(cfg MailboxConfig, address Address, deadLetters *DeadLetters) *Mailbox {
	return &Mailbox{cfg: cfg, address: address, deadLetters: deadLetters}
}

// bind attaches the delivery callback. Called once by ActorCell
// construction, before the mailbox is reachable from any Proxy.
func (m *Mailbox) bind(deliver func(*Message)) {
	m.deliver = deliver
}

// Send enqueues message and, unless the mailbox is suspended or already
// being drained by another goroutine, drains it inline.
func (m *Mailbox) Send(msg *Message) {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		m.rejectClosed(msg)
		return
	}

	if m.cfg.Kind == Bounded && len(m.queue) >= m.cfg.Capacity && m.cfg.Capacity > 0 {
		switch m.cfg.Overflow {
		case DropNewest:
			m.mu.Unlock()
			m.publishDeadLetter(msg, ErrDropped)
			msg.reject(ErrDropped)
			return
		case Reject:
			m.mu.Unlock()
			m.publishDeadLetter(msg, ErrMailboxFull)
			msg.reject(ErrMailboxFull)
			return
		default: // DropOldest
			head := m.queue[0]
			m.queue = append(m.queue[:0], m.queue[1:]...)
			m.queue = append(m.queue, msg)
			m.mu.Unlock()
			m.publishDeadLetter(head, ErrDropped)
			head.reject(ErrDropped)
			m.tryTakeDispatcher()
			return
		}
	}

	m.queue = append(m.queue, msg)
	m.mu.Unlock()
	m.tryTakeDispatcher()
}

// tryTakeDispatcher attempts to become the drain loop for this mailbox;
// if it can't (suspended, already dispatching, closed, empty) it returns
// immediately, trusting whichever goroutine already holds the slot (or a
// future Resume) to deliver the backlog.
func (m *Mailbox) tryTakeDispatcher() {
	m.mu.Lock()
	if m.suspended || m.closed || m.dispatching || len(m.queue) == 0 {
		m.mu.Unlock()
		return
	}
	m.dispatching = true
	m.mu.Unlock()
	m.drain()
}

// drain pops and delivers messages until the queue empties or the
// mailbox is suspended/closed, then releases the dispatcher slot.
func (m *Mailbox) drain() {
	for {
		m.mu.Lock()
		if m.suspended || m.closed || len(m.queue) == 0 {
			m.dispatching = false
			m.mu.Unlock()
			return
		}
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		m.deliver(msg)
	}
}

// Suspend pauses dispatch at the next message boundary. Idempotent.
func (m *Mailbox) Suspend() {
	m.mu.Lock()
	m.suspended = true
	m.mu.Unlock()
}

// Resume un-pauses dispatch and, if there is a backlog and no dispatcher
// currently holds the slot, drains it. Idempotent: two Suspend calls
// followed by one Resume leave the mailbox unsuspended (suspension is
// boolean, never reference-counted).
func (m *Mailbox) Resume() {
	m.mu.Lock()
	if !m.suspended {
		m.mu.Unlock()
		return
	}
	m.suspended = false
	shouldDrain := !m.dispatching && !m.closed && len(m.queue) > 0
	if shouldDrain {
		m.dispatching = true
	}
	m.mu.Unlock()
	if shouldDrain {
		m.drain()
	}
}

// Close is idempotent; after Close no further deliveries occur and every
// message still queued is rejected "stopped" and routed to DeadLetters.
func (m *Mailbox) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	pending := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, msg := range pending {
		m.publishDeadLetter(msg, ErrStopped)
		msg.reject(ErrStopped)
	}
}

func (m *Mailbox) rejectClosed(msg *Message) {
	m.publishDeadLetter(msg, ErrStopped)
	msg.reject(ErrStopped)
}

func (m *Mailbox) publishDeadLetter(msg *Message, reason error) {
	if m.deadLetters == nil {
		return
	}
	m.deadLetters.Publish(DeadLetterRecord{
		Address:  m.address,
		TypeHint: msg.descriptor,
		Reason:   reason,
	})
}

// Size reports the number of messages currently queued.
func (m *Mailbox) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// IsEmpty reports whether the queue is currently empty.
func (m *Mailbox) IsEmpty() bool {
	return m.Size() == 0
}

// IsSuspended reports the current suspension state.
func (m *Mailbox) IsSuspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suspended
}

// IsClosed reports the current closed state.
func (m *Mailbox) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
