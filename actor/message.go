package actor

// Message binds a closure over the target actor instance to an optional
// Future resolver. It is created by a Proxy call, owned by a Mailbox
// until delivered, and consumed exactly once — by Dispatch (delivered)
// or by DeadLetters (rejected).
type Message struct {
	// invoke is "actor -> actor.<name>(args...)" captured at the call
	// site. It may itself return a *Future (e.g. for handlers that
	// delegate to async work); Dispatch awaits that inner Future
	// cooperatively before resolving the outer one.
	invoke func(Actor) (interface{}, error)

	// future is nil for a Tell (fire-and-forget); Ask always supplies one.
	future *Future

	// sender is the optional hint recorded at send time. It is not
	// passed to invoke.
	sender *Address

	// descriptor is a short, human-readable tag used only for
	// diagnostics and DeadLetters records (e.g. a method name).
	descriptor string
}

// NewMessage builds a Message. future may be nil for fire-and-forget
// sends.
func NewMessage(descriptor string, invoke func(Actor) (interface{}, error), future *Future, sender *Address) *Message {
	return &Message{invoke: invoke, future: future, sender: sender, descriptor: descriptor}
}

func (m *Message) reject(err error) {
	if m.future != nil {
		m.future.Reject(err)
	}
}

func (m *Message) resolve(value interface{}) {
	if m.future != nil {
		m.future.Resolve(value)
	}
}
