package actor

// Proxy is a typed handle that looks like the actor's interface but
// whose calls produce Messages rather than executing inline. A small,
// closed set of passthroughs resolve locally on the cell (no enqueue);
// everything else goes through Ask/Tell, which wrap a closure over the
// concrete actor type, enqueue it, and — for Ask — return a pending
// Future.
//
// Proxies are interned per-address by the Directory, so two lookups for
// the same address yield the same *Proxy (and therefore compare equal
// with ==).
type Proxy struct {
	address Address
	stage   *Stage
	cell    *ActorCell
}

// Address is a synchronous passthrough: the address this proxy targets.
func (p *Proxy) Address() Address { return p.address }

// Stage is a synchronous passthrough: the Stage that owns the target.
func (p *Proxy) Stage() *Stage { return p.stage }

// IsStopped is a synchronous passthrough: whether the target has stopped
// accepting new work.
func (p *Proxy) IsStopped() bool { return p.cell.IsStopped() }

// Logger is a synchronous passthrough to the target's logger.
func (p *Proxy) Logger() Logger { return p.cell.env.logger }

// Scheduler is a synchronous passthrough to the Stage's scheduler.
func (p *Proxy) Scheduler() *Scheduler { return p.stage.scheduler }

// DeadLetters is a synchronous passthrough to the Stage's sink.
func (p *Proxy) DeadLetters() *DeadLetters { return p.stage.deadLetters }

// Environment is a synchronous passthrough to the target's Environment.
// Safe to read from any goroutine: every field on Environment is set
// once at construction and never mutated.
func (p *Proxy) Environment() *Environment { return p.cell.env }

// String is the canonical string form, used for logs and diagnostics.
func (p *Proxy) String() string { return p.address.String() }

// Equal reports whether two proxies target the same address.
func (p *Proxy) Equal(other *Proxy) bool {
	if other == nil {
		return false
	}
	return p.address.Equal(other.address)
}

// Ask enqueues invoke as a message and returns a Future resolved once
// Dispatch runs it (or rejected immediately if the target has already
// stopped). descriptor is a short, human-readable tag used only for
// DeadLetters diagnostics.
func (p *Proxy) Ask(descriptor string, invoke func(Actor) (interface{}, error)) *Future {
	future := NewFuture()
	if p.cell.IsStopped() {
		p.stage.deadLetters.Publish(DeadLetterRecord{Address: p.address, TypeHint: descriptor, Reason: ErrStopped})
		future.Reject(ErrStopped)
		return future
	}
	msg := NewMessage(descriptor, invoke, future, nil)
	p.cell.mailbox.Send(msg)
	return future
}

// AskFrom is Ask with an explicit sender hint, recorded on the Message.
// The hint is not passed to invoke.
func (p *Proxy) AskFrom(sender Address, descriptor string, invoke func(Actor) (interface{}, error)) *Future {
	future := NewFuture()
	if p.cell.IsStopped() {
		p.stage.deadLetters.Publish(DeadLetterRecord{Address: p.address, TypeHint: descriptor, Reason: ErrStopped})
		future.Reject(ErrStopped)
		return future
	}
	msg := NewMessage(descriptor, invoke, future, &sender)
	p.cell.mailbox.Send(msg)
	return future
}

// Tell enqueues invoke fire-and-forget: no Future is allocated. A panic
// inside invoke is still routed to the cell's supervisor, but no Future
// records it and it is not published to DeadLetters.
func (p *Proxy) Tell(descriptor string, invoke func(Actor)) {
	if p.cell.IsStopped() {
		p.stage.deadLetters.Publish(DeadLetterRecord{Address: p.address, TypeHint: descriptor, Reason: ErrStopped})
		return
	}
	msg := NewMessage(descriptor, func(a Actor) (interface{}, error) { invoke(a); return nil, nil }, nil, nil)
	p.cell.mailbox.Send(msg)
}
