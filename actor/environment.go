package actor

// Environment is the per-actor context object: address, a handle back to
// the owning cell (for self/parent/child/stop operations), the Stage's
// shared Logger/Scheduler/DeadLetters, and a private ExecutionContext
// scratch pad. Actors that want request-time context typically embed
// *Environment.
//
// Every field here is set once at cell construction and never mutated
// afterwards (a restart swaps the actor instance, not its Environment),
// which is what lets Proxy's synchronous passthroughs read it without
// taking the cell's lock.
type Environment struct {
	address     Address
	stage       *Stage
	parent      *Address
	logger      Logger
	scheduler   *Scheduler
	deadLetters *DeadLetters
	execCtx     *ExecutionContext
	cell        *ActorCell
}

// Address returns the address of the actor this Environment belongs to.
func (e *Environment) Address() Address { return e.address }

// Stage returns the owning Stage.
func (e *Environment) Stage() *Stage { return e.stage }

// Scheduler returns the Stage's scheduler.
func (e *Environment) Scheduler() *Scheduler { return e.scheduler }

// Logger returns the logger this actor logs through.
func (e *Environment) Logger() Logger { return e.logger }

// DeadLetters returns the Stage's dead-letter sink.
func (e *Environment) DeadLetters() *DeadLetters { return e.deadLetters }

// ExecutionContext returns this actor's private scratch pad.
func (e *Environment) ExecutionContext() *ExecutionContext { return e.execCtx }

// SelfAs returns this actor's own interned Proxy.
func (e *Environment) SelfAs() *Proxy { return e.cell.selfProxy }

// Parent returns a Proxy to the parent actor, or nil if this actor has
// no parent (the two root guardians) or the parent has already stopped.
func (e *Environment) Parent() *Proxy {
	if e.parent == nil {
		return nil
	}
	p, ok := e.stage.directory.ProxyFor(*e.parent)
	if !ok {
		return nil
	}
	return p
}

// ChildActorFor spawns def as a child of this actor and returns its
// Proxy immediately; the child may not have started yet, but sends
// simply queue.
func (e *Environment) ChildActorFor(def Definition) *Proxy {
	return e.stage.spawnUnder(&e.address, def)
}

// Stop begins this actor's stop sequence and returns a Future resolved
// once it completes. Idempotent: a second call returns the same Future.
func (e *Environment) Stop() *Future {
	return e.cell.Stop()
}

// IsStopped reports whether this actor has stopped accepting new work.
func (e *Environment) IsStopped() bool {
	return e.cell.IsStopped()
}
