package actor

// Actor is deliberately unconstrained: any concrete type is a valid
// actor instance. Behavior is invoked through closures a Proxy builds
// over the concrete type — explicit ask/tell methods rather than a
// single switch-on-message-type Receive method — so there is nothing to
// require here beyond "some value".
//
// Actors that want request-time context embed *Environment and get
// Address/Stage/Scheduler/Logger/DeadLetters/SelfAs/Parent/Stop for
// free; actors that want lifecycle notification implement one or more
// of the optional hook interfaces below, discovered by type assertion
// at the point each lifecycle event occurs (the same pattern as
// io.ReaderFrom / http.Flusher: optional capability, not required
// method).
type Actor interface{}

// Producer constructs a fresh Actor instance. It is called once at cell
// construction and again on every RESTART.
type Producer func() Actor

// BeforeStarter is invoked as the very first enqueued message a cell
// ever processes. An error or panic here is caught and logged; it does
// not prevent the cell from existing, and it is not passed to the cell's
// supervisor.
type BeforeStarter interface {
	BeforeStart() error
}

// BeforeStopper is invoked during the stop sequence before the mailbox
// is closed. A failure here does not leave the cell alive.
type BeforeStopper interface {
	BeforeStop() error
}

// AfterStopper is invoked during the stop sequence after the mailbox is
// closed, immediately before the cell unregisters from the Directory.
type AfterStopper interface {
	AfterStop() error
}

// BeforeRestarter is invoked once before a RESTART directive discards
// the actor's old state.
type BeforeRestarter interface {
	BeforeRestart(cause error) error
}

// AfterRestarter is invoked once on the freshly produced instance after
// a RESTART, before the mailbox resumes.
type AfterRestarter interface {
	AfterRestart(cause error) error
}

// BeforeResumer is invoked when a RESUME directive leaves actor state
// intact after a failure.
type BeforeResumer interface {
	BeforeResume(cause error) error
}

// StateSnapshotter lets an actor opt into snapshot/restore around a
// restart. StateSnapshot(nil) returns the current state; StateSnapshot(x)
// installs x as the current state and returns the previous value. The
// runtime never calls this automatically on RESTART: it is opt-in only,
// invoked explicitly from BeforeRestart/AfterRestart or from a
// Supervisor implementation that wants snapshot/restore semantics.
type StateSnapshotter interface {
	StateSnapshot(newState interface{}) (old interface{})
}

// runHook invokes an optional lifecycle hook if the actor implements it,
// catching both a returned error and a panic so a broken hook never
// takes down the cell or the dispatcher goroutine. Lifecycle errors are
// logged and swallowed, never propagated to the caller that triggered
// the lifecycle transition.
func runHook(logger Logger, addr Address, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("lifecycle hook panicked", "address", addr.String(), "hook", name, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		logger.Errorw("lifecycle hook failed", "address", addr.String(), "hook", name, "error", err)
	}
}
