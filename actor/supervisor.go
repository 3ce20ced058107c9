package actor

// Supervisor is a pure policy: given the error a cell's handler raised
// and the cell itself, decide what should happen to it. Kept as a
// single-method capability rather than a base class hierarchy.
type Supervisor interface {
	Decide(err error, cell *ActorCell, strategy SupervisionStrategy) Directive
}

// SupervisorFunc adapts a plain function to the Supervisor interface.
type SupervisorFunc func(err error, cell *ActorCell, strategy SupervisionStrategy) Directive

func (f SupervisorFunc) Decide(err error, cell *ActorCell, strategy SupervisionStrategy) Directive {
	return f(err, cell, strategy)
}

// DefaultSupervisor restarts for any error. This is the runtime's
// built-in default when a Definition names no SupervisorKey and the
// Stage has none registered under that key.
func DefaultSupervisor() Supervisor {
	return SupervisorFunc(func(error, *ActorCell, SupervisionStrategy) Directive {
		return Restart
	})
}

// StoppingSupervisor always stops the failed cell, never restarts it.
// Useful for actors whose state cannot meaningfully be reconstructed.
func StoppingSupervisor() Supervisor {
	return SupervisorFunc(func(error, *ActorCell, SupervisionStrategy) Directive {
		return Stop
	})
}

// ResumingSupervisor always resumes, leaving state intact. Useful for
// actors whose handlers are expected to raise recoverable, ignorable
// errors.
func ResumingSupervisor() Supervisor {
	return SupervisorFunc(func(error, *ActorCell, SupervisionStrategy) Directive {
		return Resume
	})
}
