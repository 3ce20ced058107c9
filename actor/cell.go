package actor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ActorCell is the internal per-actor record: environment, live actor
// instance, mailbox, restart bookkeeping, and the parent/children
// relationship used for hierarchical stop and supervision. It is created
// on registration and removed from the Directory on terminal stop.
//
// Owner: Directory. Borrowed by Dispatch (via Mailbox.deliver) and by
// supervision (escalate/restart) when a sibling or parent needs to
// inspect another cell.
type ActorCell struct {
	stage      *Stage
	address    Address
	definition Definition
	mailbox    *Mailbox
	selfProxy  *Proxy
	env        *Environment
	isGuardian bool

	mu       sync.Mutex
	instance Actor
	parent   *Address
	children map[Address]struct{}

	stopped     atomic.Bool // no longer accepts new user work
	stopFuture  *Future
	restartMu   sync.Mutex
	restartCnt  int
	windowStart time.Time
}

func newActorCell(stage *Stage, def Definition, parent *Address, isGuardian bool) *ActorCell {
	c := &ActorCell{
		stage:      stage,
		address:    def.Address,
		definition: def,
		parent:     parent,
		children:   make(map[Address]struct{}),
		isGuardian: isGuardian,
	}
	c.mailbox = NewMailbox(def.Mailbox, def.Address, stage.deadLetters)
	c.mailbox.bind(c.deliver)
	c.env = &Environment{
		address:     def.Address,
		stage:       stage,
		parent:      parent,
		logger:      stage.logger,
		scheduler:   stage.scheduler,
		deadLetters: stage.deadLetters,
		execCtx:     NewExecutionContext(),
		cell:        c,
	}
	c.selfProxy = &Proxy{address: def.Address, stage: stage, cell: c}
	return c
}

// start produces the actor instance and enqueues the BeforeStart hook as
// the cell's first message.
func (c *ActorCell) start() {
	instance := c.definition.Produce()
	c.mu.Lock()
	c.instance = instance
	c.mu.Unlock()

	c.mailbox.Send(NewMessage("before-start", func(a Actor) (interface{}, error) {
		if starter, ok := a.(BeforeStarter); ok {
			runHook(c.env.logger, c.address, "BeforeStart", starter.BeforeStart)
		}
		return nil, nil
	}, nil, nil))
}

// IsStopped reports whether the cell no longer accepts new user work.
func (c *ActorCell) IsStopped() bool { return c.stopped.Load() }

func (c *ActorCell) currentInstance() Actor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instance
}

func (c *ActorCell) addChild(addr Address) {
	c.mu.Lock()
	c.children[addr] = struct{}{}
	c.mu.Unlock()
}

func (c *ActorCell) removeChild(addr Address) {
	c.mu.Lock()
	delete(c.children, addr)
	c.mu.Unlock()
}

func (c *ActorCell) childAddresses() []Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Address, 0, len(c.children))
	for a := range c.children {
		out = append(out, a)
	}
	return out
}

// deliver runs one popped Message against the live instance and settles
// its Future; it is the callback the Mailbox drain loop invokes.
func (c *ActorCell) deliver(msg *Message) {
	if c.IsStopped() {
		msg.reject(ErrStopped)
		c.stage.deadLetters.Publish(DeadLetterRecord{Address: c.address, TypeHint: msg.descriptor, Reason: ErrStopped})
		return
	}

	value, err := c.invokeSafely(msg)
	if err != nil {
		msg.reject(err)
		c.mailbox.Suspend()
		c.handleFailure(err)
		return
	}
	msg.resolve(value)
}

// invokeSafely runs msg.invoke on the current instance, converting a
// panic into an error and cooperatively awaiting an inner Future the
// handler may have returned, all while still holding the dispatcher
// slot — never spawning a goroutine per message.
func (c *ActorCell) invokeSafely(msg *Message) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actor panic: %v", r)
		}
	}()

	instance := c.currentInstance()
	value, err = msg.invoke(instance)
	if err != nil {
		return nil, err
	}
	if inner, ok := value.(*Future); ok {
		return inner.Wait()
	}
	return value, nil
}

// handleFailure records the failure against the restart-intensity
// window, asks the governing Supervisor for a Directive, upgrades to
// Escalate if intensity is exceeded, and applies the result.
func (c *ActorCell) handleFailure(err error) {
	strategy := c.effectiveStrategy()
	supervisor := c.stage.supervisorFor(c.definition.SupervisorKey)

	directive := supervisor.Decide(err, c, strategy)
	if c.accountFailure(strategy) {
		directive = Escalate
	}

	c.env.logger.Warnw("actor failure", "address", c.address.String(), "error", err, "directive", directive.String())

	if strategy.Scope == OneForAll && c.parent != nil {
		if parentCell, ok := c.stage.directory.Get(*c.parent); ok {
			for _, sibling := range parentCell.childAddresses() {
				if sibling.Equal(c.address) {
					continue
				}
				if siblingCell, ok := c.stage.directory.Get(sibling); ok {
					siblingCell.applyDirective(directive, err)
				}
			}
		}
	}

	c.applyDirective(directive, err)
}

// accountFailure counts a failure against the cell's restart window and
// reports whether restart intensity has been exceeded. The window is
// fixed, not sliding: it opens at a failure, and the first failure that
// arrives more than Window after that opening starts a new window with
// the count back at one. Only a {restart-count, restart-window-start}
// pair is kept, no per-failure timestamps, so failures on either side of
// a window boundary are never counted together even when they lie
// within Window of each other.
func (c *ActorCell) accountFailure(strategy SupervisionStrategy) (exceeded bool) {
	c.restartMu.Lock()
	defer c.restartMu.Unlock()

	now := time.Now()
	if strategy.Window != Unlimited {
		if c.windowStart.IsZero() || now.Sub(c.windowStart) > strategy.Window {
			c.restartCnt = 0
			c.windowStart = now
		}
	} else if c.windowStart.IsZero() {
		c.windowStart = now
	}
	c.restartCnt++

	if strategy.MaxRestarts == Unlimited {
		return false
	}
	return c.restartCnt > strategy.MaxRestarts
}

func (c *ActorCell) effectiveStrategy() SupervisionStrategy {
	if c.definition.Strategy != nil {
		return *c.definition.Strategy
	}
	return c.stage.defaultStrategy
}

// applyDirective carries out the chosen Directive for this cell.
func (c *ActorCell) applyDirective(directive Directive, cause error) {
	switch directive {
	case Resume:
		if resumer, ok := c.currentInstance().(BeforeResumer); ok {
			runHook(c.env.logger, c.address, "BeforeResume", func() error { return resumer.BeforeResume(cause) })
		}
		c.mailbox.Resume()
	case Restart:
		c.restart(cause)
	case Stop:
		c.Stop()
	case Escalate:
		c.escalate(cause)
	}
}

// restart stops children, discards state, re-instantiates, and resumes.
func (c *ActorCell) restart(cause error) {
	if instance, ok := c.currentInstance().(BeforeRestarter); ok {
		runHook(c.env.logger, c.address, "BeforeRestart", func() error { return instance.BeforeRestart(cause) })
	}

	var wg sync.WaitGroup
	for _, addr := range c.childAddresses() {
		if childCell, ok := c.stage.directory.Get(addr); ok {
			wg.Add(1)
			f := childCell.Stop()
			go func() { defer wg.Done(); f.Wait() }()
		}
	}
	wg.Wait()

	fresh := c.definition.Produce()
	c.mu.Lock()
	c.instance = fresh
	c.mu.Unlock()

	if restarter, ok := fresh.(AfterRestarter); ok {
		runHook(c.env.logger, c.address, "AfterRestart", func() error { return restarter.AfterRestart(cause) })
	}
	c.mailbox.Resume()
}

// escalate forwards err to the parent cell's supervisor, which decides
// the Directive applied to THIS cell. A root guardian has no supervisor
// of its own to consult, so an escalation that reaches one is handled
// per the runtime's stated rule for guardians: RESTART with unlimited
// intensity. The escalating cell discards its state and re-instantiates
// rather than stopping; the guardian itself stays alive and unaffected.
func (c *ActorCell) escalate(err error) {
	if c.parent == nil {
		c.restart(err)
		return
	}
	parentCell, ok := c.stage.directory.Get(*c.parent)
	if !ok {
		c.env.logger.Warnw("escalation target vanished", "address", c.address.String(), "parent", c.parent.String(), "error", ErrUnknownActor)
		c.restart(err)
		return
	}
	if parentCell.isGuardian {
		c.restart(err)
		return
	}

	parentSupervisor := c.stage.supervisorFor(parentCell.definition.SupervisorKey)
	parentStrategy := parentCell.effectiveStrategy()
	directive := parentSupervisor.Decide(err, c, parentStrategy)
	if directive == Escalate {
		parentCell.escalate(err)
		return
	}
	c.applyDirective(directive, err)
}

// Stop begins the stop sequence and returns a Future resolved once it
// completes. Idempotent: a second call returns the Future from the
// first.
func (c *ActorCell) Stop() *Future {
	c.mu.Lock()
	if c.stopFuture != nil {
		f := c.stopFuture
		c.mu.Unlock()
		return f
	}
	f := NewFuture()
	c.stopFuture = f
	c.mu.Unlock()

	go c.runStopSequence(f)
	return f
}

func (c *ActorCell) runStopSequence(f *Future) {
	defer func() {
		if r := recover(); r != nil {
			c.env.logger.Errorw("stop sequence panicked", "address", c.address.String(), "panic", r)
		}
		f.Resolve(nil)
	}()

	// (a) stop accepting new user work.
	c.stopped.Store(true)

	// (b) stop children first, waiting for each to finish.
	var wg sync.WaitGroup
	for _, addr := range c.childAddresses() {
		if childCell, ok := c.stage.directory.Get(addr); ok {
			wg.Add(1)
			cf := childCell.Stop()
			go func() { defer wg.Done(); cf.Wait() }()
		}
	}
	wg.Wait()

	// (c) before_stop hook.
	if stopper, ok := c.currentInstance().(BeforeStopper); ok {
		runHook(c.env.logger, c.address, "BeforeStop", stopper.BeforeStop)
	}

	// (d) close the mailbox: queued messages -> dead letters, futures rejected.
	c.mailbox.Close()

	// (e) after_stop hook.
	if stopper, ok := c.currentInstance().(AfterStopper); ok {
		runHook(c.env.logger, c.address, "AfterStop", stopper.AfterStop)
	}

	// (f) unregister from Directory and from the parent's child set.
	c.stage.directory.Unregister(c.address)
	if c.parent != nil {
		if parentCell, ok := c.stage.directory.Get(*c.parent); ok {
			parentCell.removeChild(c.address)
		}
	}
}
