package actor

import (
	"sync"

	"github.com/d-led/domoactors/config"
)

// guardianActor is the trivial actor instance both root guardians use.
// It has no behavior of its own: its only role is to exist as a parent
// address, with an unlimited restart strategy of its own, so that an
// ESCALATE reaching it is treated as RESTART with unlimited intensity
// on the escalating child rather than propagating further.
type guardianActor struct{}

// Stage is the runtime's root object: it owns the Directory, Scheduler,
// DeadLetters sink, and the two root guardians (public, for user
// actors; private, for system services), and is the sole entry point
// for spawning top-level actors and shutting the whole tree down.
type Stage struct {
	directory   *Directory
	scheduler   *Scheduler
	deadLetters *DeadLetters
	logger      Logger
	cfg         config.Config

	defaultStrategy      SupervisionStrategy
	strategyOverride     *SupervisionStrategy
	defaultSupervisor    Supervisor

	mu          sync.RWMutex
	supervisors map[string]Supervisor

	seq *addressSequence

	publicRoot  *ActorCell
	privateRoot *ActorCell

	closeOnce   sync.Once
	closeFuture *Future
}

// StageOption configures a Stage at construction time.
type StageOption func(*Stage)

// WithLogger overrides the NopLogger default.
func WithLogger(logger Logger) StageOption {
	return func(s *Stage) { s.logger = logger }
}

// WithConfig overrides config.Default().
func WithConfig(cfg config.Config) StageOption {
	return func(s *Stage) { s.cfg = cfg }
}

// WithDefaultStrategy overrides the strategy cells use when their
// Definition names none.
func WithDefaultStrategy(strategy SupervisionStrategy) StageOption {
	return func(s *Stage) { s.strategyOverride = &strategy }
}

// WithDefaultSupervisor overrides DefaultSupervisor() as the fallback
// used when a Definition names no SupervisorKey.
func WithDefaultSupervisor(sup Supervisor) StageOption {
	return func(s *Stage) { s.defaultSupervisor = sup }
}

// NewStage builds a Stage, its Directory, Scheduler, DeadLetters sink,
// and its two root guardians, ready to spawn actors.
func NewStage(opts ...StageOption) *Stage {
	s := &Stage{
		cfg:               config.Default(),
		logger:            NopLogger{},
		defaultSupervisor: DefaultSupervisor(),
		supervisors:       make(map[string]Supervisor),
		seq:               newAddressSequence(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.strategyOverride != nil {
		s.defaultStrategy = *s.strategyOverride
	} else {
		s.defaultStrategy = SupervisionStrategy{
			MaxRestarts: s.cfg.DefaultMaxRestarts,
			Window:      s.cfg.DefaultRestartWindow,
			Scope:       SupervisionScope(s.cfg.DefaultRestartScope),
		}
	}

	s.directory = NewDirectory(s.cfg.ShardCount)
	s.scheduler = NewScheduler(s.logger)
	s.deadLetters = NewDeadLetters(s.logger)

	s.publicRoot = s.spawnGuardian("public-root")
	s.privateRoot = s.spawnGuardian("private-root")

	return s
}

func (s *Stage) spawnGuardian(name string) *ActorCell {
	def := Definition{
		TypeName: name,
		Address:  Address{canonical: name},
		Produce:  func() Actor { return &guardianActor{} },
		Mailbox:  DefaultMailboxConfig(),
		Strategy: unlimitedStrategyPtr(),
	}
	cell := newActorCell(s, def, nil, true)
	if err := s.directory.Register(cell); err != nil {
		panic(err) // guardians are created exactly once per Stage; a collision is a bug.
	}
	cell.start()
	return cell
}

func unlimitedStrategyPtr() *SupervisionStrategy {
	strategy := UnlimitedStrategy()
	return &strategy
}

// RegisterSupervisor names sup so Definitions can opt into it by
// SupervisorKey.
func (s *Stage) RegisterSupervisor(key string, sup Supervisor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supervisors[key] = sup
}

func (s *Stage) supervisorFor(key string) Supervisor {
	if key == "" {
		return s.defaultSupervisor
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sup, ok := s.supervisors[key]; ok {
		return sup
	}
	return s.defaultSupervisor
}

// ActorFor creates def as a child of the public root guardian and
// returns its Proxy immediately; the actor may not have started yet —
// sent messages simply queue.
func (s *Stage) ActorFor(def Definition) *Proxy {
	return s.spawnUnder(&s.publicRoot.address, def)
}

// ActorOf returns the interned Proxy for an already-live address.
func (s *Stage) ActorOf(addr Address) (*Proxy, bool) {
	return s.directory.ProxyFor(addr)
}

// spawnUnder is shared by ActorFor and Environment.ChildActorFor (the two
// guardians are spawned by spawnGuardian instead): it assigns an address
// if the Definition left one unset, registers the cell, wires
// parent/child bookkeeping, and kicks off BeforeStart.
func (s *Stage) spawnUnder(parent *Address, def Definition) *Proxy {
	if def.Address.IsZero() {
		def.Address = NewTimeSortableAddress()
	}
	if def.Mailbox == (MailboxConfig{}) {
		def.Mailbox = DefaultMailboxConfig()
	}
	if def.Mailbox.Kind == Bounded && def.Mailbox.Capacity == 0 {
		def.Mailbox.Capacity = s.cfg.DefaultMailboxCapacity
		def.Mailbox.Overflow = OverflowPolicy(s.cfg.DefaultOverflowPolicy)
	}

	cell := newActorCell(s, def, parent, false)
	if err := s.directory.Register(cell); err != nil {
		// Caller supplied a colliding address; surface it as an
		// already-stopped proxy rather than panicking the spawning actor.
		cell.stopped.Store(true)
		s.deadLetters.Publish(DeadLetterRecord{Address: def.Address, TypeHint: def.TypeName, Reason: err})
		return cell.selfProxy
	}

	if parent != nil {
		if parentCell, ok := s.directory.Get(*parent); ok {
			parentCell.addChild(def.Address)
		}
	}

	cell.start()
	return cell.selfProxy
}

// Logger returns the Stage's Logger.
func (s *Stage) Logger() Logger { return s.logger }

// Scheduler returns the Stage's Scheduler.
func (s *Stage) Scheduler() *Scheduler { return s.scheduler }

// DeadLetters returns the Stage's dead-letter sink.
func (s *Stage) DeadLetters() *DeadLetters { return s.deadLetters }

// DirectoryStats returns the live-cell count per Directory shard.
func (s *Stage) DirectoryStats() []int { return s.directory.Stats() }

// NewSequentialAddress mints the monotonically increasing integer
// Address variant, scoped to this Stage.
func (s *Stage) NewSequentialAddress(prefix string) Address {
	return s.seq.next(prefix)
}

// Close is idempotent: it stops the public root first (which
// transitively stops every user actor), then the private root, then the
// scheduler, then clears the directory. Errors encountered along the
// way are logged, never rethrown.
func (s *Stage) Close() *Future {
	s.closeOnce.Do(func() {
		s.closeFuture = NewFuture()
		go s.runClose()
	})
	return s.closeFuture
}

func (s *Stage) runClose() {
	defer s.closeFuture.Resolve(nil)

	if f := s.publicRoot.Stop(); f != nil {
		f.Wait()
	}
	if f := s.privateRoot.Stop(); f != nil {
		f.Wait()
	}
	s.scheduler.Close()
	for _, shard := range s.directory.shards {
		shard.mu.Lock()
		shard.cells = make(map[string]*ActorCell)
		shard.proxies = make(map[string]*Proxy)
		shard.mu.Unlock()
	}
}
