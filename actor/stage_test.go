package actor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (h *hookRecorder) record(name string) {
	h.mu.Lock()
	h.calls = append(h.calls, name)
	h.mu.Unlock()
}

func (h *hookRecorder) snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	copy(out, h.calls)
	return out
}

// lifecycleActor implements every optional hook interface and records
// which ones ran, in order, onto a shared recorder.
type lifecycleActor struct {
	rec *hookRecorder
}

func (a *lifecycleActor) BeforeStart() error               { a.rec.record("before-start"); return nil }
func (a *lifecycleActor) BeforeStop() error                { a.rec.record("before-stop"); return nil }
func (a *lifecycleActor) AfterStop() error                 { a.rec.record("after-stop"); return nil }
func (a *lifecycleActor) BeforeRestart(cause error) error  { a.rec.record("before-restart"); return nil }
func (a *lifecycleActor) AfterRestart(cause error) error   { a.rec.record("after-restart"); return nil }
func (a *lifecycleActor) BeforeResume(cause error) error   { a.rec.record("before-resume"); return nil }

var errInduced = errors.New("induced")

func (a *lifecycleActor) Fail() (interface{}, error) { return nil, errInduced }

func newLifecycleStage(t *testing.T) (*Stage, *hookRecorder) {
	t.Helper()
	stage := NewStage()
	t.Cleanup(func() { stage.Close().Wait() })
	return stage, &hookRecorder{}
}

func TestLifecycleBeforeStartRunsFirst(t *testing.T) {
	stage, rec := newLifecycleStage(t)
	def := NewDefinition("lifecycle", func() Actor { return &lifecycleActor{rec: rec} })
	proxy := stage.ActorFor(def)

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"before-start"}, rec.snapshot())
	assert.False(t, proxy.IsStopped())
}

func TestLifecycleRestartRunsBeforeAndAfterHooks(t *testing.T) {
	stage, rec := newLifecycleStage(t)
	def := NewDefinition("lifecycle", func() Actor { return &lifecycleActor{rec: rec} })
	proxy := stage.ActorFor(def)

	f := proxy.Ask("Fail", func(a Actor) (interface{}, error) { return a.(*lifecycleActor).Fail() })
	_, err := f.Wait()
	assert.ErrorIs(t, err, errInduced)

	require.Eventually(t, func() bool {
		calls := rec.snapshot()
		return len(calls) >= 3 && calls[len(calls)-1] == "after-restart"
	}, time.Second, time.Millisecond)

	calls := rec.snapshot()
	assert.Contains(t, calls, "before-restart")
	assert.Contains(t, calls, "after-restart")
}

func TestLifecycleResumeRunsBeforeResumeHook(t *testing.T) {
	stage, rec := newLifecycleStage(t)
	stage.RegisterSupervisor("resuming", ResumingSupervisor())

	def := NewDefinition("lifecycle", func() Actor { return &lifecycleActor{rec: rec} })
	def.SupervisorKey = "resuming"
	proxy := stage.ActorFor(def)

	f := proxy.Ask("Fail", func(a Actor) (interface{}, error) { return a.(*lifecycleActor).Fail() })
	_, err := f.Wait()
	assert.ErrorIs(t, err, errInduced)

	require.Eventually(t, func() bool {
		return contains(rec.snapshot(), "before-resume")
	}, time.Second, time.Millisecond)
}

func TestLifecycleStopRunsBeforeAndAfterStopHooks(t *testing.T) {
	stage := NewStage()
	defer stage.Close().Wait()
	rec := &hookRecorder{}

	def := NewDefinition("lifecycle", func() Actor { return &lifecycleActor{rec: rec} })
	proxy := stage.ActorFor(def)

	proxy.Environment().Stop().Wait()

	calls := rec.snapshot()
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"before-start", "before-stop", "after-stop"}, calls)
}

func TestStopIsIdempotentAndReturnsSameFuture(t *testing.T) {
	stage := NewStage()
	defer stage.Close().Wait()

	def := NewDefinition("lifecycle", func() Actor { return &lifecycleActor{rec: &hookRecorder{}} })
	proxy := stage.ActorFor(def)

	f1 := proxy.Environment().Stop()
	f2 := proxy.Environment().Stop()
	assert.Same(t, f1, f2)

	f1.Wait()
	assert.True(t, proxy.IsStopped())
}

// TestHierarchicalStopOrderStopsChildrenBeforeParentFinishes asserts a
// parent's stop sequence waits for every child to finish stopping before
// its own after-stop hook and directory unregistration happen.
func TestHierarchicalStopOrderStopsChildrenBeforeParentFinishes(t *testing.T) {
	stage := NewStage()
	defer stage.Close().Wait()

	parentRec := &hookRecorder{}
	parentDef := NewDefinition("parent", func() Actor { return &lifecycleActor{rec: parentRec} })
	parentProxy := stage.ActorFor(parentDef)

	childRec := &hookRecorder{}
	childProxy := parentProxy.Environment().ChildActorFor(
		NewDefinition("child", func() Actor { return &lifecycleActor{rec: childRec} }),
	)

	parentProxy.Environment().Stop().Wait()

	assert.True(t, childProxy.IsStopped())
	assert.Contains(t, childRec.snapshot(), "after-stop")
	assert.Contains(t, parentRec.snapshot(), "after-stop")
}

func TestAskToStoppedActorRejectsAndPublishesDeadLetter(t *testing.T) {
	stage := NewStage()
	defer stage.Close().Wait()

	var mu sync.Mutex
	var recorded []DeadLetterRecord
	stage.DeadLetters().Subscribe(func(r DeadLetterRecord) {
		mu.Lock()
		recorded = append(recorded, r)
		mu.Unlock()
	})

	def := NewDefinition("lifecycle", func() Actor { return &lifecycleActor{rec: &hookRecorder{}} })
	proxy := stage.ActorFor(def)
	proxy.Environment().Stop().Wait()

	f := proxy.Ask("Fail", func(a Actor) (interface{}, error) { return a.(*lifecycleActor).Fail() })
	_, err := f.Wait()
	assert.ErrorIs(t, err, ErrStopped)

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, recorded)
}

// TestOneForAllAppliesDirectiveToSiblings asserts a OneForAll strategy
// restarts every sibling sharing the failing cell's parent, not just the
// cell that failed.
func TestOneForAllAppliesDirectiveToSiblings(t *testing.T) {
	stage := NewStage()
	defer stage.Close().Wait()

	strategy := SupervisionStrategy{MaxRestarts: Unlimited, Window: Unlimited, Scope: OneForAll}

	parentDef := NewDefinition("parent", func() Actor { return &lifecycleActor{rec: &hookRecorder{}} })
	parentProxy := stage.ActorFor(parentDef)

	siblingRec := &hookRecorder{}
	siblingDef := NewDefinition("sibling", func() Actor { return &lifecycleActor{rec: siblingRec} })
	siblingDef.Strategy = &strategy
	siblingProxy := parentProxy.Environment().ChildActorFor(siblingDef)

	failingDef := NewDefinition("failing", func() Actor { return &lifecycleActor{rec: &hookRecorder{}} })
	failingDef.Strategy = &strategy
	failingProxy := parentProxy.Environment().ChildActorFor(failingDef)

	f := failingProxy.Ask("Fail", func(a Actor) (interface{}, error) { return a.(*lifecycleActor).Fail() })
	_, _ = f.Wait()

	require.Eventually(t, func() bool {
		return contains(siblingRec.snapshot(), "before-restart")
	}, time.Second, time.Millisecond)

	_ = siblingProxy
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
