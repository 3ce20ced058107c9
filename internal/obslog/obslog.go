// Package obslog wires go.uber.org/zap behind the actor.Logger
// collaborator interface. It is the runtime's bundled, swappable
// default — nothing in package actor imports zap directly; the core
// only ever depends on the small Logger interface.
package obslog

import (
	"go.uber.org/zap"

	"github.com/d-led/domoactors/actor"
)

// New builds a development-friendly *zap.SugaredLogger and returns it as
// an actor.Logger. Callers that need production JSON output should build
// their own *zap.Logger and call Wrap instead.
func New() (actor.Logger, func(), error) {
	base, err := zap.NewDevelopment()
	if err != nil {
		return nil, func() {}, err
	}
	return Wrap(base), func() { _ = base.Sync() }, nil
}

// Wrap adapts an existing *zap.Logger. Useful when the host application
// already owns zap configuration (sampling, output paths, initial
// fields) and just wants the Stage to log through it.
func Wrap(z *zap.Logger) actor.Logger {
	return sugared{z.Sugar()}
}

type sugared struct {
	*zap.SugaredLogger
}

func (s sugared) Debugw(msg string, kv ...interface{}) { s.SugaredLogger.Debugw(msg, kv...) }
func (s sugared) Infow(msg string, kv ...interface{})  { s.SugaredLogger.Infow(msg, kv...) }
func (s sugared) Warnw(msg string, kv ...interface{})  { s.SugaredLogger.Warnw(msg, kv...) }
func (s sugared) Errorw(msg string, kv ...interface{}) { s.SugaredLogger.Errorw(msg, kv...) }
