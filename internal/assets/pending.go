package assets

import (
	"context"
	"errors"
)

// ErrPending is returned by Result before the load has finished.
var ErrPending = errors.New("load still pending")

// Pending is the future of one model load. It resolves exactly once.
type Pending struct {
	Path string

	done  chan struct{}
	model *Model
	err   error
}

func newPending(path string) *Pending {
	return &Pending{Path: path, done: make(chan struct{})}
}

// Resolved returns an already completed future.
func Resolved(path string, m *Model, err error) *Pending {
	p := newPending(path)
	p.resolve(m, err)
	return p
}

func (p *Pending) resolve(m *Model, err error) {
	p.model, p.err = m, err
	close(p.done)
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Ready reports whether the load finished, successfully or not.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome without blocking. Before completion it
// returns ErrPending.
func (p *Pending) Result() (*Model, error) {
	if !p.Ready() {
		return nil, ErrPending
	}
	return p.model, p.err
}

// Wait blocks until the load finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (*Model, error) {
	select {
	case <-p.done:
		return p.model, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AllReady reports whether every future has resolved.
func AllReady(ps ...*Pending) bool {
	for _, p := range ps {
		if p != nil && !p.Ready() {
			return false
		}
	}
	return true
}
