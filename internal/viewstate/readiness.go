package viewstate

import "sync"

// Readiness is a one-shot signal that a view has completed its first full
// state read. Consumers that derive side effects from default values (for
// example auto-selecting the first available chip) should wait for it so
// they never race the real URL state.
type Readiness struct {
	once sync.Once
	done chan struct{}
}

func newReadiness() *Readiness {
	return &Readiness{done: make(chan struct{})}
}

func (r *Readiness) resolve() {
	r.once.Do(func() { close(r.done) })
}

// Initialized reports whether the signal has resolved.
func (r *Readiness) Initialized() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed exactly once, on first resolution.
func (r *Readiness) Done() <-chan struct{} {
	return r.done
}
