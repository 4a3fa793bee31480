package usecase

import (
	"context"
	"sync"
)

// EntityLocker provides per-entity exclusivity around a recommendation run.
type EntityLocker interface {
	Acquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

// LocalLocker is an in-process EntityLocker. A held key is reported as not
// acquired rather than waited on.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]struct{}{}}
}

func (l *LocalLocker) Acquire(_ context.Context, key string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return func() {}, false, nil
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, true, nil
}
