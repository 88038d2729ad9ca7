// Package pool is a bounded pool of reusable resources, used for store
// connections. A resource is never handed to two callers at once.
package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/puddle/v2"
)

// ErrPoolExhausted is returned when a resource cannot be acquired: the pool
// is closed, the wait was cancelled or a new resource could not be built.
var ErrPoolExhausted = errors.New("connection pool exhausted")

type Constructor[T any] func(ctx context.Context) (T, error)
type Destructor[T any] func(T)

type Pool[T any] struct {
	p *puddle.Pool[T]
}

// Lease is one acquired resource. Exactly one of Release or Destroy must be
// called.
type Lease[T any] struct {
	res *puddle.Resource[T]
}

func (l *Lease[T]) Value() T { return l.res.Value() }

// Release returns the resource to the pool.
func (l *Lease[T]) Release() { l.res.Release() }

// Destroy closes the resource instead of returning it, for resources left in
// an unknown state.
func (l *Lease[T]) Destroy() { l.res.Destroy() }

func New[T any](size int, construct Constructor[T], destroy Destructor[T]) (*Pool[T], error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}
	p, err := puddle.NewPool(&puddle.Config[T]{
		Constructor: func(ctx context.Context) (T, error) { return construct(ctx) },
		Destructor: func(v T) {
			if destroy != nil {
				destroy(v)
			}
		},
		MaxSize: int32(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Pool[T]{p: p}, nil
}

// Acquire blocks until a resource is free or ctx is done.
func (p *Pool[T]) Acquire(ctx context.Context) (*Lease[T], error) {
	res, err := p.p.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolExhausted, err)
	}
	return &Lease[T]{res: res}, nil
}

// With runs fn with an acquired resource and always gives it back. A
// resource whose user panicked is destroyed rather than reused.
func (p *Pool[T]) With(ctx context.Context, fn func(T) error) error {
	lease, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	returned := false
	defer func() {
		if !returned {
			lease.Destroy()
		}
	}()

	err = fn(lease.Value())
	returned = true
	lease.Release()
	return err
}

type Stats struct {
	Acquired int32
	Idle     int32
	Total    int32
	Max      int32
}

func (p *Pool[T]) Stat() Stats {
	s := p.p.Stat()
	return Stats{
		Acquired: s.AcquiredResources(),
		Idle:     s.IdleResources(),
		Total:    s.TotalResources(),
		Max:      s.MaxResources(),
	}
}

// Close destroys every idle resource and waits for acquired ones to be
// returned and destroyed.
func (p *Pool[T]) Close() {
	p.p.Close()
}
