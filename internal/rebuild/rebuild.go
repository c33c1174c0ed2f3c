// Package rebuild coalesces change notifications into at most one rebuild per
// tick and publishes finished results atomically.
package rebuild

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/logger"
)

// Dirty is a flag that can be marked from any goroutine and taken once.
type Dirty struct {
	set atomic.Bool
}

// Mark requests a rebuild.
func (d *Dirty) Mark() {
	d.set.Store(true)
}

// Take clears the flag and reports whether it was set.
func (d *Dirty) Take() bool {
	return d.set.Swap(false)
}

// Pending reports whether a rebuild is requested without clearing it.
func (d *Dirty) Pending() bool {
	return d.set.Load()
}

// Publisher holds the latest published value. Readers always see a complete value.
type Publisher[T any] struct {
	current atomic.Pointer[T]
}

// Publish replaces the current value.
func (p *Publisher[T]) Publish(v *T) {
	p.current.Store(v)
}

// Current returns the latest value, or nil before the first Publish.
func (p *Publisher[T]) Current() *T {
	return p.current.Load()
}

// Loop runs Build when Dirty is set and publishes the result. A failed build
// keeps the previous value published.
type Loop[T any] struct {
	Dirty     *Dirty
	Build     func() (*T, error)
	Publisher *Publisher[T]
	// OnPublish is called after a successful build, if set.
	OnPublish func(*T)

	builds atomic.Int64
	log    *zap.Logger
}

// NewLoop creates a loop with its own flag and publisher.
func NewLoop[T any](build func() (*T, error)) *Loop[T] {
	return &Loop[T]{
		Dirty:     &Dirty{},
		Build:     build,
		Publisher: &Publisher[T]{},
		log:       logger.Named("rebuild"),
	}
}

// Tick rebuilds once if the flag is set. It reports whether a build ran.
func (l *Loop[T]) Tick() bool {
	if !l.Dirty.Take() {
		return false
	}
	l.builds.Add(1)
	start := time.Now()
	v, err := l.Build()
	if err != nil {
		l.logger().Error("rebuild failed, keeping previous result", zap.Error(err))
		return true
	}
	l.Publisher.Publish(v)
	l.logger().Debug("rebuild published", zap.Duration("took", time.Since(start)))
	if l.OnPublish != nil {
		l.OnPublish(v)
	}
	return true
}

// Builds returns how many builds have run.
func (l *Loop[T]) Builds() int64 {
	return l.builds.Load()
}

// Run calls Tick every interval until ctx is done.
func (l *Loop[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick()
		}
	}
}

func (l *Loop[T]) logger() *zap.Logger {
	if l.log == nil {
		l.log = logger.Named("rebuild")
	}
	return l.log
}
