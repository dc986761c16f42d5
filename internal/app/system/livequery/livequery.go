// Package livequery turns a filtered, ordered MongoDB query into a standing
// subscription. The handler receives the full current result set (never a
// diff) once at start and again after every change to the matched set.
//
// A subscription belongs to whoever started it and stays open until Stop or
// Release is called. Nothing stops it automatically apart from the parent
// context, so views must release what they start.
package livequery

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Source is a named result set that can be read again on demand. Query is
// the MongoDB implementation.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]bson.Raw, error)
}

// Query is a server-side filter plus sort order on one collection.
type Query struct {
	Collection *mongo.Collection
	Filter     bson.M
	Sort       bson.D
}

// Name is the collection name.
func (q Query) Name() string { return q.Collection.Name() }

// Watch opens a change stream on the collection.
func (q Query) Watch(ctx context.Context, pipeline any) (*mongo.ChangeStream, error) {
	return q.Collection.Watch(ctx, pipeline)
}

// Fetch runs the query once and returns the raw documents in order.
func (q Query) Fetch(ctx context.Context) ([]bson.Raw, error) {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	cur, err := q.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []bson.Raw
	for cur.Next(ctx) {
		out = append(out, bson.Raw(append([]byte(nil), cur.Current...)))
	}
	return out, cur.Err()
}

// Decode unmarshals raw documents into T, preserving order.
func Decode[T any](raws []bson.Raw) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Subscription is the release handle for one standing query.
type Subscription struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	stopped bool
}

// Subscribe starts watching src. The first delivery happens asynchronously
// right after the call returns. Later deliveries happen when the notifier
// reports a change and the re-queried result set differs from the last one
// delivered.
//
// Deliveries for one subscription are sequential and in notifier order.
// There is no ordering between different subscriptions.
func Subscribe[T any](parent context.Context, n Notifier, src Source, handler func([]T), logger *zap.Logger) (*Subscription, error) {
	ctx, cancel := context.WithCancel(parent)

	// Watch before the first fetch so no change between the two is lost.
	changes, err := n.Notify(ctx, src)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", src.Name(), err)
	}

	s := &Subscription{
		name:   src.Name(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	var last []byte
	delivered := false
	refresh := func() {
		raws, err := src.Fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("live query fetch failed",
					zap.String("collection", s.name), zap.Error(err))
			}
			return
		}
		sig := bytes.Join(rawBytes(raws), nil)
		if delivered && bytes.Equal(sig, last) {
			return
		}
		items, err := Decode[T](raws)
		if err != nil {
			logger.Error("live query decode failed",
				zap.String("collection", s.name), zap.Error(err))
			return
		}
		last, delivered = sig, true
		s.deliver(func() { handler(items) })
	}

	go func() {
		defer close(s.done)
		refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					if ctx.Err() == nil {
						logger.Warn("live query change feed closed", zap.String("collection", s.name))
					}
					return
				}
				refresh()
			}
		}
	}()

	return s, nil
}

func (s *Subscription) deliver(call func()) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}
	call()
}

// Release stops deliveries without waiting for the watcher to exit. It is
// safe to call from inside the handler.
func (s *Subscription) Release() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cancel()
}

// Stop releases the subscription and waits for its goroutine to exit.
// Once Stop returns the handler is never invoked again. Stop is idempotent
// and must not be called from inside the handler; use Release there.
func (s *Subscription) Stop() {
	s.Release()
	<-s.done
}

// Done is closed when the subscription has finished, either because it was
// released or because its change feed ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Group releases many subscriptions together.
type Group struct {
	mu      sync.Mutex
	subs    []*Subscription
	stopped bool
}

// Add tracks s. Adding to a stopped group stops s immediately.
func (g *Group) Add(s *Subscription) {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		s.Stop()
		return
	}
	g.subs = append(g.subs, s)
	g.mu.Unlock()
}

// Len is the number of tracked subscriptions.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// Stop stops every tracked subscription and waits for all of them.
func (g *Group) Stop() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.stopped = true
	g.mu.Unlock()

	for _, s := range subs {
		s.Release()
	}
	for _, s := range subs {
		<-s.done
	}
}

func rawBytes(raws []bson.Raw) [][]byte {
	out := make([][]byte, len(raws))
	for i, r := range raws {
		out[i] = r
	}
	return out
}
