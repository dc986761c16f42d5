package livequery

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notifier reports that a source may have changed. The returned channel
// is closed when ctx ends or the feed fails. Signals coalesce: a pending
// signal is not duplicated.
type Notifier interface {
	Notify(ctx context.Context, src Source) (<-chan struct{}, error)
}

// watcher is a source backed by a collection that can open change streams.
type watcher interface {
	Watch(ctx context.Context, pipeline any) (*mongo.ChangeStream, error)
}

var writeOps = mongo.Pipeline{
	{{Key: "$match", Value: bson.M{
		"operationType": bson.M{"$in": bson.A{"insert", "update", "replace", "delete"}},
	}}},
}

// ChangeStreams notifies from a MongoDB change stream. It needs a replica
// set or sharded cluster. Resumable errors are retried by the driver.
type ChangeStreams struct {
	Log *zap.Logger
}

// Notify implements Notifier.
func (n ChangeStreams) Notify(ctx context.Context, src Source) (<-chan struct{}, error) {
	w, ok := src.(watcher)
	if !ok {
		return nil, fmt.Errorf("%s: change streams need a collection source", src.Name())
	}
	cs, err := w.Watch(ctx, writeOps)
	if err != nil {
		return nil, err
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer cs.Close(context.Background())

		for cs.Next(ctx) {
			signal(ch)
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil && n.Log != nil {
			n.Log.Warn("change stream ended", zap.String("collection", src.Name()), zap.Error(err))
		}
	}()
	return ch, nil
}

// Poller notifies on a fixed interval. Subscribe drops unchanged result
// sets, so a tick without a change produces no delivery.
type Poller struct {
	Interval time.Duration
}

// Notify implements Notifier.
func (p Poller) Notify(ctx context.Context, _ Source) (<-chan struct{}, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				signal(ch)
			}
		}
	}()
	return ch, nil
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
