package calendarview

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// NameLookup resolves a teacher id to a display name.
type NameLookup interface {
	FullName(ctx context.Context, id string) (name string, found bool, err error)
}

// Organizers memoizes organizer names for one view. Each distinct id is
// looked up at most once; unknown ids resolve to themselves. Failed lookups
// are not cached.
type Organizers struct {
	lookup NameLookup
	log    *zap.Logger

	mu    sync.Mutex
	names map[string]string
}

func NewOrganizers(lookup NameLookup, logger *zap.Logger) *Organizers {
	return &Organizers{lookup: lookup, log: logger, names: make(map[string]string)}
}

// Name returns the display name for the creator id.
func (o *Organizers) Name(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if name, ok := o.names[id]; ok {
		return name
	}
	name, found, err := o.lookup.FullName(ctx, id)
	if err != nil {
		o.log.Warn("organizer lookup failed", zap.String("created_by", id), zap.Error(err))
		return id
	}
	if !found || name == "" {
		name = id
	}
	o.names[id] = name
	return name
}
