// internal/app/system/paging/paging.go
package paging

import (
	"net/http"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the number of rows in a paged admin list.
const PageSize = 50

// LimitPlusOne returns PageSize+1 for look-ahead pagination (fetch one
// extra document to detect whether another page exists).
func LimitPlusOne() int64 { return int64(PageSize + 1) }

// Request is the keyset position asked for by the caller.
type Request struct {
	Before string
	After  string
}

// FromRequest reads ?before= and ?after=. ok is false when the caller asked
// for neither and did not pass ?paged=1, meaning the full list is wanted.
func FromRequest(r *http.Request) (req Request, ok bool) {
	req = Request{Before: query.Get(r, "before"), After: query.Get(r, "after")}
	ok = req.Before != "" || req.After != "" || query.Get(r, "paged") == "1"
	return req, ok
}

// Result holds the output of TrimPage.
type Result struct {
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// TrimPage trims a slice fetched with LimitPlusOne, in display order.
//
// Going backwards (before != ""): an extra row means an older page exists;
// the first element is dropped. HasNext is always true.
//
// Going forwards: an extra row means a next page exists; the slice is cut
// to PageSize. HasPrev is true only when after != "".
func TrimPage[T any](rows *[]T, req Request) Result {
	var res Result
	if req.Before != "" {
		if len(*rows) > PageSize {
			*rows = (*rows)[1:]
			res.HasPrev = true
		}
		res.HasNext = true
		return res
	}
	if len(*rows) > PageSize {
		*rows = (*rows)[:PageSize]
		res.HasNext = true
	}
	res.HasPrev = req.After != ""
	return res
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // sort ascending, "gt" the cursor
	Backward                  // sort descending, "lt" the cursor
)

// Keyset is the decoded position plus the sort to fetch with.
type Keyset struct {
	Direction Direction
	SortOrder int
	Cursor    *wafflemongo.Cursor
}

// ConfigureKeyset decodes the cursor. before takes precedence over after.
// An undecodable cursor is treated as the first page.
func ConfigureKeyset(req Request) Keyset {
	ks := Keyset{Direction: Forward, SortOrder: 1}

	raw := req.After
	if req.Before != "" {
		ks.Direction = Backward
		ks.SortOrder = -1
		raw = req.Before
	}
	if raw != "" {
		if c, ok := wafflemongo.DecodeCursor(raw); ok {
			ks.Cursor = &c
		}
	}
	return ks
}

// FindOptions sorts by sortField then _id and fetches one extra row.
func (ks Keyset) FindOptions(sortField string) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{
			{Key: sortField, Value: ks.SortOrder},
			{Key: "_id", Value: ks.SortOrder},
		}).
		SetLimit(LimitPlusOne())
}

// Window returns the filter condition placing rows after (or before) the
// cursor, or nil on the first page.
func (ks Keyset) Window(sortField string) bson.M {
	if ks.Cursor == nil {
		return nil
	}
	dir := "gt"
	if ks.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, ks.Cursor.CI, ks.Cursor.ID)
}

// Reverse reverses a slice in place. Use it after a backward fetch to
// restore display order.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// Cursors holds the positions of the first and last displayed rows.
type Cursors struct {
	Prev string `json:"prev_cursor,omitempty"`
	Next string `json:"next_cursor,omitempty"`
}

// BuildCursors encodes cursors from the first and last rows.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) Cursors {
	if len(rows) == 0 {
		return Cursors{}
	}
	first, last := rows[0], rows[len(rows)-1]
	return Cursors{
		Prev: wafflemongo.EncodeCursor(keyFn(first), idFn(first)),
		Next: wafflemongo.EncodeCursor(keyFn(last), idFn(last)),
	}
}
