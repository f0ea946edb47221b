package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

// FoldKey normalizes a natural key for case-insensitive comparison.
func FoldKey(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// KeysEqual reports whether two natural keys are the same ignoring case.
func KeysEqual(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}

// KeyIndex maps folded natural keys to records. When several records share a
// key the one created first wins, ties broken by the smaller id.
type KeyIndex[E Entity] struct {
	keyOf func(E) string
	byKey map[string]E
}

// NewKeyIndex indexes records under keyOf. Records with a blank key are left out.
func NewKeyIndex[E Entity](records []E, keyOf func(E) string) *KeyIndex[E] {
	idx := &KeyIndex[E]{
		keyOf: keyOf,
		byKey: make(map[string]E, len(records)),
	}
	for _, rec := range records {
		idx.Put(rec)
	}
	return idx
}

// Put indexes rec unless an earlier record already holds its key.
func (x *KeyIndex[E]) Put(rec E) {
	key := FoldKey(x.keyOf(rec))
	if key == "" {
		return
	}
	if cur, ok := x.byKey[key]; ok && !precedes(rec, cur) {
		return
	}
	x.byKey[key] = rec
}

// Lookup finds the record for key, ignoring case.
func (x *KeyIndex[E]) Lookup(key string) (E, bool) {
	rec, ok := x.byKey[FoldKey(key)]
	return rec, ok
}

// Len returns the number of distinct keys.
func (x *KeyIndex[E]) Len() int {
	return len(x.byKey)
}

func precedes[E Entity](a, b E) bool {
	ca, cb := a.AuditFields().CreatedOn, b.AuditFields().CreatedOn
	if !ca.Equal(cb) {
		return ca.Before(cb)
	}
	return a.EntityID().String() < b.EntityID().String()
}

// IndexByID maps records by id, for joining list items to related entities.
func IndexByID[E Entity](records []E) map[uuid.UUID]E {
	m := make(map[uuid.UUID]E, len(records))
	for _, rec := range records {
		m[rec.EntityID()] = rec
	}
	return m
}

// RefSource loads the active records of one referenced entity type.
type RefSource struct {
	Kind string
	Load func(ctx context.Context) ([]Entity, error)
}

// Source adapts a repository into a RefSource keyed by natural key.
func Source[E Entity](kind string, repo Repository[E]) RefSource {
	return RefSource{
		Kind: kind,
		Load: func(ctx context.Context) ([]Entity, error) {
			records, err := repo.GetAll(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]Entity, len(records))
			for i, rec := range records {
				out[i] = rec
			}
			return out, nil
		},
	}
}

// Refs resolves foreign natural keys to ids during an import.
type Refs struct {
	byKind map[string]*KeyIndex[Entity]
}

// LoadRefs loads every source once.
func LoadRefs(ctx context.Context, sources ...RefSource) (*Refs, error) {
	refs := &Refs{byKind: make(map[string]*KeyIndex[Entity], len(sources))}
	for _, src := range sources {
		records, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src.Kind, err)
		}
		refs.byKind[src.Kind] = NewKeyIndex(records, Entity.NaturalKey)
	}
	return refs, nil
}

// Resolve returns the id of the kind record whose natural key matches key.
func (r *Refs) Resolve(kind, key string) (uuid.UUID, bool) {
	if r == nil {
		return uuid.Nil, false
	}
	idx, ok := r.byKind[kind]
	if !ok {
		return uuid.Nil, false
	}
	rec, ok := idx.Lookup(key)
	if !ok {
		return uuid.Nil, false
	}
	return rec.EntityID(), true
}
