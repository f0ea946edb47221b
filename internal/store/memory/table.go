// Package memory provides in-process repositories used by tests and by
// STORE_DRIVER=memory. Records are copied in and out so callers never share
// state with the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// entityPtr constrains E to *T implementing core.Entity.
type entityPtr[T any] interface {
	*T
	core.Entity
}

// Table is a mutex-guarded core.Repository for one entity type. Natural key
// uniqueness among active records is checked under the write lock.
type Table[T any, E entityPtr[T]] struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]T
}

// NewTable returns an empty table.
func NewTable[T any, E entityPtr[T]]() *Table[T, E] {
	return &Table[T, E]{rows: make(map[uuid.UUID]T)}
}

// GetAll returns active records ordered by display name, then id.
func (t *Table[T, E]) GetAll(ctx context.Context) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]E, 0, len(t.rows))
	for _, row := range t.rows {
		cp := row
		if e := E(&cp); !e.AuditFields().IsDeleted {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		ni, nj := core.FoldKey(out[i].DisplayName()), core.FoldKey(out[j].DisplayName())
		if ni != nj {
			return ni < nj
		}
		return out[i].EntityID().String() < out[j].EntityID().String()
	})
	return out, nil
}

// GetByID returns a copy of the active record with id.
func (t *Table[T, E]) GetByID(ctx context.Context, id uuid.UUID) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.active(id)
	if !ok {
		return zero, core.ErrNotFound
	}
	return E(&row), nil
}

// Exists reports whether an active record other than excludeID has key.
func (t *Table[T, E]) Exists(ctx context.Context, key string, excludeID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.taken(key, excludeID), nil
}

// Add stores a copy of e, assigning an id when it has none.
func (t *Table[T, E]) Add(ctx context.Context, e E) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if e.EntityID() == uuid.Nil {
		e.SetEntityID(uuid.New())
	}
	if _, dup := t.rows[e.EntityID()]; dup {
		return fmt.Errorf("id %s: %w", e.EntityID(), core.ErrConflict)
	}
	if t.taken(e.NaturalKey(), uuid.Nil) {
		return fmt.Errorf("natural key %q: %w", e.NaturalKey(), core.ErrConflict)
	}

	row := *e
	E(&row).AuditFields().IsDeleted = false
	t.rows[e.EntityID()] = row
	return nil
}

// Update overwrites the mutable fields of an active record. Creation stamps
// are kept from the stored row.
func (t *Table[T, E]) Update(ctx context.Context, e E) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	id := e.EntityID()
	cur, ok := t.active(id)
	if !ok {
		return core.ErrNotFound
	}
	if t.taken(e.NaturalKey(), id) {
		return fmt.Errorf("natural key %q: %w", e.NaturalKey(), core.ErrConflict)
	}

	next := *e
	prev, audit := E(&cur).AuditFields(), E(&next).AuditFields()
	audit.IsDeleted = false
	audit.CreatedOn = prev.CreatedOn
	audit.CreatedBy = prev.CreatedBy
	t.rows[id] = next
	return nil
}

// SoftDelete flags the record deleted.
func (t *Table[T, E]) SoftDelete(ctx context.Context, id, actor uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.active(id)
	if !ok {
		return core.ErrNotFound
	}
	audit := E(&row).AuditFields()
	audit.IsDeleted = true
	audit.StampModified(actor, time.Now().UTC().Truncate(time.Microsecond))
	t.rows[id] = row
	return nil
}

// Len returns the number of stored rows, deleted ones included.
func (t *Table[T, E]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// active returns a copy of the row with id when it is not deleted.
// Callers hold the lock.
func (t *Table[T, E]) active(id uuid.UUID) (T, bool) {
	row, ok := t.rows[id]
	if !ok || E(&row).AuditFields().IsDeleted {
		var zero T
		return zero, false
	}
	return row, true
}

// taken reports whether key belongs to an active row other than excludeID.
// Callers hold the lock.
func (t *Table[T, E]) taken(key string, excludeID uuid.UUID) bool {
	folded := core.FoldKey(key)
	if folded == "" {
		return false
	}
	for id, row := range t.rows {
		if id == excludeID {
			continue
		}
		e := E(&row)
		if !e.AuditFields().IsDeleted && core.FoldKey(e.NaturalKey()) == folded {
			return true
		}
	}
	return false
}
