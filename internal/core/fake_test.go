package core

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type widget struct {
	ID   uuid.UUID
	Name string
	Code string
	Audit
}

func (w *widget) EntityID() uuid.UUID      { return w.ID }
func (w *widget) SetEntityID(id uuid.UUID) { w.ID = id }
func (w *widget) NaturalKey() string       { return w.Code }
func (w *widget) DisplayName() string      { return w.Name }

// widgetRepo is a minimal Repository used by the package tests.
type widgetRepo struct {
	rows    map[uuid.UUID]widget
	adds    int
	updates int
	failOn  int // fail the nth write (1-based); 0 disables
	writes  int
}

func newWidgetRepo(seed ...widget) *widgetRepo {
	r := &widgetRepo{rows: make(map[uuid.UUID]widget)}
	for _, w := range seed {
		r.rows[w.ID] = w
	}
	return r
}

func (r *widgetRepo) write() error {
	r.writes++
	if r.failOn > 0 && r.writes == r.failOn {
		return errWriteFailed
	}
	return nil
}

func (r *widgetRepo) GetAll(ctx context.Context) ([]*widget, error) {
	var out []*widget
	for _, w := range r.rows {
		if !w.IsDeleted {
			cp := w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *widgetRepo) GetByID(ctx context.Context, id uuid.UUID) (*widget, error) {
	w, ok := r.rows[id]
	if !ok || w.IsDeleted {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (r *widgetRepo) Exists(ctx context.Context, key string, excludeID uuid.UUID) (bool, error) {
	for _, w := range r.rows {
		if !w.IsDeleted && w.ID != excludeID && KeysEqual(w.Code, key) {
			return true, nil
		}
	}
	return false, nil
}

func (r *widgetRepo) Add(ctx context.Context, w *widget) error {
	if err := r.write(); err != nil {
		return err
	}
	r.adds++
	r.rows[w.ID] = *w
	return nil
}

func (r *widgetRepo) Update(ctx context.Context, w *widget) error {
	if err := r.write(); err != nil {
		return err
	}
	if cur, ok := r.rows[w.ID]; !ok || cur.IsDeleted {
		return ErrNotFound
	}
	r.updates++
	r.rows[w.ID] = *w
	return nil
}

func (r *widgetRepo) SoftDelete(ctx context.Context, id, actor uuid.UUID) error {
	w, ok := r.rows[id]
	if !ok || w.IsDeleted {
		return ErrNotFound
	}
	w.IsDeleted = true
	w.StampModified(actor, time.Now().UTC())
	r.rows[id] = w
	return nil
}

type fixedErr string

func (e fixedErr) Error() string { return string(e) }

const errWriteFailed = fixedErr("write failed")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
