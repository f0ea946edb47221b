package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Catalog performs the audited create, update and delete steps shared by
// every entity service. Input validation happens before a Catalog is called.
type Catalog[E Entity] struct {
	Kind  string // singular noun for messages, e.g. "port"
	Repo  Repository[E]
	Clock func() time.Time
	NewID func() uuid.UUID
}

// Create assigns an id and audit stamps, then adds e.
func (c *Catalog[E]) Create(ctx context.Context, e E, actor uuid.UUID) (uuid.UUID, error) {
	if err := c.ensureUnique(ctx, e.NaturalKey(), uuid.Nil); err != nil {
		return uuid.Nil, err
	}

	e.SetEntityID(newID(c.NewID))
	e.AuditFields().StampCreated(actor, now(c.Clock))

	if err := c.Repo.Add(ctx, e); err != nil {
		return uuid.Nil, fmt.Errorf("add %s: %w", c.Kind, err)
	}
	return e.EntityID(), nil
}

// Update loads the record, applies the change and saves it.
func (c *Catalog[E]) Update(ctx context.Context, id, actor uuid.UUID, apply func(E)) error {
	e, err := c.Repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get %s %s: %w", c.Kind, id, err)
	}

	apply(e)

	if err := c.ensureUnique(ctx, e.NaturalKey(), id); err != nil {
		return err
	}

	e.AuditFields().StampModified(actor, now(c.Clock))

	if err := c.Repo.Update(ctx, e); err != nil {
		return fmt.Errorf("update %s %s: %w", c.Kind, id, err)
	}
	return nil
}

// Delete soft-deletes the record.
func (c *Catalog[E]) Delete(ctx context.Context, id, actor uuid.UUID) error {
	if err := c.Repo.SoftDelete(ctx, id, actor); err != nil {
		return fmt.Errorf("delete %s %s: %w", c.Kind, id, err)
	}
	return nil
}

func (c *Catalog[E]) ensureUnique(ctx context.Context, key string, excludeID uuid.UUID) error {
	if key == "" {
		return nil
	}
	exists, err := c.Repo.Exists(ctx, key, excludeID)
	if err != nil {
		return fmt.Errorf("check %s code: %w", c.Kind, err)
	}
	if exists {
		return fmt.Errorf("%s code %q: %w", c.Kind, key, ErrConflict)
	}
	return nil
}

// now returns the clock reading in UTC at the precision PostgreSQL stores.
func now(clock func() time.Time) time.Time {
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Truncate(time.Microsecond)
}

func newID(gen func() uuid.UUID) uuid.UUID {
	if gen == nil {
		return uuid.New()
	}
	return gen()
}
