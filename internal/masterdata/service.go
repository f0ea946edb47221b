// Package masterdata implements the reference entities of the shipping
// domain (countries, regions, ports, terminals, vendors, operators and
// vessels) on top of the generic contracts in core.
//
// Each entity has a service offering list, get, create, update, delete,
// bulk import and export. Services hold no state besides their
// repositories, so one instance serves all requests.
package masterdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
	"github.com/JonMunkholm/masterdata/internal/logging"
	"github.com/JonMunkholm/masterdata/internal/metrics"
)

// Reference kinds used to resolve foreign codes during import.
const (
	KindCountry = "country"
	KindRegion  = "region"
	KindPort    = "port"
	KindVendor  = "vendor"
)

// Registry groups.
const (
	GroupGeography = "Geography"
	GroupParties   = "Parties"
	GroupFleet     = "Fleet"
)

// Options configures every service. Zero values use the wall clock,
// random ids and no metrics.
type Options struct {
	Clock   func() time.Time
	NewID   func() uuid.UUID
	Metrics *metrics.Metrics
}

// base carries the operations every entity service shares.
type base[E core.Entity] struct {
	key      string
	repo     core.Repository[E]
	catalog  *core.Catalog[E]
	importer *core.Reconciler[E]
	metrics  *metrics.Metrics
}

func newBase[E core.Entity](key, kind string, repo core.Repository[E], opts Options,
	identity func(E) string, decode core.Decoder[E], sources ...core.RefSource) base[E] {
	return base[E]{
		key:  key,
		repo: repo,
		catalog: &core.Catalog[E]{
			Kind:  kind,
			Repo:  repo,
			Clock: opts.Clock,
			NewID: opts.NewID,
		},
		importer: &core.Reconciler[E]{
			Repo:     repo,
			Identity: identity,
			Decode:   decode,
			Sources:  sources,
			Clock:    opts.Clock,
			NewID:    opts.NewID,
		},
		metrics: opts.Metrics,
	}
}

// Get returns one active record.
func (b *base[E]) Get(ctx context.Context, id uuid.UUID) (E, error) {
	e, err := b.repo.GetByID(ctx, id)
	if err != nil {
		var zero E
		return zero, fmt.Errorf("get %s %s: %w", b.catalog.Kind, id, err)
	}
	return e, nil
}

// Delete soft-deletes a record.
func (b *base[E]) Delete(ctx context.Context, id, actor uuid.UUID) error {
	err := b.catalog.Delete(ctx, id, actor)
	b.metrics.ObserveMutation(b.key, "delete", err)
	return err
}

// Import reconciles rows into the store by natural key.
func (b *base[E]) Import(ctx context.Context, rows []core.Row, actor uuid.UUID) (core.ImportResult, error) {
	start := time.Now()
	res, err := b.importer.Run(ctx, rows, actor)
	b.metrics.ObserveImport(b.key, res, err, start)

	logger := logging.WithFields(ctx, "entity", b.key, "rows", len(rows))
	if err != nil {
		logger.Error("import aborted",
			"added", res.Added, "updated", res.Updated, "skipped", res.Skipped, "error", err)
		return res, fmt.Errorf("import %s: %w", b.key, err)
	}
	logger.Info("import completed",
		"added", res.Added, "updated", res.Updated, "skipped", res.Skipped,
		"duration", time.Since(start))
	return res, nil
}

func (b *base[E]) create(ctx context.Context, e E, actor uuid.UUID) (uuid.UUID, error) {
	id, err := b.catalog.Create(ctx, e, actor)
	b.metrics.ObserveMutation(b.key, "create", err)
	return id, err
}

func (b *base[E]) update(ctx context.Context, id, actor uuid.UUID, apply func(E)) error {
	err := b.catalog.Update(ctx, id, actor, apply)
	b.metrics.ObserveMutation(b.key, "update", err)
	return err
}

// resolveRequired maps a mandatory foreign code to an id.
func resolveRequired(refs *core.Refs, kind, field, code string) (uuid.UUID, error) {
	if code == "" {
		return uuid.Nil, fmt.Errorf("%s is blank", field)
	}
	id, ok := refs.Resolve(kind, code)
	if !ok {
		return uuid.Nil, fmt.Errorf("%s %q not found", field, code)
	}
	return id, nil
}

// resolveOptional maps an optional foreign code to an id. A blank code
// yields an invalid NullUUID; an unknown code is an error.
func resolveOptional(refs *core.Refs, kind, field, code string) (uuid.NullUUID, error) {
	if code == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := resolveRequired(refs, kind, field, code)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// nullID returns the id when valid, otherwise uuid.Nil.
func nullID(n uuid.NullUUID) uuid.UUID {
	if !n.Valid {
		return uuid.Nil
	}
	return n.UUID
}

// service is the typed surface every entity service offers.
type service[E core.Entity, In, Item any] interface {
	GetAll(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id uuid.UUID) (E, error)
	Create(ctx context.Context, in In, actor uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, in In, actor uuid.UUID) error
	Delete(ctx context.Context, id, actor uuid.UUID) error
	Import(ctx context.Context, rows []core.Row, actor uuid.UUID) (core.ImportResult, error)
	Export(ctx context.Context) ([][]string, error)
}

// define erases a service's types for the registry.
func define[E core.Entity, In, Item any](info core.EntityInfo, svc service[E, In, Item]) core.EntityDefinition {
	return core.EntityDefinition{
		Info: info,
		List: func(ctx context.Context) (any, error) {
			items, err := svc.GetAll(ctx)
			if err != nil {
				return nil, err
			}
			return items, nil
		},
		Get: func(ctx context.Context, id uuid.UUID) (any, error) {
			e, err := svc.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return e, nil
		},
		Create: func(ctx context.Context, body []byte, actor uuid.UUID) (uuid.UUID, error) {
			in, err := decodeBody[In](body)
			if err != nil {
				return uuid.Nil, err
			}
			return svc.Create(ctx, in, actor)
		},
		Update: func(ctx context.Context, id uuid.UUID, body []byte, actor uuid.UUID) error {
			in, err := decodeBody[In](body)
			if err != nil {
				return err
			}
			return svc.Update(ctx, id, in, actor)
		},
		Delete: svc.Delete,
		Import: svc.Import,
		Export: svc.Export,
	}
}

func decodeBody[In any](body []byte) (In, error) {
	var in In
	if err := json.Unmarshal(body, &in); err != nil {
		return in, core.ValidationError{Message: "invalid JSON body: " + err.Error()}
	}
	return in, nil
}
