package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit holds the soft-delete flag and audit stamps carried by every entity.
type Audit struct {
	IsDeleted  bool      `json:"isDeleted"`
	CreatedOn  time.Time `json:"createdOn"`
	ModifiedOn time.Time `json:"modifiedOn"`
	CreatedBy  uuid.UUID `json:"createdBy"`
	ModifiedBy uuid.UUID `json:"modifiedBy"`
}

// AuditFields returns the audit block so embedding types satisfy [Entity].
func (a *Audit) AuditFields() *Audit { return a }

// StampCreated marks a new active record created by actor at now.
func (a *Audit) StampCreated(actor uuid.UUID, now time.Time) {
	a.IsDeleted = false
	a.CreatedOn = now
	a.ModifiedOn = now
	a.CreatedBy = actor
	a.ModifiedBy = actor
}

// StampModified records a modification. ModifiedOn never precedes CreatedOn.
func (a *Audit) StampModified(actor uuid.UUID, now time.Time) {
	if now.Before(a.CreatedOn) {
		now = a.CreatedOn
	}
	a.ModifiedOn = now
	a.ModifiedBy = actor
}

// Entity is implemented by the pointer type of every reference entity.
type Entity interface {
	EntityID() uuid.UUID
	SetEntityID(id uuid.UUID)

	// NaturalKey is the business identifier used for uniqueness; "" when the
	// type has none or the record leaves it blank.
	NaturalKey() string

	// DisplayName is the label lists are ordered by.
	DisplayName() string

	AuditFields() *Audit
}

// Repository is the persistence gateway for one entity type. Every read
// excludes soft-deleted records.
type Repository[E Entity] interface {
	// GetAll returns active records ordered by display name.
	GetAll(ctx context.Context) ([]E, error)

	// GetByID returns ErrNotFound when the record is absent or deleted.
	GetByID(ctx context.Context, id uuid.UUID) (E, error)

	// Exists reports whether an active record other than excludeID carries
	// key, compared case-insensitively. Pass uuid.Nil to exclude nothing.
	Exists(ctx context.Context, key string, excludeID uuid.UUID) (bool, error)

	// Add persists a new record. A natural key collision returns ErrConflict.
	Add(ctx context.Context, e E) error

	// Update overwrites an active record. It returns ErrNotFound when the record
	// is absent and ErrConflict on a natural key collision.
	Update(ctx context.Context, e E) error

	// SoftDelete flags the record deleted and stamps the modification.
	SoftDelete(ctx context.Context, id, actor uuid.UUID) error
}

// EntityInfo describes a registered entity type.
type EntityInfo struct {
	Key     string   `json:"key"`     // URL segment, e.g. "ports"
	Group   string   `json:"group"`   // Navigation group
	Label   string   `json:"label"`   // Display name
	Columns []string `json:"columns"` // Import template columns, in order
}

// EntityDefinition exposes one entity's operations without its concrete types.
type EntityDefinition struct {
	Info EntityInfo

	List   func(ctx context.Context) (any, error)
	Get    func(ctx context.Context, id uuid.UUID) (any, error)
	Create func(ctx context.Context, body []byte, actor uuid.UUID) (uuid.UUID, error)
	Update func(ctx context.Context, id uuid.UUID, body []byte, actor uuid.UUID) error
	Delete func(ctx context.Context, id, actor uuid.UUID) error
	Import func(ctx context.Context, rows []Row, actor uuid.UUID) (ImportResult, error)
	Export func(ctx context.Context) ([][]string, error)
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Added   int          `json:"added"`
	Updated int          `json:"updated"`
	Skipped int          `json:"skipped"`
	Skips   []SkippedRow `json:"skips,omitempty"`
}

// SkippedRow explains why a row was not imported. Line is 1-based.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Total is the number of rows the import looked at.
func (r ImportResult) Total() int {
	return r.Added + r.Updated + r.Skipped
}

func (r *ImportResult) skip(line int, reason string) {
	r.Skipped++
	r.Skips = append(r.Skips, SkippedRow{Line: line, Reason: reason})
}
