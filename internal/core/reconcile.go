package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Candidate is what a decoded row contributes to the import.
type Candidate[E Entity] struct {
	// Identity is the key the row is matched on. Blank rows are skipped.
	Identity string

	// Create builds a new record from the row.
	Create func() E

	// Merge applies the row to an existing record without blanking fields.
	Merge func(E)
}

// Decoder turns a row into a Candidate. A returned error is the reason the
// row is skipped; it never aborts the import.
type Decoder[E Entity] func(row Row, refs *Refs) (Candidate[E], error)

// Reconciler upserts import rows into one entity type by natural key.
type Reconciler[E Entity] struct {
	Repo Repository[E]

	// Identity extracts the match key from a stored record.
	Identity func(E) string

	Decode  Decoder[E]
	Sources []RefSource
	Clock   func() time.Time
	NewID   func() uuid.UUID
}

// Run reconciles rows on behalf of actor. Rows persist one at a time; a
// storage error stops the run and is returned with the partial result.
func (r *Reconciler[E]) Run(ctx context.Context, rows []Row, actor uuid.UUID) (ImportResult, error) {
	var res ImportResult

	existing, err := r.Repo.GetAll(ctx)
	if err != nil {
		return res, fmt.Errorf("load existing records: %w", err)
	}
	refs, err := LoadRefs(ctx, r.Sources...)
	if err != nil {
		return res, err
	}
	index := NewKeyIndex(existing, r.Identity)

	for i, row := range rows {
		line := i + 1

		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}

		cand, err := r.Decode(row, refs)
		if err != nil {
			res.skip(line, err.Error())
			continue
		}
		if strings.TrimSpace(cand.Identity) == "" {
			res.skip(line, "blank identity key")
			continue
		}

		stamp := now(r.Clock)

		if cur, ok := index.Lookup(cand.Identity); ok {
			cand.Merge(cur)
			cur.AuditFields().StampModified(actor, stamp)
			if err := r.Repo.Update(ctx, cur); err != nil {
				return res, fmt.Errorf("row %d: update: %w", line, err)
			}
			res.Updated++
			continue
		}

		rec := cand.Create()
		rec.SetEntityID(newID(r.NewID))
		rec.AuditFields().StampCreated(actor, stamp)
		if err := r.Repo.Add(ctx, rec); err != nil {
			return res, fmt.Errorf("row %d: add: %w", line, err)
		}
		index.Put(rec)
		res.Added++
	}

	return res, nil
}
