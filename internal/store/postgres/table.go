package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// PostgreSQL error codes mapped to domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

const activeOnly = "is_deleted = FALSE"

var auditColumns = []string{"is_deleted", "created_on", "modified_on", "created_by", "modified_by"}

// tableSpec describes how one entity maps onto its table.
type tableSpec[E core.Entity] struct {
	name string

	// key is the natural key column, "" when the entity has none.
	key string

	// label orders listings.
	label string

	// columns are the mutable columns in the order scan and values use.
	columns []string

	newRow func() E

	// scan returns the id field followed by the mutable column fields.
	scan func(E) []any

	// values returns the mutable column values.
	values func(E) []any
}

// Table is a core.Repository backed by one table.
type Table[E core.Entity] struct {
	db   DBTX
	spec tableSpec[E]
}

func newTable[E core.Entity](db DBTX, spec tableSpec[E]) *Table[E] {
	return &Table[E]{db: db, spec: spec}
}

// GetAll returns active rows ordered by label, then id.
func (t *Table[E]) GetAll(ctx context.Context) ([]E, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY lower(%s), id",
		t.selectList(), quoteIdentifier(t.spec.name), activeOnly, quoteIdentifier(t.spec.label))

	rows, err := t.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.spec.name, mapError(err))
	}
	defer rows.Close()

	var out []E
	for rows.Next() {
		e := t.spec.newRow()
		if err := rows.Scan(t.targets(e)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.spec.name, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.spec.name, mapError(err))
	}
	return out, nil
}

// GetByID returns the active row with id.
func (t *Table[E]) GetByID(ctx context.Context, id uuid.UUID) (E, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND %s",
		t.selectList(), quoteIdentifier(t.spec.name), activeOnly)

	e := t.spec.newRow()
	if err := t.db.QueryRow(ctx, query, id).Scan(t.targets(e)...); err != nil {
		var zero E
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, core.ErrNotFound
		}
		return zero, fmt.Errorf("get %s: %w", t.spec.name, mapError(err))
	}
	return e, nil
}

// Exists reports whether an active row other than excludeID has key,
// ignoring case. Blank keys never match.
func (t *Table[E]) Exists(ctx context.Context, key string, excludeID uuid.UUID) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" || t.spec.key == "" {
		return false, nil
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE lower(%s) = lower($1) AND id <> $2 AND %s)",
		quoteIdentifier(t.spec.name), quoteIdentifier(t.spec.key), activeOnly)

	var exists bool
	if err := t.db.QueryRow(ctx, query, key, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s key: %w", t.spec.name, mapError(err))
	}
	return exists, nil
}

// Add inserts e as an active row, assigning an id when it has none.
func (t *Table[E]) Add(ctx context.Context, e E) error {
	if e.EntityID() == uuid.Nil {
		e.SetEntityID(uuid.New())
	}
	a := e.AuditFields()

	cols := append([]string{"id"}, t.spec.columns...)
	cols = append(cols, auditColumns...)
	args := append([]any{e.EntityID()}, t.spec.values(e)...)
	args = append(args, false, a.CreatedOn, a.ModifiedOn, a.CreatedBy, a.ModifiedBy)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(t.spec.name), columnList(cols), placeholders(1, len(cols)))

	if _, err := t.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", t.spec.name, mapError(err))
	}
	return nil
}

// Update overwrites the mutable columns and modification stamp of an
// active row.
func (t *Table[E]) Update(ctx context.Context, e E) error {
	a := e.AuditFields()
	n := len(t.spec.columns)

	sets := make([]string, 0, n+2)
	for i, col := range t.spec.columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", quoteIdentifier(col), i+2))
	}
	sets = append(sets,
		fmt.Sprintf("modified_on = $%d", n+2),
		fmt.Sprintf("modified_by = $%d", n+3),
	)

	args := append([]any{e.EntityID()}, t.spec.values(e)...)
	args = append(args, a.ModifiedOn, a.ModifiedBy)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND %s",
		quoteIdentifier(t.spec.name), strings.Join(sets, ", "), activeOnly)

	tag, err := t.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.spec.name, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// SoftDelete flags an active row deleted.
func (t *Table[E]) SoftDelete(ctx context.Context, id, actor uuid.UUID) error {
	query := fmt.Sprintf(
		"UPDATE %s SET is_deleted = TRUE, modified_on = GREATEST(created_on, $2), modified_by = $3 WHERE id = $1 AND %s",
		quoteIdentifier(t.spec.name), activeOnly)

	now := time.Now().UTC().Truncate(time.Microsecond)
	tag, err := t.db.Exec(ctx, query, id, now, actor)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.spec.name, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (t *Table[E]) selectList() string {
	cols := append([]string{"id"}, t.spec.columns...)
	return columnList(append(cols, auditColumns...))
}

// targets returns scan destinations matching selectList.
func (t *Table[E]) targets(e E) []any {
	a := e.AuditFields()
	return append(t.spec.scan(e), &a.IsDeleted, &a.CreatedOn, &a.ModifiedOn, &a.CreatedBy, &a.ModifiedBy)
}

// mapError translates constraint violations into domain errors.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", core.ErrConflict, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		return core.ValidationError{Field: pgErr.ConstraintName, Message: "references a missing record"}
	}
	return err
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

// placeholders returns "$from, ..., $(from+n-1)".
func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}
