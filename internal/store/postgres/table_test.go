package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/masterdata/internal/core"
)

func TestMapError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		is   error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "ports_code_active"}, core.ErrConflict},
		{"wrapped unique violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), core.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503", ConstraintName: "ports_country_id_fkey"}, core.ErrValidation},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, nil},
		{"plain error", plain, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if tt.is == nil {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.is)
		})
	}
}

func TestQueryBuilders(t *testing.T) {
	assert.Equal(t, `"ports"`, quoteIdentifier("ports"))
	assert.Equal(t, `"a""b"`, quoteIdentifier(`a"b`))
	assert.Equal(t, `"id", "port_code"`, columnList([]string{"id", "port_code"}))
	assert.Equal(t, "$2, $3, $4", placeholders(2, 3))
}

func TestSpecsLineUp(t *testing.T) {
	check := func(t *testing.T, name string, columns, targets, values []any) {
		t.Helper()
		require.Len(t, targets, len(columns)+1, "%s scan targets", name)
		require.Len(t, values, len(columns), "%s values", name)
	}
	cols := func(c []string) []any { return make([]any, len(c)) }

	c := countrySpec.newRow()
	check(t, countrySpec.name, cols(countrySpec.columns), countrySpec.scan(c), countrySpec.values(c))
	r := regionSpec.newRow()
	check(t, regionSpec.name, cols(regionSpec.columns), regionSpec.scan(r), regionSpec.values(r))
	p := portSpec.newRow()
	check(t, portSpec.name, cols(portSpec.columns), portSpec.scan(p), portSpec.values(p))
	tm := terminalSpec.newRow()
	check(t, terminalSpec.name, cols(terminalSpec.columns), terminalSpec.scan(tm), terminalSpec.values(tm))
	v := vendorSpec.newRow()
	check(t, vendorSpec.name, cols(vendorSpec.columns), vendorSpec.scan(v), vendorSpec.values(v))
	o := operatorSpec.newRow()
	check(t, operatorSpec.name, cols(operatorSpec.columns), operatorSpec.scan(o), operatorSpec.values(o))
	vs := vesselSpec.newRow()
	check(t, vesselSpec.name, cols(vesselSpec.columns), vesselSpec.scan(vs), vesselSpec.values(vs))

	assert.Empty(t, operatorSpec.key)
}

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "masterdata", DatabaseName("postgres://u:p@localhost:5432/masterdata?sslmode=disable"))
	assert.Equal(t, "", DatabaseName("::bad"))
}
