package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// Country is a nation referenced by ports, vendors and operators.
type Country struct {
	ID          uuid.UUID `json:"id"`
	CountryName string    `json:"countryName"`
	CountryCode string    `json:"countryCode"`
	core.Audit
}

func (c *Country) EntityID() uuid.UUID      { return c.ID }
func (c *Country) SetEntityID(id uuid.UUID) { c.ID = id }
func (c *Country) NaturalKey() string       { return c.CountryCode }
func (c *Country) DisplayName() string      { return c.CountryName }

// CountryInput carries the editable fields of a country.
type CountryInput struct {
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
}

// CountryListItem is a row of the country list.
type CountryListItem struct {
	ID          uuid.UUID `json:"id"`
	CountryName string    `json:"countryName"`
	CountryCode string    `json:"countryCode"`
}

// CountryColumns is the import template.
var CountryColumns = []string{"Country Name", "Country Code"}

var countryInfo = core.EntityInfo{Key: "countries", Group: GroupGeography, Label: "Countries", Columns: CountryColumns}

// CountryService manages countries. The country code is optional but unique
// when present.
type CountryService struct {
	base[*Country]
}

// NewCountryService returns a service over repo.
func NewCountryService(repo core.Repository[*Country], opts Options) *CountryService {
	return &CountryService{
		base: newBase(countryInfo.Key, KindCountry, repo, opts, (*Country).NaturalKey, decodeCountry),
	}
}

// GetAll lists active countries by name.
func (s *CountryService) GetAll(ctx context.Context) ([]CountryListItem, error) {
	countries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]CountryListItem, len(countries))
	for i, c := range countries {
		items[i] = CountryListItem{ID: c.ID, CountryName: c.CountryName, CountryCode: c.CountryCode}
	}
	return items, nil
}

// Create adds a country.
func (s *CountryService) Create(ctx context.Context, in CountryInput, actor uuid.UUID) (uuid.UUID, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}
	return s.create(ctx, &Country{CountryName: in.CountryName, CountryCode: in.CountryCode}, actor)
}

// Update replaces the editable fields of a country.
func (s *CountryService) Update(ctx context.Context, id uuid.UUID, in CountryInput, actor uuid.UUID) error {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return err
	}
	return s.update(ctx, id, actor, func(c *Country) {
		c.CountryName = in.CountryName
		c.CountryCode = in.CountryCode
	})
}

// Export returns active countries in template column order.
func (s *CountryService) Export(ctx context.Context) ([][]string, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(items))
	for i, c := range items {
		out[i] = []string{c.CountryName, c.CountryCode}
	}
	return out, nil
}

func (in CountryInput) normalized() CountryInput {
	in.CountryName = strings.TrimSpace(in.CountryName)
	in.CountryCode = strings.TrimSpace(in.CountryCode)
	return in
}

func (in CountryInput) validate() error {
	var v core.Validator
	v.Required("Country Name", in.CountryName)
	return v.Err()
}

func decodeCountry(row core.Row, _ *core.Refs) (core.Candidate[*Country], error) {
	name, code := row.Text(0), row.Text(1)
	return core.Candidate[*Country]{
		Identity: code,
		Create: func() *Country {
			return &Country{CountryName: name, CountryCode: code}
		},
		Merge: func(c *Country) {
			core.MergeText(&c.CountryName, name)
			core.MergeText(&c.CountryCode, code)
		},
	}, nil
}
