package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// Region is a trade area grouping ports.
type Region struct {
	ID         uuid.UUID `json:"id"`
	RegionName string    `json:"regionName"`
	RegionCode string    `json:"regionCode"`
	core.Audit
}

func (r *Region) EntityID() uuid.UUID      { return r.ID }
func (r *Region) SetEntityID(id uuid.UUID) { r.ID = id }
func (r *Region) NaturalKey() string       { return r.RegionCode }
func (r *Region) DisplayName() string      { return r.RegionName }

// RegionInput carries the editable fields of a region.
type RegionInput struct {
	RegionName string `json:"regionName"`
	RegionCode string `json:"regionCode"`
}

// RegionListItem is a row of the region list.
type RegionListItem struct {
	ID         uuid.UUID `json:"id"`
	RegionName string    `json:"regionName"`
	RegionCode string    `json:"regionCode"`
}

// RegionColumns is the import template.
var RegionColumns = []string{"Region Name", "Region Code"}

var regionInfo = core.EntityInfo{Key: "regions", Group: GroupGeography, Label: "Regions", Columns: RegionColumns}

// RegionService manages regions.
type RegionService struct {
	base[*Region]
}

// NewRegionService returns a service over repo.
func NewRegionService(repo core.Repository[*Region], opts Options) *RegionService {
	return &RegionService{
		base: newBase(regionInfo.Key, KindRegion, repo, opts, (*Region).NaturalKey, decodeRegion),
	}
}

// GetAll lists active regions by name.
func (s *RegionService) GetAll(ctx context.Context) ([]RegionListItem, error) {
	regions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]RegionListItem, len(regions))
	for i, r := range regions {
		items[i] = RegionListItem{ID: r.ID, RegionName: r.RegionName, RegionCode: r.RegionCode}
	}
	return items, nil
}

// Create adds a region.
func (s *RegionService) Create(ctx context.Context, in RegionInput, actor uuid.UUID) (uuid.UUID, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}
	return s.create(ctx, &Region{RegionName: in.RegionName, RegionCode: in.RegionCode}, actor)
}

// Update replaces the editable fields of a region.
func (s *RegionService) Update(ctx context.Context, id uuid.UUID, in RegionInput, actor uuid.UUID) error {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return err
	}
	return s.update(ctx, id, actor, func(r *Region) {
		r.RegionName = in.RegionName
		r.RegionCode = in.RegionCode
	})
}

// Export returns active regions in template column order.
func (s *RegionService) Export(ctx context.Context) ([][]string, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(items))
	for i, r := range items {
		out[i] = []string{r.RegionName, r.RegionCode}
	}
	return out, nil
}

func (in RegionInput) normalized() RegionInput {
	in.RegionName = strings.TrimSpace(in.RegionName)
	in.RegionCode = strings.TrimSpace(in.RegionCode)
	return in
}

func (in RegionInput) validate() error {
	var v core.Validator
	v.Required("Region Name", in.RegionName)
	return v.Err()
}

func decodeRegion(row core.Row, _ *core.Refs) (core.Candidate[*Region], error) {
	name, code := row.Text(0), row.Text(1)
	return core.Candidate[*Region]{
		Identity: code,
		Create: func() *Region {
			return &Region{RegionName: name, RegionCode: code}
		},
		Merge: func(r *Region) {
			core.MergeText(&r.RegionName, name)
			core.MergeText(&r.RegionCode, code)
		},
	}, nil
}
