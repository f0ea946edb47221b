package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// PortCodeLength is the fixed length of a port code (UN/LOCODE).
const PortCodeLength = 5

// Port is a seaport identified by its UN/LOCODE.
type Port struct {
	ID        uuid.UUID     `json:"id"`
	PortCode  string        `json:"portCode"`
	FullName  string        `json:"fullName"`
	CountryID uuid.UUID     `json:"countryId"`
	RegionID  uuid.NullUUID `json:"regionId"`
	core.Audit
}

func (p *Port) EntityID() uuid.UUID      { return p.ID }
func (p *Port) SetEntityID(id uuid.UUID) { p.ID = id }
func (p *Port) NaturalKey() string       { return p.PortCode }
func (p *Port) DisplayName() string      { return p.FullName }

// PortInput carries the editable fields of a port.
type PortInput struct {
	PortCode  string        `json:"portCode"`
	FullName  string        `json:"fullName"`
	CountryID uuid.UUID     `json:"countryId"`
	RegionID  uuid.NullUUID `json:"regionId"`
}

// PortListItem is a row of the port list with its country and region resolved.
type PortListItem struct {
	ID          uuid.UUID     `json:"id"`
	PortCode    string        `json:"portCode"`
	FullName    string        `json:"fullName"`
	CountryID   uuid.UUID     `json:"countryId"`
	CountryName string        `json:"countryName"`
	CountryCode string        `json:"countryCode"`
	RegionID    uuid.NullUUID `json:"regionId"`
	RegionName  string        `json:"regionName"`
	RegionCode  string        `json:"regionCode"`
}

// PortColumns is the import template.
var PortColumns = []string{"Port Code", "Full Name", "Country Code", "Region Code"}

var portInfo = core.EntityInfo{Key: "ports", Group: GroupGeography, Label: "Ports", Columns: PortColumns}

// PortService manages ports.
type PortService struct {
	base[*Port]
	countries core.Repository[*Country]
	regions   core.Repository[*Region]
}

// NewPortService returns a service over repo. Country and region codes in
// import rows resolve against countries and regions.
func NewPortService(repo core.Repository[*Port], countries core.Repository[*Country],
	regions core.Repository[*Region], opts Options) *PortService {
	return &PortService{
		base: newBase(portInfo.Key, KindPort, repo, opts, (*Port).NaturalKey, decodePort,
			core.Source(KindCountry, countries),
			core.Source(KindRegion, regions),
		),
		countries: countries,
		regions:   regions,
	}
}

// GetAll lists active ports by name with country and region names joined.
func (s *PortService) GetAll(ctx context.Context) ([]PortListItem, error) {
	ports, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	countries, err := s.countries.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	regions, err := s.regions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	countryByID := core.IndexByID(countries)
	regionByID := core.IndexByID(regions)

	items := make([]PortListItem, len(ports))
	for i, p := range ports {
		item := PortListItem{
			ID:        p.ID,
			PortCode:  p.PortCode,
			FullName:  p.FullName,
			CountryID: p.CountryID,
			RegionID:  p.RegionID,
		}
		if c, ok := countryByID[p.CountryID]; ok {
			item.CountryName, item.CountryCode = c.CountryName, c.CountryCode
		}
		if r, ok := regionByID[nullID(p.RegionID)]; ok {
			item.RegionName, item.RegionCode = r.RegionName, r.RegionCode
		}
		items[i] = item
	}
	return items, nil
}

// Create adds a port.
func (s *PortService) Create(ctx context.Context, in PortInput, actor uuid.UUID) (uuid.UUID, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}
	return s.create(ctx, &Port{
		PortCode:  in.PortCode,
		FullName:  in.FullName,
		CountryID: in.CountryID,
		RegionID:  in.RegionID,
	}, actor)
}

// Update replaces the editable fields of a port.
func (s *PortService) Update(ctx context.Context, id uuid.UUID, in PortInput, actor uuid.UUID) error {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return err
	}
	return s.update(ctx, id, actor, func(p *Port) {
		p.PortCode = in.PortCode
		p.FullName = in.FullName
		p.CountryID = in.CountryID
		p.RegionID = in.RegionID
	})
}

// Export returns active ports in template column order.
func (s *PortService) Export(ctx context.Context) ([][]string, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(items))
	for i, p := range items {
		out[i] = []string{p.PortCode, p.FullName, p.CountryCode, p.RegionCode}
	}
	return out, nil
}

func (in PortInput) normalized() PortInput {
	in.PortCode = strings.TrimSpace(in.PortCode)
	in.FullName = strings.TrimSpace(in.FullName)
	return in
}

func (in PortInput) validate() error {
	var v core.Validator
	v.ExactLength("Port Code", in.PortCode, PortCodeLength)
	v.Required("Full Name", in.FullName)
	v.RequiredID("Country", in.CountryID)
	return v.Err()
}

func decodePort(row core.Row, refs *core.Refs) (core.Candidate[*Port], error) {
	code, name := row.Text(0), row.Text(1)
	if code == "" {
		return core.Candidate[*Port]{}, nil
	}

	var v core.Validator
	v.ExactLength("Port Code", code, PortCodeLength)
	if err := v.Err(); err != nil {
		return core.Candidate[*Port]{}, err
	}

	countryID, err := resolveRequired(refs, KindCountry, "Country Code", row.Text(2))
	if err != nil {
		return core.Candidate[*Port]{}, err
	}
	regionID, err := resolveOptional(refs, KindRegion, "Region Code", row.Text(3))
	if err != nil {
		return core.Candidate[*Port]{}, err
	}

	return core.Candidate[*Port]{
		Identity: code,
		Create: func() *Port {
			return &Port{PortCode: code, FullName: name, CountryID: countryID, RegionID: regionID}
		},
		Merge: func(p *Port) {
			core.MergeText(&p.PortCode, code)
			core.MergeText(&p.FullName, name)
			p.CountryID = countryID
			if regionID.Valid {
				p.RegionID = regionID
			}
		},
	}, nil
}
