package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// Vendor is a carrier or service provider that operators belong to.
type Vendor struct {
	ID         uuid.UUID `json:"id"`
	VendorName string    `json:"vendorName"`
	VendorCode string    `json:"vendorCode"`
	CountryID  uuid.UUID `json:"countryId"`
	core.Audit
}

func (v *Vendor) EntityID() uuid.UUID      { return v.ID }
func (v *Vendor) SetEntityID(id uuid.UUID) { v.ID = id }
func (v *Vendor) NaturalKey() string       { return v.VendorCode }
func (v *Vendor) DisplayName() string      { return v.VendorName }

// VendorInput carries the editable fields of a vendor.
type VendorInput struct {
	VendorName string    `json:"vendorName"`
	VendorCode string    `json:"vendorCode"`
	CountryID  uuid.UUID `json:"countryId"`
}

// VendorListItem is a row of the vendor list with its country resolved.
type VendorListItem struct {
	ID          uuid.UUID `json:"id"`
	VendorName  string    `json:"vendorName"`
	VendorCode  string    `json:"vendorCode"`
	CountryID   uuid.UUID `json:"countryId"`
	CountryName string    `json:"countryName"`
	CountryCode string    `json:"countryCode"`
}

// VendorColumns is the import template.
var VendorColumns = []string{"Vendor Name", "Vendor Code", "Country Code"}

var vendorInfo = core.EntityInfo{Key: "vendors", Group: GroupParties, Label: "Vendors", Columns: VendorColumns}

// VendorService manages vendors.
type VendorService struct {
	base[*Vendor]
	countries core.Repository[*Country]
}

// NewVendorService returns a service over repo. Country codes in import rows
// resolve against countries.
func NewVendorService(repo core.Repository[*Vendor], countries core.Repository[*Country], opts Options) *VendorService {
	return &VendorService{
		base: newBase(vendorInfo.Key, KindVendor, repo, opts, (*Vendor).NaturalKey, decodeVendor,
			core.Source(KindCountry, countries),
		),
		countries: countries,
	}
}

// GetAll lists active vendors by name with the country joined.
func (s *VendorService) GetAll(ctx context.Context) ([]VendorListItem, error) {
	vendors, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	countries, err := s.countries.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	countryByID := core.IndexByID(countries)

	items := make([]VendorListItem, len(vendors))
	for i, v := range vendors {
		item := VendorListItem{
			ID:         v.ID,
			VendorName: v.VendorName,
			VendorCode: v.VendorCode,
			CountryID:  v.CountryID,
		}
		if c, ok := countryByID[v.CountryID]; ok {
			item.CountryName, item.CountryCode = c.CountryName, c.CountryCode
		}
		items[i] = item
	}
	return items, nil
}

// Create adds a vendor.
func (s *VendorService) Create(ctx context.Context, in VendorInput, actor uuid.UUID) (uuid.UUID, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}
	return s.create(ctx, &Vendor{
		VendorName: in.VendorName,
		VendorCode: in.VendorCode,
		CountryID:  in.CountryID,
	}, actor)
}

// Update replaces the editable fields of a vendor.
func (s *VendorService) Update(ctx context.Context, id uuid.UUID, in VendorInput, actor uuid.UUID) error {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return err
	}
	return s.update(ctx, id, actor, func(v *Vendor) {
		v.VendorName = in.VendorName
		v.VendorCode = in.VendorCode
		v.CountryID = in.CountryID
	})
}

// Export returns active vendors in template column order.
func (s *VendorService) Export(ctx context.Context) ([][]string, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(items))
	for i, v := range items {
		out[i] = []string{v.VendorName, v.VendorCode, v.CountryCode}
	}
	return out, nil
}

func (in VendorInput) normalized() VendorInput {
	in.VendorName = strings.TrimSpace(in.VendorName)
	in.VendorCode = strings.TrimSpace(in.VendorCode)
	return in
}

func (in VendorInput) validate() error {
	var v core.Validator
	v.Required("Vendor Name", in.VendorName)
	v.Required("Vendor Code", in.VendorCode)
	v.RequiredID("Country", in.CountryID)
	return v.Err()
}

func decodeVendor(row core.Row, refs *core.Refs) (core.Candidate[*Vendor], error) {
	name, code := row.Text(0), row.Text(1)
	if code == "" {
		return core.Candidate[*Vendor]{}, nil
	}

	countryID, err := resolveRequired(refs, KindCountry, "Country Code", row.Text(2))
	if err != nil {
		return core.Candidate[*Vendor]{}, err
	}

	return core.Candidate[*Vendor]{
		Identity: code,
		Create: func() *Vendor {
			return &Vendor{VendorName: name, VendorCode: code, CountryID: countryID}
		},
		Merge: func(v *Vendor) {
			core.MergeText(&v.VendorName, name)
			core.MergeText(&v.VendorCode, code)
			v.CountryID = countryID
		},
	}, nil
}
