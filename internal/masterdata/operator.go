package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// Operator is a vessel operating line run by a vendor. It has no code; an
// operator is identified by its name within its vendor.
type Operator struct {
	ID           uuid.UUID     `json:"id"`
	OperatorName string        `json:"operatorName"`
	VendorID     uuid.UUID     `json:"vendorId"`
	CountryID    uuid.NullUUID `json:"countryId"`
	core.Audit
}

func (o *Operator) EntityID() uuid.UUID      { return o.ID }
func (o *Operator) SetEntityID(id uuid.UUID) { o.ID = id }
func (o *Operator) NaturalKey() string       { return "" }
func (o *Operator) DisplayName() string      { return o.OperatorName }

// operatorIdentity is the import match key: folded name plus vendor id.
func operatorIdentity(name string, vendorID uuid.UUID) string {
	folded := core.FoldKey(name)
	if folded == "" || vendorID == uuid.Nil {
		return ""
	}
	return folded + "|" + vendorID.String()
}

func (o *Operator) identity() string {
	return operatorIdentity(o.OperatorName, o.VendorID)
}

// OperatorInput carries the editable fields of an operator.
type OperatorInput struct {
	OperatorName string        `json:"operatorName"`
	VendorID     uuid.UUID     `json:"vendorId"`
	CountryID    uuid.NullUUID `json:"countryId"`
}

// OperatorListItem is a row of the operator list with vendor and country resolved.
type OperatorListItem struct {
	ID           uuid.UUID     `json:"id"`
	OperatorName string        `json:"operatorName"`
	VendorID     uuid.UUID     `json:"vendorId"`
	VendorName   string        `json:"vendorName"`
	VendorCode   string        `json:"vendorCode"`
	CountryID    uuid.NullUUID `json:"countryId"`
	CountryName  string        `json:"countryName"`
	CountryCode  string        `json:"countryCode"`
}

// OperatorColumns is the import template.
var OperatorColumns = []string{"Operator Name", "Vendor Code", "Country Code"}

var operatorInfo = core.EntityInfo{Key: "operators", Group: GroupParties, Label: "Operators", Columns: OperatorColumns}

// OperatorService manages operators.
type OperatorService struct {
	base[*Operator]
	vendors   core.Repository[*Vendor]
	countries core.Repository[*Country]
}

// NewOperatorService returns a service over repo. Vendor and country codes in
// import rows resolve against vendors and countries.
func NewOperatorService(repo core.Repository[*Operator], vendors core.Repository[*Vendor],
	countries core.Repository[*Country], opts Options) *OperatorService {
	return &OperatorService{
		base: newBase(operatorInfo.Key, "operator", repo, opts, (*Operator).identity, decodeOperator,
			core.Source(KindVendor, vendors),
			core.Source(KindCountry, countries),
		),
		vendors:   vendors,
		countries: countries,
	}
}

// GetAll lists active operators by name with vendor and country joined.
func (s *OperatorService) GetAll(ctx context.Context) ([]OperatorListItem, error) {
	operators, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendors.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	countries, err := s.countries.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	vendorByID := core.IndexByID(vendors)
	countryByID := core.IndexByID(countries)

	items := make([]OperatorListItem, len(operators))
	for i, o := range operators {
		item := OperatorListItem{
			ID:           o.ID,
			OperatorName: o.OperatorName,
			VendorID:     o.VendorID,
			CountryID:    o.CountryID,
		}
		if v, ok := vendorByID[o.VendorID]; ok {
			item.VendorName, item.VendorCode = v.VendorName, v.VendorCode
		}
		if c, ok := countryByID[nullID(o.CountryID)]; ok {
			item.CountryName, item.CountryCode = c.CountryName, c.CountryCode
		}
		items[i] = item
	}
	return items, nil
}

// Create adds an operator. Operators carry no unique key.
func (s *OperatorService) Create(ctx context.Context, in OperatorInput, actor uuid.UUID) (uuid.UUID, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}
	return s.create(ctx, &Operator{
		OperatorName: in.OperatorName,
		VendorID:     in.VendorID,
		CountryID:    in.CountryID,
	}, actor)
}

// Update replaces the editable fields of an operator.
func (s *OperatorService) Update(ctx context.Context, id uuid.UUID, in OperatorInput, actor uuid.UUID) error {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return err
	}
	return s.update(ctx, id, actor, func(o *Operator) {
		o.OperatorName = in.OperatorName
		o.VendorID = in.VendorID
		o.CountryID = in.CountryID
	})
}

// Export returns active operators in template column order.
func (s *OperatorService) Export(ctx context.Context) ([][]string, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(items))
	for i, o := range items {
		out[i] = []string{o.OperatorName, o.VendorCode, o.CountryCode}
	}
	return out, nil
}

func (in OperatorInput) normalized() OperatorInput {
	in.OperatorName = strings.TrimSpace(in.OperatorName)
	return in
}

func (in OperatorInput) validate() error {
	var v core.Validator
	v.Required("Operator Name", in.OperatorName)
	v.RequiredID("Vendor", in.VendorID)
	return v.Err()
}

func decodeOperator(row core.Row, refs *core.Refs) (core.Candidate[*Operator], error) {
	name := row.Text(0)
	if name == "" {
		return core.Candidate[*Operator]{}, nil
	}

	vendorID, err := resolveRequired(refs, KindVendor, "Vendor Code", row.Text(1))
	if err != nil {
		return core.Candidate[*Operator]{}, err
	}
	countryID, err := resolveOptional(refs, KindCountry, "Country Code", row.Text(2))
	if err != nil {
		return core.Candidate[*Operator]{}, err
	}

	return core.Candidate[*Operator]{
		Identity: operatorIdentity(name, vendorID),
		Create: func() *Operator {
			return &Operator{OperatorName: name, VendorID: vendorID, CountryID: countryID}
		},
		Merge: func(o *Operator) {
			core.MergeText(&o.OperatorName, name)
			o.VendorID = vendorID
			if countryID.Valid {
				o.CountryID = countryID
			}
		},
	}, nil
}
