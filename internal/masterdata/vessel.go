package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// Vessel is a ship with its registry particulars.
type Vessel struct {
	ID         uuid.UUID `json:"id"`
	VesselName string    `json:"vesselName"`
	VesselCode string    `json:"vesselCode"`
	ImoCode    string    `json:"imoCode"`
	Teus       *int      `json:"teus"`
	NRT        *float64  `json:"nrt"`
	GRT        *float64  `json:"grt"`
	Flag       string    `json:"flag"`
	Speed      *float64  `json:"speed"`
	BuildYear  *int      `json:"buildYear"`
	core.Audit
}

func (v *Vessel) EntityID() uuid.UUID      { return v.ID }
func (v *Vessel) SetEntityID(id uuid.UUID) { v.ID = id }
func (v *Vessel) NaturalKey() string       { return v.VesselCode }
func (v *Vessel) DisplayName() string      { return v.VesselName }

// VesselInput carries the editable fields of a vessel.
type VesselInput struct {
	VesselName string   `json:"vesselName"`
	VesselCode string   `json:"vesselCode"`
	ImoCode    string   `json:"imoCode"`
	Teus       *int     `json:"teus"`
	NRT        *float64 `json:"nrt"`
	GRT        *float64 `json:"grt"`
	Flag       string   `json:"flag"`
	Speed      *float64 `json:"speed"`
	BuildYear  *int     `json:"buildYear"`
}

// VesselListItem is a row of the vessel list.
type VesselListItem struct {
	ID uuid.UUID `json:"id"`
	VesselInput
}

// VesselColumns is the import template.
var VesselColumns = []string{"Vessel Name", "Vessel Code", "IMO", "TEUs", "NRT", "GRT", "Flag", "Speed", "Build Year"}

var vesselInfo = core.EntityInfo{Key: "vessels", Group: GroupFleet, Label: "Vessels", Columns: VesselColumns}

// VesselService manages vessels.
type VesselService struct {
	base[*Vessel]
}

// NewVesselService returns a service over repo.
func NewVesselService(repo core.Repository[*Vessel], opts Options) *VesselService {
	return &VesselService{
		base: newBase(vesselInfo.Key, "vessel", repo, opts, (*Vessel).NaturalKey, decodeVessel),
	}
}

// GetAll lists active vessels by name.
func (s *VesselService) GetAll(ctx context.Context) ([]VesselListItem, error) {
	vessels, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]VesselListItem, len(vessels))
	for i, v := range vessels {
		items[i] = VesselListItem{
			ID: v.ID,
			VesselInput: VesselInput{
				VesselName: v.VesselName,
				VesselCode: v.VesselCode,
				ImoCode:    v.ImoCode,
				Teus:       v.Teus,
				NRT:        v.NRT,
				GRT:        v.GRT,
				Flag:       v.Flag,
				Speed:      v.Speed,
				BuildYear:  v.BuildYear,
			},
		}
	}
	return items, nil
}

// Create adds a vessel.
func (s *VesselService) Create(ctx context.Context, in VesselInput, actor uuid.UUID) (uuid.UUID, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}
	v := &Vessel{}
	in.apply(v)
	return s.create(ctx, v, actor)
}

// Update replaces the editable fields of a vessel.
func (s *VesselService) Update(ctx context.Context, id uuid.UUID, in VesselInput, actor uuid.UUID) error {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return err
	}
	return s.update(ctx, id, actor, in.apply)
}

// Export returns active vessels in template column order.
func (s *VesselService) Export(ctx context.Context) ([][]string, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(items))
	for i, v := range items {
		out[i] = []string{
			v.VesselName,
			v.VesselCode,
			v.ImoCode,
			core.FormatInt(v.Teus),
			core.FormatDecimal(v.NRT),
			core.FormatDecimal(v.GRT),
			v.Flag,
			core.FormatDecimal(v.Speed),
			core.FormatInt(v.BuildYear),
		}
	}
	return out, nil
}

func (in VesselInput) apply(v *Vessel) {
	v.VesselName = in.VesselName
	v.VesselCode = in.VesselCode
	v.ImoCode = in.ImoCode
	v.Teus = in.Teus
	v.NRT = in.NRT
	v.GRT = in.GRT
	v.Flag = in.Flag
	v.Speed = in.Speed
	v.BuildYear = in.BuildYear
}

func (in VesselInput) normalized() VesselInput {
	in.VesselName = strings.TrimSpace(in.VesselName)
	in.VesselCode = strings.TrimSpace(in.VesselCode)
	in.ImoCode = strings.TrimSpace(in.ImoCode)
	in.Flag = strings.TrimSpace(in.Flag)
	return in
}

func (in VesselInput) validate() error {
	var v core.Validator
	v.Required("Vessel Name", in.VesselName)
	v.Required("Vessel Code", in.VesselCode)
	core.NonNegative(&v, "TEUs", in.Teus)
	core.NonNegative(&v, "NRT", in.NRT)
	core.NonNegative(&v, "GRT", in.GRT)
	core.NonNegative(&v, "Speed", in.Speed)
	core.NonNegative(&v, "Build Year", in.BuildYear)
	return v.Err()
}

func decodeVessel(row core.Row, _ *core.Refs) (core.Candidate[*Vessel], error) {
	in := VesselInput{
		VesselName: row.Text(0),
		VesselCode: row.Text(1),
		ImoCode:    row.Text(2),
		Teus:       row.Int(3),
		NRT:        row.Decimal(4),
		GRT:        row.Decimal(5),
		Flag:       row.Text(6),
		Speed:      row.Decimal(7),
		BuildYear:  row.Int(8),
	}

	return core.Candidate[*Vessel]{
		Identity: in.VesselCode,
		Create: func() *Vessel {
			v := &Vessel{}
			in.apply(v)
			return v
		},
		Merge: func(v *Vessel) {
			core.MergeText(&v.VesselName, in.VesselName)
			core.MergeText(&v.VesselCode, in.VesselCode)
			core.MergeText(&v.ImoCode, in.ImoCode)
			core.MergeValue(&v.Teus, in.Teus)
			core.MergeValue(&v.NRT, in.NRT)
			core.MergeValue(&v.GRT, in.GRT)
			core.MergeText(&v.Flag, in.Flag)
			core.MergeValue(&v.Speed, in.Speed)
			core.MergeValue(&v.BuildYear, in.BuildYear)
		},
	}, nil
}
