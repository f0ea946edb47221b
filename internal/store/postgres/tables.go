package postgres

import "github.com/JonMunkholm/masterdata/internal/masterdata"

// NewStores returns PostgreSQL repositories for every entity over db.
func NewStores(db DBTX) masterdata.Stores {
	return masterdata.Stores{
		Countries: newTable(db, countrySpec),
		Regions:   newTable(db, regionSpec),
		Ports:     newTable(db, portSpec),
		Terminals: newTable(db, terminalSpec),
		Vendors:   newTable(db, vendorSpec),
		Operators: newTable(db, operatorSpec),
		Vessels:   newTable(db, vesselSpec),
	}
}

var countrySpec = tableSpec[*masterdata.Country]{
	name:    "countries",
	key:     "country_code",
	label:   "country_name",
	columns: []string{"country_name", "country_code"},
	newRow:  func() *masterdata.Country { return &masterdata.Country{} },
	scan: func(c *masterdata.Country) []any {
		return []any{&c.ID, &c.CountryName, &c.CountryCode}
	},
	values: func(c *masterdata.Country) []any {
		return []any{c.CountryName, c.CountryCode}
	},
}

var regionSpec = tableSpec[*masterdata.Region]{
	name:    "regions",
	key:     "region_code",
	label:   "region_name",
	columns: []string{"region_name", "region_code"},
	newRow:  func() *masterdata.Region { return &masterdata.Region{} },
	scan: func(r *masterdata.Region) []any {
		return []any{&r.ID, &r.RegionName, &r.RegionCode}
	},
	values: func(r *masterdata.Region) []any {
		return []any{r.RegionName, r.RegionCode}
	},
}

var portSpec = tableSpec[*masterdata.Port]{
	name:    "ports",
	key:     "port_code",
	label:   "full_name",
	columns: []string{"port_code", "full_name", "country_id", "region_id"},
	newRow:  func() *masterdata.Port { return &masterdata.Port{} },
	scan: func(p *masterdata.Port) []any {
		return []any{&p.ID, &p.PortCode, &p.FullName, &p.CountryID, &p.RegionID}
	},
	values: func(p *masterdata.Port) []any {
		return []any{p.PortCode, p.FullName, p.CountryID, p.RegionID}
	},
}

var terminalSpec = tableSpec[*masterdata.Terminal]{
	name:    "terminals",
	key:     "terminal_code",
	label:   "terminal_name",
	columns: []string{"terminal_name", "terminal_code", "port_id"},
	newRow:  func() *masterdata.Terminal { return &masterdata.Terminal{} },
	scan: func(t *masterdata.Terminal) []any {
		return []any{&t.ID, &t.TerminalName, &t.TerminalCode, &t.PortID}
	},
	values: func(t *masterdata.Terminal) []any {
		return []any{t.TerminalName, t.TerminalCode, t.PortID}
	},
}

var vendorSpec = tableSpec[*masterdata.Vendor]{
	name:    "vendors",
	key:     "vendor_code",
	label:   "vendor_name",
	columns: []string{"vendor_name", "vendor_code", "country_id"},
	newRow:  func() *masterdata.Vendor { return &masterdata.Vendor{} },
	scan: func(v *masterdata.Vendor) []any {
		return []any{&v.ID, &v.VendorName, &v.VendorCode, &v.CountryID}
	},
	values: func(v *masterdata.Vendor) []any {
		return []any{v.VendorName, v.VendorCode, v.CountryID}
	},
}

// Operators have no natural key column.
var operatorSpec = tableSpec[*masterdata.Operator]{
	name:    "operators",
	label:   "operator_name",
	columns: []string{"operator_name", "vendor_id", "country_id"},
	newRow:  func() *masterdata.Operator { return &masterdata.Operator{} },
	scan: func(o *masterdata.Operator) []any {
		return []any{&o.ID, &o.OperatorName, &o.VendorID, &o.CountryID}
	},
	values: func(o *masterdata.Operator) []any {
		return []any{o.OperatorName, o.VendorID, o.CountryID}
	},
}

var vesselSpec = tableSpec[*masterdata.Vessel]{
	name:  "vessels",
	key:   "vessel_code",
	label: "vessel_name",
	columns: []string{
		"vessel_name", "vessel_code", "imo_code", "teus", "nrt",
		"grt", "flag", "speed", "build_year",
	},
	newRow: func() *masterdata.Vessel { return &masterdata.Vessel{} },
	scan: func(v *masterdata.Vessel) []any {
		return []any{
			&v.ID, &v.VesselName, &v.VesselCode, &v.ImoCode, &v.Teus, &v.NRT,
			&v.GRT, &v.Flag, &v.Speed, &v.BuildYear,
		}
	},
	values: func(v *masterdata.Vessel) []any {
		return []any{
			v.VesselName, v.VesselCode, v.ImoCode, v.Teus, v.NRT,
			v.GRT, v.Flag, v.Speed, v.BuildYear,
		}
	},
}
