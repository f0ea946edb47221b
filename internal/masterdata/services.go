package masterdata

import "github.com/JonMunkholm/masterdata/internal/core"

// Stores holds one repository per entity type.
type Stores struct {
	Countries core.Repository[*Country]
	Regions   core.Repository[*Region]
	Ports     core.Repository[*Port]
	Terminals core.Repository[*Terminal]
	Vendors   core.Repository[*Vendor]
	Operators core.Repository[*Operator]
	Vessels   core.Repository[*Vessel]
}

// Services holds one service per entity type.
type Services struct {
	Countries *CountryService
	Regions   *RegionService
	Ports     *PortService
	Terminals *TerminalService
	Vendors   *VendorService
	Operators *OperatorService
	Vessels   *VesselService
}

// NewServices wires every service to its repositories.
func NewServices(st Stores, opts Options) *Services {
	return &Services{
		Countries: NewCountryService(st.Countries, opts),
		Regions:   NewRegionService(st.Regions, opts),
		Ports:     NewPortService(st.Ports, st.Countries, st.Regions, opts),
		Terminals: NewTerminalService(st.Terminals, st.Ports, opts),
		Vendors:   NewVendorService(st.Vendors, st.Countries, opts),
		Operators: NewOperatorService(st.Operators, st.Vendors, st.Countries, opts),
		Vessels:   NewVesselService(st.Vessels, opts),
	}
}

// Registry returns a registry exposing every service.
func (s *Services) Registry() *core.Registry {
	reg := core.NewRegistry()
	reg.Register(define[*Country, CountryInput, CountryListItem](countryInfo, s.Countries))
	reg.Register(define[*Region, RegionInput, RegionListItem](regionInfo, s.Regions))
	reg.Register(define[*Port, PortInput, PortListItem](portInfo, s.Ports))
	reg.Register(define[*Terminal, TerminalInput, TerminalListItem](terminalInfo, s.Terminals))
	reg.Register(define[*Vendor, VendorInput, VendorListItem](vendorInfo, s.Vendors))
	reg.Register(define[*Operator, OperatorInput, OperatorListItem](operatorInfo, s.Operators))
	reg.Register(define[*Vessel, VesselInput, VesselListItem](vesselInfo, s.Vessels))
	return reg
}
