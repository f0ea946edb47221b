package memory

import "github.com/JonMunkholm/masterdata/internal/masterdata"

// NewStores returns empty tables for every entity type.
func NewStores() masterdata.Stores {
	return masterdata.Stores{
		Countries: NewTable[masterdata.Country, *masterdata.Country](),
		Regions:   NewTable[masterdata.Region, *masterdata.Region](),
		Ports:     NewTable[masterdata.Port, *masterdata.Port](),
		Terminals: NewTable[masterdata.Terminal, *masterdata.Terminal](),
		Vendors:   NewTable[masterdata.Vendor, *masterdata.Vendor](),
		Operators: NewTable[masterdata.Operator, *masterdata.Operator](),
		Vessels:   NewTable[masterdata.Vessel, *masterdata.Vessel](),
	}
}
