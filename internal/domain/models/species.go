package models

// SpeciesProfile describes the optimal growing band and nominal cycle length
// of a cultivar, plus the rate applied when pricing harvest sales.
type SpeciesProfile struct {
	MinTemp       float64
	MaxTemp       float64
	MinHumidity   float64
	CycleDays     int
	SalePricePerKg float64
}

// SpeciesCatalog maps a strain key to its profile. Catalogs are built once
// and treated as immutable; engines receive them as configuration rather
// than reaching for embedded constants.
type SpeciesCatalog map[string]SpeciesProfile

// Profile looks a strain up in the catalog.
func (c SpeciesCatalog) Profile(strain string) (SpeciesProfile, bool) {
	p, ok := c[strain]
	return p, ok
}

// DefaultSpeciesCatalog returns the stock cultivar table used when no
// overrides are configured.
func DefaultSpeciesCatalog() SpeciesCatalog {
	return SpeciesCatalog{
		"oyster_grey": {MinTemp: 20, MaxTemp: 28, MinHumidity: 80, CycleDays: 21, SalePricePerKg: 9.50},
		"oyster_pink": {MinTemp: 22, MaxTemp: 30, MinHumidity: 85, CycleDays: 18, SalePricePerKg: 11.00},
		"shiitake":    {MinTemp: 12, MaxTemp: 22, MinHumidity: 75, CycleDays: 35, SalePricePerKg: 16.00},
		"lions_mane":  {MinTemp: 18, MaxTemp: 24, MinHumidity: 85, CycleDays: 28, SalePricePerKg: 18.50},
	}
}
