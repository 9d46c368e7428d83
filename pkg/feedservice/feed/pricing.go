package feed

import (
	"fmt"
	"strings"
)

// Region mirrors one pricing region of the store backend
type Region struct {
	ID           string   `json:"id"`
	CurrencyCode string   `json:"currencyCode"`
	Countries    []string `json:"countries"`
}

// PricingContext pins a feed build to one region and its currency.
// Resolved once per build and held constant across every batch, so all
// prices in one document belong to the same market.
type PricingContext struct {
	RegionID     string
	CurrencyCode string
}

// ResolvePricingContext selects the region a build prices against:
// the caller's region id, else a currency match, else a country match,
// else the first region the backend lists. Runs before any catalog
// fetch so a bad selection never costs a product query.
func (b *Builder) ResolvePricingContext(p Params) (pc PricingContext, err error) {
	regions, err := b.backend.ListRegions()
	if err != nil {
		return pc, fmt.Errorf("Couldn't list regions - %v", err)
	}
	if len(regions) == 0 {
		return pc, ErrNoRegions
	}

	region, err := matchRegion(regions, p)
	if err != nil {
		return pc, err
	}

	return PricingContext{
		RegionID:     region.ID,
		CurrencyCode: region.CurrencyCode,
	}, nil
}

func matchRegion(regions []Region, p Params) (*Region, error) {
	if p.RegionID != "" {
		for i := range regions {
			if regions[i].ID == p.RegionID {
				return &regions[i], nil
			}
		}
		return nil, fmt.Errorf("%w for region id %q", ErrRegionNotFound, p.RegionID)
	}

	if p.Currency != "" {
		for i := range regions {
			if strings.EqualFold(regions[i].CurrencyCode, p.Currency) {
				return &regions[i], nil
			}
		}
		return nil, fmt.Errorf("%w for currency %q", ErrRegionNotFound, p.Currency)
	}

	if p.CountryCode != "" {
		for i := range regions {
			for j := range regions[i].Countries {
				if strings.EqualFold(regions[i].Countries[j], p.CountryCode) {
					return &regions[i], nil
				}
			}
		}
		return nil, fmt.Errorf("%w for country %q", ErrRegionNotFound, p.CountryCode)
	}

	return &regions[0], nil
}
