package schema

import (
	"encoding/json"
	"time"
)

// OriginalPrice preserves the provider's source-currency figures next to the
// converted USD prices.
type OriginalPrice struct {
	Hourly   float64 `json:"hourly"`
	Monthly  float64 `json:"monthly"`
	Currency string  `json:"currency"`
}

// RegionalPrice is one location-specific price entry. Snapshots written by
// older fetchers use "hourly"/"monthly" keys while current ones use the
// *_net names; both are accepted.
type RegionalPrice struct {
	Location        string  `json:"location"`
	Hourly          float64 `json:"hourly_net"`
	Monthly         float64 `json:"monthly_net"`
	IncludedTraffic float64 `json:"included_traffic,omitempty"`
	TrafficPerTB    float64 `json:"traffic_price_per_tb,omitempty"`
}

func (r *RegionalPrice) UnmarshalJSON(data []byte) error {
	type alias struct {
		Location        string   `json:"location"`
		HourlyNet       *float64 `json:"hourly_net"`
		MonthlyNet      *float64 `json:"monthly_net"`
		Hourly          *float64 `json:"hourly"`
		Monthly         *float64 `json:"monthly"`
		IncludedTraffic float64  `json:"included_traffic"`
		TrafficPerTB    float64  `json:"traffic_price_per_tb"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	r.Location = a.Location
	r.IncludedTraffic = a.IncludedTraffic
	r.TrafficPerTB = a.TrafficPerTB

	switch {
	case a.HourlyNet != nil:
		r.Hourly = *a.HourlyNet
	case a.Hourly != nil:
		r.Hourly = *a.Hourly
	}

	switch {
	case a.MonthlyNet != nil:
		r.Monthly = *a.MonthlyNet
	case a.Monthly != nil:
		r.Monthly = *a.Monthly
	}

	return nil
}

// LocationDetail describes one datacenter location of an offering.
type LocationDetail struct {
	Code        string `json:"code"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Region      string `json:"region,omitempty"`
}

// PriceBand is a min/max spread of one price dimension across locations.
type PriceBand struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	HasVariation bool    `json:"hasVariation"`
}

// PriceRange carries the location spread for hourly and monthly pricing.
type PriceRange struct {
	Hourly  PriceBand `json:"hourly"`
	Monthly PriceBand `json:"monthly"`
}

// CloudInstance is the canonical record every provider normalizes into. It is
// the unit of comparison: one priced offering of one provider.
//
// priceUSD_hourly and priceUSD_monthly are always populated and are the basis
// for default sorting and max-price filtering, even when regional or
// network-option prices exist. Regions and locationDetails are never assumed
// mutually exclusive; consumers must check both.
type CloudInstance struct {
	Provider     Provider     `json:"provider"`
	Platform     string       `json:"platform,omitempty"`
	Kind         InstanceKind `json:"type"`
	InstanceType string       `json:"instanceType"`
	Description  string       `json:"description,omitempty"`

	VCPU               *int     `json:"vCPU,omitempty"`
	MemoryGiB          *float64 `json:"memoryGiB,omitempty"`
	DiskType           string   `json:"diskType,omitempty"`
	DiskSizeGB         *float64 `json:"diskSizeGB,omitempty"`
	CPUType            string   `json:"cpuType,omitempty"`
	Architecture       string   `json:"architecture,omitempty"`
	NetworkPerformance string   `json:"networkPerformance,omitempty"`
	Bandwidth          string   `json:"bandwidth,omitempty"`
	TrafficIncludedTB  *float64 `json:"trafficIncludedTB,omitempty"`

	PriceUSDHourly  float64         `json:"priceUSD_hourly"`
	PriceUSDMonthly float64         `json:"priceUSD_monthly"`
	OriginalPrice   *OriginalPrice  `json:"originalPrice,omitempty"`
	RegionalPricing []RegionalPrice `json:"regionalPricing,omitempty"`
	PriceRange      *PriceRange     `json:"priceRange,omitempty"`

	NetworkOptions     *NetworkConfig `json:"networkOptions,omitempty"`
	NetworkType        string         `json:"networkType,omitempty"`
	IPType             string         `json:"ipType,omitempty"`
	DefaultNetworkType string         `json:"defaultNetworkType,omitempty"`
	SupportsIPv6Only   bool           `json:"supportsIPv6Only,omitempty"`

	Regions         []string         `json:"regions,omitempty"`
	LocationDetails []LocationDetail `json:"locationDetails,omitempty"`

	Source      string         `json:"source,omitempty"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Deprecated  bool           `json:"deprecated,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// LocationByCode returns the locationDetails entry with the given code.
func (c *CloudInstance) LocationByCode(code string) (LocationDetail, bool) {
	for _, loc := range c.LocationDetails {
		if loc.Code == code {
			return loc, true
		}
	}

	return LocationDetail{}, false
}

// RegionalPriceFor returns the regionalPricing entry for a location code.
func (c *CloudInstance) RegionalPriceFor(location string) (RegionalPrice, bool) {
	for _, rp := range c.RegionalPricing {
		if rp.Location == location {
			return rp, true
		}
	}

	return RegionalPrice{}, false
}
