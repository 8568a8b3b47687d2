package engine

import (
	"strings"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// matches is the single filter predicate: an instance passes only when every
// active dimension accepts it. Instances missing an optional dimension pass
// that dimension vacuously.
func matches(inst *schema.CloudInstance, state FilterState) bool {
	if !inSet(string(inst.Provider), state.Providers) {
		return false
	}

	if !matchesRegion(inst, state.Regions) {
		return false
	}

	if !inSet(string(inst.Kind), state.InstanceTypes) {
		return false
	}

	if !matchesIPType(inst, state.IPTypes) {
		return false
	}

	if !matchesNetworkOptions(inst, state.NetworkOptions) {
		return false
	}

	if !inRange(inst.VCPU, state.MinVCPU, state.MaxVCPU) {
		return false
	}

	if !inRangeFloat(inst.MemoryGiB, state.MinMemory, state.MaxMemory) {
		return false
	}

	if state.MaxPrice != nil {
		resolved, err := Resolve(inst, state)
		if err != nil {
			// no determinable price: never treated as zero
			return false
		}

		if resolved.Hourly > *state.MaxPrice {
			return false
		}
	}

	if !matchesSearch(inst, state.Search) {
		return false
	}

	return true
}

// inSet reports set membership with the nil/empty distinction: a nil set is
// no filter at all, an empty set matches nothing.
func inSet(value string, set []string) bool {
	if set == nil {
		return true
	}

	for _, s := range set {
		if strings.EqualFold(s, value) {
			return true
		}
	}

	return false
}

// matchesRegion reconciles the three historical location shapes, most
// specific first: locationDetails entries with regional pricing, then
// locationDetails alone, then the flat regions list. Matching is best-effort
// against country, code, region name and city, case-insensitively. Instances
// without any location data pass vacuously.
func matchesRegion(inst *schema.CloudInstance, regions []string) bool {
	if regions == nil {
		return true
	}

	if len(regions) == 0 {
		return false
	}

	if len(inst.LocationDetails) > 0 && len(inst.RegionalPricing) > 0 {
		for _, region := range regions {
			detail, ok := matchingDetail(inst, region)
			if !ok {
				continue
			}

			if _, ok := inst.RegionalPriceFor(detail.Code); ok {
				return true
			}
		}

		return false
	}

	if len(inst.LocationDetails) > 0 {
		for _, region := range regions {
			if _, ok := matchingDetail(inst, region); ok {
				return true
			}
		}

		return false
	}

	if len(inst.Regions) > 0 {
		for _, region := range regions {
			for _, have := range inst.Regions {
				if strings.EqualFold(have, region) {
					return true
				}
			}
		}

		return false
	}

	return true
}

// matchingDetail finds the first locationDetails entry matching the selected
// region by country, code, region name or city.
func matchingDetail(inst *schema.CloudInstance, region string) (schema.LocationDetail, bool) {
	for _, detail := range inst.LocationDetails {
		if strings.EqualFold(detail.Country, region) ||
			strings.EqualFold(detail.Code, region) ||
			strings.EqualFold(detail.Region, region) ||
			strings.EqualFold(detail.City, region) {
			return detail, true
		}
	}

	return schema.LocationDetail{}, false
}

// matchesIPType compares networkType, or the legacy ipType field, against the
// selected set. Instances defining neither pass vacuously.
func matchesIPType(inst *schema.CloudInstance, ipTypes []string) bool {
	if ipTypes == nil {
		return true
	}

	if inst.NetworkType == "" && inst.IPType == "" {
		return true
	}

	for _, want := range ipTypes {
		if strings.EqualFold(inst.NetworkType, want) || strings.EqualFold(inst.IPType, want) {
			return true
		}
	}

	return false
}

// matchesNetworkOptions passes when at least one selected option is present
// and available. Legacy single-string records match on the preserved string.
func matchesNetworkOptions(inst *schema.CloudInstance, options []string) bool {
	if options == nil {
		return true
	}

	if inst.NetworkOptions == nil {
		return true
	}

	if inst.NetworkOptions.Legacy != "" {
		for _, want := range options {
			if strings.EqualFold(inst.NetworkOptions.Legacy, want) {
				return true
			}
		}

		return false
	}

	return inst.NetworkOptions.HasAvailable(options)
}

func inRange(value *int, minBound, maxBound float64) bool {
	if value == nil {
		return true
	}

	return boundsCheck(float64(*value), minBound, maxBound)
}

func inRangeFloat(value *float64, minBound, maxBound float64) bool {
	if value == nil {
		return true
	}

	return boundsCheck(*value, minBound, maxBound)
}

// boundsCheck treats a zero max as unbounded; bounds are inclusive.
func boundsCheck(value, minBound, maxBound float64) bool {
	if value < minBound {
		return false
	}

	if maxBound > 0 && value > maxBound {
		return false
	}

	return true
}
