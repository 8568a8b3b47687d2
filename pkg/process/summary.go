package process

import (
	"time"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// BuildSummary computes snapshot-level statistics: totals, per-provider and
// per-type counts, and the hourly USD price range across all instances.
// Providers whose last run failed appear in Errors; zero-priced instances do
// not shrink the price range minimum.
func BuildSummary(results map[schema.Provider][]schema.CloudInstance, errs map[string]string, now time.Time) *schema.Summary {
	summary := &schema.Summary{
		LastUpdated:   now,
		ByProvider:    make(map[string]int),
		ByType:        make(map[string]int),
		ProviderFiles: make(map[string]schema.ProviderFile),
	}

	if len(errs) > 0 {
		summary.Errors = make(map[string]string, len(errs))
		for name, msg := range errs {
			summary.Errors[name] = msg
		}
	}

	var (
		minPrice, maxPrice float64
		priced             bool
	)

	for name, instances := range results {
		summary.ByProvider[string(name)] = len(instances)
		summary.TotalInstances += len(instances)

		if len(instances) > 0 {
			summary.ProvidersCount++
		}

		summary.ProviderFiles[string(name)] = schema.ProviderFile{
			File:        providerFileName(name),
			Count:       len(instances),
			LastUpdated: now,
		}

		for _, inst := range instances {
			summary.ByType[string(inst.Kind)]++

			hourly := inst.PriceUSDHourly
			if hourly <= 0 {
				continue
			}

			if !priced {
				minPrice, maxPrice = hourly, hourly
				priced = true

				continue
			}

			minPrice = min(minPrice, hourly)
			maxPrice = max(maxPrice, hourly)
		}
	}

	summary.PriceRange = schema.PriceBounds{Min: minPrice, Max: maxPrice}

	return summary
}
