// Package normalizer maps provider-specific raw records onto the canonical
// CloudInstance schema, converting native-currency prices to USD exactly once
// so snapshots carry embedded USD figures.
package normalizer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/currency"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// HoursPerMonth is the amortization divisor between monthly and hourly rates.
const HoursPerMonth = 730.44

// MappingError reports a raw record that cannot be mapped onto the canonical
// schema. The record is excluded; the provider run continues.
type MappingError struct {
	Provider schema.Provider
	Field    string
	Reason   string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map %s record: field %q: %s", e.Provider, e.Field, e.Reason)
}

// ProviderContext supplies the per-provider inputs normalization needs.
type ProviderContext struct {
	Provider       schema.Provider
	NativeCurrency string
	Source         string
	Rates          currency.RateTable
	Now            func() time.Time
}

func (p ProviderContext) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}

	return time.Now().UTC()
}

// Normalize maps one raw record into a CloudInstance. Prices are converted
// from the provider's native currency into USD here, not at render time.
// Server records with network-configuration variants keep the keyed-object
// networkOptions shape as the forward format.
func Normalize(raw schema.RawRecord, pctx ProviderContext) (schema.CloudInstance, error) {
	if pctx.Provider == "" {
		return schema.CloudInstance{}, &MappingError{Provider: pctx.Provider, Field: "provider", Reason: "provider context is empty"}
	}

	inst, err := decode(raw, pctx)
	if err != nil {
		return schema.CloudInstance{}, &MappingError{Provider: pctx.Provider, Field: "record", Reason: err.Error()}
	}

	inst.Provider = pctx.Provider

	if inst.InstanceType == "" {
		return schema.CloudInstance{}, &MappingError{Provider: pctx.Provider, Field: "instanceType", Reason: "missing"}
	}

	if inst.Kind == "" {
		return schema.CloudInstance{}, &MappingError{Provider: pctx.Provider, Field: "type", Reason: "missing"}
	}

	if inst.Platform == "" {
		inst.Platform = schema.PlatformCloud
	}

	if inst.Source == "" {
		inst.Source = pctx.Source
	}

	if inst.LastUpdated.IsZero() {
		inst.LastUpdated = pctx.now()
	}

	// fall back to the legacy "locations" key when no regions were mapped
	if len(inst.Regions) == 0 {
		if locations, ok := raw["locations"].([]any); ok {
			for _, loc := range locations {
				if s, ok := loc.(string); ok {
					inst.Regions = append(inst.Regions, s)
				}
			}
		}
	}

	if err := applyPricing(&inst, raw, pctx); err != nil {
		return schema.CloudInstance{}, err
	}

	return inst, nil
}

// decode runs the raw map through the schema's JSON translation so the
// polymorphic shapes (networkOptions, regionalPricing) are canonicalized in
// one place.
func decode(raw schema.RawRecord, pctx ProviderContext) (schema.CloudInstance, error) {
	prepared := make(schema.RawRecord, len(raw))
	for k, v := range raw {
		prepared[k] = v
	}

	// timestamps written without a zone (legacy snapshots) are treated as UTC
	if ts := raw.String("lastUpdated"); ts != "" {
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			if parsed, err := time.Parse("2006-01-02T15:04:05", ts); err == nil {
				prepared["lastUpdated"] = parsed.UTC().Format(time.RFC3339)
			} else {
				delete(prepared, "lastUpdated")
			}
		}
	}

	// provider-specific metadata bags pass through under the canonical key
	metadataKey := fmt.Sprintf("%s_metadata", pctx.Provider)
	if bag, ok := prepared[metadataKey].(map[string]any); ok {
		prepared["metadata"] = bag
		delete(prepared, metadataKey)
	}

	encoded, err := json.Marshal(prepared)
	if err != nil {
		return schema.CloudInstance{}, errors.Wrap(err, "failed to encode raw record")
	}

	var inst schema.CloudInstance
	if err := json.Unmarshal(encoded, &inst); err != nil {
		return schema.CloudInstance{}, errors.Wrap(err, "failed to decode raw record")
	}

	return inst, nil
}

// applyPricing fills priceUSD_hourly/priceUSD_monthly and converts every
// nested price carrier (network options, regional pricing, price ranges) from
// the native currency. Records that already carry USD prices are left as-is.
func applyPricing(inst *schema.CloudInstance, raw schema.RawRecord, pctx ProviderContext) error {
	if inst.PriceUSDHourly > 0 || inst.PriceUSDMonthly > 0 {
		return nil
	}

	native := pctx.NativeCurrency
	if native == "" {
		native = currency.USD
	}

	hourlyKey := fmt.Sprintf("price%s_hourly_net", native)
	monthlyKey := fmt.Sprintf("price%s_monthly_net", native)

	nativeHourly, hasHourly := raw.Float(hourlyKey)
	nativeMonthly, hasMonthly := raw.Float(monthlyKey)

	if !hasHourly && !hasMonthly {
		return &MappingError{Provider: pctx.Provider, Field: hourlyKey, Reason: "no resolvable price"}
	}

	switch {
	case hasHourly && !hasMonthly:
		nativeMonthly = nativeHourly * HoursPerMonth
	case hasMonthly && !hasHourly:
		nativeHourly = nativeMonthly / HoursPerMonth
	}

	usdHourly, _ := currency.ToUSD(nativeHourly, native, pctx.Rates)
	usdMonthly, _ := currency.ToUSD(nativeMonthly, native, pctx.Rates)

	inst.PriceUSDHourly = currency.RoundHourly(usdHourly)
	inst.PriceUSDMonthly = currency.RoundMonthly(usdMonthly)

	if native != currency.USD {
		inst.OriginalPrice = &schema.OriginalPrice{
			Hourly:   nativeHourly,
			Monthly:  nativeMonthly,
			Currency: native,
		}
	}

	convertNested(inst, native, pctx.Rates)

	return nil
}

// convertNested rewrites network-option and regional prices into USD so every
// pricing dimension in the snapshot shares one currency. Savings stays in the
// source currency: it is reported as the provider's flat monthly discount.
func convertNested(inst *schema.CloudInstance, native string, rates currency.RateTable) {
	if native == currency.USD {
		return
	}

	if inst.NetworkOptions != nil {
		for name, opt := range inst.NetworkOptions.Options {
			if opt.Hourly != nil {
				v, _ := currency.ToUSD(*opt.Hourly, native, rates)
				v = currency.RoundHourly(v)
				opt.Hourly = &v
			}

			if opt.Monthly != nil {
				v, _ := currency.ToUSD(*opt.Monthly, native, rates)
				v = currency.RoundMonthly(v)
				opt.Monthly = &v
			}

			inst.NetworkOptions.Options[name] = opt
		}
	}

	for i, rp := range inst.RegionalPricing {
		rp.Hourly, _ = currency.ToUSD(rp.Hourly, native, rates)
		rp.Hourly = currency.RoundHourly(rp.Hourly)
		rp.Monthly, _ = currency.ToUSD(rp.Monthly, native, rates)
		rp.Monthly = currency.RoundMonthly(rp.Monthly)
		rp.TrafficPerTB, _ = currency.ToUSD(rp.TrafficPerTB, native, rates)
		rp.TrafficPerTB = currency.RoundMonthly(rp.TrafficPerTB)
		inst.RegionalPricing[i] = rp
	}

	// the primary-IP surcharge is stamped in the provider's native currency;
	// the engine adds it onto USD regional prices, so convert it here too
	if cost, ok := inst.Metadata["ipv4PrimaryIPCost"].(float64); ok {
		v, _ := currency.ToUSD(cost, native, rates)
		inst.Metadata["ipv4PrimaryIPCost"] = currency.RoundMonthly(v)
	}

	if inst.PriceRange != nil {
		inst.PriceRange.Hourly.Min, _ = currency.ToUSD(inst.PriceRange.Hourly.Min, native, rates)
		inst.PriceRange.Hourly.Min = currency.RoundHourly(inst.PriceRange.Hourly.Min)
		inst.PriceRange.Hourly.Max, _ = currency.ToUSD(inst.PriceRange.Hourly.Max, native, rates)
		inst.PriceRange.Hourly.Max = currency.RoundHourly(inst.PriceRange.Hourly.Max)
		inst.PriceRange.Monthly.Min, _ = currency.ToUSD(inst.PriceRange.Monthly.Min, native, rates)
		inst.PriceRange.Monthly.Min = currency.RoundMonthly(inst.PriceRange.Monthly.Min)
		inst.PriceRange.Monthly.Max, _ = currency.ToUSD(inst.PriceRange.Monthly.Max, native, rates)
		inst.PriceRange.Monthly.Max = currency.RoundMonthly(inst.PriceRange.Monthly.Max)
	}
}
