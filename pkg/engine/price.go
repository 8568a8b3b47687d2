package engine

import (
	"github.com/pkg/errors"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/normalizer"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// ErrPriceUnresolvable marks a record with no usable price in any dimension.
// Such records fail every max-price filter and sort last under price sorts;
// they are never priced at zero.
var ErrPriceUnresolvable = errors.New("no resolvable price")

// Resolved is the display price of one instance under the current state.
type Resolved struct {
	Hourly  float64
	Monthly float64
}

// Resolve computes the display price in strict precedence order:
//
//  a. exactly one selected region with matching regional pricing: the
//     regional net price, plus the amortized primary-IP surcharge when the
//     standard network mode is active;
//  b. the keyed network option for the active mode, when priced;
//  c. the base USD price, else the net source-currency original price.
//
// Regional pricing overrides network-option pricing, which overrides the
// base price. Reversing this order produces wrong comparisons whenever both
// dimensions are active at once.
func Resolve(inst *schema.CloudInstance, state FilterState) (Resolved, error) {
	mode := state.Mode()

	if len(state.Regions) == 1 && len(inst.RegionalPricing) > 0 && len(inst.LocationDetails) > 0 {
		if detail, ok := matchingDetail(inst, state.Regions[0]); ok {
			if regional, ok := inst.RegionalPriceFor(detail.Code); ok {
				resolved := Resolved{Hourly: regional.Hourly, Monthly: regional.Monthly}

				if mode == schema.NetworkIPv4IPv6 {
					if surcharge := primaryIPSurcharge(inst); surcharge > 0 {
						resolved.Hourly += surcharge / normalizer.HoursPerMonth
						resolved.Monthly += surcharge
					}
				}

				return resolved, nil
			}
		}
	}

	if opt, ok := inst.NetworkOptions.Option(mode); ok && opt.Available {
		if opt.Hourly != nil || opt.Monthly != nil {
			return fromOption(opt), nil
		}
	}

	if inst.PriceUSDHourly > 0 || inst.PriceUSDMonthly > 0 {
		return Resolved{Hourly: inst.PriceUSDHourly, Monthly: inst.PriceUSDMonthly}, nil
	}

	if op := inst.OriginalPrice; op != nil && (op.Hourly > 0 || op.Monthly > 0) {
		return Resolved{Hourly: op.Hourly, Monthly: op.Monthly}, nil
	}

	return Resolved{}, ErrPriceUnresolvable
}

func fromOption(opt schema.NetworkOption) Resolved {
	var resolved Resolved

	switch {
	case opt.Hourly != nil && opt.Monthly != nil:
		resolved = Resolved{Hourly: *opt.Hourly, Monthly: *opt.Monthly}
	case opt.Hourly != nil:
		resolved = Resolved{Hourly: *opt.Hourly, Monthly: *opt.Hourly * normalizer.HoursPerMonth}
	default:
		resolved = Resolved{Hourly: *opt.Monthly / normalizer.HoursPerMonth, Monthly: *opt.Monthly}
	}

	return resolved
}

// primaryIPSurcharge reads the provider's flat monthly primary-IP cost from
// the metadata bag, when the provider reports one.
func primaryIPSurcharge(inst *schema.CloudInstance) float64 {
	if inst.Metadata == nil {
		return 0
	}

	if v, ok := inst.Metadata["ipv4PrimaryIPCost"].(float64); ok {
		return v
	}

	return 0
}
