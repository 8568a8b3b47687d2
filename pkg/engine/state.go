package engine

import "github.com/eSKylezZ/CloudPriceFinder/pkg/schema"

// FilterState is the complete filter/sort input. Every recompute starts from
// a full state, never from an incremental diff, so the output is consistent
// no matter how many inputs changed since the last application.
//
// Set-valued fields distinguish "no filter" (nil) from "explicit empty
// selection" ([]string{}): a nil set passes everything, an empty set passes
// nothing.
type FilterState struct {
	Providers      []string
	Regions        []string
	InstanceTypes  []string
	IPTypes        []string
	NetworkOptions []string

	MinVCPU   float64
	MaxVCPU   float64
	MinMemory float64
	MaxMemory float64
	MaxPrice  *float64

	// Currency is the display currency for this view. Filtering and price
	// resolution always work on the stored USD figures; the field feeds
	// Engine.FormatPrice only.
	Currency    string
	NetworkMode string
	Search      string

	SortField string
	SortDesc  bool
}

// Mode returns the active network-option mode, defaulting to the standard
// configuration.
func (s FilterState) Mode() string {
	if s.NetworkMode == "" {
		return schema.NetworkIPv4IPv6
	}

	return s.NetworkMode
}
