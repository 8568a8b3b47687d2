package schema

import "time"

// PriceBounds is the min/max hourly USD price across a snapshot.
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ProviderFile points at one per-provider snapshot split.
type ProviderFile struct {
	File        string    `json:"file"`
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Summary is the snapshot-level statistics file written next to the combined
// instance list.
type Summary struct {
	TotalInstances int                     `json:"totalInstances"`
	ProvidersCount int                     `json:"providersCount"`
	LastUpdated    time.Time               `json:"lastUpdated"`
	PriceRange     PriceBounds             `json:"priceRange"`
	ByProvider     map[string]int          `json:"byProvider"`
	ByType         map[string]int          `json:"byType"`
	Errors         map[string]string       `json:"errors,omitempty"`
	ProviderFiles  map[string]ProviderFile `json:"providerFiles,omitempty"`
}
