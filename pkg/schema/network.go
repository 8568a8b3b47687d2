package schema

import (
	"encoding/json"
	"fmt"
)

// Network option names shared by filtering and price resolution.
const (
	NetworkIPv4IPv6 = "ipv4_ipv6"
	NetworkIPv6Only = "ipv6_only"
)

// NetworkOption describes one network configuration choice with its own pricing.
// Savings, when set, is the source-currency monthly discount against the
// standard option.
type NetworkOption struct {
	Available   bool     `json:"available"`
	Hourly      *float64 `json:"hourly,omitempty"`
	Monthly     *float64 `json:"monthly,omitempty"`
	Savings     *float64 `json:"savings,omitempty"`
	Description string   `json:"description,omitempty"`
}

// NetworkConfig is the canonical representation of an instance's network
// configuration choices. Snapshots have carried two shapes over time: a legacy
// bare string ("ipv4_ipv6" or "ipv6_only") and the current keyed-object shape.
// Both decode into the keyed map here; marshalling always emits the keyed
// shape. Legacy preserves the original string so provenance is not lost.
type NetworkConfig struct {
	Options map[string]NetworkOption
	Legacy  string
}

// Option returns the named option and whether it exists.
func (n *NetworkConfig) Option(name string) (NetworkOption, bool) {
	if n == nil || n.Options == nil {
		return NetworkOption{}, false
	}

	opt, ok := n.Options[name]

	return opt, ok
}

// HasAvailable reports whether any of the given option names exists and is
// marked available.
func (n *NetworkConfig) HasAvailable(names []string) bool {
	if n == nil {
		return false
	}

	for _, name := range names {
		if opt, ok := n.Option(name); ok && opt.Available {
			return true
		}
	}

	return false
}

// UnmarshalJSON is the single translation point between the legacy string
// shape and the keyed-object shape.
func (n *NetworkConfig) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		n.Legacy = legacy
		n.Options = map[string]NetworkOption{
			legacy: {Available: true},
		}

		return nil
	}

	var options map[string]NetworkOption
	if err := json.Unmarshal(data, &options); err != nil {
		return fmt.Errorf("networkOptions is neither a legacy string nor an option map: %w", err)
	}

	n.Options = options

	return nil
}

func (n NetworkConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Options)
}
