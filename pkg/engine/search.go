package engine

import (
	"strings"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// matchesSearch is a case-insensitive substring match, OR'd across the
// instance's descriptive fields and every region/city/country/code token.
// The whole query is matched as one string; terms are not split.
func matchesSearch(inst *schema.CloudInstance, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	for _, token := range searchTokens(inst) {
		if strings.Contains(strings.ToLower(token), query) {
			return true
		}
	}

	return false
}

func searchTokens(inst *schema.CloudInstance) []string {
	tokens := []string{
		inst.InstanceType,
		string(inst.Provider),
		string(inst.Kind),
		inst.Description,
		inst.Architecture,
		inst.DiskType,
	}

	tokens = append(tokens, inst.Regions...)

	for _, detail := range inst.LocationDetails {
		tokens = append(tokens, detail.Code, detail.City, detail.Country, detail.Region)
	}

	return tokens
}
