package hetzner

import "strings"

// locationInfo is the detail attached to a location code in snapshots.
type locationInfo struct {
	City        string
	Country     string
	CountryCode string
	Region      string
}

// knownLocations enriches the API's location data with region names the API
// does not report.
var knownLocations = map[string]locationInfo{
	"ash":  {City: "Ashburn", Country: "United States", CountryCode: "US", Region: "Virginia"},
	"fsn1": {City: "Falkenstein", Country: "Germany", CountryCode: "DE", Region: "Saxony"},
	"hel1": {City: "Helsinki", Country: "Finland", CountryCode: "FI", Region: "Uusimaa"},
	"hil":  {City: "Hildesheim", Country: "Germany", CountryCode: "DE", Region: "Lower Saxony"},
	"nbg1": {City: "Nuremberg", Country: "Germany", CountryCode: "DE", Region: "Bavaria"},
	"sin":  {City: "Singapore", Country: "Singapore", CountryCode: "SG", Region: "Singapore"},
}

// locationMap builds the code -> detail mapping, preferring the curated
// entries and falling back to what the API reports.
func locationMap(locations []Location) map[string]locationInfo {
	out := make(map[string]locationInfo, len(locations))

	for _, loc := range locations {
		if info, ok := knownLocations[loc.Name]; ok {
			out[loc.Name] = info
			continue
		}

		countryCode := "XX"
		if len(loc.Country) >= 2 {
			countryCode = strings.ToUpper(loc.Country[:2])
		}

		city := loc.City
		if city == "" {
			city = loc.Name
		}

		region := loc.Description
		if region == "" {
			region = "Unknown"
		}

		out[loc.Name] = locationInfo{
			City:        city,
			Country:     loc.Country,
			CountryCode: countryCode,
			Region:      region,
		}
	}

	return out
}
