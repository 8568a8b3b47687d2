// Package validator checks raw provider records against the canonical
// required-field and shape contract before they are normalized. Validation is
// pure: the caller decides whether to drop or log-and-skip rejected records.
package validator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// Result reports the outcome of validating one raw record.
type Result struct {
	Valid  bool
	Errors []string
}

// priceFieldNames returns the record's price-bearing field names: the
// canonical USD pair plus any native-currency net price (price<CUR>_hourly_net
// / price<CUR>_monthly_net). Native prices count as resolvable because USD
// conversion happens later, in the normalizer.
func priceFieldNames(raw schema.RawRecord) []string {
	fields := []string{"priceUSD_hourly", "priceUSD_monthly"}

	for key := range raw {
		if strings.HasPrefix(key, "price") &&
			(strings.HasSuffix(key, "_hourly_net") || strings.HasSuffix(key, "_monthly_net")) {
			fields = append(fields, key)
		}
	}

	return fields
}

// Validate checks one raw record. Unknown or extra fields are allowed and
// ignored here; they pass through the pipeline unchanged.
func Validate(raw schema.RawRecord) Result {
	var errs []string

	provider := schema.Provider(raw.String("provider"))
	if provider == "" {
		errs = append(errs, "missing required field: provider")
	} else if !provider.Known() {
		errs = append(errs, fmt.Sprintf("invalid provider: %s", provider))
	}

	kind := schema.InstanceKind(raw.String("type"))
	if kind == "" {
		errs = append(errs, "missing required field: type")
	} else if !kind.Known() {
		errs = append(errs, fmt.Sprintf("invalid type: %s", kind))
	}

	if strings.TrimSpace(raw.String("instanceType")) == "" {
		errs = append(errs, "instanceType cannot be empty")
	}

	if !hasResolvablePrice(raw) {
		errs = append(errs, "no resolvable price field")
	}

	errs = append(errs, checkNumericRanges(raw)...)

	if lastUpdated := raw.String("lastUpdated"); lastUpdated == "" {
		errs = append(errs, "missing required field: lastUpdated")
	} else if !parseableTimestamp(lastUpdated) {
		errs = append(errs, fmt.Sprintf("lastUpdated is not a timestamp: %s", lastUpdated))
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateDataset splits a record list into valid records and per-record
// error messages.
func ValidateDataset(records []schema.RawRecord) ([]schema.RawRecord, []string) {
	var (
		valid []schema.RawRecord
		errs  []string
	)

	for i, raw := range records {
		result := Validate(raw)
		if result.Valid {
			valid = append(valid, raw)
			continue
		}

		name := raw.String("instanceType")
		if name == "" {
			name = "unknown"
		}

		errs = append(errs, fmt.Sprintf("record %d (%s): %s", i, name, strings.Join(result.Errors, "; ")))
	}

	return valid, errs
}

func hasResolvablePrice(raw schema.RawRecord) bool {
	for _, field := range priceFieldNames(raw) {
		if v, ok := raw.Float(field); ok && !math.IsNaN(v) {
			return true
		}
	}

	return false
}

func checkNumericRanges(raw schema.RawRecord) []string {
	var errs []string

	// optional specs must be positive when present
	for _, field := range []string{"vCPU", "memoryGiB"} {
		if !raw.Has(field) || raw[field] == nil {
			continue
		}

		v, ok := raw.Float(field)
		if !ok || math.IsNaN(v) || v <= 0 {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", field, raw[field]))
		}
	}

	// prices must be non-negative when present
	for _, field := range priceFieldNames(raw) {
		if !raw.Has(field) || raw[field] == nil {
			continue
		}

		v, ok := raw.Float(field)
		if !ok || math.IsNaN(v) || v < 0 {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", field, raw[field]))
		}
	}

	return errs
}

func parseableTimestamp(value string) bool {
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}

	return false
}
