package engine

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

const defaultSortField = "priceUSD_hourly"

var priceSortFields = map[string]bool{
	"priceUSD_hourly":  true,
	"priceUSD_monthly": true,
}

// sortInstances stably sorts the filtered view in place. Fields are addressed
// by their snapshot name, including dot paths into nested objects
// ("originalPrice.monthly"). Nulls sort last in both directions; numeric
// values compare numerically even against numeric strings; strings compare
// with locale-aware collation. Ties keep insertion order.
func sortInstances(instances []schema.CloudInstance, state FilterState) {
	field := state.SortField
	if field == "" {
		field = defaultSortField
	}

	// keys travel with their instances through the swaps
	type keyed struct {
		inst schema.CloudInstance
		key  any
	}

	items := make([]keyed, len(instances))
	for i := range instances {
		items[i] = keyed{inst: instances[i], key: sortKey(&instances[i], field, state)}
	}

	collator := collate.New(language.Und, collate.Loose)

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].key, items[j].key

		// nulls last regardless of direction
		if a == nil || b == nil {
			return a != nil && b == nil
		}

		cmp := compareValues(a, b, collator)
		if state.SortDesc {
			cmp = -cmp
		}

		return cmp < 0
	})

	for i := range items {
		instances[i] = items[i].inst
	}
}

// sortKey extracts the comparable value for one instance. Price-field sorts
// key on the resolved display price so unresolvable records drop to the
// bottom instead of sorting as zero.
func sortKey(inst *schema.CloudInstance, field string, state FilterState) any {
	if priceSortFields[field] {
		resolved, err := Resolve(inst, state)
		if err != nil {
			return nil
		}

		if field == "priceUSD_monthly" {
			return resolved.Monthly
		}

		return resolved.Hourly
	}

	encoded, err := json.Marshal(inst)
	if err != nil {
		return nil
	}

	var doc map[string]any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil
	}

	return lookupPath(doc, field)
}

// lookupPath walks a dot-separated path through nested JSON objects.
func lookupPath(doc map[string]any, path string) any {
	parts := strings.Split(path, ".")

	var current any = doc

	for _, part := range parts {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		current, ok = obj[part]
		if !ok {
			return nil
		}
	}

	return current
}

// compareValues orders two non-nil values: numerically when either side is a
// number (numeric strings are coerced), by collation for string pairs, and
// false-before-true for booleans.
func compareValues(a, b any, collator *collate.Collator) int {
	aNum, aIsNum := asNumber(a)
	bNum, bIsNum := asNumber(b)

	if aIsNum && bIsNum {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}

	aStr, aIsStr := a.(string)
	bStr, bIsStr := b.(string)

	if aIsStr && bIsStr {
		return collator.CompareString(aStr, bStr)
	}

	aBool, aIsBool := a.(bool)
	bBool, bIsBool := b.(bool)

	if aIsBool && bIsBool {
		switch {
		case aBool == bBool:
			return 0
		case !aBool:
			return -1
		default:
			return 1
		}
	}

	// incomparable kinds keep insertion order
	return 0
}

// asNumber coerces numbers and numeric strings so mixed-type fields compare
// numerically rather than lexicographically.
func asNumber(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()

		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)

		return f, err == nil
	}

	return 0, false
}
