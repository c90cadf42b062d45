package planning

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// LegacyGroups holds the raw ingredient lines of a legacy recipe. General lines are
// shared by everyone; the other three apply to a single age band. Each line reads
// "<quantity> <unit>  <ingredient key>" with two spaces before the key.
type LegacyGroups struct {
	General []string
	Child   []string
	Teen    []string
	Adult   []string
}

// NormalizedIngredient is a legacy recipe line expressed as one base quantity plus
// per-band multipliers.
type NormalizedIngredient struct {
	Key             string
	Unit            string
	BaseQuantity    float64
	ChildMultiplier float64
	TeenMultiplier  float64
	AdultMultiplier float64
}

type legacyTotals struct {
	general, child, teen, adult float64
	unit                        string
}

// ParseIngredientLine splits a legacy line into quantity, unit and ingredient key.
// ok is false for lines that do not follow the format and for negative, NaN or
// infinite quantities.
func ParseIngredientLine(line string) (quantity float64, unit, key string, ok bool) {
	qtyUnit, rest, found := strings.Cut(line, "  ")
	if !found {
		return 0, "", "", false
	}
	qtyText, unitText, found := strings.Cut(qtyUnit, " ")
	if !found {
		return 0, "", "", false
	}
	quantity, err := strconv.ParseFloat(strings.TrimSpace(qtyText), 64)
	if err != nil || quantity < 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0, "", "", false
	}
	return quantity, strings.TrimSpace(unitText), strings.TrimSpace(rest), true
}

// ParsePorci reads the reference serving count of a legacy recipe. Unparsable values and
// anything below one become one.
func ParsePorci(value string) float64 {
	porci, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(porci) || porci < 1 {
		return 1
	}
	return porci
}

// NormalizeQuantities turns the summed per-group quantities of one ingredient into a base
// quantity and three multipliers. The general quantity is added to every band. The first
// band with a positive per-person amount, in adult, child, teen order, becomes the
// reference with multiplier 1. ok is false when every band is zero.
func NormalizeQuantities(general, child, teen, adult, porci float64) (base, childMult, teenMult, adultMult float64, ok bool) {
	if porci < 1 {
		porci = 1
	}

	adultPer := adult/porci + general/porci
	childPer := child/porci + general/porci
	teenPer := teen/porci + general/porci

	switch {
	case adultPer > 0:
		return adultPer, childPer / adultPer, teenPer / adultPer, 1.0, true
	case childPer > 0:
		return childPer, 1.0, teenPer / childPer, 0.0, true
	case teenPer > 0:
		return teenPer, 0.0, 1.0, 0.0, true
	default:
		return 0, 0, 0, 0, false
	}
}

// NormalizeLegacyRecipe sums the lines of every group per ingredient key and normalizes
// each key. The unit of a key is the one on its first parsed line. Unparsable lines and
// keys with no quantity in any band are dropped. Output is sorted by key.
func NormalizeLegacyRecipe(groups LegacyGroups, porci float64) []NormalizedIngredient {
	entries := make(map[string]*legacyTotals)

	add := func(lines []string, apply func(*legacyTotals, float64)) {
		for _, line := range lines {
			qty, unit, key, ok := ParseIngredientLine(line)
			if !ok {
				continue
			}
			entry, exists := entries[key]
			if !exists {
				entry = &legacyTotals{unit: unit}
				entries[key] = entry
			}
			apply(entry, qty)
		}
	}

	add(groups.General, func(e *legacyTotals, q float64) { e.general += q })
	add(groups.Child, func(e *legacyTotals, q float64) { e.child += q })
	add(groups.Teen, func(e *legacyTotals, q float64) { e.teen += q })
	add(groups.Adult, func(e *legacyTotals, q float64) { e.adult += q })

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	normalized := make([]NormalizedIngredient, 0, len(keys))
	for _, key := range keys {
		entry := entries[key]
		base, childMult, teenMult, adultMult, ok := NormalizeQuantities(entry.general, entry.child, entry.teen, entry.adult, porci)
		if !ok {
			continue
		}
		normalized = append(normalized, NormalizedIngredient{
			Key:             key,
			Unit:            entry.unit,
			BaseQuantity:    base,
			ChildMultiplier: childMult,
			TeenMultiplier:  teenMult,
			AdultMultiplier: adultMult,
		})
	}
	return normalized
}
