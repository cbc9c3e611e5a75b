package corpus

import (
	"regexp"
	"strconv"
	"strings"
)

// PricePolicy selects how a price field containing several numeric groups
// collapses to one value. Scraped listings often concatenate a strike-through
// "was" price with the current price, so the choice matters.
type PricePolicy string

const (
	// PolicyFirstAboveThreshold picks the first extracted value greater
	// than the plausibility threshold. Default.
	PolicyFirstAboveThreshold PricePolicy = "first-above-threshold"

	// PolicyMinimum picks the minimum of all extracted values.
	PolicyMinimum PricePolicy = "minimum"
)

// DefaultMinPlausiblePrice filters out digit fragments like "5" from
// "5 star rated" that are not prices.
const DefaultMinPlausiblePrice = 100

// currencyTokens are replaced with a space, not removed. Removing them would
// merge adjacent numbers ("13,500৳15,000৳" must not become 1350015000).
var currencyTokens = []string{"৳", "Tk.", "Tk", "BDT", "tk.", "tk", "bdt"}

var numberGroupRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?`)

// ParsePrice extracts a single plausible price from free text.
// Returns 0 when nothing plausible is found; 0 always means "unknown".
func ParsePrice(text string, policy PricePolicy, minPlausible float64) float64 {
	if minPlausible <= 0 {
		minPlausible = DefaultMinPlausiblePrice
	}
	for _, tok := range currencyTokens {
		text = strings.ReplaceAll(text, tok, " ")
	}

	var values []float64
	for _, group := range numberGroupRe.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(group, ",", ""), 64)
		if err != nil || v < 0 {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return 0
	}

	switch policy {
	case PolicyMinimum:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	default:
		for _, v := range values {
			if v > minPlausible {
				return v
			}
		}
		return 0
	}
}
