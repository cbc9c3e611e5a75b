package corpus

import "strings"

// Base origins for root-relative URL rewriting, keyed by lowercase source label.
var sourceOrigins = map[string]string{
	"startech": "https://www.startech.com.bd",
	"daraz":    "https://www.daraz.com.bd",
}

// NormalizeURL rewrites scheme-relative and root-relative URLs to absolute
// form. Scheme-relative links ("//example.com/x") get https; root-relative
// links ("/laptop/x") join the known base origin for the record's source.
// Anything else passes through unchanged.
func NormalizeURL(raw, source string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	if strings.HasPrefix(raw, "/") {
		if origin, ok := sourceOrigins[strings.ToLower(strings.TrimSpace(source))]; ok {
			return origin + raw
		}
		return raw
	}
	return raw
}
