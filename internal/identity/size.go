package identity

import "strings"

var sizeSynonyms = map[string]string{
	"XS":     "XS",
	"S":      "S",
	"SM":     "S",
	"SMALL":  "S",
	"M":      "M",
	"MEDIUM": "M",
	"L":      "L",
	"LARGE":  "L",
	"XL":     "XL",
	"XXL":    "XXL",
	"XXXL":   "XXXL",
}

const maxSizeCode = 4

// NormalizeSize maps a free-form size onto its SKU code. Unknown sizes keep
// their first four alphanumerics, so numeric sizes such as "32" pass through.
func NormalizeSize(size string) string {
	s := strings.ToUpper(strings.TrimSpace(size))
	if code, ok := sizeSynonyms[s]; ok {
		return code
	}
	if strings.Contains(s, "EXTRA") {
		switch {
		case strings.Contains(s, "SMALL"):
			return "XS"
		case strings.Contains(s, "LARGE"):
			return "XL"
		}
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == maxSizeCode {
				break
			}
		}
	}
	if b.Len() == 0 {
		return notAvailable
	}
	return b.String()
}
