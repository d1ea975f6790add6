// Package identity derives the stable identifiers of the catalog: SKUs,
// barcodes, size codes and cart row keys. Every function here is pure and
// never fails; degenerate input degrades to "NA" segments.
package identity

import (
	"strings"
)

// DefaultPrefix leads every SKU unless a Deriver is configured otherwise.
const DefaultPrefix = "MUSTT"

const notAvailable = "NA"

// Deriver carries the brand prefix used for SKUs.
type Deriver struct {
	prefix string
}

// NewDeriver returns a Deriver for prefix, falling back to DefaultPrefix.
func NewDeriver(prefix string) Deriver {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Deriver{prefix: prefix}
}

// Prefix returns the configured brand prefix.
func (d Deriver) Prefix() string {
	if d.prefix == "" {
		return DefaultPrefix
	}
	return d.prefix
}

// SKU builds PREFIX-CATEGORY-FABRIC-STYLE-COLOR-SIZE.
func (d Deriver) SKU(category, fabric, style, color, size string) string {
	segments := []string{
		d.Prefix(),
		Abbreviate(category),
		Abbreviate(fabric),
		Initials(style),
		Initials(color),
		NormalizeSize(size),
	}
	out := segments[:0]
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "-")
}

// GenerateSKU derives a SKU with the default prefix.
func GenerateSKU(category, fabric, style, color, size string) string {
	return Deriver{}.SKU(category, fabric, style, color, size)
}

// GenerateBarcode returns the barcode for a SKU. Barcodes are the SKU string itself.
func GenerateBarcode(sku string) string {
	return sku
}

// Abbreviate shortens s: a single word keeps its first three characters,
// several words collapse to their initials.
func Abbreviate(s string) string {
	words := words(s)
	switch len(words) {
	case 0:
		return notAvailable
	case 1:
		w := words[0]
		if len(w) > 3 {
			w = w[:3]
		}
		return w
	default:
		return initials(words)
	}
}

// Initials returns the first character of every word of s.
func Initials(s string) string {
	words := words(s)
	if len(words) == 0 {
		return notAvailable
	}
	return initials(words)
}

func initials(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteByte(w[0])
	}
	return b.String()
}

// words uppercases s, drops everything outside [A-Z0-9 ] and splits on spaces.
func words(s string) []string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// SizeLabel is the human label of a size entry: "{title} {color} {size}".
func SizeLabel(title, color, size string) string {
	return strings.Join(strings.Fields(strings.Join([]string{title, color, size}, " ")), " ")
}
