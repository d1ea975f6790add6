package identity

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var fabricKeyRe = regexp.MustCompile(`(?i)fabric|material|work`)

// Detail is the minimal key/value view of a product detail row.
type Detail struct {
	Key       string
	ValueHTML string
}

// FabricFromDetails returns the plain-text value of the first detail whose
// key names the fabric, or "" when there is none.
func FabricFromDetails(details []Detail) string {
	for _, d := range details {
		if fabricKeyRe.MatchString(d.Key) {
			return StripHTML(d.ValueHTML)
		}
	}
	return ""
}

// StripHTML drops markup, decodes entities and collapses whitespace.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was collected.
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}
