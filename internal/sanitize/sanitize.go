// Package sanitize turns raw provider text into plain prose. Upstream
// titles and descriptions arrive with CDATA wrappers, HTML fragments,
// half-decoded entities and, from some publishers, words glued together
// where markup used to sit. Clean runs a fixed pipeline over them; the
// order of the steps matters because later steps assume earlier cleanup.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	// Tags become a single space so words on both sides of a tag boundary
	// do not concatenate.
	tagRe = regexp.MustCompile(`<[^>]*>`)

	decEntityRe = regexp.MustCompile(`&#([0-9]+);`)
	hexEntityRe = regexp.MustCompile(`&#[xX]([0-9A-Fa-f]+);`)

	multiSpaceRe   = regexp.MustCompile(`\s+`)
	doublePeriodRe = regexp.MustCompile(`\.\s*\.`)
)

// repairs are best-effort fixes for known concatenation artifacts seen in
// aggregated Brazilian headlines, e.g. a publisher name fused onto the next
// sentence ("UOLPresidente..." -> "UOL. Presidente..."). The publisher
// literals are data; extend the list as new sources misbehave. Applied
// before entity decoding because the first pattern matches raw &nbsp;.
var repairs = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`([A-Za-zÀ-ÿ0-9])&nbsp;&nbsp;([A-ZÀ-Ÿ])`), "$1. $2"},
	{regexp.MustCompile(`(Estadão|UOL|G1|Globo|Folha)([A-Z][a-z]{3,})`), "$1. $2"},
	{regexp.MustCompile(`(CNN|BBC)([A-Z][a-z]{3,})`), "$1 $2"},
	{regexp.MustCompile(`([a-z]+)([0-9]{3})([A-Z][a-z]{3,})`), "$1 $2. $3"},
	{regexp.MustCompile(`([0-9])(G1|UOL|CNN|BBC|Globo)`), "$1. $2"},
}

// entityReplacer covers the named entities that actually show up in feed
// text. Anything else is handled by the numeric forms or left alone.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&hellip;", "...",
	"&mdash;", "—",
	"&ndash;", "–",
	"&rsquo;", "'",
	"&lsquo;", "'",
	"&rdquo;", `"`,
	"&ldquo;", `"`,
)

// Clean sanitizes one text field. It never fails: malformed input degrades
// to best-effort output, and empty input maps to "".
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = cdataRe.ReplaceAllString(text, "$1")
	text = tagRe.ReplaceAllString(text, " ")

	for _, r := range repairs {
		text = r.re.ReplaceAllString(text, r.with)
	}

	text = entityReplacer.Replace(text)
	text = decEntityRe.ReplaceAllStringFunc(text, decodeDecEntity)
	text = hexEntityRe.ReplaceAllStringFunc(text, decodeHexEntity)

	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = doublePeriodRe.ReplaceAllString(text, ".")
	return strings.TrimSpace(text)
}

// decodeDecEntity decodes one "&#NNN;" match. Out-of-range references stay
// literal rather than becoming replacement runes.
func decodeDecEntity(m string) string {
	n, err := strconv.ParseInt(m[2:len(m)-1], 10, 32)
	if err != nil || n <= 0 || !utf8Valid(rune(n)) {
		return m
	}
	return string(rune(n))
}

func decodeHexEntity(m string) string {
	n, err := strconv.ParseInt(m[3:len(m)-1], 16, 32)
	if err != nil || n <= 0 || !utf8Valid(rune(n)) {
		return m
	}
	return string(rune(n))
}

func utf8Valid(r rune) bool {
	return r <= 0x10FFFF && (r < 0xD800 || r > 0xDFFF)
}
