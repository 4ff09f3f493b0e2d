// Package extract turns scraped markup into clean plain text.
//
// The corpus carries real-world HTML fragments: often malformed, full of
// entities, and wrapped in junk whitespace. Extraction must never fail on
// bad markup; the worst case for an unparsable fragment is "no usable
// text", which callers receive as a distinct signal rather than an empty
// string.
package extract

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

var (
	newlines  = strings.NewReplacer("\n", "", "\r", "")
	spaceRuns = regexp.MustCompile(" +")
)

// Text cleans a raw markup string into plain text.
//
// The second return value reports whether any usable text could be
// produced. It is false only when the input yields no parse tree at all
// (empty or whitespace-only markup); a fragment that parses but contains
// no text legitimately returns ("", true).
//
// With keepMarkup set, tags and attributes are preserved verbatim and only
// HTML entities are decoded. In that mode the result is always usable.
func Text(raw string, keepMarkup bool) (string, bool) {
	// Embedded line breaks are structurally irrelevant in the corpus and
	// must not leak into question keys or answer texts.
	raw = newlines.Replace(raw)

	if keepMarkup {
		return html.UnescapeString(raw), true
	}

	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", false
	}

	var parts []string
	for _, node := range doc.Nodes {
		collectText(node, &parts)
	}

	text := strings.Join(parts, " ")
	text = spaceRuns.ReplaceAllString(text, " ")

	// Round-trip through ASCII numeric character references so that no
	// upstream encoding step can have silently corrupted multi-byte
	// sequences. The final string is the decoded human-readable text.
	return html.UnescapeString(escapeNonASCII(text)), true
}

// collectText appends every text node under n in document order.
func collectText(n *xhtml.Node, parts *[]string) {
	if n.Type == xhtml.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// escapeNonASCII replaces every rune outside the ASCII range with its
// numeric character reference (e.g. "é" becomes "&#233;").
func escapeNonASCII(s string) string {
	ascii := true
	for _, r := range s {
		if r > 127 {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r > 127 {
			sb.WriteString("&#")
			sb.WriteString(strconv.Itoa(int(r)))
			sb.WriteByte(';')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
