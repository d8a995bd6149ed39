package countries

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Canonical returns the canonical form of a raw country string. Whitespace is
// collapsed and the string is NFC-normalized before lookup. A string that was
// decoded as Windows-1252 instead of UTF-8 is repaired when the direct lookup
// misses. Strings with no table entry are their own canonical form.
func (t *Tables) Canonical(raw string) string {
	key := clean(raw)
	if target, ok := t.aliases[key]; ok {
		return target
	}

	if repaired, ok := repairMojibake(key); ok {
		repaired = clean(repaired)
		if target, ok := t.aliases[repaired]; ok {
			return target
		}
		return repaired
	}

	return key
}

// Normalizer canonicalizes names and remembers which ones the tables did not
// recognize, so loaders can report them once per run.
type Normalizer struct {
	tables   *Tables
	unmapped map[string]struct{}
}

// NewNormalizer creates a Normalizer over t.
func NewNormalizer(t *Tables) *Normalizer {
	return &Normalizer{tables: t, unmapped: make(map[string]struct{})}
}

// Canonical resolves raw and records it when the result is unknown to the tables.
func (n *Normalizer) Canonical(raw string) string {
	c := n.tables.Canonical(raw)
	if c != "" && !n.tables.Known(c) {
		n.unmapped[c] = struct{}{}
	}
	return c
}

// Unmapped returns the canonical names that had no table entry, sorted.
func (n *Normalizer) Unmapped() []string {
	out := make([]string, 0, len(n.unmapped))
	for c := range n.unmapped {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

// repairMojibake undoes UTF-8 text that was read as Windows-1252, such as
// "CÃ´te d'Ivoire". It only reports ok when the round trip yields different,
// valid UTF-8.
func repairMojibake(s string) (string, bool) {
	if !strings.ContainsAny(s, "ÃÂ") {
		return "", false
	}

	b, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil || !utf8.Valid(b) {
		return "", false
	}

	repaired := string(b)
	if repaired == s {
		return "", false
	}
	return repaired, true
}
