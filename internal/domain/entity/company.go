package entity

import (
	"strings"
	"unicode"
)

// legalSuffixes are trailing company-form tokens ignored when comparing names.
// Tokens are matched after case folding and punctuation removal, so "AB",
// "ab", "A/S" and "Inc." all hit.
var legalSuffixes = map[string]struct{}{
	"ab":      {},
	"publ":    {},
	"as":      {},
	"asa":     {},
	"aps":     {},
	"oy":      {},
	"oyj":     {},
	"gmbh":    {},
	"bv":      {},
	"sa":      {},
	"ltd":     {},
	"limited": {},
	"inc":     {},
	"llc":     {},
	"plc":     {},
	"corp":    {},
}

// edgeTrimSet is trimmed from both ends of a display name.
const edgeTrimSet = " \t\"'“”‘’`.,:;!?-–—|"

// NormalizeCompanyName cleans an extracted name for display: surrounding
// whitespace, quotes and punctuation are removed, inner whitespace collapsed,
// and a trailing possessive dropped. Casing is preserved.
// A result without any letter or digit is returned as "".
func NormalizeCompanyName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, edgeTrimSet)

	for _, possessive := range []string{"'s", "’s", "'S", "’S"} {
		if strings.HasSuffix(name, possessive) {
			name = strings.TrimSuffix(name, possessive)
			name = strings.Trim(name, edgeTrimSet)
			break
		}
	}

	if !strings.ContainsFunc(name, isAlnum) {
		return ""
	}
	return name
}

// CompanyKey returns the comparison key for a company name: case-folded,
// punctuation stripped, whitespace collapsed, and trailing legal-form tokens
// removed. "Acme AB", "acme ab" and "ACME" share one key.
func CompanyKey(name string) string {
	name = strings.ToLower(NormalizeCompanyName(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case isAlnum(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '–', r == '_':
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	for len(tokens) > 1 {
		if _, ok := legalSuffixes[tokens[len(tokens)-1]]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
