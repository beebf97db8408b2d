package rules

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"funding-digest/internal/domain/entity"
)

// maxNameTokens bounds the extracted name; longer capitalized runs are
// title-cased headlines, not company names.
const maxNameTokens = 5

// fundingVerbs end the subject of a funding headline ("Acme raises ...").
var fundingVerbs = map[string]struct{}{
	"raise": {}, "raises": {}, "raised": {}, "raising": {},
	"secure": {}, "secures": {}, "secured": {},
	"lands": {}, "bags": {}, "nabs": {}, "snags": {}, "gets": {}, "receives": {},
	"closes": {}, "closed": {}, "completes": {}, "attracts": {}, "announces": {},
	"takes": {}, "picks": {}, "wins": {},
	"tar": {}, "tog": {}, "reser": {}, "får": {}, "fick": {},
}

// fundingNouns end the subject when the headline has no verb
// ("Acme: SEK 50m in new funding").
var fundingNouns = map[string]struct{}{
	"funding": {}, "investment": {}, "round": {}, "series": {}, "seed": {},
	"pre-seed": {}, "financing": {}, "finansiering": {}, "investering": {},
}

// leadIns are descriptive words that precede the name in many headlines
// ("Stockholm fintech", "Swedish AI startup").
var leadIns = map[string]struct{}{
	"swedish": {}, "sweden": {}, "sweden's": {}, "sweden’s": {},
	"stockholm": {}, "gothenburg": {}, "göteborg": {}, "malmö": {}, "malmo": {},
	"uppsala": {}, "lund": {}, "nordic": {}, "scandinavian": {}, "european": {},
	"danish": {}, "norwegian": {}, "finnish": {},
	"fintech": {}, "healthtech": {}, "medtech": {}, "edtech": {}, "proptech": {},
	"insurtech": {}, "foodtech": {}, "cleantech": {}, "climatetech": {}, "deeptech": {},
	"legaltech": {}, "regtech": {}, "climate": {}, "ai": {}, "saas": {}, "b2b": {},
	"tech": {}, "startup": {}, "start-up": {}, "scaleup": {}, "scale-up": {},
	"unicorn": {}, "the": {}, "exclusive": {}, "breaking": {}, "report": {},
}

// leadInSuffixes mark compound descriptors such as "Stockholm-based".
var leadInSuffixes = []string{"-based", "-founded", "-backed", "-powered", "-focused", "-driven"}

// amountToken matches money tokens like "$10M", "€5m", "50", "2.5bn", "SEK".
var amountToken = regexp.MustCompile(`(?i)^[$€£]|^\d+([.,]\d+)?(k|m|mn|bn|b)?$|^(sek|msek|mkr|eur|usd|gbp|nok|dkk)$`)

// ExtractCompany returns the company named by a funding headline, or "" when
// no plausible name is found. It takes the subject of the headline (the text
// before the first funding verb or noun), keeps its last run of capitalized
// tokens, and drops descriptive lead-in words from the front of that run.
func ExtractCompany(headline string) string {
	tokens := strings.Fields(stripLabel(headline))

	end := -1
	for i, tok := range tokens {
		if _, ok := fundingVerbs[bareLower(tok)]; ok {
			end = i
			break
		}
	}
	if end < 0 {
		for i, tok := range tokens {
			if _, ok := fundingNouns[bareLower(tok)]; ok {
				end = i
				break
			}
		}
	}
	if end <= 0 {
		return ""
	}

	subject := tokens[:end]
	// "Acme, the Swedish startup, raises" and "Acme: SEK 50m in funding":
	// the name precedes the apposition.
	for i, tok := range subject {
		if (strings.HasSuffix(tok, ",") || strings.HasSuffix(tok, ":")) && lastNameRun(subject[:i+1]) != nil {
			subject = subject[:i+1]
			break
		}
	}

	run := lastNameRun(subject)
	for len(run) > 1 && isLeadIn(run[0]) {
		run = run[1:]
	}
	if len(run) == 0 || len(run) > maxNameTokens || (len(run) == 1 && isLeadIn(run[0])) {
		return ""
	}

	return entity.NormalizeCompanyName(strings.Join(run, " "))
}

// stripLabel removes a leading "Exclusive:"-style label.
func stripLabel(headline string) string {
	head, rest, found := strings.Cut(headline, ":")
	if !found || strings.Contains(strings.TrimSpace(head), " ") {
		return headline
	}
	if _, ok := leadIns[strings.ToLower(strings.TrimSpace(head))]; ok {
		return rest
	}
	return headline
}

// lastNameRun returns the last maximal run of capitalized tokens.
func lastNameRun(tokens []string) []string {
	end := -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if isNameToken(tokens[i]) {
			end = i
			break
		}
	}
	if end < 0 {
		return nil
	}
	start := end
	for start > 0 && isNameToken(tokens[start-1]) {
		start--
	}
	return tokens[start : end+1]
}

// isNameToken reports whether tok can be part of a company name: it carries
// an upper-case letter (so "iZettle" counts) and is not a money amount.
func isNameToken(tok string) bool {
	tok = strings.Trim(tok, `"'“”‘’(),:;`)
	if tok == "" || amountToken.MatchString(tok) {
		return false
	}
	return strings.ContainsFunc(tok, unicode.IsUpper)
}

func isLeadIn(tok string) bool {
	lowered := bareLower(tok)
	if _, ok := leadIns[lowered]; ok {
		return true
	}
	for _, suffix := range leadInSuffixes {
		if strings.HasSuffix(lowered, suffix) {
			return true
		}
	}
	return false
}

// bareLower case-folds tok and trims surrounding punctuation.
func bareLower(tok string) string {
	return strings.ToLower(strings.Trim(tok, `"'“”‘’(),.:;!?`))
}

// Extractor is the rule-based company extractor.
type Extractor struct{}

// NewExtractor returns the rule-based extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements pipeline.Extractor. It returns entity.ErrEmptyExtraction
// when the headline yields no name.
func (e *Extractor) Extract(_ context.Context, article entity.RawArticle) (string, error) {
	name := ExtractCompany(article.Headline)
	if name == "" {
		return "", entity.ErrEmptyExtraction
	}
	return name, nil
}
