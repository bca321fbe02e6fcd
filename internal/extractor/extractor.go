package extractor

import (
	"regexp"
	"sort"
	"strings"
)

// Extract pulls stock ticker symbols out of free-form social-media text.
// Four strategies run in order of confidence and their results are unioned:
//
//  1. Marked form ($AAPL) — always accepted, never denylist-filtered.
//  2. Contextual form (AAPL stock, NVDA earnings).
//  3. Action form (bought MSFT, selling AMZN).
//  4. Standalone uppercase tokens, gated on whether the surrounding text
//     reads as financial at all.
//
// The result is deduplicated and sorted. Extract is deterministic and pure.
func Extract(text string) []string {
	found := make(map[string]struct{})

	for _, m := range markedRe.FindAllStringSubmatch(text, -1) {
		// The sigil is unambiguous intent: no denylist check.
		found[m[1]] = struct{}{}
	}

	for _, m := range contextualRe.FindAllStringSubmatch(text, -1) {
		addUnlessDenylisted(found, m[1])
	}

	for _, m := range actionRe.FindAllStringSubmatch(text, -1) {
		addUnlessDenylisted(found, m[1])
	}

	extractStandalone(text, found)

	tickers := make([]string, 0, len(found))
	for t := range found {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

var (
	markedRe     = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	contextualRe = regexp.MustCompile(`\b([A-Z]{2,5})\s+(?i:stock|shares?|calls?|puts?|earnings|price|target|buy|sell|hold)\b`)
	actionRe     = regexp.MustCompile(`\b(?i:buying|selling|holding|bought|sold|trading)\s+([A-Z]{2,5})\b`)
	standaloneRe = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
	wordRe       = regexp.MustCompile(`[a-z0-9&]+`)
)

func addUnlessDenylisted(found map[string]struct{}, token string) {
	if _, bad := denylist[token]; bad {
		return
	}
	found[token] = struct{}{}
}

// extractStandalone accepts bare uppercase tokens. When the text carries
// financial context, any non-denylisted token of length >= 2 passes. Without
// context the bar is stricter: length >= 4 and absent from both the denylist
// and the supplemental common-word list.
func extractStandalone(text string, found map[string]struct{}) {
	hasContext := hasFinanceContext(text)

	for _, token := range standaloneRe.FindAllString(text, -1) {
		if _, bad := denylist[token]; bad {
			continue
		}
		if hasContext {
			found[token] = struct{}{}
			continue
		}
		if len(token) < 4 {
			continue
		}
		if _, common := supplementalWords[token]; common {
			continue
		}
		found[token] = struct{}{}
	}
}

// hasFinanceContext reports whether the text contains at least one word from
// the broader finance vocabulary (exchanges, trade verbs, instrument nouns,
// sector words).
func hasFinanceContext(text string) bool {
	for _, word := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, ok := contextVocab[word]; ok {
			return true
		}
	}
	return false
}
