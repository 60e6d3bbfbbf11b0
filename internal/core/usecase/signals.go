package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/core/taxonomy"
)

// minTokenLen keeps proper nouns and venue-name fragments while
// dropping connectives ("em", "de", "com").
const minTokenLen = 4

// reinforcementKeywords are high-value slang and common misspellings
// that the taxonomy synonym lists do not cover. Matching one adds the
// phrase to the term set and, when it alias-resolves to a non-umbrella
// category, to the wanted categories.
var reinforcementKeywords = []string{
	"piza",
	"pizaria",
	"xurrasco",
	"xurras",
	"sushe",
	"restorante",
	"barzin",
	"hamburge",
	"acai na tigela",
	"rodizio",
	"petiscar",
	"baladinha",
}

// ExtractSignals derives the keyword terms and wanted canonical
// categories implied by a query and an optional category hint. Both
// output sets are treated as sets downstream; membership, not order,
// is what matters.
func ExtractSignals(query, hintedCategory string) domain.SearchSignals {
	signals := domain.NewSearchSignals()
	q := taxonomy.Normalize(query)

	if hintedCategory != "" {
		if tag := taxonomy.MapAliasCategory(hintedCategory); tag != "" && !taxonomy.IsUmbrella(tag) {
			signals.WantedCategories[tag] = struct{}{}
		}
	}

	for _, tag := range taxonomy.Categories() {
		if !categoryMatchesQuery(q, tag) {
			continue
		}
		signals.WantedCategories[tag] = struct{}{}
		signals.Terms[tag] = struct{}{}
		for _, syn := range taxonomy.Synonyms(tag) {
			signals.Terms[syn] = struct{}{}
		}
	}

	for _, token := range taxonomy.Tokenize(q) {
		if utf8.RuneCountInString(token) >= minTokenLen {
			signals.Terms[token] = struct{}{}
		}
	}

	for _, keyword := range reinforcementKeywords {
		if !strings.Contains(q, keyword) {
			continue
		}
		signals.Terms[keyword] = struct{}{}
		if tag, ok := taxonomy.AliasTarget(keyword); ok && !taxonomy.IsUmbrella(tag) {
			signals.WantedCategories[tag] = struct{}{}
		}
	}

	return signals
}

// categoryMatchesQuery tests whether the normalized query implies a
// canonical category: by one of its synonyms, by the tag itself or by
// any alias resolving to it. Substring containment keeps the match
// tolerant of inflections ("pizzas", "mergulhando").
func categoryMatchesQuery(q, tag string) bool {
	if q == "" {
		return false
	}
	if strings.Contains(q, tag) {
		return true
	}
	for _, syn := range taxonomy.Synonyms(tag) {
		if strings.Contains(q, syn) {
			return true
		}
	}
	for _, alias := range taxonomy.AliasesFor(tag) {
		if strings.Contains(q, alias) {
			return true
		}
	}
	return false
}
