package domain

import "sort"

// SearchFilter narrows candidate retrieval by city and/or category.
// Empty fields mean "no restriction".
type SearchFilter struct {
	CidadeID  string
	Categoria string
}

// SearchRequest is one hybrid search invocation. An empty query means
// "browse all"; validation of required fields is the caller's job.
type SearchRequest struct {
	Query     string
	CidadeID  string
	Categoria string
	Limit     int
	Debug     bool
}

// SearchResponse carries the ranked candidates and, when requested,
// the retrieval metadata.
type SearchResponse struct {
	Items []PartnerCandidate `json:"items"`
	Meta  *SearchMeta        `json:"meta,omitempty"`
}

// SearchSignals are the keyword terms and canonical categories derived
// from a query plus an optional category hint. Both sets may be empty;
// they are never nil.
type SearchSignals struct {
	Terms            map[string]struct{}
	WantedCategories map[string]struct{}
}

func NewSearchSignals() SearchSignals {
	return SearchSignals{
		Terms:            make(map[string]struct{}),
		WantedCategories: make(map[string]struct{}),
	}
}

// TermList returns the terms sorted, for deterministic debug output.
func (s SearchSignals) TermList() []string {
	return sortedKeys(s.Terms)
}

// CategoryList returns the wanted categories sorted, for deterministic
// debug output.
func (s SearchSignals) CategoryList() []string {
	return sortedKeys(s.WantedCategories)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// StageReport records one retrieval stage for observability. It never
// influences ranking.
type StageReport struct {
	Stage     string `json:"stage"`
	Attempted bool   `json:"attempted"`
	Count     int    `json:"count"`
	Error     string `json:"error,omitempty"`
}

// SearchMeta is the debug payload of one hybrid search call.
type SearchMeta struct {
	Terms            []string      `json:"terms"`
	WantedCategories []string      `json:"wanted_categories"`
	FiltroCategoria  string        `json:"filtro_categoria,omitempty"`
	FiltroCidade     string        `json:"filtro_cidade,omitempty"`
	UmbrellaHint     bool          `json:"umbrella_hint,omitempty"`
	Stages           []StageReport `json:"stages"`
	VectorCount      int           `json:"vector_count"`
	TextCount        int           `json:"text_count"`
	GatesApplied     []string      `json:"gates_applied,omitempty"`
}
