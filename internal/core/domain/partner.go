package domain

import "time"

// Partner is a local business recommended by the concierge: restaurants,
// boat tours, lodging and so on.
type Partner struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Categoria string    `json:"categoria"`
	Descricao string    `json:"descricao"`
	CidadeID  string    `json:"cidade_id,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartnerCandidate is a retrieved row inside one search computation.
// Rows coming from the vector and text indexes are normalized into this
// shape at the repository boundary; the same id appearing in both result
// sets is merged into a single candidate.
type PartnerCandidate struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Categoria string `json:"categoria"`
	Descricao string `json:"descricao"`
	CidadeID  string `json:"cidade_id,omitempty"`

	ScoreVector float64 `json:"score_vector"`
	ScoreText   float64 `json:"score_text"`
	ScoreFinal  float64 `json:"score_final"`
}
