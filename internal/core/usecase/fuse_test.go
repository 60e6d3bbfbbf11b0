package usecase

import (
	"math"
	"testing"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMergeByIdentityKeepsMaxTextScore(t *testing.T) {
	vector := []domain.PartnerCandidate{
		{ID: "p1", Nome: "Cantina da Praia", ScoreVector: 0.8},
	}
	text := []domain.PartnerCandidate{
		{ID: "p1", Nome: "Cantina da Praia", ScoreText: 0.6},
		{ID: "p1", Nome: "Cantina da Praia", ScoreText: 0.4},
	}

	merged := mergeByIdentity(vector, text)
	if len(merged) != 1 {
		t.Fatalf("expected exactly one merged candidate, got %d", len(merged))
	}
	if merged[0].ScoreVector != 0.8 {
		t.Fatalf("expected vector score kept, got %v", merged[0].ScoreVector)
	}
	if merged[0].ScoreText != 0.6 {
		t.Fatalf("expected max text score 0.6, got %v", merged[0].ScoreText)
	}
}

func TestMergeByIdentityDropsRowsWithoutID(t *testing.T) {
	text := []domain.PartnerCandidate{{Nome: "sem id", ScoreText: 0.5}}
	if merged := mergeByIdentity(nil, text); len(merged) != 0 {
		t.Fatalf("expected rows without id dropped, got %d", len(merged))
	}
}

func TestMergeByIdentityPreservesInsertionOrder(t *testing.T) {
	vector := []domain.PartnerCandidate{
		{ID: "v1", ScoreVector: 0.9},
		{ID: "v2", ScoreVector: 0.7},
	}
	text := []domain.PartnerCandidate{
		{ID: "t1", ScoreText: 0.5},
	}

	merged := mergeByIdentity(vector, text)
	want := []string{"v1", "v2", "t1"}
	for i, id := range want {
		if merged[i].ID != id {
			t.Fatalf("expected insertion order %v, got position %d = %s", want, i, merged[i].ID)
		}
	}
}

func TestScoreCandidatesWeightedSum(t *testing.T) {
	candidates := []domain.PartnerCandidate{
		{ID: "p1", ScoreVector: 1.0},
	}
	scoreCandidates(candidates, "", "", "")
	if candidates[0].ScoreFinal != 0.85 {
		t.Fatalf("expected score_final == 0.85 for pure vector hit, got %v", candidates[0].ScoreFinal)
	}
}

func TestScoreCandidatesCityAndCategoryBonuses(t *testing.T) {
	candidates := []domain.PartnerCandidate{
		{ID: "p1", Categoria: "Pousada", CidadeID: "cf", ScoreVector: 0.5, ScoreText: 0.5},
	}
	scoreCandidates(candidates, "", "cf", "pousada")
	want := 0.85*0.5 + 0.15*0.5 + 0.10 + 0.10
	if !approxEqual(candidates[0].ScoreFinal, want) {
		t.Fatalf("expected %v, got %v", want, candidates[0].ScoreFinal)
	}
}

func TestScoreCandidatesPizzaBonuses(t *testing.T) {
	candidates := []domain.PartnerCandidate{
		{ID: "p1", Nome: "Forno Lagos", Categoria: "pizzaria", Descricao: "pizza de forno a lenha", ScoreVector: 0.4},
		{ID: "p2", Nome: "Aluguel Fácil", Categoria: "aluguel de carro", Descricao: "carros populares", ScoreVector: 0.4},
	}
	scoreCandidates(candidates, "melhor pizza da cidade", "", "")

	wantPizzeria := 0.85*0.4 + 0.25 + 0.20
	if !approxEqual(candidates[0].ScoreFinal, wantPizzeria) {
		t.Fatalf("pizzeria: expected %v, got %v", wantPizzeria, candidates[0].ScoreFinal)
	}
	wantOther := 0.85 * 0.4
	if !approxEqual(candidates[1].ScoreFinal, wantOther) {
		t.Fatalf("car rental: expected %v, got %v", wantOther, candidates[1].ScoreFinal)
	}
}

func TestScoreCandidatesSushiAndMeatBonuses(t *testing.T) {
	sushi := []domain.PartnerCandidate{
		{ID: "s1", Nome: "Temaki do Porto", Categoria: "japonesa", Descricao: "sushi fresco"},
	}
	scoreCandidates(sushi, "onde tem sushi", "", "")
	if !approxEqual(sushi[0].ScoreFinal, 0.25+0.20) {
		t.Fatalf("sushi: expected %v, got %v", 0.25+0.20, sushi[0].ScoreFinal)
	}

	meat := []domain.PartnerCandidate{
		{ID: "m1", Nome: "Espeto de Ouro", Categoria: "churrascaria", Descricao: "picanha na brasa"},
	}
	scoreCandidates(meat, "picanha", "", "")
	if !approxEqual(meat[0].ScoreFinal, 0.20+0.15) {
		t.Fatalf("meat: expected %v, got %v", 0.20+0.15, meat[0].ScoreFinal)
	}
}

func TestOrderRawTextRowsTieBreaksByName(t *testing.T) {
	rows := []domain.PartnerCandidate{
		{Nome: "Bravo", ScoreText: 0.4},
		{Nome: "alfa", ScoreText: 0.4},
		{Nome: "Zulu", ScoreText: 0.9},
	}
	ordered := orderRawTextRows(rows)
	if ordered[0].Nome != "Zulu" || ordered[1].Nome != "alfa" || ordered[2].Nome != "Bravo" {
		t.Fatalf("unexpected order: %v %v %v", ordered[0].Nome, ordered[1].Nome, ordered[2].Nome)
	}
}

func TestComputeAffinityCategoryAndTerms(t *testing.T) {
	signals := domain.NewSearchSignals()
	signals.WantedCategories["pizzaria"] = struct{}{}
	signals.Terms["pizza"] = struct{}{}
	signals.Terms["lenha"] = struct{}{}
	signals.Terms["sushi"] = struct{}{}

	candidate := domain.PartnerCandidate{
		Nome:      "Pizzaria do Canal",
		Categoria: "Pizzaria",
		Descricao: "pizza no forno a lenha",
	}

	bonus, hits := computeAffinity(candidate, signals)
	if hits != 2 {
		t.Fatalf("expected 2 term hits, got %d", hits)
	}
	want := 0.20 + 2*0.06
	if !approxEqual(bonus, want) {
		t.Fatalf("expected bonus %v, got %v", want, bonus)
	}
}

func TestComputeAffinityTermBonusIsCapped(t *testing.T) {
	signals := domain.NewSearchSignals()
	for _, term := range []string{"praia", "mar", "sol", "areia", "onda", "costa", "vista"} {
		signals.Terms[term] = struct{}{}
	}
	candidate := domain.PartnerCandidate{
		Nome:      "Quiosque Vista Mar",
		Descricao: "praia, mar, sol, areia, onda e costa com vista",
	}
	bonus, hits := computeAffinity(candidate, signals)
	if hits != 7 {
		t.Fatalf("expected 7 hits, got %d", hits)
	}
	if !approxEqual(bonus, 0.30) {
		t.Fatalf("expected capped bonus 0.30, got %v", bonus)
	}
}
