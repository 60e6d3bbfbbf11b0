package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
)

func newIndexWithMock(t *testing.T) (*PartnerIndex, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &PartnerIndex{db: db}, mock, func() { _ = db.Close() }
}

func candidateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nome", "categoria", "descricao", "coalesce"})
}

func TestSearchVectorScansScore(t *testing.T) {
	idx, mock, done := newIndexWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, nome, categoria, descricao").
		WithArgs("[0.5,0.5]", "cabo-frio", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "categoria", "descricao", "coalesce", "score"}).
			AddRow("p1", "Barco Azul", "barco", "passeio de barco", "cabo-frio", 0.91))

	out, err := idx.SearchVector(context.Background(), []float32{0.5, 0.5}, domain.SearchFilter{CidadeID: "cabo-frio"}, 10)
	if err != nil {
		t.Fatalf("SearchVector() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	if out[0].ScoreVector != 0.91 || out[0].ScoreText != 0 {
		t.Fatalf("unexpected scores: %+v", out[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchTextScansSimilarity(t *testing.T) {
	idx, mock, done := newIndexWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, nome, categoria, descricao").
		WithArgs("pizza", "%pizza%", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "categoria", "descricao", "coalesce", "score"}).
			AddRow("p1", "Pizzaria do Porto", "pizzaria", "", "", 0.62))

	out, err := idx.SearchText(context.Background(), "pizza", domain.SearchFilter{}, 10)
	if err != nil {
		t.Fatalf("SearchText() error = %v", err)
	}
	if len(out) != 1 || out[0].ScoreText != 0.62 || out[0].ScoreVector != 0 {
		t.Fatalf("unexpected candidates: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestKeywordSearchAssignsFixedScore(t *testing.T) {
	idx, mock, done := newIndexWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, nome, categoria, descricao").
		WithArgs("cabo-frio", "%pizza%", "%boa%", 10).
		WillReturnRows(candidateRows().
			AddRow("p1", "Pizzaria do Porto", "pizzaria", "", "cabo-frio").
			AddRow("p2", "Cantina Boa", "restaurante", "pizza boa", "cabo-frio"))

	out, err := idx.KeywordSearch(context.Background(), domain.SearchFilter{CidadeID: "cabo-frio"}, "pizza boa", 10)
	if err != nil {
		t.Fatalf("KeywordSearch() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
	for _, c := range out {
		if c.ScoreText != legacyDefaultTextScore {
			t.Fatalf("candidate %s score = %v, want %v", c.ID, c.ScoreText, legacyDefaultTextScore)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubstringScanMatchesAccentFolded(t *testing.T) {
	idx, mock, done := newIndexWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, nome, categoria, descricao").
		WithArgs("buzios", tableScanMaxRows).
		WillReturnRows(candidateRows().
			AddRow("p1", "Pôr do Sol Búzios", "barco", "passeio ao entardecer", "buzios").
			AddRow("p2", "Trilha das Emerências", "trilha", "mata atlântica", "buzios"))

	out, err := idx.SubstringScan(context.Background(), "Búzios", domain.SearchFilter{CidadeID: "buzios"})
	if err != nil {
		t.Fatalf("SubstringScan() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "p1" {
		t.Fatalf("unexpected candidates: %+v", out)
	}
	if out[0].ScoreText != substringScanTextScore {
		t.Fatalf("score = %v, want %v", out[0].ScoreText, substringScanTextScore)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubstringScanEmptyTermReturnsNothing(t *testing.T) {
	idx, mock, done := newIndexWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, nome, categoria, descricao").
		WithArgs(tableScanMaxRows).
		WillReturnRows(candidateRows().
			AddRow("p1", "Pizzaria do Porto", "pizzaria", "", ""))

	out, err := idx.SubstringScan(context.Background(), "   ", domain.SearchFilter{})
	if err != nil {
		t.Fatalf("SubstringScan() error = %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no candidates, got %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
