package taxonomy

import "testing"

func TestNormalizeStripsDiacriticsAndCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Pôr do Sol", "por do sol"},
		{"  AÇAÍ  ", "acai"},
		{"Churrascaria São João", "churrascaria sao joao"},
		{"", ""},
		{"   ", ""},
		{"ja normalizado", "ja normalizado"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokenizeSplitsOnNonAlphanumeric(t *testing.T) {
	got := Tokenize("barco-pirata, saida 9h!")
	want := []string{"barco", "pirata", "saida", "9h"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize() = %v, want %v", got, want)
		}
	}
}

func TestMapAliasCategoryResolvesKnownAliases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"pizza", "pizzaria"},
		{"PIZZA", "pizzaria"},
		{"sushi", "japonesa"},
		{"japonês", "japonesa"},
		{"churras", "churrascaria"},
		{"Passeio de Barco", "barco"},
	}

	for _, tc := range cases {
		if got := MapAliasCategory(tc.in); got != tc.want {
			t.Errorf("MapAliasCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMapAliasCategoryIsTotal(t *testing.T) {
	if got := MapAliasCategory("Categoria Desconhecida"); got != "categoria desconhecida" {
		t.Fatalf("unknown category should pass through normalized, got %q", got)
	}
	if got := MapAliasCategory(""); got != "" {
		t.Fatalf("empty input should yield empty string, got %q", got)
	}
	if got := MapAliasCategory("   "); got != "" {
		t.Fatalf("blank input should yield empty string, got %q", got)
	}
	if got := MapAliasCategory("!!@@##"); got == "" {
		t.Fatalf("garbage input should still return its normalized form")
	}
}

func TestMapAliasCategoryKeepsUmbrellaResolution(t *testing.T) {
	// Umbrella tags annotate metadata but must never be cleared here.
	got := MapAliasCategory("gastronomia")
	if got != "comida" {
		t.Fatalf("expected umbrella alias to resolve, got %q", got)
	}
	if !IsUmbrella(got) {
		t.Fatalf("expected %q to be flagged umbrella", got)
	}
}

func TestUmbrellaFlagging(t *testing.T) {
	for _, tag := range []string{"comida", "passeios", "turismo"} {
		if !IsUmbrella(tag) {
			t.Errorf("expected %q umbrella", tag)
		}
	}
	for _, tag := range []string{"pizzaria", "barco", "pousada"} {
		if IsUmbrella(tag) {
			t.Errorf("did not expect %q umbrella", tag)
		}
	}
}

func TestTaxonomyIsNormalized(t *testing.T) {
	for _, tag := range Categories() {
		if tag != Normalize(tag) {
			t.Errorf("tag %q is not stored normalized", tag)
		}
		for _, syn := range Synonyms(tag) {
			if syn != Normalize(syn) {
				t.Errorf("synonym %q of %q is not stored normalized", syn, tag)
			}
		}
	}
}

func TestAliasesForFindsReverseMappings(t *testing.T) {
	aliases := AliasesFor("barco")
	if len(aliases) == 0 {
		t.Fatalf("expected aliases for barco")
	}
	found := false
	for _, a := range aliases {
		if a == "escuna" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected escuna among barco aliases, got %v", aliases)
	}
}
