package taxonomy

// categoryAliases maps alternate spellings, slang and common typos to
// canonical tags. Keys are stored normalized.
var categoryAliases = map[string]string{
	"pizza":            "pizzaria",
	"pizzas":           "pizzaria",
	"piza":             "pizzaria",
	"pizaria":          "pizzaria",
	"sushi":            "japonesa",
	"sushe":            "japonesa",
	"japones":          "japonesa",
	"comida japonesa":  "japonesa",
	"temakeria":        "japonesa",
	"churrasco":        "churrascaria",
	"churras":          "churrascaria",
	"xurrasco":         "churrascaria",
	"xurras":           "churrascaria",
	"picanha":          "churrascaria",
	"carne":            "churrascaria",
	"burger":           "hamburgueria",
	"hamburguer":       "hamburgueria",
	"hamburge":         "hamburgueria",
	"lanches":          "hamburgueria",
	"boteco":           "bar",
	"barzinho":         "bar",
	"barzin":           "bar",
	"pub":              "bar",
	"cervejaria":       "bar",
	"cafe":             "cafeteria",
	"coffee shop":      "cafeteria",
	"restorante":       "restaurante",
	"frutos do mar":    "marisqueira",
	"peixaria":         "marisqueira",
	"camarao":          "marisqueira",
	"praias":           "praia",
	"passeio de barco": "barco",
	"lancha":           "barco",
	"escuna":           "barco",
	"veleiro":          "barco",
	"barco pirata":     "barco",
	"mergulhar":        "mergulho",
	"scuba":            "mergulho",
	"snorkel":          "mergulho",
	"trilhas":          "trilha",
	"caminhada":        "trilha",
	"hiking":           "trilha",
	"buggy":            "quadriciclo",
	"passeio de buggy": "quadriciclo",
	"dunas":            "quadriciclo",
	"kite":             "kitesurf",
	"windsurf":         "kitesurf",
	"hospedagem":       "pousada",
	"pousadas":         "pousada",
	"onde ficar":       "pousada",
	"resort":           "hotel",
	"hoteis":           "hotel",
	"albergue":         "hostel",
	"traslado":         "transfer",
	"transporte":       "transfer",
	"van":              "transfer",
	"rent a car":       "aluguel de carro",
	"locadora":         "aluguel de carro",
	"aluguel de veiculo": "aluguel de carro",
	"bike":             "aluguel de bike",
	"bicicleta":        "aluguel de bike",
	"drogaria":         "farmacia",
	"remedio":          "farmacia",
	"supermercado":     "mercado",
	"mercearia":        "mercado",
	"souvenir":         "artesanato",
	"lembrancinha":     "artesanato",
	"feirinha":         "artesanato",
	"festa":            "balada",
	"boate":            "balada",
	"vida noturna":     "balada",
	"balada":           "balada",
	"massagem":         "spa",
	"sorvete":          "sorveteria",
	"acaiteria":        "acai",

	// Aliases resolving to umbrella tags: useful for signal extraction,
	// never for hard filtering.
	"gastronomia": "comida",
	"onde comer":  "comida",
	"o que fazer": "passeios",
	"atividades":  "passeios",
	"tour":        "passeios",
}

// AliasTarget looks up the normalized input in the alias table.
func AliasTarget(s string) (string, bool) {
	tag, ok := categoryAliases[Normalize(s)]
	return tag, ok
}

// AliasesFor returns every alias key whose canonical target is tag.
func AliasesFor(tag string) []string {
	var out []string
	for alias, target := range categoryAliases {
		if target == tag {
			out = append(out, alias)
		}
	}
	return out
}

// MapAliasCategory resolves a free-text category to its canonical tag.
// Unknown categories pass through as their own normalized form rather
// than erroring, so the function is total over any input. Empty input
// yields the empty string.
//
// Umbrella detection is the caller's concern: a resolved category is
// returned even when it is an umbrella tag, because clearing an
// already-specific alias-resolved filter here caused over-broad results
// in the past.
func MapAliasCategory(raw string) string {
	normalized := Normalize(raw)
	if normalized == "" {
		return ""
	}
	if tag, ok := categoryAliases[normalized]; ok {
		return tag
	}
	return normalized
}
