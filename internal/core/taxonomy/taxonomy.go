// Package taxonomy holds the static category vocabulary of the
// concierge: canonical category tags, their domain synonyms and the
// alias table that maps slang and alternate spellings back to canonical
// tags. Everything here is immutable after package init and safe for
// concurrent reads.
package taxonomy

import "sort"

// categorySynonyms maps each canonical category tag to the keywords
// that imply it inside a user query. Tags and keywords are stored in
// normalized form (lower case, no diacritics).
var categorySynonyms = map[string][]string{
	"pizzaria":         {"pizza", "pizzas", "rodizio de pizza", "forno a lenha", "mussarela", "calabresa"},
	"restaurante":      {"almoco", "jantar", "comer", "refeicao", "prato feito", "self service", "comida caseira"},
	"japonesa":         {"sushi", "sashimi", "temaki", "comida japonesa", "japones", "yakisoba", "hot roll"},
	"churrascaria":     {"churrasco", "picanha", "carne", "espeto", "costela", "rodizio de carne"},
	"hamburgueria":     {"hamburguer", "burger", "lanche", "x burguer", "artesanal", "batata frita"},
	"marisqueira":      {"frutos do mar", "peixe", "camarao", "marisco", "lula", "moqueca", "peixada"},
	"bar":              {"barzinho", "boteco", "chopp", "cerveja", "drinks", "caipirinha", "petiscos", "happy hour"},
	"cafeteria":        {"cafe", "cafezinho", "cappuccino", "brunch", "croissant"},
	"padaria":          {"pao", "paes", "confeitaria", "bolo", "salgados"},
	"sorveteria":       {"sorvete", "gelato", "picole", "milkshake"},
	"acai":             {"acai na tigela", "acaiteria", "tigela de acai"},
	"praia":            {"praias", "orla", "mar", "faixa de areia", "banho de mar", "guarda sol"},
	"barco":            {"passeio de barco", "lancha", "escuna", "veleiro", "barco pirata", "catamara", "marina"},
	"mergulho":         {"scuba", "cilindro", "snorkel", "batismo de mergulho", "mergulhar", "fundo do mar"},
	"trilha":           {"caminhada", "hiking", "mirante", "costao", "por do sol"},
	"quadriciclo":      {"buggy", "passeio de buggy", "dunas", "quadri"},
	"kitesurf":         {"kite", "windsurf", "aula de kitesurf", "prancha"},
	"pousada":          {"hospedagem", "estadia", "suite", "diaria", "cafe da manha incluso"},
	"hotel":            {"resort", "hotelaria", "apart hotel"},
	"hostel":           {"albergue", "cama em dormitorio", "mochileiro"},
	"transfer":         {"traslado", "transporte", "van", "transfer aeroporto"},
	"taxi":             {"corrida", "mototaxi"},
	"aluguel de carro": {"locadora", "rent a car", "aluguel de veiculo", "carro alugado"},
	"aluguel de bike":  {"bicicleta", "bike", "patinete", "aluguel de bicicleta"},
	"farmacia":         {"remedio", "drogaria", "medicamento"},
	"mercado":          {"supermercado", "mercearia", "hortifruti", "conveniencia"},
	"artesanato":       {"souvenir", "lembrancinha", "feirinha", "loja de artesanato"},
	"balada":           {"vida noturna", "festa", "boate", "musica ao vivo", "forro"},
	"spa":              {"massagem", "dia de spa", "estetica"},

	// Umbrella entries still carry synonyms so broad queries light up
	// signal extraction, but they are never usable as a hard filter.
	"comida":   {"gastronomia", "onde comer", "restaurantes", "fome"},
	"passeios": {"o que fazer", "atividades", "atracoes", "roteiro", "city tour", "excursao"},
	"turismo":  {"pontos turisticos", "turistico", "turistar"},
	"lazer":    {"diversao", "entretenimento"},
	"compras":  {"loja", "lojas", "shopping", "comprar"},
	"servicos": {"servico", "utilidades"},
}

// umbrellaCategories are over-broad tags that would match half the
// partner table if applied as a hard category filter.
var umbrellaCategories = map[string]struct{}{
	"comida":   {},
	"passeios": {},
	"turismo":  {},
	"lazer":    {},
	"compras":  {},
	"servicos": {},
}

var categoryTags []string

func init() {
	categoryTags = make([]string, 0, len(categorySynonyms))
	for tag := range categorySynonyms {
		categoryTags = append(categoryTags, tag)
	}
	sort.Strings(categoryTags)
}

// Categories returns every canonical tag in sorted order.
func Categories() []string {
	out := make([]string, len(categoryTags))
	copy(out, categoryTags)
	return out
}

// Synonyms returns the keyword list of a canonical tag, nil when the
// tag is unknown. The returned slice must not be mutated.
func Synonyms(tag string) []string {
	return categorySynonyms[tag]
}

// IsUmbrella reports whether the normalized tag is too broad to serve
// as a hard category filter.
func IsUmbrella(tag string) bool {
	_, ok := umbrellaCategories[Normalize(tag)]
	return ok
}
