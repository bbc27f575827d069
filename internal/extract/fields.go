package extract

import (
	"regexp"
)

// Label patterns matched against the model's free-text reply. PagBank
// notification wording appears under two label variants per field, so each
// pattern carries both. Matching is independent per field: the three
// sequences can come out with different lengths.
var (
	// Payer name: capitalized words, accented letters included.
	buyerPattern = regexp.MustCompile(`(?:Informação do pagador|Pagador):[ \t]*(\p{Lu}[\p{L}]*(?:[ ]\p{Lu}[\p{L}]*)+)`)
	// Paying bank: remainder of the label's line, trimmed at assembly time.
	bankPattern = regexp.MustCompile(`(?:Banco Pagador|Informação sobre o banco):[ \t]*(.+)`)
	// Net amount in Brazilian format (1.234,56); the label and the value may
	// sit on separate lines. Only the numeric portion is captured.
	amountPattern = regexp.MustCompile(`(?:Total Líquido|Informação do pagamento):\s*R\$ ?(\d{1,3}(?:\.\d{3})*,\d{2})`)
)

// Fields holds the three independently matched value sequences pulled from
// one or more model replies, in the order the matches occur.
type Fields struct {
	Buyers  []string
	Banks   []string
	Amounts []string
}

// ParseFields extracts payer names, bank names and net amounts from a model
// reply. Pure function: identical input always yields identical sequences.
// A pattern with no match contributes an empty sequence; that is not an
// error, the gap is filled with a placeholder at assembly time.
func ParseFields(reply string) Fields {
	var f Fields

	for _, m := range buyerPattern.FindAllStringSubmatch(reply, -1) {
		f.Buyers = append(f.Buyers, m[1])
	}
	for _, m := range bankPattern.FindAllStringSubmatch(reply, -1) {
		f.Banks = append(f.Banks, m[1])
	}
	for _, m := range amountPattern.FindAllStringSubmatch(reply, -1) {
		f.Amounts = append(f.Amounts, m[1])
	}

	return f
}

// Join appends another parse result, preserving match order across replies
func (f Fields) Join(other Fields) Fields {
	return Fields{
		Buyers:  append(f.Buyers, other.Buyers...),
		Banks:   append(f.Banks, other.Banks...),
		Amounts: append(f.Amounts, other.Amounts...),
	}
}

// Empty reports whether no field matched at all
func (f Fields) Empty() bool {
	return len(f.Buyers) == 0 && len(f.Banks) == 0 && len(f.Amounts) == 0
}
