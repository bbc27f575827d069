package extract

import (
	"reflect"
	"testing"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		buyers  []string
		banks   []string
		amounts []string
	}{
		{
			name:    "full reply with short labels",
			reply:   "Pagador: Maria Silva\nBanco Pagador: Banco do Brasil\nTotal Líquido: R$ 1.234,56",
			buyers:  []string{"Maria Silva"},
			banks:   []string{"Banco do Brasil"},
			amounts: []string{"1.234,56"},
		},
		{
			name:    "long label variants",
			reply:   "Informação do pagador: José Álvaro Costa\nInformação sobre o banco: Nubank\nInformação do pagamento: R$ 10,00",
			buyers:  []string{"José Álvaro Costa"},
			banks:   []string{"Nubank"},
			amounts: []string{"10,00"},
		},
		{
			name:  "bank line only",
			reply: "Informação sobre o banco: Itaú Unibanco S.A.\n",
			banks: []string{"Itaú Unibanco S.A."},
		},
		{
			name:   "bank label with lowercase connective is not a payer",
			reply:  "Banco Pagador: Banco do Brasil\n",
			banks:  []string{"Banco do Brasil"},
			buyers: nil,
		},
		{
			name:  "empty reply",
			reply: "",
		},
		{
			name:    "amount on the line after the label",
			reply:   "Informação do pagamento:\nR$ 999,00",
			amounts: []string{"999,00"},
		},
		{
			name:    "thousands separators",
			reply:   "Total Líquido: R$ 123.456.789,01",
			amounts: []string{"123.456.789,01"},
		},
		{
			name:   "single-word payer is not a name",
			reply:  "Pagador: Maria\n",
			buyers: nil,
		},
		{
			name:    "multiple payments in one reply",
			reply:   "Pagador: Ana Lima\nTotal Líquido: R$ 50,00\nPagador: Bruno Rocha\nTotal Líquido: R$ 75,50",
			buyers:  []string{"Ana Lima", "Bruno Rocha"},
			amounts: []string{"50,00", "75,50"},
		},
		{
			name:    "amount without decimal part does not match",
			reply:   "Total Líquido: R$ 100",
			amounts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFields(tt.reply)
			if !reflect.DeepEqual(got.Buyers, tt.buyers) {
				t.Errorf("Buyers = %q, want %q", got.Buyers, tt.buyers)
			}
			if !reflect.DeepEqual(got.Banks, tt.banks) {
				t.Errorf("Banks = %q, want %q", got.Banks, tt.banks)
			}
			if !reflect.DeepEqual(got.Amounts, tt.amounts) {
				t.Errorf("Amounts = %q, want %q", got.Amounts, tt.amounts)
			}
		})
	}
}

func TestFieldsJoin(t *testing.T) {
	a := Fields{Buyers: []string{"Ana Lima"}, Amounts: []string{"50,00"}}
	b := Fields{Banks: []string{"Nubank"}, Amounts: []string{"75,50"}}

	joined := a.Join(b)

	if !reflect.DeepEqual(joined.Buyers, []string{"Ana Lima"}) {
		t.Errorf("Buyers = %q", joined.Buyers)
	}
	if !reflect.DeepEqual(joined.Banks, []string{"Nubank"}) {
		t.Errorf("Banks = %q", joined.Banks)
	}
	if !reflect.DeepEqual(joined.Amounts, []string{"50,00", "75,50"}) {
		t.Errorf("Amounts = %q", joined.Amounts)
	}
}
