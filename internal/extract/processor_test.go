package extract

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type stubCompleter struct {
	reply string
	err   error
	seen  string
}

func (s *stubCompleter) ExtractTransaction(_ context.Context, emailText string) (string, error) {
	s.seen = emailText
	return s.reply, s.err
}

func TestProcessorProcessText(t *testing.T) {
	t.Run("parses the model reply", func(t *testing.T) {
		stub := &stubCompleter{reply: "Pagador: Maria Silva\nTotal Líquido: R$ 10,00"}
		p := NewProcessor(stub)

		fields, err := p.ProcessText(context.Background(), "email text")
		if err != nil {
			t.Fatalf("ProcessText: %v", err)
		}
		if stub.seen != "email text" {
			t.Errorf("model received %q", stub.seen)
		}
		if !reflect.DeepEqual(fields.Buyers, []string{"Maria Silva"}) {
			t.Errorf("Buyers = %q", fields.Buyers)
		}
		if !reflect.DeepEqual(fields.Amounts, []string{"10,00"}) {
			t.Errorf("Amounts = %q", fields.Amounts)
		}
	})

	t.Run("model failure propagates", func(t *testing.T) {
		stub := &stubCompleter{err: errors.New("rate limited")}
		p := NewProcessor(stub)

		_, err := p.ProcessText(context.Background(), "email text")
		if !errors.Is(err, ErrProcessingFailed) {
			t.Errorf("err = %v, want ErrProcessingFailed", err)
		}
	})

	t.Run("unparseable reply yields empty fields without error", func(t *testing.T) {
		stub := &stubCompleter{reply: "no transaction data here"}
		p := NewProcessor(stub)

		fields, err := p.ProcessText(context.Background(), "email text")
		if err != nil {
			t.Fatalf("ProcessText: %v", err)
		}
		if !fields.Empty() {
			t.Errorf("fields = %+v, want empty", fields)
		}
	})
}

func TestProcessorProcessHTML(t *testing.T) {
	stub := &stubCompleter{reply: "Banco Pagador: Nubank"}
	p := NewProcessor(stub)

	fields, err := p.ProcessHTML(context.Background(), "<p>Olá, <b>cliente</b></p>")
	if err != nil {
		t.Fatalf("ProcessHTML: %v", err)
	}
	if stub.seen != "Olá, cliente" {
		t.Errorf("model received %q, want rendered text", stub.seen)
	}
	if !reflect.DeepEqual(fields.Banks, []string{"Nubank"}) {
		t.Errorf("Banks = %q", fields.Banks)
	}
}
