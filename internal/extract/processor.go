package extract

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrProcessingFailed indicates email processing failed
	ErrProcessingFailed = errors.New("email processing failed")
)

// Completer is the language-model boundary: one email text in, one raw
// free-text reply out.
type Completer interface {
	ExtractTransaction(ctx context.Context, emailText string) (string, error)
}

// Processor runs the per-message extraction pipeline: model call over the
// plain email text, then field parsing of the reply.
type Processor struct {
	client Completer
}

// NewProcessor creates a new Processor instance
func NewProcessor(client Completer) *Processor {
	return &Processor{client: client}
}

// ProcessText sends one email's plain text to the model and parses the
// reply into field sequences. Model-call failures propagate; there is no
// retry and no partial result.
func (p *Processor) ProcessText(ctx context.Context, text string) (Fields, error) {
	reply, err := p.client.ExtractTransaction(ctx, text)
	if err != nil {
		return Fields{}, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	return ParseFields(reply), nil
}

// ProcessHTML renders an HTML body to text and runs ProcessText on it
func (p *Processor) ProcessHTML(ctx context.Context, html string) (Fields, error) {
	return p.ProcessText(ctx, HTMLToText(html))
}
