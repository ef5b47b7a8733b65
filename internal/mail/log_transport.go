package mail

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LogTransport is used when mail delivery is disabled: alerts are
// logged instead of sent, with a synthetic message id so the history
// pipeline still works.
type LogTransport struct{}

func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

func (t *LogTransport) Send(ctx context.Context, to, subject, html string) (*SendResult, error) {
	id := "dry-run-" + uuid.NewString()
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("message_id", id).
		Int("body_bytes", len(html)).
		Msg("mail disabled, alert not sent")

	return &SendResult{ProviderMessageID: id}, nil
}
