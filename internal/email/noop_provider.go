package email

import "messenger_backend/internal/logger"

// NoopProvider logs instead of sending. Used when email is disabled in the
// configuration (local development, tests).
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(to, subject, _ string) error {
	logger.Info("email delivery disabled, dropping message", "to", to, "subject", subject)
	return nil
}

func (p *NoopProvider) SendActivation(to, token string) error {
	logger.Info("email delivery disabled, dropping activation", "to", to, "token", token)
	return nil
}
