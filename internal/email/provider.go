package email

// Provider sends transactional mail. Implementations must be safe for
// concurrent use.
type Provider interface {
	Send(to, subject, htmlBody string) error
	SendActivation(to, token string) error
}
