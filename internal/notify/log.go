package notify

import "log/slog"

// LogSender records messages instead of delivering them. Used when no mail
// provider is configured, so development setups still see what would go out.
type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	slog.Info("mail suppressed (no provider configured)", "to", to, "subject", subject)
	return nil
}
