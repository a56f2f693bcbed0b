package notify

import "log"

const (
	SEVERITY_INFO    = "info"
	SEVERITY_SUCCESS = "success"
	SEVERITY_ERROR   = "error"
)

// Notifier receives human-readable messages for display to the user.
// Delivery is best-effort; implementations must not block the caller on
// transport failures.
type Notifier interface {
	Notify(title string, description string, severity string)
}

type LogNotifier struct{}

func (LogNotifier) Notify(title string, description string, severity string) {
	log.Printf("[notify] %s: %s (%s)\n", title, description, severity)
}
