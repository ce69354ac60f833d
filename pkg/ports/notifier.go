package ports

// NotifyLevel classifies a transient status notification.
type NotifyLevel string

const (
	NotifyInfo    NotifyLevel = "info"
	NotifySuccess NotifyLevel = "success"
	NotifyWarning NotifyLevel = "warning"
	NotifyError   NotifyLevel = "error"
)

// Notifier receives timed, self-clearing status messages describing sync and
// execution outcomes. Implementations must not block; notifications are a
// side channel, never an error path.
type Notifier interface {
	Notify(level NotifyLevel, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(NotifyLevel, string) {}
