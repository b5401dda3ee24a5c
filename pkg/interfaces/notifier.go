package interfaces

// Notifier surfaces transient, user-facing confirmations and errors (toasts).
// Implementations must be non-blocking; the funnel core fires and forgets.
type Notifier interface {
	Success(message string)
	Error(message string)
}
