package logging

// Standardized attribute keys. Components attach FieldComponent once via
// NewComponentLogger; event-shaped log lines carry FieldEventType so they can
// be grepped out of mixed output.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldAttemptID = "attempt_id"
	FieldSessionID = "session_id"
	FieldErrorHint = "error_hint"
)
