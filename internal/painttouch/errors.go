package painttouch

import "fmt"

// ValidationError reports bad input to a mutating call. The call made no
// change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to a record or game that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ConnectionError reports that the external database could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SyncError reports a failure part way through a sync. Written rows were
// committed before the failure.
type SyncError struct {
	Written int
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed after %d rows: %v", e.Written, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// ConfigurationError reports missing configuration required by a feature.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return e.Key + " is not set"
}
