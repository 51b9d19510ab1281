package store

import "fmt"

// Error adalah respons non-2xx dari remote store. Dipropagasi apa adanya
// ke orchestrator checkout dan alur CRUD admin.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote store: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote store: HTTP %d", e.StatusCode)
}
