package llm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ProviderError is a structured error reported by a completion backend.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("completion provider error (status %d)", e.Status)
}

// ErrorMessage maps a failure value to the caller-visible text, in fixed
// precedence: nil becomes "unknown error", a string is returned as-is, a
// provider error surfaces its message field, any other error its Error()
// text, and anything else a best-effort JSON serialization.
func ErrorMessage(v any) string {
	if v == nil {
		return "unknown error"
	}

	switch e := v.(type) {
	case string:
		return e
	case error:
		var providerErr *ProviderError
		if errors.As(e, &providerErr) && providerErr.Message != "" {
			return providerErr.Message
		}
		return e.Error()
	}

	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
