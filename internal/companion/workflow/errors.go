package workflow

import (
	"context"
	"errors"
	"strings"
)

const (
	PermissionDeniedMessage = "Permission denied: Check if user has access to the workspace"
	TimeoutMessage          = "Request timeout: Image download took too long"
)

// FriendlyError rewrites storage permission failures and timeouts into text
// that can be shown to the user. Other errors keep their message.
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "violates row-level security"):
		return PermissionDeniedMessage
	case errors.Is(err, context.DeadlineExceeded), strings.Contains(strings.ToLower(msg), "timeout"):
		return TimeoutMessage
	default:
		return msg
	}
}
