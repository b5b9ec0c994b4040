// Package errors turns command failures into the message and exit status the
// user sees.
package errors

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/instance"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/utils"
)

// ExitInterrupted is the status used when the command was cancelled by a signal.
const ExitInterrupted = 130

var hints = []struct {
	target error
	hint   string
}{
	{utils.ErrInvalidDate, "dates are written as YYYY-MM-DD"},
	{gateway.ErrUnexpectedStatus, "check api_url with 'habitual doctor'"},
	{instance.ErrAlreadyRunning, "close the other habitual window first"},
}

// Format formats an error message with a consistent "Error: " prefix and, for
// known failures, a hint on a second line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "Error: interrupted"
	}
	msg := fmt.Sprintf("Error: %v", err)
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return msg + "\nHint: " + h.hint
		}
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode returns the process status for err.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return 1
	}
}

// Fatal logs err, prints it and exits with ExitCode(err). A nil err is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(ExitCode(err))
}

// Fatalf logs and formats an error message, then exits with status 1
func Fatalf(format string, args ...interface{}) {
	logger.Error("command failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
