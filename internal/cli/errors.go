package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/pocket/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage or rejected input.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError is a problem with what the user typed. Hint, when set, is
// printed under the message.
type UsageError struct {
	Msg  string
	Hint string
	Err  error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *UsageError) Unwrap() error { return e.Err }

func usagef(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var uerr *UsageError
	if errors.As(err, &uerr) {
		return ExitUsage
	}
	// cobra's own parse errors carry no type.
	if msg := err.Error(); strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") || strings.HasPrefix(msg, "invalid argument") {
		return ExitUsage
	}
	return ExitError
}

// Report prints err the way every command reports failures.
func Report(w io.Writer, err error) {
	ui.Fail(w, err.Error())
	var uerr *UsageError
	if errors.As(err, &uerr) && uerr.Hint != "" {
		ui.Hint(w, uerr.Hint)
	}
}

// exactArgs is cobra.ExactArgs with the usage line in the error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}
