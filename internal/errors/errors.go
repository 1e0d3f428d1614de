package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/dailyquest/internal/logger"
	"github.com/julianstephens/dailyquest/internal/storage"
)

const (
	ExitFailure        = 1
	ExitNotInitialized = 2
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, storage.ErrNotInitialized):
		return ExitNotInitialized
	default:
		return ExitFailure
	}
}

// Report logs err and writes the formatted message to w. It returns the exit code.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintf(w, "%s\n", Format(err))

	var werr *storage.WriteError
	if stderrors.As(err, &werr) {
		fmt.Fprintln(w, "       Changes are kept for this session but were not saved.")
	}
	return ExitCode(err)
}

// Fatal logs an error and exits the program
func Fatal(err error) {
	if err != nil {
		os.Exit(Report(os.Stderr, err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitFailure)
}
