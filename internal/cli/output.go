package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vbonduro/kitchenflow/internal/reconcile"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the operation failed
	ExitCommandError = 2 // bad configuration or arguments
)

// ExitError carries the exit code a failed command should end the process with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // notices; keeps JSON on Writer parseable
}

// CLIResponse is the JSON envelope of every command's output.
type CLIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
	Notice string `json:"notice,omitempty"`
}

func newOutput(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
}

// Success writes data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	return f.emit(data, "", text)
}

func (f *OutputFormatter) emit(data any, notice string, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data, Notice: notice})
	}
	if notice != "" {
		fmt.Fprintln(f.ErrWriter, notice)
	}
	if text != nil {
		text(f.Writer)
	}
	return nil
}

// localOnlyNotice is shown when a write reached this device but a remote tier
// rejected it.
const localOnlyNotice = "saved on this device only; sync will retry on the next change"

// Written reports the outcome of a write. A write that was kept locally
// despite a remote failure is a success with a notice.
func (f *OutputFormatter) Written(data any, err error, text func(w io.Writer)) error {
	if err == nil {
		return f.Success(data, text)
	}
	var we *reconcile.WriteError
	if errors.As(err, &we) && we.LocalSaved {
		return f.emit(data, localOnlyNotice, text)
	}
	return err
}
