package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/turnstile/internal/game"
	"github.com/roach88/turnstile/internal/rules"
)

// ValidationError is one rejected rules file.
type ValidationError struct {
	File    string `json:"file"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidatedRules is one accepted rules file.
type ValidatedRules struct {
	File  string `json:"file"`
	Name  string `json:"name"`
	Seed  string `json:"seed"`
	Draws int    `json:"draws"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Rules  []ValidatedRules  `json:"rules,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rules.cue>...",
		Short: "Check rules files without playing",
		Long: `Check CUE rules files against the rules schema.

Reports every rejected file with the line and column CUE points at.

Exit codes:
  0 - All files valid
  1 - One or more files rejected
  2 - Command error (file not found)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("rules file not found: %s", file), nil)
		}
	}

	result := ValidationResult{Valid: true}
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)

		r, err := rules.Load(file)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, toValidationError(file, err))
			continue
		}
		result.Rules = append(result.Rules, validated(file, r))
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

func validated(file string, r game.Rules) ValidatedRules {
	return ValidatedRules{File: file, Name: r.Name, Seed: r.Seed.String(), Draws: r.Draws}
}

func toValidationError(file string, err error) ValidationError {
	var ce *rules.CompileError
	if !errors.As(err, &ce) {
		return ValidationError{File: file, Message: err.Error(), Code: ErrCodeGeneric}
	}
	ve := ValidationError{File: file, Field: ce.Field, Message: ce.Message, Code: ErrCodeInvalidRules}
	if ce.Pos.IsValid() {
		ve.Line = ce.Pos.Line()
		ve.Column = ce.Pos.Column()
	}
	return ve
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	for _, r := range result.Rules {
		fmt.Fprintf(formatter.Writer, "✓ %s (%s, %d draws)\n", r.File, r.Name, r.Draws)
	}
	return nil
}

// outputValidationErrors outputs every rejected file.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.JSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", err.File, err.Line, err.Column)
		} else {
			fmt.Fprintln(formatter.Writer, err.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return exitErr
}
