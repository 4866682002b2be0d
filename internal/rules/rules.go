// Package rules loads game rules from CUE files.
//
// A rules file is a plain CUE struct checked against an embedded #Rules
// schema:
//
//	name:  "high-stakes"
//	seed:  "0101010101010101010101010101010101010101010101010101010101010101"
//	draws: 5
//
// Unknown fields are rejected. Omitted fields take game.DefaultRules values.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/game"
)

//go:embed schema.cue
var schemaCUE string

// file mirrors #Rules.
type file struct {
	Name  string `json:"name"`
	Seed  string `json:"seed"`
	Draws int    `json:"draws"`
}

// Load reads and parses the rules file at path.
func Load(path string) (game.Rules, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return game.Rules{}, fmt.Errorf("read rules: %w", err)
	}
	return Parse(src, path)
}

// Parse compiles src as a rules file. filename is used in error positions.
func Parse(src []byte, filename string) (game.Rules, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return game.Rules{}, fmt.Errorf("compile rules schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Rules"))

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return game.Rules{}, formatCUEError(err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return game.Rules{}, formatCUEError(err)
	}

	var f file
	if err := unified.Decode(&f); err != nil {
		return game.Rules{}, formatCUEError(err)
	}

	rules := game.DefaultRules()
	if f.Name != "" {
		rules.Name = f.Name
	}
	if f.Seed != "" {
		seed, err := cards.ParseSeed(f.Seed)
		if err != nil {
			return game.Rules{}, &CompileError{
				Field:   "seed",
				Message: err.Error(),
				Pos:     unified.LookupPath(cue.ParsePath("seed")).Pos(),
			}
		}
		rules.Seed = seed
	}
	if f.Draws != 0 {
		rules.Draws = f.Draws
	}

	if err := rules.Validate(); err != nil {
		return game.Rules{}, &CompileError{Field: "rules", Message: err.Error(), Pos: v.Pos()}
	}
	return rules, nil
}

// CompileError is a rules file error with its source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsCompileError returns true if the error is a CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	ce := &CompileError{Field: "cue", Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
