package rules

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/game"
	"github.com/roach88/turnstile/internal/testutil"
)

func TestParse_Empty(t *testing.T) {
	rules, err := Parse([]byte(""), "empty.cue")
	require.NoError(t, err)
	assert.Equal(t, game.DefaultRules(), rules)
}

func TestParse_AllFields(t *testing.T) {
	src := `
name:  "ten"
seed:  "ff00000000000000000000000000000000000000000000000000000000000000"
draws: 10
`
	rules, err := Parse([]byte(src), "ten.cue")
	require.NoError(t, err)

	var seed cards.Seed
	seed[0] = 0xff
	assert.Equal(t, game.Rules{Name: "ten", Seed: seed, Draws: 10}, rules)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	rules, err := Parse([]byte(`draws: 3`), "draws.cue")
	require.NoError(t, err)

	assert.Equal(t, "blind-draw", rules.Name)
	assert.Equal(t, cards.Seed{}, rules.Seed)
	assert.Equal(t, 3, rules.Draws)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", `players: 4`, "players"},
		{"zero draws", `draws: 0`, "draws"},
		{"too many draws", `draws: 521`, "draws"},
		{"fractional draws", `draws: 1.5`, "draws"},
		{"short seed", `seed: "abcd"`, "seed"},
		{"non-hex seed", `seed: "` + strings.Repeat("zz", 32) + `"`, "seed"},
		{"empty name", `name: ""`, "name"},
		{"open draws", `draws: int`, "draws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			assert.True(t, IsCompileError(err), "want CompileError, got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_SyntaxErrorPosition(t *testing.T) {
	_, err := Parse([]byte("draws: 2\nname: {"), "broken.cue")
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.True(t, ce.Pos.IsValid())
	assert.Equal(t, "broken.cue", ce.Pos.Filename())
	assert.Contains(t, ce.Error(), "broken.cue:")
}

func TestLoad(t *testing.T) {
	rules, err := Load(filepath.Join("testdata", "high-stakes.cue"))
	require.NoError(t, err)

	assert.Equal(t, game.Rules{Name: "high-stakes", Seed: testutil.Seed(1), Draws: 5}, rules)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.False(t, IsCompileError(err))
}

func TestCompileError_NoPosition(t *testing.T) {
	err := &CompileError{Field: "draws", Message: "too small"}
	assert.Equal(t, "draws: too small", err.Error())
}
