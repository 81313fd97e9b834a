package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arosling/casewatch/schema"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTruncateEntity verifies tail-preserving truncation.
func TestTruncateEntity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "central/icu/mrsa",
			maxLen:   30,
			expected: "central/icu/mrsa",
		},
		{
			name:     "exact length unchanged",
			input:    "abcde",
			maxLen:   5,
			expected: "abcde",
		},
		{
			name:     "long string keeps the organism tail",
			input:    "central-hospital/intensive-care/mrsa",
			maxLen:   20,
			expected: "...tensive-care/mrsa",
		},
		{
			name:     "tiny max returns input",
			input:    "central/icu/mrsa",
			maxLen:   3,
			expected: "central/icu/mrsa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateEntity(tt.input, tt.maxLen)
			assert.Equal(t, tt.expected, got)
			if tt.maxLen > 3 {
				assert.LessOrEqual(t, len(got), tt.maxLen)
			}
		})
	}
}

// TestColorLabelPlain verifies every label renders its own text when
// colors are disabled.
func TestColorLabelPlain(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()

	labels := []schema.Label{
		schema.ControlBreachLabel,
		schema.WarningBreachLabel,
		schema.NoBaselineLabel,
		schema.WithinLabel,
	}
	for _, label := range labels {
		assert.Equal(t, string(label), ColorLabel(label))
	}
}

// TestColorSeverityPlain verifies every severity renders its own text when
// colors are disabled.
func TestColorSeverityPlain(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()

	severities := []schema.Severity{
		schema.RedSeverity,
		schema.AmberSeverity,
		schema.BreachSeverity,
		schema.WithinSeverity,
		schema.NoThresholdSeverity,
	}
	for _, severity := range severities {
		assert.Equal(t, string(severity), ColorSeverity(severity))
	}
}

// TestSelectOutputFile verifies file creation and the stdout fallback.
func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Same(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}
