package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOptions(t *testing.T) {
	var output, errorOutput bytes.Buffer
	p := NewWithOptions(&output, &errorOutput, ColorNever)

	assert.Equal(t, &output, p.output)
	assert.Equal(t, &errorOutput, p.errorOutput)
	assert.Equal(t, ColorNever, p.colorMode)
	assert.False(t, p.IsQuiet())
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		color    string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"DOCPAL_COLOR always", "", "always", ColorAlways},
		{"DOCPAL_COLOR force", "", "force", ColorAlways},
		{"DOCPAL_COLOR never", "", "never", ColorNever},
		{"DOCPAL_COLOR off", "", "off", ColorNever},
		{"DOCPAL_COLOR auto", "", "auto", ColorAuto},
		{"default", "", "", ColorAuto},
		{"invalid value", "", "rainbow", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("NO_COLOR")
			os.Unsetenv("DOCPAL_COLOR")
			if tt.noColor != "" {
				t.Setenv("NO_COLOR", tt.noColor)
			}
			if tt.color != "" {
				t.Setenv("DOCPAL_COLOR", tt.color)
			}

			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	var errorOutput bytes.Buffer
	p := NewWithOptions(nil, &errorOutput, ColorNever)

	err := errors.New("bad page")
	p.Error(err, "loading index")
	assert.Contains(t, errorOutput.String(), "[ERROR] loading index: bad page")

	errorOutput.Reset()
	p.Error(err, "")
	assert.Equal(t, "[ERROR] bad page\n", errorOutput.String())

	errorOutput.Reset()
	p.Error(nil, "context")
	assert.Empty(t, errorOutput.String())
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		call   func(p *TerminalPresenter)
		expect string
	}{
		{"success", func(p *TerminalPresenter) { p.Success("done") }, "✓ done\n"},
		{"warning", func(p *TerminalPresenter) { p.Warning("careful") }, "⚠ careful\n"},
		{"info", func(p *TerminalPresenter) { p.Info("plain") }, "plain\n"},
		{"separator", func(p *TerminalPresenter) { p.Separator() }, strings.Repeat("-", 60) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			p := NewWithOptions(&output, nil, ColorNever)
			tt.call(p)
			assert.Equal(t, tt.expect, output.String())

			output.Reset()
			p.SetQuiet(true)
			tt.call(p)
			assert.Empty(t, output.String(), "quiet mode")
		})
	}
}

func TestSection(t *testing.T) {
	var output bytes.Buffer
	p := NewWithOptions(&output, nil, ColorNever)

	p.Section("Commands")

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Commands", lines[0])
	assert.Equal(t, "--------", lines[1])
}

func TestItem(t *testing.T) {
	var output bytes.Buffer
	p := NewWithOptions(&output, nil, ColorNever)

	p.Item("command", "/feature", "Implement a new feature")
	p.Item("section", "Overview", "")

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  command    /feature  Implement a new feature", lines[0])
	assert.Equal(t, "  section    Overview", lines[1])
}

func TestStats(t *testing.T) {
	var output bytes.Buffer
	p := NewWithOptions(&output, nil, ColorNever)

	p.Stats(&IndexStats{Sections: 6, Commands: 12})
	assert.Equal(t, "[Index] Sections: 6 | Commands: 12 | Total: 18\n", output.String())

	output.Reset()
	p.Stats(&IndexStats{Sections: 1, Commands: 1, Problems: 2})
	assert.Contains(t, output.String(), "Skipped sources: 2")

	output.Reset()
	p.Stats(nil)
	assert.Empty(t, output.String())
}

func TestGlobalError(t *testing.T) {
	original := defaultPresenter
	defer func() { defaultPresenter = original }()

	var output, errorOutput bytes.Buffer
	defaultPresenter = NewWithOptions(&output, &errorOutput, ColorNever)

	Error(errors.New("boom"), "ctx")
	assert.Contains(t, errorOutput.String(), "ctx: boom")
	assert.Empty(t, output.String())
}
