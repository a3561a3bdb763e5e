package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/comalice/fixedloop"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		format Format
		want   []string
	}{
		{FormatText, []string{"run starting", "run=1"}},
		{FormatJSON, []string{`"msg":"run starting"`, `"run":1`}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, slog.LevelInfo, tt.format)
			logger.Info("run starting", "run", 1)

			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("expected %q in output, got: %s", w, buf.String())
				}
			}
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, FormatText)

	logger.Info("should not appear")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Errorf("INFO message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("WARN message should appear at WARN level, got: %s", output)
	}
}

// TestLoopLogging checks the loop's lifecycle records reach a configured logger.
func TestLoopLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(&buf, slog.LevelInfo, FormatText), "loop")

	var loop *fixedloop.Loop
	loop = fixedloop.New(fixedloop.HookFuncs{
		OnUpdateStart: func(float64) { loop.RequestShutDown() },
	}, fixedloop.WithLogger(logger), fixedloop.WithCappedFPS(false))

	if err := loop.Run(1000); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"component=loop", "run starting", "target_fps=1000", "run stopped", "frames=1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Component(New(&buf, slog.LevelInfo, FormatJSON), "telemetry").Info("migrated")
	if !strings.Contains(buf.String(), `"component":"telemetry"`) {
		t.Errorf("expected component attribute, got: %s", buf.String())
	}

	// A nil logger yields a usable, silent one.
	Component(nil, "sim").Error("dropped")
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard should not enable any level")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" json ", FormatJSON, false},
		{"logfmt", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, wantErr %v", tt.input, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
