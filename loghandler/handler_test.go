package loghandler

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var timestamp = regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} `)

func newLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(NewCompactHandler(&buf, level)), &buf
}

func TestHandle_TagAndAttrs(t *testing.T) {
	logger, buf := newLogger(slog.LevelInfo)
	logger.Info("game ended", "tag", "game", "game", "g1", "round", 3)

	line := buf.String()
	if !timestamp.MatchString(line) {
		t.Fatalf("missing timestamp: %q", line)
	}
	want := "[game] game ended game=g1 round=3\n"
	if got := timestamp.ReplaceAllString(line, ""); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHandle_LevelFiltering(t *testing.T) {
	logger, buf := newLogger(slog.LevelWarn)
	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Warn("shown", "tag", "config")

	got := timestamp.ReplaceAllString(buf.String(), "")
	if got != "[config] WARN shown\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestWithAttrs_TagAndGroup(t *testing.T) {
	logger, buf := newLogger(slog.LevelDebug)
	logger = logger.With("tag", "ws", "client", "c1")
	logger.Debug("connected", "remote", "1.2.3.4")
	logger.WithGroup("req").Info("upgrade", "path", "/ws")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if got := timestamp.ReplaceAllString(lines[0], ""); got != "[ws] connected client=c1 remote=1.2.3.4" {
		t.Errorf("line 1 = %q", got)
	}
	if got := timestamp.ReplaceAllString(lines[1], ""); got != "[ws] upgrade client=c1 req.path=/ws" {
		t.Errorf("line 2 = %q", got)
	}
}

func TestHandle_QuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newLogger(slog.LevelInfo)
	logger.Info("saved", "name", "Ada Lovelace")

	if !strings.HasSuffix(buf.String(), `saved name="Ada Lovelace"`+"\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
