package testenv

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleNewLogHandler() {
	logger := slog.New(NewLogHandler(WithOutput(os.Stdout)))

	logger.Info("store ready")
	logger.Warn("discarding stale fetch result", slog.String("stage", "students"))
	logger.Error("fetch failed", slog.Int("status", 500))

	// Output:
	// [0] INFO: store ready
	// [1] WARN: discarding stale fetch result stage=students
	// [2] ERROR: fetch failed status=500
}

func TestLogHandlerAttrsAndGroups(t *testing.T) {
	h := NewLogHandler()
	logger := slog.New(h).With("store", "office").WithGroup("fetch")

	logger.Info("settled", "stage", "students", slog.Group("http", "status", 200))
	assert.Equal(t, []string{"[0] INFO: settled store=office, fetch.stage=students, fetch.http.status=200"}, h.Lines())
}

func TestLogHandlerIgnoreDebug(t *testing.T) {
	h := NewLogHandler(WithIgnoreDebug())
	logger := slog.New(h)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.Equal(t, []string{"[0] INFO: shown"}, h.Lines())
}

func TestLogHandlerSharedAcrossDerived(t *testing.T) {
	h := NewLogHandler()
	slog.New(h).Info("one")
	slog.New(h).With("k", "v").Warn("two")

	lines := h.Lines()
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "[1] WARN: two"))
	assert.Equal(t, []string{"[1] WARN: two k=v"}, h.Filter("two", "k=v"))
	assert.Empty(t, h.Filter("three"))
}
