package cli

import (
	"bytes"
	"context"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/polyboard/board"
	"github.com/gogpu/polyboard/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestSlogBridge(t *testing.T) {
	var buf bytes.Buffer
	c := New(&bytes.Buffer{}, &buf, LogInfo)
	c.slog().Info("piece dropped", "slot", 3)
	assert.Contains(t, buf.String(), "piece dropped")
	assert.Contains(t, buf.String(), "slot=3")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&out, &logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func TestShadersCommand(t *testing.T) {
	out, _, err := run(t, "shaders")
	require.NoError(t, err)
	assert.Contains(t, out, "view")
	assert.Contains(t, out, "selection")
	assert.Contains(t, out, "words")
}

func TestSimulate(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 5
	cfg.Window.Width, cfg.Window.Height = 240, 240

	opts := simulateOpts{moves: 6, steps: 3, timeout: 5 * time.Second}
	sim, err := simulate(context.Background(), cfg, os.DirFS("."), opts, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.Len(t, sim.moves, 6)

	b := sim.game.Board()
	require.NoError(t, b.Validate())

	empty := 4
	for i, m := range sim.moves {
		assert.Equal(t, board.Label(m.Source), m.PieceID, "move %d", i)
		assert.Equal(t, empty, m.PartnerDest, "move %d fills the empty slot", i)
		assert.NotEqual(t, m.Source, m.Dest)
		empty = m.Source
	}
	assert.Equal(t, []int{empty}, b.Empty())
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("board:\n  slots: 6\n  pieces: 3\nwindow:\n  width: 160\n  height: 120\n"), 0o600))
	pngPath := filepath.Join(dir, "frame.png")

	out, logs, err := run(t, "--config", cfgPath, "simulate", "-n", "2", "--seed", "9", "-o", pngPath)
	require.NoError(t, err)
	assert.Contains(t, out, "6-gon, 3 pieces")
	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "Slot")
	assert.Contains(t, logs, "simulation finished")

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[board]\npieces = 9\n"), 0o600))

	_, _, err := run(t, "--config", bad, "simulate")
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, _, err = run(t, "--config", filepath.Join(dir, "board.json"), "simulate")
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}

func TestBoardTable(t *testing.T) {
	b, err := board.New(5, 4, board.DefaultRadius, nil)
	require.NoError(t, err)
	s := boardTable(b)
	assert.Contains(t, s, "Piece")
	assert.Contains(t, s, "+0.500")
	assert.Contains(t, s, "-")
}
