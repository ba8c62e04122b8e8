package cli

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/spf13/cobra"

	"github.com/gogpu/polyboard"
	"github.com/gogpu/polyboard/board"
	"github.com/gogpu/polyboard/drag"
	"github.com/gogpu/polyboard/internal/config"
	"github.com/gogpu/polyboard/render"
	"github.com/gogpu/polyboard/scene"
)

const (
	defaultMoves       = 3
	defaultSteps       = 4
	defaultLoadTimeout = 10 * time.Second
)

var errNoPiece = errors.New("simulate: no piece under the pointer")

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	moves   int
	steps   int
	png     string
	seed    uint64
	timeout time.Duration
}

// simulation is the outcome of a scripted run.
type simulation struct {
	game   *polyboard.Game
	target *render.PixmapTarget
	moves  []board.Move
}

func (c *CLI) simulateCommand() *cobra.Command {
	opts := simulateOpts{
		moves:   defaultMoves,
		steps:   defaultSteps,
		timeout: defaultLoadTimeout,
	}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run scripted drags on an offscreen board",
		Long: `simulate drags pieces in turn through the software renderer, picking them
with the selection pass exactly as a mouse press would, and prints the
committed moves and the final board.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fsys, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = opts.seed
			}
			return c.runSimulate(cmd.Context(), cfg, fsys, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.moves, "moves", "n", opts.moves, "number of drags")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "pointer moves per drag")
	cmd.Flags().StringVarP(&opts.png, "png", "o", "", "write the final frame to a PNG file")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "override the configured seed")
	cmd.Flags().DurationVar(&opts.timeout, "load-timeout", opts.timeout, "time allowed for mesh loading")

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, cfg config.File, fsys fs.FS, opts simulateOpts) error {
	start := time.Now()
	sim, err := simulate(ctx, cfg, fsys, opts, c.slog())
	if err != nil {
		return err
	}
	c.Logger.Info("simulation finished", "moves", len(sim.moves), "elapsed", time.Since(start).Round(time.Millisecond))

	fmt.Fprintln(c.out, styleTitle.Render(fmt.Sprintf("%d-gon, %d pieces", cfg.Board.Slots, cfg.Board.Pieces)))
	for i, m := range sim.moves {
		fmt.Fprintln(c.out, moveLine(i, m))
	}
	fmt.Fprintln(c.out, boardTable(sim.game.Board()))

	if opts.png != "" {
		if err := writePNG(opts.png, sim.target); err != nil {
			return err
		}
		c.Logger.Info("frame written", "path", opts.png)
	}
	return nil
}

// simulate creates a game on a software device and drags pieces in
// creation order, one full path per drag.
func simulate(ctx context.Context, cfg config.File, fsys fs.FS, opts simulateOpts, logger *slog.Logger) (*simulation, error) {
	gcfg, err := cfg.Game()
	if err != nil {
		return nil, err
	}
	if opts.steps < 1 {
		opts.steps = 1
	}

	target := render.NewPixmapTarget(cfg.Window.Width, cfg.Window.Height)
	dev := render.NewSoftwareDevice(target)
	gopts := append(cfg.Options(fsys), polyboard.WithLogger(logger), polyboard.WithLoadContext(ctx))
	game, err := polyboard.New(gcfg, dev, gopts...)
	if err != nil {
		return nil, err
	}

	if err := waitPlaced(ctx, game, opts.timeout); err != nil {
		return nil, err
	}

	sim := &simulation{game: game, target: target}
	pieces := game.Pieces()
	for i := 0; i < opts.moves; i++ {
		mv, err := dragOnce(ctx, game, pieces[i%len(pieces)], gcfg.Divisor, opts.steps)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		sim.moves = append(sim.moves, mv)
	}
	return sim, nil
}

// waitPlaced advances frames until every piece is on the board.
func waitPlaced(ctx context.Context, game *polyboard.Game, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()
	for {
		if err := game.Advance(ctx); err != nil {
			return err
		}
		if game.Placed() {
			return nil
		}
		for _, p := range game.Pieces() {
			if err := p.Mesh().Err(); err != nil {
				return fmt.Errorf("simulate: piece mesh: %w", err)
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("simulate: waiting for meshes: %w", ctx.Err())
		case <-tick.C:
		}
	}
}

// dragOnce presses on p where the camera shows it and moves the pointer
// one divisor to the right in steps, which always completes the drag.
func dragOnce(ctx context.Context, game *polyboard.Game, p *scene.Piece, divisor float64, steps int) (board.Move, error) {
	x, y := game.ScreenPosition(p.Position())
	game.HandlePointer(gpucontext.PointerEvent{
		Type:   gpucontext.PointerDown,
		X:      x,
		Y:      y,
		Button: gpucontext.ButtonLeft,
	})
	if err := game.Advance(ctx); err != nil {
		return board.Move{}, err
	}
	s := game.Controller().Session()
	if s == nil {
		return board.Move{}, fmt.Errorf("%w at (%.0f, %.0f)", errNoPiece, x, y)
	}
	mv := s.Move

	for k := 1; k <= steps; k++ {
		game.HandlePointer(gpucontext.PointerEvent{
			Type:   gpucontext.PointerMove,
			X:      x + divisor*float64(k)/float64(steps),
			Y:      y,
			Button: gpucontext.ButtonNone,
		})
		if err := game.Advance(ctx); err != nil {
			return board.Move{}, err
		}
	}
	game.HandlePointer(gpucontext.PointerEvent{
		Type:   gpucontext.PointerUp,
		X:      x + divisor,
		Y:      y,
		Button: gpucontext.ButtonLeft,
	})
	if err := game.Advance(ctx); err != nil {
		return board.Move{}, err
	}
	if st := game.Controller().State(); st != drag.StateIdle {
		return board.Move{}, fmt.Errorf("simulate: drag ended %s", st)
	}
	return mv, nil
}

func writePNG(path string, target *render.PixmapTarget) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, target.Image()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
