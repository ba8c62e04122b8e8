package cli

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/polyboard"
	"github.com/gogpu/polyboard/internal/window"
	"github.com/gogpu/polyboard/render"
)

func (c *CLI) playCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open a window and drag pieces with the mouse",
		Long: `play opens a window showing the board from above. Drag a piece with the
left mouse button; V switches to the centre camera, where a horizontal
swipe turns the view. Escape quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fsys, err := c.loadConfig()
			if err != nil {
				return err
			}
			gcfg, err := cfg.Game()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			target := render.NewPixmapTarget(cfg.Window.Width, cfg.Window.Height)
			opts := append(cfg.Options(fsys), polyboard.WithLogger(c.slog()), polyboard.WithLoadContext(ctx))
			game, err := polyboard.New(gcfg, render.NewSoftwareDevice(target), opts...)
			if err != nil {
				return err
			}
			return window.New(ctx, game, target, cfg.Window.Title, c.slog()).Run()
		},
	}
}
