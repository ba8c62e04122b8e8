package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/polyboard/render"
)

func (c *CLI) shadersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shaders",
		Short: "Compile the shader programs and report their size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, build := range []func() (*render.Program, error){render.ViewProgram, render.SelectionProgram} {
				p, err := build()
				if err != nil {
					return err
				}
				c.Logger.Debug("program compiled", "name", p.Name)
				fmt.Fprintf(c.out, "%s %s\n", styleSuccess.Render(iconSuccess), styleTitle.Render(p.Name))
				fmt.Fprintf(c.out, "  vertex   %s\n", styleDim.Render(fmt.Sprintf("%d words", len(p.Vertex))))
				fmt.Fprintf(c.out, "  fragment %s\n", styleDim.Render(fmt.Sprintf("%d words", len(p.Fragment))))
				fmt.Fprintf(c.out, "  uniforms %s\n", strings.Join(p.Uniforms(), ", "))
			}
			return nil
		},
	}
}
