package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gogpu/polyboard/board"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
)

// boardTable renders slot occupancy with slot positions.
func boardTable(b *board.Board) string {
	rows := make([][]string, 0, len(b.Slots()))
	for _, s := range b.Slots() {
		piece := "-"
		if id := b.Occupant(s.Index); id != 0 {
			piece = strconv.FormatUint(uint64(id), 10)
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			fmt.Sprintf("%+.3f", s.Position.X()),
			fmt.Sprintf("%+.3f", s.Position.Y()),
			piece,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slot", "X", "Y", "Piece").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if rows[row][3] == "-" {
				return styleCell.Foreground(colorDim)
			}
			return styleCell
		}).
		String()
}

// moveLine formats a committed move for the simulate report.
func moveLine(i int, m board.Move) string {
	return fmt.Sprintf("%s %s piece %d %d %s %d, partner %d %d %s %d",
		styleSuccess.Render(iconSuccess),
		styleDim.Render(fmt.Sprintf("#%d", i+1)),
		m.PieceID, m.Source, iconArrow, m.Dest,
		m.PartnerID, m.Dest, iconArrow, m.PartnerDest)
}
