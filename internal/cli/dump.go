package cli

import (
	"fmt"
	"io"
	"math/bits"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mpbits/internal/bigint"
	"github.com/agbru/mpbits/internal/format"
	"github.com/agbru/mpbits/internal/ui"
)

// maxDumpWords bounds the rows of a word dump; larger values show the
// lowest and highest words around an ellipsis row.
const maxDumpWords = 16

// RenderWordDump returns a bordered panel listing the words of z, most
// significant first, with each word's index and bit offset. Storage that
// is reserved but past the width is summarized in the footer.
func RenderWordDump(name string, z *bigint.Int) string {
	theme := ui.GetCurrentPanelTheme()
	digits := bits.UintSize / 4

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Title)
	index := lipgloss.NewStyle().Foreground(theme.Index)
	text := lipgloss.NewStyle().Foreground(theme.Text)
	zero := lipgloss.NewStyle().Foreground(theme.Zero)

	sign := "+"
	if z.IsNegative() {
		sign = lipgloss.NewStyle().Foreground(theme.Sign).Render("-")
	}

	var rows []string
	rows = append(rows, title.Render(fmt.Sprintf("%s  sign %s  bitlen %d", name, sign, z.BitLen())))

	ws := z.Words()
	row := func(i int) string {
		w := fmt.Sprintf("%0*x", digits, uint(ws[i]))
		style := text
		if ws[i] == 0 {
			style = zero
		}
		return index.Render(fmt.Sprintf("[%3d] bit %6d ", i, i*bits.UintSize)) + style.Render(w)
	}
	switch {
	case len(ws) == 0:
		rows = append(rows, zero.Render("(zero)"))
	case len(ws) <= maxDumpWords:
		for i := len(ws) - 1; i >= 0; i-- {
			rows = append(rows, row(i))
		}
	default:
		half := maxDumpWords / 2
		for i := len(ws) - 1; i >= len(ws)-half; i-- {
			rows = append(rows, row(i))
		}
		rows = append(rows, zero.Render(fmt.Sprintf("      ... %d words ...", len(ws)-2*half)))
		for i := half - 1; i >= 0; i-- {
			rows = append(rows, row(i))
		}
	}

	rows = append(rows, zero.Render(fmt.Sprintf("width %d, capacity %s",
		z.Width(), format.FormatWords(z.Cap(), bits.UintSize/8))))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	return panel.Render(strings.Join(rows, "\n"))
}

// DisplayWordDump writes RenderWordDump followed by a newline.
func DisplayWordDump(name string, z *bigint.Int, out io.Writer) {
	fmt.Fprintln(out, RenderWordDump(name, z))
}
