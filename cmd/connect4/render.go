package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/llwatkin/connect-4-starter/internal/engine"
)

var (
	firstColor  = color.New(color.FgHiRed, color.Bold)
	secondColor = color.New(color.FgHiYellow, color.Bold)
	frameColor  = color.New(color.FgHiBlue)
	emptyColor  = color.New(color.FgHiBlack)
)

func playerLabel(p engine.Player) string {
	if p == engine.FirstPlayer {
		return firstColor.Sprint("X")
	}
	return secondColor.Sprint("O")
}

// renderBoard draws p top row first with column numbers underneath.
func renderBoard(w io.Writer, geo engine.Geometry, p engine.Position) {
	for row := 0; row < geo.Rows; row++ {
		var b strings.Builder
		b.WriteString(frameColor.Sprint("|"))
		for col := 0; col < geo.Columns; col++ {
			owner, ok := p.At(geo.Index(col, row)).Owner()
			if !ok {
				b.WriteString(emptyColor.Sprint(" ."))
				continue
			}
			b.WriteString(" " + playerLabel(owner))
		}
		b.WriteString(frameColor.Sprint(" |"))
		fmt.Fprintln(w, b.String())
	}

	var footer strings.Builder
	footer.WriteString(" ")
	for col := 0; col < geo.Columns; col++ {
		fmt.Fprintf(&footer, " %d", col%10)
	}
	fmt.Fprintln(w, footer.String())
}
