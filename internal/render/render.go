// Package render prints solver history for humans.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/TwiN/go-color"

	"github.com/robalobadob/wordle-lab/internal/game"
	"github.com/robalobadob/wordle-lab/internal/solver"
)

// classicLimit is where the separator line goes: past it the puzzle would
// have been lost under the six-guess rule.
const classicLimit = 6

// History writes one "WORD : clue" line per step. With colour on, each
// letter is tinted by its mark instead of relying on the emoji clue alone.
func History(w io.Writer, steps []solver.Step, colour bool) error {
	for i, st := range steps {
		if i == classicLimit {
			if _, err := fmt.Fprintln(w, "-------------------"); err != nil {
				return err
			}
		}
		word := st.Word
		if colour {
			word = Tiles(st.Word, st.Classification)
		}
		if _, err := fmt.Fprintf(w, "%s : %s\n", word, st.Classification); err != nil {
			return err
		}
	}
	return nil
}

// Tiles colours each letter of word by its mark.
func Tiles(word string, c game.Classification) string {
	var b strings.Builder
	for i := 0; i < len(word) && i < len(c); i++ {
		b.WriteString(color.Ize(markColor(c[i]), string(word[i])))
	}
	return b.String()
}

func markColor(m game.Mark) string {
	switch m {
	case game.Exact:
		return color.Green
	case game.Present:
		return color.Yellow
	default:
		return color.Gray
	}
}
