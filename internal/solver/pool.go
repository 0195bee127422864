package solver

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/robalobadob/wordle-lab/internal/game"
)

// candidate is a pool word with its letter set precomputed.
type candidate struct {
	word    string
	letters *bitset.BitSet
}

func newCandidate(w string) candidate {
	set := bitset.New(26)
	for i := 0; i < len(w); i++ {
		if c := w[i]; c >= 'A' && c <= 'Z' {
			set.Set(uint(c - 'A'))
		}
	}
	return candidate{word: w, letters: set}
}

func (c candidate) has(l byte) bool {
	if l < 'A' || l > 'Z' {
		return false
	}
	return c.letters.Test(uint(l - 'A'))
}

// allows applies each position's rule independently.
func (c candidate) allows(guess string, cl game.Classification) bool {
	for i, m := range cl {
		l := guess[i]
		switch m {
		case game.Exact:
			if c.word[i] != l {
				return false
			}
		case game.Present:
			if !c.has(l) || c.word[i] == l {
				return false
			}
		case game.Absent:
			if c.has(l) {
				return false
			}
		default:
			panic(fmt.Sprintf("solver: unknown mark %d", m))
		}
	}
	return true
}

// pool is the shrinking candidate list of one solve. It is used as a stack.
type pool struct {
	items []candidate
}

func newPool(words []string) *pool {
	p := &pool{items: make([]candidate, len(words))}
	for i, w := range words {
		p.items[i] = newCandidate(w)
	}
	return p
}

func (p *pool) len() int { return len(p.items) }

// pop removes and returns the last candidate.
func (p *pool) pop() (string, bool) {
	n := len(p.items)
	if n == 0 {
		return "", false
	}
	w := p.items[n-1].word
	p.items = p.items[:n-1]
	return w, true
}

// remove drops the first occurrence of w, if any.
func (p *pool) remove(w string) {
	for i, c := range p.items {
		if c.word == w {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}

// filter keeps the candidates consistent with guess scoring cl, preserving order.
func (p *pool) filter(guess string, cl game.Classification) {
	kept := p.items[:0]
	for _, c := range p.items {
		if c.allows(guess, cl) {
			kept = append(kept, c)
		}
	}
	p.items = kept
}
