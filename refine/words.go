// Package refine computes where two versions of a single line differ.
//
// Two strategies answer different questions: [Tokens] aligns the words of both lines, [Ranges]
// finds the single span that remains after trimming the common prefix and suffix.
package refine

import (
	"slices"
	"strings"
)

// Op describes the alignment of a single word.
type Op int

const (
	Equal  Op = iota // The word is present in both lines
	Delete           // The word is only present in the old line
	Insert           // The word is only present in the new line
)

func (op Op) String() string {
	switch op {
	case Equal:
		return "equal"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	}
	return "unknown"
}

// Token is a single aligned word. Left is empty for Insert and Right is empty for Delete.
type Token struct {
	Op    Op
	Left  string
	Right string
}

// Words splits line into its space separated words. Runs of spaces, as well as leading and
// trailing spaces, don't produce empty words. Other whitespace is part of the word.
func Words(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool { return r == ' ' })
}

// Tokens aligns the words of old and new along their longest common subsequence.
//
// When two alignments are equally long, the insertion is preferred over the deletion while
// backtracking, so insertions end up after deletions in the returned sequence.
func Tokens(old, new string) []Token {
	a := Words(old)
	b := Words(new)
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}

	// lcs[i*w+j] is the length of the LCS of a[:i] and b[:j].
	w := m + 1
	lcs := make([]int, (n+1)*w)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				lcs[i*w+j] = lcs[(i-1)*w+j-1] + 1
			} else {
				lcs[i*w+j] = max(lcs[(i-1)*w+j], lcs[i*w+j-1])
			}
		}
	}

	tokens := make([]Token, 0, max(n, m))
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			tokens = append(tokens, Token{Equal, a[i-1], b[j-1]})
			i--
			j--
		case j > 0 && (i == 0 || lcs[i*w+j-1] >= lcs[(i-1)*w+j]):
			tokens = append(tokens, Token{Insert, "", b[j-1]})
			j--
		default:
			tokens = append(tokens, Token{Delete, a[i-1], ""})
			i--
		}
	}
	slices.Reverse(tokens)
	return tokens
}

// OldWords returns the words of the old line described by tokens.
func OldWords(tokens []Token) []string {
	var ret []string
	for _, t := range tokens {
		if t.Op != Insert {
			ret = append(ret, t.Left)
		}
	}
	return ret
}

// NewWords returns the words of the new line described by tokens.
func NewWords(tokens []Token) []string {
	var ret []string
	for _, t := range tokens {
		if t.Op != Delete {
			ret = append(ret, t.Right)
		}
	}
	return ret
}
