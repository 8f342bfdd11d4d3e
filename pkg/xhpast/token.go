package xhpast

import "fmt"

// Token is one lexical unit of the parsed source.
// Tokens are contiguous and non-overlapping when the parser's stream tiles the source.
type Token struct {
	// ID is the token's position in the stream, starting at 0.
	ID int

	// Kind is the parser's token tag (e.g. "T_ECHO").
	Kind string

	// Value is the token's bytes, a sub-slice of the tree's source.
	Value []byte

	// Offset is the byte index where the token begins.
	Offset int

	tree *Tree
}

// Text returns the token's source text.
func (t *Token) Text() string {
	return string(t.Value)
}

// Len returns the length of the token in bytes.
func (t *Token) Len() int {
	return len(t.Value)
}

// End returns the byte index just past the token.
func (t *Token) End() int {
	return t.Offset + len(t.Value)
}

// Tree returns the tree that owns this token.
func (t *Token) Tree() *Tree {
	return t.tree
}

// LineNumber returns the 1-based line the token starts on, or 0 if unknown.
func (t *Token) LineNumber() int {
	if t.tree == nil {
		return 0
	}
	line, _ := t.tree.LineAt(t.Offset)
	return line
}

// streamEntry is one (kind, byte length) pair from the parser's stream.
type streamEntry struct {
	Kind   string
	Length int
}

// materializeTokens slices source according to the stream.
// Lengths that run past the end of source are an infrastructure failure.
func materializeTokens(stream []streamEntry, source []byte, tree *Tree) ([]Token, error) {
	tokens := make([]Token, len(stream))
	offset := 0

	for idx, entry := range stream {
		if entry.Length < 0 {
			return nil, &InfrastructureError{
				Err: fmt.Errorf("%w: token %d has negative length %d", ErrStreamOverrun, idx, entry.Length),
			}
		}
		end := offset + entry.Length
		if end > len(source) {
			return nil, &InfrastructureError{
				Err: fmt.Errorf("%w: token %d ends at %d, source is %d bytes",
					ErrStreamOverrun, idx, end, len(source)),
			}
		}

		tokens[idx] = Token{
			ID:     idx,
			Kind:   entry.Kind,
			Value:  source[offset:end:end],
			Offset: offset,
			tree:   tree,
		}
		offset = end
	}

	return tokens, nil
}

// ValidateTokens reports whether tokens exactly tile [0, contentLen):
// the first starts at 0, each starts where the previous ended, and the last ends at contentLen.
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	if tokens[0].Offset != 0 {
		return false
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i].Offset != tokens[i-1].End() {
			return false
		}
	}

	return tokens[len(tokens)-1].End() == contentLen
}
