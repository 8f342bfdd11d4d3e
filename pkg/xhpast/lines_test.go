package xhpast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/phpast/pkg/xhpast"
)

func TestLineIndex_Map(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []int
	}{
		{"empty", "", []int{}},
		{"single line no newline", "abc", []int{1, 1, 1}},
		{"single line with newline", "ab\n", []int{1, 1, 1}},
		{"two lines", "a\nb", []int{1, 1, 2}},
		{"blank lines", "a\n\n\nb", []int{1, 1, 2, 3, 4}},
		{"crlf counts on lf", "a\r\nb", []int{1, 1, 1, 2}},
		{"leading newline", "\nx", []int{1, 2}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			idx := xhpast.NewLineIndex([]byte(testCase.content))
			assert.Equal(t, testCase.want, idx.Map())
		})
	}
}

func TestLineIndex_Memoized(t *testing.T) {
	t.Parallel()

	idx := xhpast.NewLineIndex([]byte("a\nb\nc"))
	first := idx.Map()
	second := idx.Map()

	assert.Same(t, &first[0], &second[0])
}

func TestLineIndex_LineAt(t *testing.T) {
	t.Parallel()

	idx := xhpast.NewLineIndex([]byte("ab\ncd\n"))

	tests := []struct {
		offset   int
		wantLine int
		wantOK   bool
	}{
		{0, 1, true},
		{2, 1, true},
		{3, 2, true},
		{5, 2, true},
		{6, 0, false},
		{-1, 0, false},
	}

	for _, testCase := range tests {
		line, ok := idx.LineAt(testCase.offset)
		assert.Equal(t, testCase.wantLine, line, "offset %d", testCase.offset)
		assert.Equal(t, testCase.wantOK, ok, "offset %d", testCase.offset)
	}
}

func TestLineIndex_LineContent(t *testing.T) {
	t.Parallel()

	idx := xhpast.NewLineIndex([]byte("<?php\r\n\necho 1;\nlast"))

	assert.Equal(t, 4, idx.LineCount())
	assert.Equal(t, "<?php", string(idx.LineContent(1)))
	assert.Equal(t, "", string(idx.LineContent(2)))
	assert.NotNil(t, idx.LineContent(2))
	assert.Equal(t, "echo 1;", string(idx.LineContent(3)))
	assert.Equal(t, "last", string(idx.LineContent(4)))
	assert.Nil(t, idx.LineContent(5))
	assert.Nil(t, idx.LineContent(0))
}

func TestTree_OffsetToLineNumberMap(t *testing.T) {
	t.Parallel()

	tree := echoTree(t)
	lines := tree.OffsetToLineNumberMap()

	assert.Len(t, lines, len(echoSource))
	for _, line := range lines {
		assert.Equal(t, 1, line)
	}

	tokens, err := tree.Tokens()
	assert.NoError(t, err)
	assert.Equal(t, 1, tokens[len(tokens)-1].LineNumber())
}
