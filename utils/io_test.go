package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(input string) []string {
	var out []string
	for line := range ReadLinesAsBytes(strings.NewReader(input)) {
		out = append(out, string(line))
	}
	return out
}

func TestReadLinesAsBytes(t *testing.T) {
	assert.Equal(t, []string{"one", "two", "three"}, collect("one\ntwo\nthree\n"))
}

func TestReadLinesAsBytesNoTrailingNewline(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, collect("one\ntwo"))
}

func TestReadLinesAsBytesEmpty(t *testing.T) {
	assert.Empty(t, collect(""))
}
