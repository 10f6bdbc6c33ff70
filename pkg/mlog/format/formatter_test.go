package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/mlogls/pkg/mlog"
)

func render(t *testing.T, text string, opts Options) string {
	t.Helper()
	//
	doc, _ := mlog.Parse(text)
	//
	return Format(doc, opts)
}

func Test_Format_Empty(t *testing.T) {
	assert.Equal(t, "", render(t, "", DefaultOptions()))
}

func Test_Format_SingleInstruction(t *testing.T) {
	assert.Equal(t, "    print \"hi\"\n", render(t, `print "hi"`, DefaultOptions()))
}

func Test_Format_LabelBlock(t *testing.T) {
	text := "# setup\nstart:\nset x 1\njump start always"
	expected := "# setup\nstart:\n    set x 1\n    jump start always\n"
	//
	assert.Equal(t, expected, render(t, text, DefaultOptions()))
}

func Test_Format_BlankRunClampedToThreeBreaks(t *testing.T) {
	// Five blank lines between two instructions collapse to the upper bound
	// of three line breaks.
	text := "print 1\n\n\n\n\n\nprint 2"
	expected := "    print 1\n\n\n    print 2\n"
	//
	assert.Equal(t, expected, render(t, text, DefaultOptions()))
}

func Test_Format_LeadingBlanksClampedToTwo(t *testing.T) {
	text := "\n\n\n\nprint 1"
	expected := "\n\n    print 1\n"
	//
	assert.Equal(t, expected, render(t, text, DefaultOptions()))
}

func Test_Format_UnchainsSeparators(t *testing.T) {
	text := "start: set x 1; print x"
	expected := "start:\n    set x 1\n    print x\n"
	//
	assert.Equal(t, expected, render(t, text, DefaultOptions()))
}

func Test_Format_NormalizesSpacing(t *testing.T) {
	text := "set    x\t\t1"
	expected := "    set x 1\n"
	//
	assert.Equal(t, expected, render(t, text, DefaultOptions()))
}

func Test_Format_TrailingCommentRunUnindented(t *testing.T) {
	text := "print 1\n# the end\n# of the file"
	expected := "    print 1\n# the end\n# of the file\n"
	//
	assert.Equal(t, expected, render(t, text, DefaultOptions()))
}

func Test_Format_BodyCommentIndented(t *testing.T) {
	// A comment followed by an instruction belongs to the indented block.
	text := "set x 1\n# note\nset y 2"
	expected := "    set x 1\n    # note\n    set y 2\n"
	//
	assert.Equal(t, expected, render(t, text, DefaultOptions()))
}

func Test_Format_Tabs(t *testing.T) {
	opts := Options{TabSize: 4, InsertSpaces: false, InsertFinalNewline: true}
	//
	assert.Equal(t, "\tprint 1\n", render(t, "print 1", opts))
}

func Test_Format_NoFinalNewline(t *testing.T) {
	opts := Options{TabSize: 2, InsertSpaces: true, InsertFinalNewline: false}
	//
	assert.Equal(t, "  print 1", render(t, "print 1", opts))
}

func Test_Format_Idempotent(t *testing.T) {
	inputs := []string{
		"print 1\n\n\n\n\n\nprint 2",
		"# setup\nstart:\nset x 1; set y 2\n\n\n\n\njump start always",
		"\n\n\nloop:\n  op add i i 1\njump loop lessThan i 10\n# done",
		"??! garbage $$\nprint \"unterminated",
	}
	//
	for _, text := range inputs {
		once := render(t, text, DefaultOptions())
		twice := render(t, once, DefaultOptions())
		//
		assert.Equal(t, once, twice, "formatting not idempotent for %q", text)
	}
}

func Test_Format_RoundTripPreservesTokens(t *testing.T) {
	// Formatting only touches whitespace: re-tokenizing the output yields the
	// original token contents in the original order.
	text := "start:   set x   1;print x\n\n\n\njump start always # loop"
	//
	before, _ := mlog.Parse(text)
	after, _ := mlog.Parse(render(t, text, DefaultOptions()))
	//
	require.Equal(t, before.Len(), after.Len())
	//
	for i := 0; i < before.Len(); i++ {
		a, b := before.Node(i), after.Node(i)
		assert.Equal(t, a.Kind, b.Kind)
		require.Equal(t, len(a.Tokens), len(b.Tokens))
		//
		for j := range a.Tokens {
			assert.Equal(t, a.Tokens[j].Content, b.Tokens[j].Content)
		}
	}
}

func Test_Format_MalformedInputReproduced(t *testing.T) {
	// The formatter validates nothing; garbage is rendered as-is.
	out := render(t, "??! $$$", DefaultOptions())
	//
	assert.Equal(t, "    ??! $$$\n", out)
	assert.False(t, strings.Contains(out, "error"))
}
