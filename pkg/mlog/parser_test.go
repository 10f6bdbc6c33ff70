package mlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleInstruction(t *testing.T) {
	doc, diags := Parse(`print "hi"`)
	//
	require.Empty(t, diags)
	require.Equal(t, 1, doc.Len())
	//
	node := doc.Node(0)
	assert.Equal(t, KindInstruction, node.Kind)
	assert.Equal(t, "print", node.Opcode)
	assert.Equal(t, Position{0, 0}, node.Start)
	require.Len(t, node.Tokens, 2)
}

func TestParse_LabelAndJump(t *testing.T) {
	doc, diags := Parse("start:\njump start always")
	//
	require.Empty(t, diags)
	require.Equal(t, 2, doc.Len())
	//
	assert.Equal(t, KindLabel, doc.Node(0).Kind)
	assert.Equal(t, "start", doc.Node(0).Name)
	assert.Equal(t, "start:", doc.Node(0).Tokens[0].Content)
	assert.Equal(t, KindInstruction, doc.Node(1).Kind)
	//
	index, ok := doc.Label("start")
	require.True(t, ok)
	assert.Equal(t, 0, index)
}

func TestParse_LabelWithChainedTail(t *testing.T) {
	doc, _ := Parse("start: print x")
	//
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, KindLabel, doc.Node(0).Kind)
	assert.Equal(t, KindInstruction, doc.Node(1).Kind)
	// chained node keeps the line, shifted character offset
	assert.Equal(t, Position{0, 0}, doc.Node(0).Start)
	assert.Equal(t, Position{0, 7}, doc.Node(1).Start)
}

func TestParse_SeparatorChaining(t *testing.T) {
	doc, _ := Parse("set x 1; print x; end")
	//
	require.Equal(t, 3, doc.Len())
	//
	for i := 0; i < 3; i++ {
		assert.Equal(t, KindInstruction, doc.Node(i).Kind)
		assert.Equal(t, uint32(0), doc.Node(i).Start.Line)
	}
	//
	assert.Equal(t, "set", doc.Node(0).Opcode)
	assert.Equal(t, "print", doc.Node(1).Opcode)
	assert.Equal(t, "end", doc.Node(2).Opcode)
}

func TestParse_CommentLines(t *testing.T) {
	doc, _ := Parse("# header\nprint 1\nset x 2 # trailing")
	//
	require.Equal(t, 3, doc.Len())
	assert.Equal(t, KindComment, doc.Node(0).Kind)
	// a trailing comment stays inside the instruction node
	assert.Equal(t, KindInstruction, doc.Node(2).Kind)
	assert.Equal(t, "# trailing", doc.Node(2).Tokens[3].Content)
}

func TestParse_ChainedComment(t *testing.T) {
	doc, _ := Parse("print 1; # done")
	//
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, KindInstruction, doc.Node(0).Kind)
	assert.Equal(t, KindComment, doc.Node(1).Kind)
}

func TestParse_BlankLinesYieldNoNodes(t *testing.T) {
	doc, _ := Parse("print 1\n\n\nprint 2\n")
	//
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, uint32(0), doc.Node(0).Start.Line)
	assert.Equal(t, uint32(3), doc.Node(1).Start.Line)
}

func TestParse_TotalOnMalformedInput(t *testing.T) {
	// Garbage parses into instructions, never a failure.
	doc, _ := Parse("??! $$$\n:")
	//
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, KindInstruction, doc.Node(0).Kind)
	assert.Equal(t, "??!", doc.Node(0).Opcode)
}

func TestParse_DuplicateLabelFirstWins(t *testing.T) {
	doc, _ := Parse("here:\nprint 1\nhere:\nprint 2")
	//
	index, ok := doc.Label("here")
	require.True(t, ok)
	assert.Equal(t, 0, index)
}

func TestParse_UnterminatedStringDiagnostic(t *testing.T) {
	_, diags := Parse("print \"oops\nend")
	//
	require.Len(t, diags, 1)
	assert.Equal(t, CodeUnterminatedString, diags[0].Code)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, uint32(0), diags[0].Range.Start.Line)
	assert.Equal(t, uint32(6), diags[0].Range.Start.Character)
}

func TestParse_NodesStrictlyOrdered(t *testing.T) {
	doc, _ := Parse("a:\nset x 1; set y 2\nb:\nprint x")
	//
	nodes := doc.Nodes()
	for i := 1; i < len(nodes); i++ {
		prev, cur := nodes[i-1].Start, nodes[i].Start
		ordered := prev.Line < cur.Line ||
			(prev.Line == cur.Line && prev.Character < cur.Character)
		assert.True(t, ordered, "nodes %d and %d out of order", i-1, i)
	}
}

func TestDocument_NodeAt(t *testing.T) {
	doc, _ := Parse("start:\n    jump start always")
	//
	index, ok := doc.NodeAt(Position{1, 6})
	require.True(t, ok)
	assert.Equal(t, 1, index)
	//
	index, ok = doc.NodeAt(Position{0, 2})
	require.True(t, ok)
	assert.Equal(t, 0, index)
	//
	_, ok = doc.NodeAt(Position{5, 0})
	assert.False(t, ok)
}

func TestDocument_RebuiltWholesale(t *testing.T) {
	first, _ := Parse("print 1")
	second, _ := Parse("print 1")
	// Each parse produces an independent document.
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Nodes(), second.Nodes())
}
