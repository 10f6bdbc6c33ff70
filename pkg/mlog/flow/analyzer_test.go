package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/mlogls/pkg/mlog"
)

func analyze(t *testing.T, text string) (*mlog.Document, *Result, []mlog.Diagnostic) {
	t.Helper()
	//
	doc, parseDiags := mlog.Parse(text)
	require.Empty(t, parseDiags)
	//
	result, diags := Analyze(doc)
	//
	return doc, result, diags
}

func codes(diags []mlog.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	//
	return out
}

func Test_Flow_SingleInstruction(t *testing.T) {
	_, result, diags := analyze(t, `print "hi"`)
	//
	assert.Empty(t, diags)
	assert.Equal(t, 1, result.Reachable.Count())
	assert.True(t, result.Reachable.Get(0))
}

func Test_Flow_LabelLoop(t *testing.T) {
	doc, result, diags := analyze(t, "start:\njump start always")
	//
	assert.Empty(t, diags)
	//
	index, ok := doc.Label("start")
	require.True(t, ok)
	assert.Equal(t, 0, index)
	// An always-taken jump has no fall-through; its only outgoing edge is the
	// jump edge 1 -> 0.
	var outgoing []Edge
	for _, e := range result.Edges {
		if e.From == 1 {
			outgoing = append(outgoing, e)
		}
	}
	//
	require.Len(t, outgoing, 1)
	assert.Equal(t, Edge{From: 1, To: 0, Kind: Jump, Conditional: false}, outgoing[0])
	// both nodes reachable
	assert.True(t, result.Reachable.Get(0))
	assert.True(t, result.Reachable.Get(1))
}

func Test_Flow_UndefinedLabel(t *testing.T) {
	_, _, diags := analyze(t, "jump missing always")
	//
	require.Len(t, diags, 1)
	assert.Equal(t, mlog.CodeUndefinedLabel, diags[0].Code)
	assert.Equal(t, mlog.SeverityError, diags[0].Severity)
	// reported at the target operand
	assert.Equal(t, mlog.NewRange(0, 5, 12), diags[0].Range)
}

func Test_Flow_UnreachableAfterJump(t *testing.T) {
	_, result, diags := analyze(t, "end\njump 0 always\nprint \"unreachable\"")
	//
	require.Equal(t, []string{mlog.CodeUnreachableCode}, codes(diags))
	assert.Equal(t, uint32(2), diags[0].Range.Start.Line)
	//
	assert.True(t, result.Reachable.Get(0))
	assert.True(t, result.Reachable.Get(1))
	assert.False(t, result.Reachable.Get(2))
}

func Test_Flow_LiteralIndexCountsInstructionsOnly(t *testing.T) {
	// Node layout: comment, label, print, jump.  Instruction index 0 is the
	// print at node index 2.
	_, result, diags := analyze(t, "# loop forever\ntop:\nprint 1\njump 0 always")
	//
	assert.Empty(t, diags)
	//
	var jump Edge
	for _, e := range result.Edges {
		if e.Kind == Jump {
			jump = e
		}
	}
	//
	assert.Equal(t, Edge{From: 3, To: 2, Kind: Jump}, jump)
}

func Test_Flow_LiteralIndexOutOfRange(t *testing.T) {
	_, _, diags := analyze(t, "jump 5 always")
	//
	require.Len(t, diags, 1)
	assert.Equal(t, mlog.CodeUndefinedLabel, diags[0].Code)
}

func Test_Flow_ConditionalJumpFallsThrough(t *testing.T) {
	_, result, diags := analyze(t, "set x 1\njump 0 lessThan x 10\nprint x")
	//
	assert.Empty(t, diags)
	// all three reachable: conditional jumps keep their fall-through edge
	assert.Equal(t, 3, result.Reachable.Count())
	//
	var kinds []EdgeKind
	for _, e := range result.Edges {
		if e.From == 1 {
			kinds = append(kinds, e.Kind)
		}
	}
	//
	assert.ElementsMatch(t, []EdgeKind{Fallthrough, Jump}, kinds)
}

func Test_Flow_EndFallsThrough(t *testing.T) {
	// "end" restarts the processor at runtime but does not sever the static
	// fall-through edge.
	_, result, diags := analyze(t, "end\nprint 1")
	//
	assert.Empty(t, diags)
	assert.True(t, result.Reachable.Get(1))
}

func Test_Flow_DuplicateLabel(t *testing.T) {
	_, _, diags := analyze(t, "here:\nprint 1\nhere:\nprint 2")
	//
	require.Equal(t, []string{mlog.CodeDuplicateLabel}, codes(diags))
	// the redeclaration is flagged, not the original
	assert.Equal(t, uint32(2), diags[0].Range.Start.Line)
}

func Test_Flow_UnknownOpcode(t *testing.T) {
	_, _, diags := analyze(t, "frobnicate x y")
	//
	require.Equal(t, []string{mlog.CodeUnknownOpcode}, codes(diags))
	assert.Equal(t, mlog.SeverityWarning, diags[0].Severity)
}

func Test_Flow_MissingJumpTarget(t *testing.T) {
	_, _, diags := analyze(t, "jump")
	//
	require.Len(t, diags, 1)
	assert.Equal(t, mlog.CodeUndefinedLabel, diags[0].Code)
}

func Test_Flow_CommentsAndLabelsNeverUnreachable(t *testing.T) {
	// The trailing comment and label sit after an always-taken jump, yet they
	// carry no reachability semantics.
	_, _, diags := analyze(t, "loop:\njump loop always\n# the end\nfini:")
	//
	assert.Empty(t, diags)
}

func Test_Flow_EmptyDocument(t *testing.T) {
	doc, _ := mlog.Parse("")
	result, diags := Analyze(doc)
	//
	assert.Empty(t, diags)
	assert.Equal(t, 0, result.Reachable.Len())
}

func Test_Assign_StraightLine(t *testing.T) {
	_, _, diags := analyze(t, "set x 1\nprint x")
	//
	assert.Empty(t, diags)
}

func Test_Assign_UseBeforeSet(t *testing.T) {
	_, _, diags := analyze(t, "print x\nset x 1")
	//
	require.Equal(t, []string{mlog.CodeUnsetVariable}, codes(diags))
	assert.Equal(t, mlog.SeverityWarning, diags[0].Severity)
	assert.Equal(t, uint32(0), diags[0].Range.Start.Line)
}

func Test_Assign_JoinRequiresBothPaths(t *testing.T) {
	// x is only set on the fall-through path, so the use after the join may
	// see it unset.
	_, _, diags := analyze(t, "jump skip equal a a\nset x 1\nskip:\nprint x\nset a 1")
	//
	assert.Contains(t, codes(diags), mlog.CodeUnsetVariable)
	// the diagnostic points at the print, not the set
	for _, d := range diags {
		if d.Code == mlog.CodeUnsetVariable && d.Message == "variable \"x\" may not be set before use" {
			assert.Equal(t, uint32(3), d.Range.Start.Line)
		}
	}
}

func Test_Assign_LoopBackEdge(t *testing.T) {
	// i is set before the loop; the back edge must not erase that fact.
	_, _, diags := analyze(t, "set i 0\nloop:\nop add i i 1\njump loop lessThan i 10\nprint i")
	//
	assert.Empty(t, diags)
}

func Test_Assign_JumpedOverRegionDoesNotPoisonJoin(t *testing.T) {
	// The print between the jump and its target is dead; the join at "done"
	// must take its facts from the executable path alone, where x is set.
	_, result, diags := analyze(t, "set x 1\njump done always\nprint x\ndone:\nprint x")
	//
	assert.False(t, result.Reachable.Get(2))
	require.Equal(t, []string{mlog.CodeUnreachableCode}, codes(diags))
}

func Test_Assign_IgnoresBuiltinsAndLinks(t *testing.T) {
	_, _, diags := analyze(t, "print @time\nprintflush message1\nread result cell1 0\nprint result")
	//
	assert.Empty(t, diags)
}

func Test_Assign_KeywordOperandsNotReads(t *testing.T) {
	// "add" is op's operation selector, not a variable.
	_, _, diags := analyze(t, "op add x 1 2\nprint x")
	//
	assert.Empty(t, diags)
}
