package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryota2357/lico-sub000/internal/ast"
	"github.com/ryota2357/lico-sub000/internal/capture"
	"github.com/ryota2357/lico-sub000/internal/codegen"
	"github.com/ryota2357/lico-sub000/internal/lower"
	"github.com/ryota2357/lico-sub000/internal/object"
)

// TestExecuteCollectsReferenceCycle runs SPEC_FULL.md's scenario 7
// (two arrays referencing each other, then both local names dropped)
// directly against this package's own loop/Heap, since Execute doesn't
// return the Heap it constructs and interp's public surface has no
// reason to expose one. The cycle leaves each array's Go-level refcount
// at 1 after `a = nil; b = nil` drops the only non-cyclic reference;
// CollectCycles must break it so no root is left buffered afterward.
func TestExecuteCollectsReferenceCycle(t *testing.T) {
	block := ast.Block{
		Stmts: []ast.Statement{
			ast.LocalDecl{Name: "a", Value: ast.ArrayExpr{Elements: []ast.Expression{ast.NilLit{}}}},
			ast.LocalDecl{Name: "b", Value: ast.ArrayExpr{Elements: []ast.Expression{ast.LocalVarExpr{Name: "a"}}}},
			ast.Assign{
				Target: ast.IndexExpr{Target: ast.LocalVarExpr{Name: "a"}, Index: ast.IntLit{Text: "0"}},
				Value:  ast.LocalVarExpr{Name: "b"},
			},
			ast.Assign{Target: ast.LocalVarExpr{Name: "a"}, Value: ast.NilLit{}},
			ast.Assign{Target: ast.LocalVarExpr{Name: "b"}, Value: ast.NilLit{}},
			ast.Return{Value: ast.IntLit{Text: "1"}},
		},
	}

	mod, diags := lower.Lower(block)
	require.Empty(t, diags)
	captures, diags := capture.Analyze(mod, nil)
	require.Empty(t, diags)
	code := codegen.Compile(mod, captures)
	exe := object.NewExecutable(code)

	heap := object.NewHeap()
	rt := NewRuntime(heap)

	result, excs := loop(exe, rt)
	require.Empty(t, excs)
	assert.Equal(t, object.Int(1), result)

	before := heap.LiveRoots()
	heap.CollectCycles()
	assert.Positive(t, before, "the a<->b cycle should have buffered at least one root candidate")
	assert.Zero(t, heap.LiveRoots(), "CollectCycles should have broken the cycle and left no root buffered")
}
