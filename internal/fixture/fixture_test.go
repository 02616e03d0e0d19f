package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryota2357/lico-sub000/internal/ast"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

func TestDecodeBlockTailExpression(t *testing.T) {
	block, err := DecodeBlock([]byte(`{
		"tail": {"kind": "binary", "op": "+",
			"lhs": {"kind": "int", "text": "1"},
			"rhs": {"kind": "int", "text": "2"}}
	}`))
	require.NoError(t, err)
	require.Empty(t, block.Stmts)
	require.NotNil(t, block.Tail)

	bin, ok := block.Tail.(ast.BinaryExpr)
	require.True(t, ok, "expected ast.BinaryExpr, got %T", block.Tail)
	assert.Equal(t, ir.BinaryAdd, bin.Op.Kind)
	assert.Equal(t, ast.IntLit{Text: "1"}, bin.LHS)
	assert.Equal(t, ast.IntLit{Text: "2"}, bin.RHS)
}

func TestDecodeBlockLocalDeclAndReturn(t *testing.T) {
	block, err := DecodeBlock([]byte(`{
		"stmts": [
			{"kind": "local", "name": "x", "value": {"kind": "int", "text": "10"}},
			{"kind": "return", "value": {"kind": "local_var", "name": "x"}}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, block.Stmts, 2)

	decl, ok := block.Stmts[0].(ast.LocalDecl)
	require.True(t, ok, "expected ast.LocalDecl, got %T", block.Stmts[0])
	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, ast.IntLit{Text: "10"}, decl.Value)

	ret, ok := block.Stmts[1].(ast.Return)
	require.True(t, ok, "expected ast.Return, got %T", block.Stmts[1])
	assert.Equal(t, ast.LocalVarExpr{Name: "x"}, ret.Value)
}

func TestDecodeBlockIfElif(t *testing.T) {
	block, err := DecodeBlock([]byte(`{
		"stmts": [
			{"kind": "if",
			 "condition": {"kind": "bool", "val": true},
			 "body": {"stmts": [], "tail": {"kind": "nil"}},
			 "elif": [
				{"condition": {"kind": "bool", "val": false},
				 "body": {"stmts": [], "tail": {"kind": "int", "text": "1"}}}
			 ],
			 "else": {"stmts": [], "tail": {"kind": "int", "text": "2"}}}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, block.Stmts, 1)

	ifStmt, ok := block.Stmts[0].(ast.If)
	require.True(t, ok, "expected ast.If, got %T", block.Stmts[0])
	assert.Equal(t, ast.BoolLit{Val: true}, ifStmt.Condition)
	require.Len(t, ifStmt.Elif, 1)
	assert.Equal(t, ast.BoolLit{Val: false}, ifStmt.Elif[0].Condition)
	require.NotNil(t, ifStmt.Else)
	assert.Equal(t, ast.IntLit{Text: "2"}, ifStmt.Else.Tail)
}

func TestDecodeBlockUnknownKindErrors(t *testing.T) {
	_, err := DecodeBlock([]byte(`{"tail": {"kind": "nonsense"}}`))
	require.Error(t, err)
}

func TestDecodeBlockTableAndArray(t *testing.T) {
	block, err := DecodeBlock([]byte(`{
		"tail": {"kind": "table", "fields": [
			{"key": "a", "initializer": {"kind": "int", "text": "1"}},
			{"keyExpr": {"kind": "string", "text": "\"b\""}, "initializer": {"kind": "int", "text": "2"}}
		]}
	}`))
	require.NoError(t, err)
	tbl, ok := block.Tail.(ast.TableExpr)
	require.True(t, ok, "expected ast.TableExpr, got %T", block.Tail)
	require.Len(t, tbl.Fields, 2)
	assert.True(t, tbl.Fields[0].HasKeyIdent)
	assert.Equal(t, "a", tbl.Fields[0].KeyIdent)
	assert.False(t, tbl.Fields[1].HasKeyIdent)
	assert.Equal(t, ast.StringLit{Text: `"b"`}, tbl.Fields[1].KeyExpr)

	block, err = DecodeBlock([]byte(`{
		"tail": {"kind": "array", "elements": [
			{"kind": "int", "text": "1"},
			{"kind": "int", "text": "2"}
		]}
	}`))
	require.NoError(t, err)
	arr, ok := block.Tail.(ast.ArrayExpr)
	require.True(t, ok, "expected ast.ArrayExpr, got %T", block.Tail)
	assert.Len(t, arr.Elements, 2)
}
