// Package fixture decodes a small JSON encoding of internal/ast's node
// shapes, used only by cmd/lico's run/repl/disasm/batch subcommands as
// a convenience front end over on-disk test fixtures. This is
// explicitly NOT a language parser: lexing/parsing a textual surface
// syntax is out of scope for this module (SPEC_FULL.md §1); a JSON
// tree is just a serializable stand-in for an already-parsed
// internal/ast.Block a real front end would otherwise hand the
// interpreter directly.
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/ryota2357/lico-sub000/internal/ast"
	"github.com/ryota2357/lico-sub000/internal/ir"
)

// node is the generic JSON shape every statement/expression decodes
// from: a "kind" discriminator plus whichever of the optional fields
// that kind uses. Nested nodes are themselves raw json.RawMessage so
// decodeExpr/decodeStmt can dispatch on their own "kind" recursively.
type node struct {
	Kind string `json:"kind"`

	// literals
	Text string `json:"text,omitempty"`
	Val  bool   `json:"val,omitempty"`
	Name string `json:"name,omitempty"`

	// binary/prefix
	Op  string          `json:"op,omitempty"`
	LHS json.RawMessage `json:"lhs,omitempty"`
	RHS json.RawMessage `json:"rhs,omitempty"`

	// call
	Callee json.RawMessage   `json:"callee,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`

	// index/field
	Target json.RawMessage `json:"target,omitempty"`
	Index  json.RawMessage `json:"index,omitempty"`
	Field  string          `json:"field,omitempty"`

	// collections
	Elements []json.RawMessage `json:"elements,omitempty"`
	Fields   []fieldNode       `json:"fields,omitempty"`

	// statements
	Value     json.RawMessage   `json:"value,omitempty"`
	Condition json.RawMessage   `json:"condition,omitempty"`
	Body      *blockNode        `json:"body,omitempty"`
	Else      *blockNode        `json:"else,omitempty"`
	Elif      []elifNode        `json:"elif,omitempty"`
	Variable  string            `json:"variable,omitempty"`
	Iterable  json.RawMessage   `json:"iterable,omitempty"`
	Params    []string          `json:"params,omitempty"`
	Stmts     []json.RawMessage `json:"-"`
}

type fieldNode struct {
	Key         string          `json:"key,omitempty"`
	KeyExpr     json.RawMessage `json:"keyExpr,omitempty"`
	Initializer json.RawMessage `json:"initializer,omitempty"`
}

type elifNode struct {
	Condition json.RawMessage `json:"condition"`
	Body      blockNode       `json:"body"`
}

// blockNode is the JSON shape of ast.Block: a statement list plus an
// optional tail expression.
type blockNode struct {
	Stmts []json.RawMessage `json:"stmts"`
	Tail  json.RawMessage   `json:"tail,omitempty"`
}

// DecodeBlock parses one JSON fixture document into an ast.Block.
func DecodeBlock(data []byte) (ast.Block, error) {
	var b blockNode
	if err := json.Unmarshal(data, &b); err != nil {
		return ast.Block{}, fmt.Errorf("fixture: %w", err)
	}
	return decodeBlock(b)
}

func decodeBlock(b blockNode) (ast.Block, error) {
	stmts := make([]ast.Statement, len(b.Stmts))
	for i, raw := range b.Stmts {
		s, err := decodeStmt(raw)
		if err != nil {
			return ast.Block{}, err
		}
		stmts[i] = s
	}
	var tail ast.Expression
	if len(b.Tail) > 0 {
		t, err := decodeExpr(b.Tail)
		if err != nil {
			return ast.Block{}, err
		}
		tail = t
	}
	return ast.Block{Stmts: stmts, Tail: tail}, nil
}

func decodeNode(raw json.RawMessage) (node, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return node{}, fmt.Errorf("fixture: %w", err)
	}
	return n, nil
}

func decodeStmt(raw json.RawMessage) (ast.Statement, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case "local":
		var v ast.Expression
		if len(n.Value) > 0 {
			if v, err = decodeExpr(n.Value); err != nil {
				return nil, err
			}
		}
		return ast.LocalDecl{Name: n.Name, Value: v}, nil
	case "assign":
		target, err := decodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return ast.Assign{Target: target, Value: value}, nil
	case "if":
		return decodeIf(n)
	case "for":
		iterable, err := decodeExpr(n.Iterable)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(*n.Body)
		if err != nil {
			return nil, err
		}
		return ast.LoopFor{Variable: n.Variable, Iterable: iterable, Body: body}, nil
	case "while":
		cond, err := decodeExpr(n.Condition)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(*n.Body)
		if err != nil {
			return nil, err
		}
		return ast.LoopWhile{Condition: cond, Body: body}, nil
	case "return":
		var v ast.Expression
		if len(n.Value) > 0 {
			if v, err = decodeExpr(n.Value); err != nil {
				return nil, err
			}
		}
		return ast.Return{Value: v}, nil
	case "break":
		return ast.Break{}, nil
	case "continue":
		return ast.Continue{}, nil
	case "exprStmt":
		v, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return ast.ExprStmt{Value: v}, nil
	case "do":
		body, err := decodeBlock(*n.Body)
		if err != nil {
			return nil, err
		}
		return ast.DoStmt{Body: body}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown statement kind %q", n.Kind)
	}
}

func decodeIf(n node) (ast.If, error) {
	cond, err := decodeExpr(n.Condition)
	if err != nil {
		return ast.If{}, err
	}
	body, err := decodeBlock(*n.Body)
	if err != nil {
		return ast.If{}, err
	}
	out := ast.If{Condition: cond, Body: body}
	for _, e := range n.Elif {
		ec, err := decodeExpr(e.Condition)
		if err != nil {
			return ast.If{}, err
		}
		eb, err := decodeBlock(e.Body)
		if err != nil {
			return ast.If{}, err
		}
		out.Elif = append(out.Elif, ast.ElifBranch{Condition: ec, Body: eb})
	}
	if n.Else != nil {
		eb, err := decodeBlock(*n.Else)
		if err != nil {
			return ast.If{}, err
		}
		out.Else = &eb
	}
	return out, nil
}

var binaryOps = map[string]ir.BinaryOpKind{
	"+": ir.BinaryAdd, "-": ir.BinarySub, "*": ir.BinaryMul, "/": ir.BinaryDiv, "%": ir.BinaryMod,
	"<<": ir.BinaryShl, ">>": ir.BinaryShr, "..": ir.BinaryConcat,
	"==": ir.BinaryEq, "~=": ir.BinaryNe, "<": ir.BinaryLt, "<=": ir.BinaryLe,
	">": ir.BinaryGt, ">=": ir.BinaryGe, "and": ir.BinaryAnd, "or": ir.BinaryOr,
	"&": ir.BinaryBitAnd, "|": ir.BinaryBitOr, "^": ir.BinaryBitXor,
}

var prefixOps = map[string]ir.PrefixOpKind{
	"-": ir.PrefixMinus, "+": ir.PrefixPlus, "not": ir.PrefixNot, "~": ir.PrefixBitNot,
}

func decodeExpr(raw json.RawMessage) (ast.Expression, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case "int":
		return ast.IntLit{Text: n.Text}, nil
	case "float":
		return ast.FloatLit{Text: n.Text}, nil
	case "string":
		return ast.StringLit{Text: n.Text}, nil
	case "bool":
		return ast.BoolLit{Val: n.Val}, nil
	case "nil":
		return ast.NilLit{}, nil
	case "local_var":
		return ast.LocalVarExpr{Name: n.Name}, nil
	case "binary":
		kind, ok := binaryOps[n.Op]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown binary operator %q", n.Op)
		}
		lhs, err := decodeExpr(n.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpr(n.RHS)
		if err != nil {
			return nil, err
		}
		return ast.BinaryExpr{LHS: lhs, RHS: rhs, Op: ir.BinaryOp{Kind: kind}}, nil
	case "prefix":
		kind, ok := prefixOps[n.Op]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown prefix operator %q", n.Op)
		}
		operand, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return ast.PrefixExpr{Operand: operand, Op: ir.PrefixOp{Kind: kind}}, nil
	case "call":
		callee, err := decodeExpr(n.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expression, len(n.Args))
		for i, a := range n.Args {
			arg, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return ast.CallExpr{Callee: callee, Args: args}, nil
	case "index":
		target, err := decodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return ast.IndexExpr{Target: target, Index: idx}, nil
	case "field":
		target, err := decodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		return ast.FieldExpr{Target: target, Name: n.Field}, nil
	case "array":
		elems := make([]ast.Expression, len(n.Elements))
		for i, e := range n.Elements {
			v, err := decodeExpr(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return ast.ArrayExpr{Elements: elems}, nil
	case "table":
		fields := make([]ast.TableFieldNode, len(n.Fields))
		for i, f := range n.Fields {
			tf := ast.TableFieldNode{}
			if f.Key != "" {
				tf.HasKeyIdent = true
				tf.KeyIdent = f.Key
			} else if len(f.KeyExpr) > 0 {
				ke, err := decodeExpr(f.KeyExpr)
				if err != nil {
					return nil, err
				}
				tf.KeyExpr = ke
			}
			if len(f.Initializer) > 0 {
				iv, err := decodeExpr(f.Initializer)
				if err != nil {
					return nil, err
				}
				tf.Initializer = iv
			}
			fields[i] = tf
		}
		return ast.TableExpr{Fields: fields}, nil
	case "if_expr":
		ifStmt, err := decodeIf(n)
		if err != nil {
			return nil, err
		}
		return ast.IfExpr{Condition: ifStmt.Condition, Body: ifStmt.Body, Elif: ifStmt.Elif, Else: ifStmt.Else}, nil
	case "do_expr":
		body, err := decodeBlock(*n.Body)
		if err != nil {
			return nil, err
		}
		return ast.DoExpr{Body: body}, nil
	case "func":
		params := make([]ast.Param, len(n.Params))
		for i, p := range n.Params {
			params[i] = ast.Param{Name: p}
		}
		body, err := decodeBlock(*n.Body)
		if err != nil {
			return nil, err
		}
		return ast.FuncExpr{Params: params, Body: body}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown expression kind %q", n.Kind)
	}
}
