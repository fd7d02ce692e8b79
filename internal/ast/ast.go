// Package ast defines the syntax tree the parser produces and the compiler
// consumes.
package ast

import (
	"github.com/ry-lang/ry/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST the parser produces.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// --- Expressions ---

// MathExpr covers arithmetic, equality, and comparison binaries.
type MathExpr struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (e *MathExpr) expressionNode()      {}
func (e *MathExpr) GetToken() token.Token { return e.Op }

// LogicalExpr is `and` / `or` with short-circuit evaluation.
type LogicalExpr struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (e *LogicalExpr) expressionNode()      {}
func (e *LogicalExpr) GetToken() token.Token { return e.Op }

// PrefixExpr is unary `-` or `!`.
type PrefixExpr struct {
	Prefix token.Token
	Right  Expression
}

func (e *PrefixExpr) expressionNode()      {}
func (e *PrefixExpr) GetToken() token.Token { return e.Prefix }

// PostfixExpr is `x++` or `x--` on a variable.
type PostfixExpr struct {
	Left    Expression
	Postfix token.Token
}

func (e *PostfixExpr) expressionNode()      {}
func (e *PostfixExpr) GetToken() token.Token { return e.Postfix }

// RangeExpr is `start to end`.
type RangeExpr struct {
	LeftBound  Expression
	Op         token.Token
	RightBound Expression
}

func (e *RangeExpr) expressionNode()      {}
func (e *RangeExpr) GetToken() token.Token { return e.Op }

// ListExpr is a `[a, b, c]` literal.
type ListExpr struct {
	Bracket  token.Token
	Elements []Expression
}

func (e *ListExpr) expressionNode()      {}
func (e *ListExpr) GetToken() token.Token { return e.Bracket }

// MapItem is one key/value pair in a map literal.
type MapItem struct {
	Key   Expression
	Value Expression
}

// MapExpr is a `{k: v, ...}` literal.
type MapExpr struct {
	Brace token.Token
	Items []MapItem
}

func (e *MapExpr) expressionNode()      {}
func (e *MapExpr) GetToken() token.Token { return e.Brace }

// IndexExpr is a `obj[index]` read.
type IndexExpr struct {
	Object  Expression
	Bracket token.Token
	Index   Expression
}

func (e *IndexExpr) expressionNode()      {}
func (e *IndexExpr) GetToken() token.Token { return e.Bracket }

// IndexSetExpr is a `obj[index] = value` write.
type IndexSetExpr struct {
	Object  Expression
	Bracket token.Token
	Index   Expression
	Value   Expression
}

func (e *IndexSetExpr) expressionNode()      {}
func (e *IndexSetExpr) GetToken() token.Token { return e.Bracket }

// VariableExpr is a bare identifier read.
type VariableExpr struct {
	Name token.Token
}

func (e *VariableExpr) expressionNode()      {}
func (e *VariableExpr) GetToken() token.Token { return e.Name }

// ValueExpr is a literal: number, string, true, false, null.
type ValueExpr struct {
	Value token.Token
}

func (e *ValueExpr) expressionNode()      {}
func (e *ValueExpr) GetToken() token.Token { return e.Value }

// AssignExpr is `name = value`.
type AssignExpr struct {
	Name  token.Token
	Value Expression
}

func (e *AssignExpr) expressionNode()      {}
func (e *AssignExpr) GetToken() token.Token { return e.Name }

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee    Expression
	Paren     token.Token
	Arguments []Expression
}

func (e *CallExpr) expressionNode()      {}
func (e *CallExpr) GetToken() token.Token { return e.Paren }

// GetExpr is a `obj.name` property read.
type GetExpr struct {
	Object Expression
	Name   token.Token
}

func (e *GetExpr) expressionNode()      {}
func (e *GetExpr) GetToken() token.Token { return e.Name }

// SetExpr is a `obj.name = value` property write.
type SetExpr struct {
	Object Expression
	Name   token.Token
	Value  Expression
}

func (e *SetExpr) expressionNode()      {}
func (e *SetExpr) GetToken() token.Token { return e.Name }

// ThisExpr is the `this` keyword inside a method.
type ThisExpr struct {
	Keyword token.Token
}

func (e *ThisExpr) expressionNode()      {}
func (e *ThisExpr) GetToken() token.Token { return e.Keyword }

// GroupExpr is a parenthesized expression.
type GroupExpr struct {
	Expression Expression
}

func (e *GroupExpr) expressionNode()      {}
func (e *GroupExpr) GetToken() token.Token { return e.Expression.GetToken() }

// BitwiseOrExpr is `a | b`.
type BitwiseOrExpr struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (e *BitwiseOrExpr) expressionNode()      {}
func (e *BitwiseOrExpr) GetToken() token.Token { return e.Op }

// BitwiseXorExpr is `a ^ b`.
type BitwiseXorExpr struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (e *BitwiseXorExpr) expressionNode()      {}
func (e *BitwiseXorExpr) GetToken() token.Token { return e.Op }

// BitwiseAndExpr is `a & b`.
type BitwiseAndExpr struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (e *BitwiseAndExpr) expressionNode()      {}
func (e *BitwiseAndExpr) GetToken() token.Token { return e.Op }

// ShiftExpr is `a << b` or `a >> b`.
type ShiftExpr struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (e *ShiftExpr) expressionNode()      {}
func (e *ShiftExpr) GetToken() token.Token { return e.Op }

// --- Statements ---

// ExpressionStmt is an expression evaluated for its side effects.
type ExpressionStmt struct {
	Expression Expression
}

func (s *ExpressionStmt) statementNode()       {}
func (s *ExpressionStmt) GetToken() token.Token { return s.Expression.GetToken() }

// VarStmt is a `data name = initializer` declaration.
type VarStmt struct {
	Name        token.Token
	Initializer Expression // nil means null
}

func (s *VarStmt) statementNode()       {}
func (s *VarStmt) GetToken() token.Token { return s.Name }

// BlockStmt is a `{ ... }` scope.
type BlockStmt struct {
	Brace      token.Token
	Statements []Statement
}

func (s *BlockStmt) statementNode()       {}
func (s *BlockStmt) GetToken() token.Token { return s.Brace }

// IfStmt is `if cond { } else { }`.
type IfStmt struct {
	Keyword    token.Token
	Condition  Expression
	ThenBranch Statement
	ElseBranch Statement // nil when absent
}

func (s *IfStmt) statementNode()       {}
func (s *IfStmt) GetToken() token.Token { return s.Keyword }

// WhileStmt is `while cond { }`.
type WhileStmt struct {
	Keyword   token.Token
	Condition Expression
	Body      Statement
}

func (s *WhileStmt) statementNode()       {}
func (s *WhileStmt) GetToken() token.Token { return s.Keyword }

// ForStmt is `for init; cond; incr { }`. Any clause may be nil.
type ForStmt struct {
	Keyword   token.Token
	Init      Statement
	Condition Expression
	Increment Expression
	Body      Statement
}

func (s *ForStmt) statementNode()       {}
func (s *ForStmt) GetToken() token.Token { return s.Keyword }

// EachStmt is `foreach data id in collection { }`.
type EachStmt struct {
	ID         token.Token
	Collection Expression
	Body       Statement
}

func (s *EachStmt) statementNode()       {}
func (s *EachStmt) GetToken() token.Token { return s.ID }

// FunctionStmt is a `func name(params) { }` declaration or a class method.
type FunctionStmt struct {
	Name       token.Token
	Parameters []token.Token
	Body       []Statement
}

func (s *FunctionStmt) statementNode()       {}
func (s *FunctionStmt) GetToken() token.Token { return s.Name }

// ReturnStmt is `return expr`.
type ReturnStmt struct {
	Keyword token.Token
	Value   Expression // nil means null
}

func (s *ReturnStmt) statementNode()       {}
func (s *ReturnStmt) GetToken() token.Token { return s.Keyword }

// ClassStmt is `class Name childof Super { methods }`.
type ClassStmt struct {
	Name       token.Token
	Superclass Expression // nil when the class has no parent
	Methods    []*FunctionStmt
}

func (s *ClassStmt) statementNode()       {}
func (s *ClassStmt) GetToken() token.Token { return s.Name }

// PanicStmt is `panic expr`.
type PanicStmt struct {
	Keyword token.Token
	Message Expression // nil means null
}

func (s *PanicStmt) statementNode()       {}
func (s *PanicStmt) GetToken() token.Token { return s.Keyword }

// AttemptStmt is `attempt { } fail err { }`.
type AttemptStmt struct {
	Keyword     token.Token
	AttemptBody []Statement
	Error       token.Token // the handler's error variable
	FailBody    []Statement
}

func (s *AttemptStmt) statementNode()       {}
func (s *AttemptStmt) GetToken() token.Token { return s.Keyword }

// StopStmt breaks out of the innermost loop.
type StopStmt struct {
	Keyword token.Token
}

func (s *StopStmt) statementNode()       {}
func (s *StopStmt) GetToken() token.Token { return s.Keyword }

// SkipStmt continues the innermost loop.
type SkipStmt struct {
	Keyword token.Token
}

func (s *SkipStmt) statementNode()       {}
func (s *SkipStmt) GetToken() token.Token { return s.Keyword }

// ImportStmt is `import "path"`.
type ImportStmt struct {
	Keyword token.Token
	Module  Expression
}

func (s *ImportStmt) statementNode()       {}
func (s *ImportStmt) GetToken() token.Token { return s.Keyword }

// AliasStmt is `alias name = expr`.
type AliasStmt struct {
	Name      token.Token
	AliasExpr Expression
}

func (s *AliasStmt) statementNode()       {}
func (s *AliasStmt) GetToken() token.Token { return s.Name }

// NamespaceStmt is `namespace name { }`.
type NamespaceStmt struct {
	Name token.Token
	Body []Statement
}

func (s *NamespaceStmt) statementNode()       {}
func (s *NamespaceStmt) GetToken() token.Token { return s.Name }
