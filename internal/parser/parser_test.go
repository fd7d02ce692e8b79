package parser

import (
	"testing"

	"github.com/ry-lang/ry/internal/ast"
	"github.com/ry-lang/ry/internal/lexer"
	"github.com/ry-lang/ry/internal/pipeline"
	"github.com/ry-lang/ry/internal/token"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse error: %s", ctx.Errors[0].Error())
	}
	return ctx.AstRoot.(*ast.Program)
}

func parseExpectError(t *testing.T, input string) string {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) == 0 {
		t.Fatal("expected a parse error")
	}
	return ctx.Errors[0].Message
}

func firstExpression(t *testing.T, input string) ast.Expression {
	t.Helper()
	program := parse(t, input)
	if len(program.Statements) == 0 {
		t.Fatal("no statements parsed")
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExpressionStmt", program.Statements[0])
	}
	return stmt.Expression
}

func TestPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3).
	expr := firstExpression(t, `1 + 2 * 3`)
	add, ok := expr.(*ast.MathExpr)
	if !ok || add.Op.Type != token.PLUS {
		t.Fatalf("root is %T, want + MathExpr", expr)
	}
	mul, ok := add.Right.(*ast.MathExpr)
	if !ok || mul.Op.Type != token.STAR {
		t.Fatalf("right is %T, want * MathExpr", add.Right)
	}
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	expr := firstExpression(t, `(1 + 2) * 3`)
	mul, ok := expr.(*ast.MathExpr)
	if !ok || mul.Op.Type != token.STAR {
		t.Fatalf("root is %T, want * MathExpr", expr)
	}
	if _, ok := mul.Left.(*ast.GroupExpr); !ok {
		t.Fatalf("left is %T, want *ast.GroupExpr", mul.Left)
	}
}

func TestRangeBindsLooserThanTerm(t *testing.T) {
	expr := firstExpression(t, `1 + 1 to n * 2`)
	rng, ok := expr.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("root is %T, want *ast.RangeExpr", expr)
	}
	if _, ok := rng.LeftBound.(*ast.MathExpr); !ok {
		t.Errorf("left bound is %T, want *ast.MathExpr", rng.LeftBound)
	}
	if _, ok := rng.RightBound.(*ast.MathExpr); !ok {
		t.Errorf("right bound is %T, want *ast.MathExpr", rng.RightBound)
	}
}

func TestAssignmentTargets(t *testing.T) {
	if _, ok := firstExpression(t, `x = 1`).(*ast.AssignExpr); !ok {
		t.Error("x = 1 did not parse as AssignExpr")
	}
	if _, ok := firstExpression(t, `a[0] = 1`).(*ast.IndexSetExpr); !ok {
		t.Error("a[0] = 1 did not parse as IndexSetExpr")
	}
	if _, ok := firstExpression(t, `a.b = 1`).(*ast.SetExpr); !ok {
		t.Error("a.b = 1 did not parse as SetExpr")
	}
	if got := parseExpectError(t, `1 = 2`); got != "Invalid assignment target." {
		t.Errorf("got %q", got)
	}
}

func TestQualifiedNamesFold(t *testing.T) {
	expr := firstExpression(t, `math::vec::add(1, 2)`)
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("root is %T, want *ast.CallExpr", expr)
	}
	variable, ok := call.Callee.(*ast.VariableExpr)
	if !ok {
		t.Fatalf("callee is %T, want *ast.VariableExpr", call.Callee)
	}
	if variable.Name.Lexeme != "math::vec::add" {
		t.Errorf("lexeme = %q, want math::vec::add", variable.Name.Lexeme)
	}
}

func TestCallChaining(t *testing.T) {
	// a.b(1)[2] nests get, call, index.
	expr := firstExpression(t, `a.b(1)[2]`)
	index, ok := expr.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("root is %T, want *ast.IndexExpr", expr)
	}
	call, ok := index.Object.(*ast.CallExpr)
	if !ok {
		t.Fatalf("object is %T, want *ast.CallExpr", index.Object)
	}
	if _, ok := call.Callee.(*ast.GetExpr); !ok {
		t.Fatalf("callee is %T, want *ast.GetExpr", call.Callee)
	}
}

func TestVarDeclaration(t *testing.T) {
	program := parse(t, "data x = 1\ndata y")
	if len(program.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(program.Statements))
	}
	first := program.Statements[0].(*ast.VarStmt)
	if first.Name.Lexeme != "x" || first.Initializer == nil {
		t.Errorf("first = %+v", first)
	}
	second := program.Statements[1].(*ast.VarStmt)
	if second.Name.Lexeme != "y" || second.Initializer != nil {
		t.Errorf("second = %+v", second)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	program := parse(t, "func add(a, b) {\n  return a + b\n}")
	fn := program.Statements[0].(*ast.FunctionStmt)
	if fn.Name.Lexeme != "add" {
		t.Errorf("name = %q", fn.Name.Lexeme)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("got %d parameters, want 2", len(fn.Parameters))
	}
	if _, ok := fn.Body[0].(*ast.ReturnStmt); !ok {
		t.Errorf("body[0] is %T, want *ast.ReturnStmt", fn.Body[0])
	}
}

func TestClassDeclaration(t *testing.T) {
	program := parse(t, "class Dog childof Animal {\n  func speak() {\n  }\n}")
	class := program.Statements[0].(*ast.ClassStmt)
	if class.Name.Lexeme != "Dog" {
		t.Errorf("name = %q", class.Name.Lexeme)
	}
	super, ok := class.Superclass.(*ast.VariableExpr)
	if !ok || super.Name.Lexeme != "Animal" {
		t.Errorf("superclass = %+v", class.Superclass)
	}
	if len(class.Methods) != 1 || class.Methods[0].Name.Lexeme != "speak" {
		t.Errorf("methods = %+v", class.Methods)
	}
}

func TestAttemptStatement(t *testing.T) {
	program := parse(t, "attempt {\n  panic \"x\"\n} fail err {\n  out(err)\n}")
	attempt := program.Statements[0].(*ast.AttemptStmt)
	if attempt.Error.Lexeme != "err" {
		t.Errorf("error variable = %q, want err", attempt.Error.Lexeme)
	}
	if len(attempt.AttemptBody) != 1 || len(attempt.FailBody) != 1 {
		t.Errorf("bodies = %d/%d, want 1/1", len(attempt.AttemptBody), len(attempt.FailBody))
	}
	if _, ok := attempt.AttemptBody[0].(*ast.PanicStmt); !ok {
		t.Errorf("attempt body is %T, want *ast.PanicStmt", attempt.AttemptBody[0])
	}
}

func TestForVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bare", "for data i = 0; i < 3; i++ {\n}"},
		{"parenthesized", "for (data i = 0; i < 3; i++) {\n}"},
		{"no init", "for ; x < 3; x++ {\n}"},
		{"no increment", "for data i = 0; i < 3; {\n}"},
		{"only condition", "for ; x < 3; {\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := parse(t, tt.input)
			if _, ok := program.Statements[0].(*ast.ForStmt); !ok {
				t.Errorf("got %T, want *ast.ForStmt", program.Statements[0])
			}
		})
	}
}

func TestEachVariants(t *testing.T) {
	for _, input := range []string{
		"each x in 1 to 3 {\n}",
		"foreach x in 1 to 3 {\n}",
		"foreach data x in items {\n}",
	} {
		program := parse(t, input)
		each, ok := program.Statements[0].(*ast.EachStmt)
		if !ok {
			t.Errorf("%q: got %T, want *ast.EachStmt", input, program.Statements[0])
			continue
		}
		if each.ID.Lexeme != "x" {
			t.Errorf("%q: loop variable = %q, want x", input, each.ID.Lexeme)
		}
	}
}

func TestErrorRecovery(t *testing.T) {
	// A broken statement reports once and parsing resumes at the next one.
	ctx := pipeline.NewPipelineContext("data = 1\ndata ok = 2")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&ParserProcessor{}).Process(ctx)

	if len(ctx.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(ctx.Errors))
	}
	program := ctx.AstRoot.(*ast.Program)
	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Statements))
	}
	if v := program.Statements[0].(*ast.VarStmt); v.Name.Lexeme != "ok" {
		t.Errorf("recovered statement = %q, want ok", v.Name.Lexeme)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing brace", "if true\nout(1)", "Expected '{' after if condition."},
		{"missing fail", "attempt {\n}", "Expected 'fail' after attempt block."},
		{"missing expression", "out(", "Expected expression."},
		{"bad namespace", "namespace {\n}", "Expected namespace name."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseExpectError(t, tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
