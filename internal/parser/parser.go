// Package parser builds the AST from the lexer's token stream with a
// recursive-descent parser.
package parser

import (
	"github.com/ry-lang/ry/internal/ast"
	"github.com/ry-lang/ry/internal/diagnostics"
	"github.com/ry-lang/ry/internal/pipeline"
	"github.com/ry-lang/ry/internal/token"
)

type Parser struct {
	tokens  []token.Token
	current int
	ctx     *pipeline.PipelineContext
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	return &Parser{tokens: tokens, ctx: ctx}
}

// ParseProgram parses until EOF. Statements that fail to parse are skipped
// after error recovery so that one bad line yields one diagnostic.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	return program
}

// --- Token helpers ---

func (p *Parser) peek() token.Token     { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }
func (p *Parser) isAtEnd() bool         { return p.peek().Type == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return t == token.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.Type, message string) (token.Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	p.error(p.peek(), message)
	return token.Token{}, false
}

func (p *Parser) error(tok token.Token, message string) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError("P001", tok, message))
}

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.DATA, token.FUNC, token.CLASS, token.IF, token.WHILE,
			token.FOR, token.EACH, token.RETURN, token.PANIC, token.ATTEMPT,
			token.IMPORT, token.ALIAS, token.NAMESPACE:
			return
		}
		p.advance()
	}
}

// --- Statements ---

func (p *Parser) declaration() ast.Statement {
	errsBefore := len(p.ctx.Errors)
	var stmt ast.Statement

	switch {
	case p.match(token.DATA):
		stmt = p.varDeclaration()
	case p.match(token.FUNC):
		stmt = p.functionDeclaration()
	case p.match(token.CLASS):
		stmt = p.classDeclaration()
	case p.match(token.NAMESPACE):
		stmt = p.namespaceDeclaration()
	case p.match(token.ALIAS):
		stmt = p.aliasDeclaration()
	default:
		stmt = p.statement()
	}

	if len(p.ctx.Errors) > errsBefore {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) varDeclaration() ast.Statement {
	name, ok := p.consume(token.IDENTIFIER, "Expected variable name after 'data'.")
	if !ok {
		return nil
	}
	var initializer ast.Expression
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}
	p.match(token.SEMICOLON)
	return &ast.VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) functionDeclaration() ast.Statement {
	fn := p.functionBody("function")
	if fn == nil {
		return nil
	}
	return fn
}

// functionBody parses `name(params) { body }`, shared by declarations and
// class methods.
func (p *Parser) functionBody(kind string) *ast.FunctionStmt {
	name, ok := p.consume(token.IDENTIFIER, "Expected "+kind+" name.")
	if !ok {
		return nil
	}
	if _, ok := p.consume(token.LPAREN, "Expected '(' after "+kind+" name."); !ok {
		return nil
	}

	var parameters []token.Token
	if !p.check(token.RPAREN) {
		for {
			param, ok := p.consume(token.IDENTIFIER, "Expected parameter name.")
			if !ok {
				return nil
			}
			parameters = append(parameters, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, ok := p.consume(token.RPAREN, "Expected ')' after parameters."); !ok {
		return nil
	}
	if _, ok := p.consume(token.LBRACE, "Expected '{' before "+kind+" body."); !ok {
		return nil
	}

	body := p.blockStatements()
	return &ast.FunctionStmt{Name: name, Parameters: parameters, Body: body}
}

func (p *Parser) classDeclaration() ast.Statement {
	name, ok := p.consume(token.IDENTIFIER, "Expected class name.")
	if !ok {
		return nil
	}

	var superclass ast.Expression
	if p.match(token.CHILDOF) {
		superName, ok := p.consume(token.IDENTIFIER, "Expected superclass name after 'childof'.")
		if !ok {
			return nil
		}
		superclass = &ast.VariableExpr{Name: p.qualifiedName(superName)}
	}

	if _, ok := p.consume(token.LBRACE, "Expected '{' before class body."); !ok {
		return nil
	}

	var methods []*ast.FunctionStmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if !p.match(token.FUNC) {
			p.error(p.peek(), "Expected method declaration in class body.")
			return nil
		}
		method := p.functionBody("method")
		if method == nil {
			return nil
		}
		methods = append(methods, method)
	}
	p.consume(token.RBRACE, "Expected '}' after class body.")

	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) namespaceDeclaration() ast.Statement {
	name, ok := p.consume(token.IDENTIFIER, "Expected namespace name.")
	if !ok {
		return nil
	}
	if _, ok := p.consume(token.LBRACE, "Expected '{' after namespace name."); !ok {
		return nil
	}
	body := p.blockStatements()
	return &ast.NamespaceStmt{Name: name, Body: body}
}

func (p *Parser) aliasDeclaration() ast.Statement {
	name, ok := p.consume(token.IDENTIFIER, "Expected alias name.")
	if !ok {
		return nil
	}
	if _, ok := p.consume(token.EQUAL, "Expected '=' after alias name."); !ok {
		return nil
	}
	expr := p.expression()
	p.match(token.SEMICOLON)
	return &ast.AliasStmt{Name: name, AliasExpr: expr}
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.EACH):
		return p.eachStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.PANIC):
		return p.panicStatement()
	case p.match(token.ATTEMPT):
		return p.attemptStatement()
	case p.match(token.STOP):
		keyword := p.previous()
		p.match(token.SEMICOLON)
		return &ast.StopStmt{Keyword: keyword}
	case p.match(token.SKIP):
		keyword := p.previous()
		p.match(token.SEMICOLON)
		return &ast.SkipStmt{Keyword: keyword}
	case p.match(token.IMPORT):
		keyword := p.previous()
		module := p.expression()
		p.match(token.SEMICOLON)
		return &ast.ImportStmt{Keyword: keyword, Module: module}
	case p.match(token.LBRACE):
		brace := p.previous()
		return &ast.BlockStmt{Brace: brace, Statements: p.blockStatements()}
	default:
		return p.expressionStatement()
	}
}

// blockStatements parses statements until the closing brace.
func (p *Parser) blockStatements() []ast.Statement {
	var statements []ast.Statement
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(token.RBRACE, "Expected '}' after block.")
	return statements
}

func (p *Parser) ifStatement() ast.Statement {
	keyword := p.previous()
	condition := p.expression()
	if _, ok := p.consume(token.LBRACE, "Expected '{' after if condition."); !ok {
		return nil
	}
	thenBranch := &ast.BlockStmt{Brace: p.previous(), Statements: p.blockStatements()}

	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		if p.match(token.IF) {
			elseBranch = p.ifStatement()
		} else {
			if _, ok := p.consume(token.LBRACE, "Expected '{' after 'else'."); !ok {
				return nil
			}
			elseBranch = &ast.BlockStmt{Brace: p.previous(), Statements: p.blockStatements()}
		}
	}

	return &ast.IfStmt{Keyword: keyword, Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) whileStatement() ast.Statement {
	keyword := p.previous()
	condition := p.expression()
	if _, ok := p.consume(token.LBRACE, "Expected '{' after while condition."); !ok {
		return nil
	}
	body := &ast.BlockStmt{Brace: p.previous(), Statements: p.blockStatements()}
	return &ast.WhileStmt{Keyword: keyword, Condition: condition, Body: body}
}

// forStatement parses `for init; cond; incr { }`. Parentheses around the
// clauses are accepted and ignored. Every clause is optional.
func (p *Parser) forStatement() ast.Statement {
	keyword := p.previous()
	parenthesized := p.match(token.LPAREN)

	var init ast.Statement
	if p.match(token.SEMICOLON) {
		init = nil
	} else if p.match(token.DATA) {
		init = p.varDeclaration()
	} else {
		init = p.expressionStatement()
	}

	var condition ast.Expression
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expected ';' after for condition.")

	var increment ast.Expression
	closer := token.Type(token.LBRACE)
	if parenthesized {
		closer = token.RPAREN
	}
	if !p.check(closer) {
		increment = p.expression()
	}
	if parenthesized {
		p.consume(token.RPAREN, "Expected ')' after for clauses.")
	}

	if _, ok := p.consume(token.LBRACE, "Expected '{' before for body."); !ok {
		return nil
	}
	body := &ast.BlockStmt{Brace: p.previous(), Statements: p.blockStatements()}

	return &ast.ForStmt{Keyword: keyword, Init: init, Condition: condition, Increment: increment, Body: body}
}

func (p *Parser) eachStatement() ast.Statement {
	p.match(token.DATA) // `foreach data k in ...` and `foreach k in ...` both parse
	id, ok := p.consume(token.IDENTIFIER, "Expected loop variable name.")
	if !ok {
		return nil
	}
	if _, ok := p.consume(token.IN, "Expected 'in' after loop variable."); !ok {
		return nil
	}
	collection := p.expression()
	if _, ok := p.consume(token.LBRACE, "Expected '{' before loop body."); !ok {
		return nil
	}
	body := &ast.BlockStmt{Brace: p.previous(), Statements: p.blockStatements()}
	return &ast.EachStmt{ID: id, Collection: collection, Body: body}
}

func (p *Parser) returnStatement() ast.Statement {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.isAtEnd() {
		value = p.expression()
	}
	p.match(token.SEMICOLON)
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) panicStatement() ast.Statement {
	keyword := p.previous()
	var message ast.Expression
	if !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.isAtEnd() {
		message = p.expression()
	}
	p.match(token.SEMICOLON)
	return &ast.PanicStmt{Keyword: keyword, Message: message}
}

func (p *Parser) attemptStatement() ast.Statement {
	keyword := p.previous()
	if _, ok := p.consume(token.LBRACE, "Expected '{' after 'attempt'."); !ok {
		return nil
	}
	attemptBody := p.blockStatements()

	if _, ok := p.consume(token.FAIL, "Expected 'fail' after attempt block."); !ok {
		return nil
	}
	errName, ok := p.consume(token.IDENTIFIER, "Expected error variable name after 'fail'.")
	if !ok {
		return nil
	}
	if _, ok := p.consume(token.LBRACE, "Expected '{' after fail variable."); !ok {
		return nil
	}
	failBody := p.blockStatements()

	return &ast.AttemptStmt{Keyword: keyword, AttemptBody: attemptBody, Error: errName, FailBody: failBody}
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.match(token.SEMICOLON)
	if expr == nil {
		return nil
	}
	return &ast.ExpressionStmt{Expression: expr}
}

// --- Expressions, loosest binding first ---

func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expression {
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: target.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: target.Object, Name: target.Name, Value: value}
		case *ast.IndexExpr:
			return &ast.IndexSetExpr{Object: target.Object, Bracket: target.Bracket, Index: target.Index, Value: value}
		}
		p.error(equals, "Invalid assignment target.")
	}

	return expr
}

func (p *Parser) or() ast.Expression {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expression {
	expr := p.comparison()
	for p.match(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.MathExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expression {
	expr := p.bitwiseOr()
	for p.match(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) {
		op := p.previous()
		right := p.bitwiseOr()
		expr = &ast.MathExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) bitwiseOr() ast.Expression {
	expr := p.bitwiseXor()
	for p.match(token.PIPE) {
		op := p.previous()
		right := p.bitwiseXor()
		expr = &ast.BitwiseOrExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) bitwiseXor() ast.Expression {
	expr := p.bitwiseAnd()
	for p.match(token.CARET) {
		op := p.previous()
		right := p.bitwiseAnd()
		expr = &ast.BitwiseXorExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) bitwiseAnd() ast.Expression {
	expr := p.shift()
	for p.match(token.AMPERSAND) {
		op := p.previous()
		right := p.shift()
		expr = &ast.BitwiseAndExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) shift() ast.Expression {
	expr := p.rangeExpr()
	for p.match(token.LESS_LESS, token.GREATER_GREATER) {
		op := p.previous()
		right := p.rangeExpr()
		expr = &ast.ShiftExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) rangeExpr() ast.Expression {
	expr := p.term()
	if p.match(token.TO) {
		op := p.previous()
		right := p.term()
		return &ast.RangeExpr{LeftBound: expr, Op: op, RightBound: right}
	}
	return expr
}

func (p *Parser) term() ast.Expression {
	expr := p.factor()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.MathExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expression {
	expr := p.unary()
	for p.match(token.STAR, token.DIVIDE, token.PERCENT) {
		op := p.previous()
		right := p.unary()
		expr = &ast.MathExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.MINUS, token.BANG) {
		op := p.previous()
		right := p.unary()
		return &ast.PrefixExpr{Prefix: op, Right: right}
	}
	return p.postfix()
}

func (p *Parser) postfix() ast.Expression {
	expr := p.call()
	if p.match(token.PLUS_PLUS, token.MINUS_MINUS) {
		op := p.previous()
		return &ast.PostfixExpr{Left: expr, Postfix: op}
	}
	return expr
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LPAREN):
			expr = p.finishCall(expr)
		case p.match(token.LBRACKET):
			bracket := p.previous()
			index := p.expression()
			p.consume(token.RBRACKET, "Expected ']' after index.")
			expr = &ast.IndexExpr{Object: expr, Bracket: bracket, Index: index}
		case p.match(token.DOT):
			name, ok := p.consume(token.IDENTIFIER, "Expected property name after '.'.")
			if !ok {
				return expr
			}
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	var arguments []ast.Expression
	if !p.check(token.RPAREN) {
		for {
			arguments = append(arguments, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren, _ := p.consume(token.RPAREN, "Expected ')' after arguments.")
	return &ast.CallExpr{Callee: callee, Paren: paren, Arguments: arguments}
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NULL):
		return &ast.ValueExpr{Value: p.previous()}
	case p.match(token.THIS):
		return &ast.ThisExpr{Keyword: p.previous()}
	case p.match(token.IDENTIFIER):
		return &ast.VariableExpr{Name: p.qualifiedName(p.previous())}
	case p.match(token.LPAREN):
		expr := p.expression()
		p.consume(token.RPAREN, "Expected ')' after expression.")
		return &ast.GroupExpr{Expression: expr}
	case p.match(token.LBRACKET):
		return p.listLiteral()
	case p.match(token.LBRACE):
		return p.mapLiteral()
	}

	p.error(p.peek(), "Expected expression.")
	return nil
}

// qualifiedName folds `a::b::c` into a single identifier token whose lexeme
// carries the `::` separators; the compiler resolves such names as globals.
func (p *Parser) qualifiedName(name token.Token) token.Token {
	for p.check(token.DOUBLE_COLON) {
		p.advance()
		part, ok := p.consume(token.IDENTIFIER, "Expected name after '::'.")
		if !ok {
			break
		}
		name.Lexeme = name.Lexeme + "::" + part.Lexeme
	}
	return name
}

func (p *Parser) listLiteral() ast.Expression {
	bracket := p.previous()
	var elements []ast.Expression
	if !p.check(token.RBRACKET) {
		for {
			elements = append(elements, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RBRACKET, "Expected ']' after list elements.")
	return &ast.ListExpr{Bracket: bracket, Elements: elements}
}

func (p *Parser) mapLiteral() ast.Expression {
	brace := p.previous()
	var items []ast.MapItem
	if !p.check(token.RBRACE) {
		for {
			key := p.expression()
			if _, ok := p.consume(token.COLON, "Expected ':' after map key."); !ok {
				break
			}
			value := p.expression()
			items = append(items, ast.MapItem{Key: key, Value: value})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RBRACE, "Expected '}' after map entries.")
	return &ast.MapExpr{Brace: brace, Items: items}
}
