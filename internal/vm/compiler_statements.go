package vm

import (
	"github.com/ry-lang/ry/internal/ast"
)

// statement compiles a statement
func (c *Compiler) statement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		c.expressionStatement(s)

	case *ast.VarStmt:
		c.varDeclaration(s)

	case *ast.BlockStmt:
		c.beginScope()
		for _, inner := range s.Statements {
			c.statement(inner)
		}
		c.endScope()

	case *ast.IfStmt:
		c.ifStatement(s)

	case *ast.WhileStmt:
		c.whileStatement(s)

	case *ast.ForStmt:
		c.forStatement(s)

	case *ast.EachStmt:
		c.eachStatement(s)

	case *ast.FunctionStmt:
		c.functionDeclaration(s)

	case *ast.ReturnStmt:
		c.returnStatement(s)

	case *ast.ClassStmt:
		c.classDeclaration(s)

	case *ast.PanicStmt:
		c.track(s.Keyword)
		if s.Message != nil {
			c.expression(s.Message)
		} else {
			c.emitOp(OP_NULL)
		}
		c.track(s.Keyword)
		c.emitOp(OP_PANIC)

	case *ast.AttemptStmt:
		c.attemptStatement(s)

	case *ast.StopStmt:
		c.stopStatement(s)

	case *ast.SkipStmt:
		c.skipStatement(s)

	case *ast.ImportStmt:
		c.track(s.Keyword)
		c.expression(s.Module)
		c.track(s.Keyword)
		c.emitOp(OP_IMPORT)
		c.emitOp(OP_POP)

	case *ast.AliasStmt:
		c.track(s.Name)
		c.expression(s.AliasExpr)
		c.track(s.Name)
		c.emitOp(OP_DEFINE_GLOBAL)
		c.emitByte(c.identifierConstant(c.assignName(s.Name.Lexeme), s.Name))

	case *ast.NamespaceStmt:
		saved := c.namespace
		c.namespace = s.Name.Lexeme
		for _, inner := range s.Body {
			c.statement(inner)
		}
		c.namespace = saved
	}
}

// expressionStatement discards the expression's result. Assignments and
// index writes already leave nothing behind, so they skip the POP.
func (c *Compiler) expressionStatement(s *ast.ExpressionStmt) {
	c.expression(s.Expression)
	switch s.Expression.(type) {
	case *ast.AssignExpr, *ast.IndexSetExpr:
	default:
		c.emitOp(OP_POP)
	}
}

// varDeclaration compiles `data name = init`. Inside a scope the value
// simply stays in its stack slot as a new local; at top level it becomes a
// (namespace-qualified) global.
func (c *Compiler) varDeclaration(s *ast.VarStmt) {
	c.track(s.Name)
	if s.Initializer != nil {
		c.expression(s.Initializer)
	} else {
		c.emitOp(OP_NULL)
	}
	if c.current.scopeDepth > 0 {
		c.addLocal(baseName(s.Name.Lexeme), s.Name)
		return
	}
	c.track(s.Name)
	c.emitOp(OP_DEFINE_GLOBAL)
	c.emitByte(c.identifierConstant(c.globalName(s.Name.Lexeme), s.Name))
}

func (c *Compiler) ifStatement(s *ast.IfStmt) {
	c.expression(s.Condition)
	c.track(s.Keyword)
	thenJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emitOp(OP_POP)
	c.statement(s.ThenBranch)
	elseJump := c.emitJump(OP_JUMP)
	c.patchJump(thenJump, s.Keyword)
	c.emitOp(OP_POP)
	if s.ElseBranch != nil {
		c.statement(s.ElseBranch)
	}
	c.patchJump(elseJump, s.Keyword)
}

// compileFunction compiles a function body in a nested funcState and emits
// OP_CLOSURE with the capture list in the enclosing chunk.
func (c *Compiler) compileFunction(s *ast.FunctionStmt, funcType FunctionType) {
	if len(s.Parameters) > 255 {
		c.errorAt(s.Name, "Cannot have more than 255 parameters.")
		return
	}

	fs := newFuncState(c.current, funcType, s.Name.Lexeme, c.file)
	fs.function.Arity = len(s.Parameters)
	c.current = fs

	c.beginScope()
	for _, param := range s.Parameters {
		c.addLocal(param.Lexeme, param)
	}
	for _, stmt := range s.Body {
		c.statement(stmt)
	}
	// Implicit `return null` at the end of every body.
	c.track(s.Name)
	c.emitOps(OP_NULL, OP_RETURN)

	fn := fs.function
	c.current = fs.enclosing

	c.track(s.Name)
	c.emitOp(OP_CLOSURE)
	c.emitByte(c.makeConstant(FunctionVal(fn), s.Name))
	for _, uv := range fs.upvalues {
		if uv.IsLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(uv.Index)
	}
}

func (c *Compiler) functionDeclaration(s *ast.FunctionStmt) {
	c.compileFunction(s, TYPE_FUNCTION)
	c.emitOp(OP_DEFINE_GLOBAL)
	c.emitByte(c.identifierConstant(c.globalName(s.Name.Lexeme), s.Name))
}

func (c *Compiler) returnStatement(s *ast.ReturnStmt) {
	if c.current.funcType == TYPE_SCRIPT {
		c.errorAt(s.Keyword, "Cannot return from top-level code.")
		return
	}
	c.track(s.Keyword)
	if s.Value != nil {
		c.expression(s.Value)
	} else {
		c.emitOp(OP_NULL)
	}
	c.track(s.Keyword)
	c.emitOp(OP_RETURN)
}

func (c *Compiler) classDeclaration(s *ast.ClassStmt) {
	c.track(s.Name)
	nameConstant := c.identifierConstant(c.globalName(s.Name.Lexeme), s.Name)
	c.emitOp(OP_CLASS)
	c.emitByte(nameConstant)
	c.emitOp(OP_DEFINE_GLOBAL)
	c.emitByte(nameConstant)

	// Methods install into the class value, so push it back.
	c.emitOp(OP_GET_GLOBAL)
	c.emitByte(nameConstant)

	if s.Superclass != nil {
		c.expression(s.Superclass)
		c.track(s.Name)
		c.emitOp(OP_INHERIT)
	}

	c.classDepth++
	for _, method := range s.Methods {
		c.compileFunction(method, TYPE_METHOD)
		c.track(method.Name)
		c.emitOp(OP_METHOD)
		// Method names are properties; they never take a namespace prefix.
		c.emitByte(c.identifierConstant(method.Name.Lexeme, method.Name))
	}
	c.classDepth--

	c.emitOp(OP_POP)
}

// attemptStatement emits OP_ATTEMPT with a jump into the fail block. When a
// panic unwinds, the VM pushes the message and resumes there; the message
// becomes the handler's error local.
func (c *Compiler) attemptStatement(s *ast.AttemptStmt) {
	c.track(s.Keyword)
	attemptJump := c.emitJump(OP_ATTEMPT)

	c.beginScope()
	for _, stmt := range s.AttemptBody {
		c.statement(stmt)
	}
	c.endScope()
	c.track(s.Keyword)
	c.emitOp(OP_END_ATTEMPT)
	skipFail := c.emitJump(OP_JUMP)

	c.patchJump(attemptJump, s.Keyword)
	c.beginScope()
	c.addLocal(s.Error.Lexeme, s.Error)
	for _, stmt := range s.FailBody {
		c.statement(stmt)
	}
	c.endScope()
	c.patchJump(skipFail, s.Keyword)
}
