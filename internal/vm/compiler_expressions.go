package vm

import (
	"github.com/ry-lang/ry/internal/ast"
	"github.com/ry-lang/ry/internal/token"
)

func (c *Compiler) expression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.ValueExpr:
		c.literal(e)

	case *ast.GroupExpr:
		c.expression(e.Expression)

	case *ast.VariableExpr:
		c.track(e.Name)
		c.variableGet(e.Name)

	case *ast.AssignExpr:
		c.expression(e.Value)
		c.track(e.Name)
		c.variableSet(e.Name)

	case *ast.PrefixExpr:
		c.expression(e.Right)
		c.track(e.Prefix)
		switch e.Prefix.Type {
		case token.MINUS:
			c.emitOp(OP_NEGATE)
		case token.BANG:
			c.emitOp(OP_NOT)
		}

	case *ast.PostfixExpr:
		c.postfix(e)

	case *ast.MathExpr:
		c.expression(e.Left)
		c.expression(e.Right)
		c.track(e.Op)
		c.mathOp(e.Op)

	case *ast.LogicalExpr:
		c.logical(e)

	case *ast.BitwiseAndExpr:
		c.expression(e.Left)
		c.expression(e.Right)
		c.track(e.Op)
		c.emitOp(OP_BITWISE_AND)

	case *ast.BitwiseOrExpr:
		c.expression(e.Left)
		c.expression(e.Right)
		c.track(e.Op)
		c.emitOp(OP_BITWISE_OR)

	case *ast.BitwiseXorExpr:
		c.expression(e.Left)
		c.expression(e.Right)
		c.track(e.Op)
		c.emitOp(OP_BITWISE_XOR)

	case *ast.ShiftExpr:
		c.expression(e.Left)
		c.expression(e.Right)
		c.track(e.Op)
		if e.Op.Type == token.LESS_LESS {
			c.emitOp(OP_LEFT_SHIFT)
		} else {
			c.emitOp(OP_RIGHT_SHIFT)
		}

	case *ast.RangeExpr:
		c.expression(e.LeftBound)
		c.expression(e.RightBound)
		c.track(e.Op)
		c.emitOp(OP_BUILD_RANGE_LIST)

	case *ast.ListExpr:
		if len(e.Elements) > 255 {
			c.errorAt(e.Bracket, "Cannot have more than 255 elements in a list literal.")
			return
		}
		for _, elem := range e.Elements {
			c.expression(elem)
		}
		c.track(e.Bracket)
		c.emitOp(OP_BUILD_LIST)
		c.emitByte(byte(len(e.Elements)))

	case *ast.MapExpr:
		if len(e.Items) > 255 {
			c.errorAt(e.Brace, "Cannot have more than 255 entries in a map literal.")
			return
		}
		for _, item := range e.Items {
			c.expression(item.Key)
			c.expression(item.Value)
		}
		c.track(e.Brace)
		c.emitOp(OP_BUILD_MAP)
		c.emitByte(byte(len(e.Items)))

	case *ast.IndexExpr:
		c.expression(e.Object)
		c.expression(e.Index)
		c.track(e.Bracket)
		c.emitOp(OP_GET_INDEX)

	case *ast.IndexSetExpr:
		c.expression(e.Object)
		c.expression(e.Index)
		c.expression(e.Value)
		c.track(e.Bracket)
		c.emitOp(OP_SET_INDEX)

	case *ast.CallExpr:
		c.expression(e.Callee)
		if len(e.Arguments) > 255 {
			c.errorAt(e.Paren, "Cannot have more than 255 arguments.")
			return
		}
		for _, arg := range e.Arguments {
			c.expression(arg)
		}
		c.track(e.Paren)
		c.emitOp(OP_CALL)
		c.emitByte(byte(len(e.Arguments)))

	case *ast.GetExpr:
		c.expression(e.Object)
		c.track(e.Name)
		c.emitOp(OP_GET_PROPERTY)
		c.emitByte(c.identifierConstant(e.Name.Lexeme, e.Name))

	case *ast.SetExpr:
		c.expression(e.Object)
		c.expression(e.Value)
		c.track(e.Name)
		c.emitOp(OP_SET_PROPERTY)
		c.emitByte(c.identifierConstant(e.Name.Lexeme, e.Name))

	case *ast.ThisExpr:
		if c.classDepth == 0 {
			c.errorAt(e.Keyword, "Cannot use 'this' outside of a class.")
			return
		}
		c.track(e.Keyword)
		c.variableGet(e.Keyword)
	}
}

func (c *Compiler) literal(e *ast.ValueExpr) {
	c.track(e.Value)
	switch e.Value.Type {
	case token.NUMBER:
		c.emitConstant(NumberVal(e.Value.Literal.(float64)), e.Value)
	case token.STRING:
		c.emitConstant(StringVal(e.Value.Literal.(string)), e.Value)
	case token.TRUE:
		c.emitOp(OP_TRUE)
	case token.FALSE:
		c.emitOp(OP_FALSE)
	case token.NULL:
		c.emitOp(OP_NULL)
	}
}

// mathOp lowers arithmetic and comparison operators. >= and <= have no
// dedicated opcodes; they compile to the inverse comparison plus NOT.
func (c *Compiler) mathOp(op token.Token) {
	switch op.Type {
	case token.PLUS:
		c.emitOp(OP_ADD)
	case token.MINUS:
		c.emitOp(OP_SUBTRACT)
	case token.STAR:
		c.emitOp(OP_MULTIPLY)
	case token.DIVIDE:
		c.emitOp(OP_DIVIDE)
	case token.PERCENT:
		c.emitOp(OP_MODULO)
	case token.EQUAL_EQUAL:
		c.emitOp(OP_EQUAL)
	case token.BANG_EQUAL:
		c.emitOps(OP_EQUAL, OP_NOT)
	case token.GREATER:
		c.emitOp(OP_GREATER)
	case token.GREATER_EQUAL:
		c.emitOps(OP_LESS, OP_NOT)
	case token.LESS:
		c.emitOp(OP_LESS)
	case token.LESS_EQUAL:
		c.emitOps(OP_GREATER, OP_NOT)
	}
}

func (c *Compiler) logical(e *ast.LogicalExpr) {
	c.expression(e.Left)
	c.track(e.Op)
	if e.Op.Type == token.AND {
		endJump := c.emitJump(OP_JUMP_IF_FALSE)
		c.emitOp(OP_POP)
		c.expression(e.Right)
		c.patchJump(endJump, e.Op)
		return
	}
	elseJump := c.emitJump(OP_JUMP_IF_FALSE)
	endJump := c.emitJump(OP_JUMP)
	c.patchJump(elseJump, e.Op)
	c.emitOp(OP_POP)
	c.expression(e.Right)
	c.patchJump(endJump, e.Op)
}

// variableGet resolves a name through locals, then upvalues, then globals.
func (c *Compiler) variableGet(name token.Token) {
	if slot := resolveLocal(c.current, name.Lexeme); slot != -1 {
		c.emitOp(OP_GET_LOCAL)
		c.emitByte(byte(slot))
		return
	}
	if up := c.resolveUpvalue(c.current, name.Lexeme, name); up != -1 {
		c.emitOp(OP_GET_UPVALUE)
		c.emitByte(byte(up))
		return
	}
	c.emitOp(OP_GET_GLOBAL)
	c.emitByte(c.identifierConstant(c.globalName(name.Lexeme), name))
}

// variableSet stores the value on top of the stack into a name; every form
// pops the value.
func (c *Compiler) variableSet(name token.Token) {
	if slot := resolveLocal(c.current, name.Lexeme); slot != -1 {
		c.emitOp(OP_SET_LOCAL)
		c.emitByte(byte(slot))
		return
	}
	if up := c.resolveUpvalue(c.current, name.Lexeme, name); up != -1 {
		c.emitOp(OP_SET_UPVALUE)
		c.emitByte(byte(up))
		return
	}
	c.emitOp(OP_SET_GLOBAL)
	c.emitByte(c.identifierConstant(c.assignName(name.Lexeme), name))
}

// postfix compiles x++ / x--. The old value is duplicated before the store,
// so the expression yields the pre-increment value.
func (c *Compiler) postfix(e *ast.PostfixExpr) {
	target, ok := e.Left.(*ast.VariableExpr)
	if !ok {
		c.errorAt(e.Postfix, "Invalid postfix target.")
		return
	}
	c.track(target.Name)
	c.variableGet(target.Name)
	c.emitOp(OP_COPY)
	c.emitConstant(NumberVal(1), e.Postfix)
	c.track(e.Postfix)
	if e.Postfix.Type == token.PLUS_PLUS {
		c.emitOp(OP_ADD)
	} else {
		c.emitOp(OP_SUBTRACT)
	}
	c.variableSet(target.Name)
}
