package vm

import (
	"github.com/ry-lang/ry/internal/ast"
	"github.com/ry-lang/ry/internal/token"
)

func (c *Compiler) enterLoop(loopStart int, loopType LoopType) *LoopContext {
	ctx := &LoopContext{
		loopStart:  loopStart,
		scopeDepth: c.current.scopeDepth,
		loopType:   loopType,
	}
	c.current.loopStack = append(c.current.loopStack, ctx)
	return ctx
}

// exitLoop patches every stop jump to land here
func (c *Compiler) exitLoop(ctx *LoopContext, tok token.Token) {
	for _, jump := range ctx.breakJumps {
		c.patchJump(jump, tok)
	}
	c.current.loopStack = c.current.loopStack[:len(c.current.loopStack)-1]
}

func (c *Compiler) innermostLoop() *LoopContext {
	stack := c.current.loopStack
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// discardLoopLocals emits POPs for locals declared inside the loop without
// removing them from the compiler's list; compilation of the rest of the
// body continues normally after the jump.
func (c *Compiler) discardLoopLocals(ctx *LoopContext) {
	locals := c.current.locals
	for i := len(locals) - 1; i >= 0 && locals[i].Depth > ctx.scopeDepth; i-- {
		c.emitOp(OP_POP)
	}
}

func (c *Compiler) whileStatement(s *ast.WhileStmt) {
	loopStart := c.chunk().Len()
	ctx := c.enterLoop(loopStart, LOOP_WHILE)

	c.expression(s.Condition)
	c.track(s.Keyword)
	exitJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emitOp(OP_POP)

	c.statement(s.Body)
	c.emitLoop(loopStart, s.Keyword)

	c.patchJump(exitJump, s.Keyword)
	c.emitOp(OP_POP)
	c.exitLoop(ctx, s.Keyword)
}

func (c *Compiler) forStatement(s *ast.ForStmt) {
	c.beginScope()
	if s.Init != nil {
		c.statement(s.Init)
	}

	loopStart := c.chunk().Len()
	ctx := c.enterLoop(loopStart, LOOP_FOR)

	exitJump := -1
	if s.Condition != nil {
		c.expression(s.Condition)
		c.track(s.Keyword)
		exitJump = c.emitJump(OP_JUMP_IF_FALSE)
		c.emitOp(OP_POP)
	}

	c.statement(s.Body)
	if s.Increment != nil {
		c.expression(s.Increment)
		c.emitOp(OP_POP)
	}
	c.emitLoop(loopStart, s.Keyword)

	if exitJump != -1 {
		c.patchJump(exitJump, s.Keyword)
		c.emitOp(OP_POP)
	}
	c.exitLoop(ctx, s.Keyword)
	c.endScope()
}

// eachStatement keeps the collection and a numeric cursor as two hidden
// locals below the loop variable. OP_FOR_EACH_NEXT either pushes the next
// element and advances the cursor, or jumps past the loop.
func (c *Compiler) eachStatement(s *ast.EachStmt) {
	c.track(s.ID)
	c.expression(s.Collection)
	c.emitConstant(NumberVal(0), s.ID)

	c.beginScope()
	c.addLocal("", s.ID) // collection
	c.addLocal("", s.ID) // cursor

	loopStart := c.chunk().Len()
	ctx := c.enterLoop(loopStart, LOOP_EACH)

	c.track(s.ID)
	exitJump := c.emitJump(OP_FOR_EACH_NEXT)

	c.beginScope()
	c.addLocal(baseName(s.ID.Lexeme), s.ID)
	c.statement(s.Body)
	c.endScope()

	c.emitLoop(loopStart, s.ID)
	c.patchJump(exitJump, s.ID)

	c.endScope() // pops cursor and collection
	c.exitLoop(ctx, s.ID)
}

// stopStatement discards everything the loop iteration owns, then jumps
// past the loop's cleanup code.
func (c *Compiler) stopStatement(s *ast.StopStmt) {
	ctx := c.innermostLoop()
	if ctx == nil {
		c.errorAt(s.Keyword, "Cannot use 'stop' outside of a loop.")
		return
	}
	c.track(s.Keyword)
	c.discardLoopLocals(ctx)
	if ctx.loopType == LOOP_EACH {
		// The hidden cursor and collection sit at the loop's own depth.
		c.emitOp(OP_POP)
		c.emitOp(OP_POP)
	}
	ctx.breakJumps = append(ctx.breakJumps, c.emitJump(OP_JUMP))
}

func (c *Compiler) skipStatement(s *ast.SkipStmt) {
	ctx := c.innermostLoop()
	if ctx == nil {
		c.errorAt(s.Keyword, "Cannot use 'skip' outside of a loop.")
		return
	}
	c.track(s.Keyword)
	c.discardLoopLocals(ctx)
	c.emitLoop(ctx.loopStart, s.Keyword)
}
