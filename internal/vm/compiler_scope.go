package vm

import "github.com/ry-lang/ry/internal/token"

// beginScope starts a new scope
func (c *Compiler) beginScope() {
	c.current.scopeDepth++
}

// endScope ends the current scope, popping its locals off the stack.
// Captured locals are not closed here; upvalues close when the owning
// frame returns.
func (c *Compiler) endScope() {
	fs := c.current
	fs.scopeDepth--
	for len(fs.locals) > 0 && fs.locals[len(fs.locals)-1].Depth > fs.scopeDepth {
		c.emitOp(OP_POP)
		fs.locals = fs.locals[:len(fs.locals)-1]
	}
}

// addLocal adds a local variable to the current scope
func (c *Compiler) addLocal(name string, tok token.Token) {
	fs := c.current
	if len(fs.locals) >= 256 {
		c.errorAt(tok, "Too many local variables in function.")
		return
	}
	fs.locals = append(fs.locals, Local{Name: name, Depth: fs.scopeDepth})
}

// resolveLocal searches the function's locals, innermost first
func resolveLocal(fs *funcState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].Name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue looks the name up in enclosing functions, adding capture
// entries along the chain. Returns -1 when the name is not a local of any
// enclosing function.
func (c *Compiler) resolveUpvalue(fs *funcState, name string, tok token.Token) int {
	if fs.enclosing == nil {
		return -1
	}
	if slot := resolveLocal(fs.enclosing, name); slot != -1 {
		return c.addUpvalue(fs, uint8(slot), true, tok)
	}
	if up := c.resolveUpvalue(fs.enclosing, name, tok); up != -1 {
		return c.addUpvalue(fs, uint8(up), false, tok)
	}
	return -1
}

func (c *Compiler) addUpvalue(fs *funcState, index uint8, isLocal bool, tok token.Token) int {
	for i, uv := range fs.upvalues {
		if uv.Index == index && uv.IsLocal == isLocal {
			return i
		}
	}
	if len(fs.upvalues) >= 256 {
		c.errorAt(tok, "Too many closure variables in function.")
		return 0
	}
	fs.upvalues = append(fs.upvalues, Upvalue{Index: index, IsLocal: isLocal})
	fs.function.UpvalueCount = len(fs.upvalues)
	return len(fs.upvalues) - 1
}
