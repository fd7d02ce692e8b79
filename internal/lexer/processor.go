package lexer

import (
	"github.com/ry-lang/ry/internal/pipeline"
)

// LexerProcessor adapts the Lexer to the pipeline.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.Source)
	ctx.Tokens = l.ScanTokens()
	for _, err := range l.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
