// Package pipeline chains the interpretation stages: lexing, parsing,
// compilation. Each stage is a Processor that reads and extends the shared
// PipelineContext.
package pipeline

import (
	"github.com/ry-lang/ry/internal/diagnostics"
	"github.com/ry-lang/ry/internal/token"
)

// PipelineContext carries the intermediate artifacts between stages.
type PipelineContext struct {
	Source   string
	FilePath string

	Tokens  []token.Token
	AstRoot interface{} // *ast.Program once the parser has run

	Errors []*diagnostics.Error
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Source: source}
}

// HadError reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HadError() bool { return len(ctx.Errors) > 0 }

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages after a failed one still run so that
// diagnostics from every stage are collected; callers check HadError before
// using the final artifact.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
