package parser

import (
	"context"

	"github.com/codeready-toolchain/athena/pkg/llm"
	"github.com/codeready-toolchain/athena/pkg/masking"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// Parser dispatches a file or raw-text blob to the right format parser,
// falling back to the LLM path only when every structured parser came
// up empty.
type Parser struct {
	cfg       Config
	masking   *masking.Service
	generator llm.Generator
	onLLMDone func(text string, err error)
}

// New builds a Parser. generator may be nil if LLM fallback is not
// wired; the fallback path then always returns a disabled-by-config
// error regardless of cfg, which is the correct behavior for a
// deployment that never configured a provider.
func New(generator llm.Generator, cfg Config) *Parser {
	return &Parser{cfg: cfg, masking: masking.NewService(), generator: generator}
}

// OnLLMDone registers a callback invoked from the fallback goroutine once
// Generate returns, win or lose — used only for logging a late
// completion after a caller-observed timeout; it does not affect what
// Parse returns.
func (p *Parser) OnLLMDone(fn func(text string, err error)) {
	p.onLLMDone = fn
}

// Parse detects content's format (consulting path and formatHint first)
// and dispatches to the matching structured parser. If that parser
// yields no hosts, and only then, the LLM fallback is attempted.
func (p *Parser) Parse(ctx context.Context, path, content, formatHint string) models.ParseResult {
	format := DetectFormat(path, content, formatHint)

	result := p.dispatch(format, content)
	result.FilePath = path

	if len(result.Hosts) == 0 {
		fallback := p.runLLMFallback(ctx, content)
		result.Hosts = fallback.Hosts
		result.Errors = append(result.Errors, fallback.Errors...)
		result.Warnings = append(result.Warnings, fallback.Warnings...)
		if len(fallback.Hosts) > 0 {
			result.SourceType = fallback.SourceType
		}
	}

	return result
}

func (p *Parser) dispatch(format Format, content string) models.ParseResult {
	switch format {
	case FormatJSON:
		return ParseJSON(content)
	case FormatYAML:
		return ParseYAML(content)
	case FormatCSV:
		return ParseCSV(content)
	case FormatINI:
		return ParseINI(content)
	case FormatEtcHosts:
		return ParseEtcHosts(content)
	case FormatSSHConfig:
		return ParseSSHConfig(content)
	default:
		return ParseTXT(content)
	}
}
