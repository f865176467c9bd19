// Package query orchestrates a single tf invocation: context collection,
// command generation, clipboard copy and optional execution.
package query

import (
	"context"
	"errors"
	"strings"

	"github.com/terminalfellow/terminalfellow/internal/application/generator"
	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/pkg/logger"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// ErrEmptyQuery is returned when the query is blank.
var ErrEmptyQuery = errors.New("query is empty")

// CommandGenerator produces a command for a query. *generator.Generator
// satisfies it.
type CommandGenerator interface {
	Run(ctx context.Context, query string, c domain.Context) generator.Result
}

// Request is one natural-language query plus front-end switches.
type Request struct {
	Query   string
	Context ports.ContextOptions
	Copy    bool
}

// Response carries the generated command and any non-fatal warnings.
type Response struct {
	Result   generator.Result
	Context  domain.Context
	Copied   bool
	Warnings []error
}

// Command returns the command line to print.
func (r Response) Command() string {
	return r.Result.Command
}

// Service wires the collector, the generator and the optional side effects.
type Service struct {
	Collector ports.ContextCollector
	Generator CommandGenerator
	Clipboard ports.Clipboard
	Prompter  ports.ConfirmationPrompter
	Executor  ports.CommandExecutor
	Logger    ports.Logger
}

// Run collects context and generates a command. Context and clipboard
// failures are reported in Response.Warnings. The only errors returned are
// ErrEmptyQuery, missing dependencies and cancellation of ctx.
func (s *Service) Run(ctx context.Context, req Request) (Response, error) {
	if s.Generator == nil {
		return Response{}, errors.New("query.Service dependencies not satisfied")
	}
	log := s.log()

	q := strings.TrimSpace(req.Query)
	if q == "" {
		return Response{}, ErrEmptyQuery
	}

	var resp Response
	if s.Collector != nil {
		c, err := s.Collector.Collect(ctx, req.Context)
		if err != nil {
			resp.Warnings = append(resp.Warnings, err)
		}
		resp.Context = c
	}
	if err := ctx.Err(); err != nil {
		return resp, err
	}

	resp.Result = s.Generator.Run(ctx, q, resp.Context)
	if err := ctx.Err(); err != nil {
		return resp, err
	}

	if req.Copy {
		switch {
		case s.Clipboard == nil || !s.Clipboard.Enabled():
			resp.Warnings = append(resp.Warnings, errors.New("clipboard unavailable"))
		default:
			if err := s.Clipboard.Copy(resp.Result.Command); err != nil {
				log.Warn("clipboard copy failed", map[string]interface{}{"error": err.Error()})
				resp.Warnings = append(resp.Warnings, err)
			} else {
				resp.Copied = true
			}
		}
	}
	return resp, nil
}

// Execute runs res.Command after confirmation. Diagnostics are never run.
// With skipConfirm false and no interactive prompter the command is not run.
func (s *Service) Execute(ctx context.Context, res generator.Result, skipConfirm bool) (domain.ExecutionResult, error) {
	if res.Stage != generator.StageNormalized || res.Err != nil {
		return domain.ExecutionResult{}, nil
	}
	if s.Executor == nil {
		return domain.ExecutionResult{}, errors.New("no command executor configured")
	}

	if !skipConfirm {
		if s.Prompter == nil || !s.Prompter.Enabled() {
			s.log().Info("execution skipped: confirmation unavailable", map[string]interface{}{
				"request_id": res.RequestID,
			})
			return domain.ExecutionResult{}, nil
		}
		ok, err := s.Prompter.ConfirmExecute(res.Command)
		if err != nil {
			return domain.ExecutionResult{}, err
		}
		if !ok {
			return domain.ExecutionResult{}, nil
		}
	}

	result, err := s.Executor.Execute(ctx, res.Command)
	s.log().Debug("command executed", map[string]interface{}{
		"request_id":  res.RequestID,
		"exit_code":   result.ExitCode,
		"duration_ms": result.DurationMS,
	})
	return result, err
}

func (s *Service) log() ports.Logger {
	if s.Logger == nil {
		return logger.NewNop()
	}
	return s.Logger
}
