package contextcollector

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/pkg/logger"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// Collector assembles the per-invocation Context from the working directory
// and the shell history.
type Collector struct {
	history ports.HistoryReader
	logger  ports.Logger
	getwd   func() (string, error)
}

// NewCollector creates a Collector. history may be nil when no history file
// is configured.
func NewCollector(history ports.HistoryReader, log ports.Logger) *Collector {
	if log == nil {
		log = logger.NewNop()
	}
	return &Collector{history: history, logger: log, getwd: os.Getwd}
}

// Collect always sets cwd. A history failure is returned as err alongside a
// usable Context that simply lacks the history entries.
func (c *Collector) Collect(ctx context.Context, opts ports.ContextOptions) (domain.Context, error) {
	var result domain.Context

	wd, err := c.getwd()
	if err != nil {
		c.logger.Warn("working directory unavailable", map[string]interface{}{"error": err.Error()})
		wd = "."
	}
	result = result.WithCWD(wd)

	if !opts.UseHistory && !opts.UseContext {
		return result, nil
	}
	if c.history == nil {
		return result, fmt.Errorf("history reader not configured")
	}

	analysis, err := c.history.Analyze(ctx)
	if err != nil {
		c.logger.Warn("history unavailable", map[string]interface{}{"error": err.Error()})
		return result, fmt.Errorf("read history: %w", err)
	}

	if opts.UseHistory {
		result = result.WithHistory(strings.Join(analysis.MostRecent, "\n"))
	}
	if opts.UseContext {
		result = result.
			WithRecentCommands(analysis.RecentTail(domain.ContextRecentLimit)).
			WithFrequentTools(analysis.ToolNames(domain.ContextToolsLimit))
	}

	c.logger.Debug("context collected", map[string]interface{}{
		"keys":    len(result.Keys()),
		"entries": analysis.Count,
	})
	return result, nil
}

var _ ports.ContextCollector = (*Collector)(nil)
