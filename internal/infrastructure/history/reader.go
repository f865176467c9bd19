package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/pkg/filesystem"
	"github.com/terminalfellow/terminalfellow/internal/pkg/logger"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// Format identifies a history file layout.
type Format string

const (
	FormatPlain Format = "plain"
	FormatZsh   Format = "zsh"
	FormatFish  Format = "fish"
	FormatAtuin Format = "atuin"
)

// Reader reads and summarizes a shell history file.
type Reader struct {
	path     string
	maxItems int
	logger   ports.Logger
}

// NewReader builds a Reader for path. maxItems bounds MostRecent; values
// below one fall back to the default.
func NewReader(path string, maxItems int, log ports.Logger) *Reader {
	if maxItems <= 0 {
		maxItems = domain.DefaultMaxHistoryItems
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Reader{path: filesystem.ExpandPath(path), maxItems: maxItems, logger: log}
}

// Path returns the expanded history file location.
func (r *Reader) Path() string {
	return r.path
}

// Format guesses the file layout from its name and first entry.
func (r *Reader) Format() Format {
	return detectFormat(r.path)
}

// Read returns every non-empty entry, oldest first. A missing file yields no
// entries and no error.
func (r *Reader) Read(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("history file not found", map[string]interface{}{"path": r.path})
			return nil, nil
		}
		return nil, fmt.Errorf("stat history: %w", err)
	}

	format := r.Format()
	var (
		entries []string
		err     error
	)
	switch format {
	case FormatAtuin:
		entries, err = readAtuin(ctx, r.path)
	case FormatFish:
		entries, err = readFish(r.path)
	default:
		entries, err = readText(r.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s history %s: %w", format, r.path, err)
	}
	r.logger.Debug("history loaded", map[string]interface{}{
		"path":    r.path,
		"format":  string(format),
		"entries": len(entries),
	})
	return entries, nil
}

// Analyze implements ports.HistoryReader.
func (r *Reader) Analyze(ctx context.Context) (domain.HistoryAnalysis, error) {
	entries, err := r.Read(ctx)
	if err != nil {
		return domain.HistoryAnalysis{}, err
	}
	return Analyze(entries, r.maxItems), nil
}

// Analyze counts command names and keeps the newest maxItems entries.
func Analyze(entries []string, maxItems int) domain.HistoryAnalysis {
	recent := entries
	if maxItems > 0 && len(recent) > maxItems {
		recent = recent[len(recent)-maxItems:]
	}
	return domain.HistoryAnalysis{
		Count:          len(entries),
		MostRecent:     append([]string{}, recent...),
		CommonCommands: rankCommands(entries, domain.CommonCommandsLimit),
	}
}

// rankCommands orders command names by frequency. Ties keep the order in
// which the names first appeared.
func rankCommands(entries []string, limit int) []domain.CommandCount {
	names := lo.Map(entries, func(entry string, _ int) string {
		return commandName(entry)
	})
	counts := lo.CountValues(names)
	order := lo.Uniq(names)
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return lo.Map(order, func(name string, _ int) domain.CommandCount {
		return domain.CommandCount{Name: name, Count: counts[name]}
	})
}

func commandName(entry string) string {
	fields := strings.Fields(entry)
	if len(fields) == 0 {
		return entry
	}
	return fields[0]
}

func detectFormat(path string) Format {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(base, ".db"):
		return FormatAtuin
	case strings.Contains(base, "fish_history") || strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml"):
		return FormatFish
	case strings.Contains(base, "zsh"):
		return FormatZsh
	}
	if first, ok := firstLine(path); ok {
		switch {
		case strings.HasPrefix(first, "- cmd:"):
			return FormatFish
		case zshExtended.MatchString(first):
			return FormatZsh
		}
	}
	return FormatPlain
}

var _ ports.HistoryReader = (*Reader)(nil)
