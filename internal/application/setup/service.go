// Package setup runs the first-time configuration wizard.
package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/pkg/filesystem"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// ErrNoAPIKey means the user left the API key prompt empty.
var ErrNoAPIKey = errors.New("no API key provided, configuration cancelled")

// Options controls which questions are asked.
type Options struct {
	// ExistingCredential is the key already resolvable from the flag,
	// environment or config file. The key prompt is skipped when it is set.
	ExistingCredential string
	// Shell is the $SHELL value used to suggest a history file.
	Shell string
	// Force asks every question even when an answer already exists.
	Force bool
}

// Result summarizes what the wizard changed.
type Result struct {
	APIKeySaved        bool
	UseHistory         bool
	HistoryFile        string
	HistoryFileMissing bool
}

// Service asks the setup questions and saves the answers.
type Service struct {
	ConfigStore ports.ConfigStore
	Prompter    ports.SetupPrompter
}

// Run walks through the API key, history opt-in and history path questions.
func (s *Service) Run(ctx context.Context, opts Options) (Result, error) {
	if s.ConfigStore == nil || s.Prompter == nil {
		return Result{}, errors.New("setup.Service dependencies not satisfied")
	}

	cfg, err := s.ConfigStore.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load config: %w", err)
	}

	var res Result
	if opts.Force || strings.TrimSpace(opts.ExistingCredential) == "" {
		key, err := s.Prompter.APIKey()
		if err != nil {
			return Result{}, err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return Result{}, ErrNoAPIKey
		}
		cfg.OpenAIAPIKey = key
		if err := s.ConfigStore.Save(ctx, cfg); err != nil {
			return Result{}, fmt.Errorf("save api key: %w", err)
		}
		res.APIKeySaved = true
	}

	if cfg.HistoryDecided() && !opts.Force {
		res.UseHistory = cfg.HistoryEnabled()
		res.HistoryFile = cfg.HistoryFile
		return res, nil
	}

	useHistory, err := s.Prompter.UseHistory(true)
	if err != nil {
		return Result{}, err
	}
	cfg.SetUseHistory(useHistory)
	res.UseHistory = useHistory

	if useHistory && (opts.Force || cfg.HistoryFile == "" || !filesystem.Exists(cfg.HistoryFile)) {
		suggestion := DefaultHistoryPath(opts.Shell)
		if opts.Force && cfg.HistoryFile != "" && filesystem.Exists(cfg.HistoryFile) {
			suggestion = cfg.HistoryFile
		}
		path, err := s.Prompter.HistoryFile(suggestion)
		if err != nil {
			return Result{}, err
		}
		if strings.TrimSpace(path) == "" {
			path = suggestion
		}
		cfg.HistoryFile = filesystem.ExpandPath(strings.TrimSpace(path))
		res.HistoryFileMissing = !filesystem.Exists(cfg.HistoryFile)
	}
	res.HistoryFile = cfg.HistoryFile

	if err := s.ConfigStore.Save(ctx, cfg); err != nil {
		return Result{}, fmt.Errorf("save config: %w", err)
	}
	return res, nil
}

// DefaultHistoryPath suggests the history file of the given $SHELL.
func DefaultHistoryPath(shell string) string {
	return domain.ShellFromPath(shell).DefaultHistoryFile()
}
