package domain

import (
	"path/filepath"
	"strings"
)

// ShellName enumerates shells whose history files we know how to locate.
type ShellName string

const (
	ShellUnknown ShellName = "unknown"
	ShellZsh     ShellName = "zsh"
	ShellBash    ShellName = "bash"
	ShellFish    ShellName = "fish"
)

// ShellFromPath maps a $SHELL value such as /usr/bin/zsh to a ShellName.
func ShellFromPath(shellPath string) ShellName {
	base := filepath.Base(strings.TrimSpace(shellPath))
	switch {
	case strings.Contains(base, "zsh"):
		return ShellZsh
	case strings.Contains(base, "fish"):
		return ShellFish
	case strings.Contains(base, "bash"):
		return ShellBash
	default:
		return ShellUnknown
	}
}

// DefaultHistoryFile returns the conventional history location for the shell,
// relative to the home directory with a leading "~/".
func (s ShellName) DefaultHistoryFile() string {
	switch s {
	case ShellZsh:
		return "~/.zsh_history"
	case ShellFish:
		return "~/.local/share/fish/fish_history"
	default:
		return "~/.bash_history"
	}
}
