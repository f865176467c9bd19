package domain

import (
	"slices"
	"strings"
)

// ContextKey names one of the optional entries of a Context.
type ContextKey string

const (
	ContextCWD            ContextKey = "cwd"
	ContextHistory        ContextKey = "history"
	ContextRecentCommands ContextKey = "recent_commands"
	ContextFrequentTools  ContextKey = "frequent_tools"
)

// ContextKeys lists the keys in rendering order.
var ContextKeys = []ContextKey{ContextCWD, ContextHistory, ContextRecentCommands, ContextFrequentTools}

// Context is the ambient information sent alongside a query. Each entry is
// optional and presence is tracked separately from the value, so an entry set
// to an empty string still counts as present.
//
// The zero value is an empty Context. Values are immutable: the With* methods
// return modified copies.
type Context struct {
	cwd            string
	history        string
	recentCommands []string
	frequentTools  []string
	present        map[ContextKey]struct{}
}

// WithCWD returns a copy carrying the working directory.
func (c Context) WithCWD(dir string) Context {
	next := c.clone()
	next.cwd = dir
	next.present[ContextCWD] = struct{}{}
	return next
}

// WithHistory returns a copy carrying newline-joined history lines.
func (c Context) WithHistory(history string) Context {
	next := c.clone()
	next.history = history
	next.present[ContextHistory] = struct{}{}
	return next
}

// WithRecentCommands returns a copy carrying the recent command list.
func (c Context) WithRecentCommands(commands []string) Context {
	next := c.clone()
	next.recentCommands = slices.Clone(commands)
	next.present[ContextRecentCommands] = struct{}{}
	return next
}

// WithFrequentTools returns a copy carrying the most used tool names.
func (c Context) WithFrequentTools(tools []string) Context {
	next := c.clone()
	next.frequentTools = slices.Clone(tools)
	next.present[ContextFrequentTools] = struct{}{}
	return next
}

// Has reports whether key was set, regardless of its value.
func (c Context) Has(key ContextKey) bool {
	_, ok := c.present[key]
	return ok
}

// HasAll reports whether every key was set.
func (c Context) HasAll(keys ...ContextKey) bool {
	for _, key := range keys {
		if !c.Has(key) {
			return false
		}
	}
	return true
}

func (c Context) CWD() (string, bool) {
	return c.cwd, c.Has(ContextCWD)
}

func (c Context) History() (string, bool) {
	return c.history, c.Has(ContextHistory)
}

func (c Context) RecentCommands() ([]string, bool) {
	return slices.Clone(c.recentCommands), c.Has(ContextRecentCommands)
}

func (c Context) FrequentTools() ([]string, bool) {
	return slices.Clone(c.frequentTools), c.Has(ContextFrequentTools)
}

// Keys returns the present keys in rendering order.
func (c Context) Keys() []ContextKey {
	var keys []ContextKey
	for _, key := range ContextKeys {
		if c.Has(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Variables renders the present entries as template substitution values.
// List entries are joined with ", ".
func (c Context) Variables() map[string]string {
	vars := make(map[string]string, len(c.present))
	for _, key := range c.Keys() {
		switch key {
		case ContextCWD:
			vars[string(key)] = c.cwd
		case ContextHistory:
			vars[string(key)] = c.history
		case ContextRecentCommands:
			vars[string(key)] = strings.Join(c.recentCommands, ", ")
		case ContextFrequentTools:
			vars[string(key)] = strings.Join(c.frequentTools, ", ")
		}
	}
	return vars
}

func (c Context) clone() Context {
	next := c
	next.present = make(map[ContextKey]struct{}, len(c.present)+1)
	for key := range c.present {
		next.present[key] = struct{}{}
	}
	return next
}
