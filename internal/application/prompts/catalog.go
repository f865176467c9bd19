// Package prompts holds the fixed system prompts and command prompt templates
// used to ask a model for shell commands.
package prompts

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/terminalfellow/terminalfellow/internal/domain"
)

// Kind names a prompt variant.
type Kind string

const (
	KindDefault      Kind = "default"
	KindAdvanced     Kind = "advanced"
	KindHistoryAware Kind = "history_aware"
	KindWithHistory  Kind = "with_history"
	KindWithContext  Kind = "with_context"
)

// Slot names shared by the command templates.
const (
	SlotQuery          = "query"
	SlotHistory        = string(domain.ContextHistory)
	SlotCWD            = string(domain.ContextCWD)
	SlotRecentCommands = string(domain.ContextRecentCommands)
	SlotFrequentTools  = string(domain.ContextFrequentTools)
)

// Template is a command prompt with its required slots declared up front.
type Template struct {
	Kind  Kind
	Text  string
	Slots []string

	tmpl *template.Template
}

// Render substitutes vars into the template. Every declared slot must be
// present in vars; extra entries are ignored.
func (t Template) Render(vars map[string]string) (string, error) {
	for _, slot := range t.Slots {
		if _, ok := vars[slot]; !ok {
			return "", &domain.MissingVariableError{Kind: string(t.Kind), Slot: slot}
		}
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Kind, err)
	}
	return buf.String(), nil
}

var systemPrompts = map[Kind]string{
	KindDefault: `You are a CLI assistant that generates shell commands based on user requests.
Your task is to interpret natural language queries and convert them to executable shell commands.
Be precise, efficient, and security-conscious in your responses.
Only generate valid shell commands that would work in a Unix-like environment.
If a request is ambiguous, make reasonable assumptions but err on the side of safety.
`,
	KindAdvanced: `You are an expert Unix/Linux command line assistant.
You specialize in generating shell commands based on user requests with the following focus:
1. Security: Never suggest commands that could be harmful without explicit warning
2. Efficiency: Use the most efficient commands and flags for each task
3. Precision: Generate exact commands that will work as expected
4. Compatibility: Focus on commands that work across most Unix-like systems unless specific system is mentioned

Only generate valid shell commands without explanation. If a command requires explanations, provide it as a comment in the command.
`,
	KindHistoryAware: `You are a CLI assistant that learns from the user's command history.
Analyze the provided command history to understand the user's preferences and patterns.
Generate commands that are consistent with their previous usage and environment.
Be precise, efficient, and security-conscious in your responses.
Only generate valid shell commands that would work in a Unix-like environment.
`,
}

var commandPrompts = map[Kind]Template{
	KindDefault: mustTemplate(KindDefault, `Generate a shell command that accomplishes the following task:
{{.query}}

Think step by step about what this request means and how to translate it to a shell command.
Return ONLY the shell command with no explanations or additional text.
`, SlotQuery),
	KindWithHistory: mustTemplate(KindWithHistory, `Generate a shell command that accomplishes the following task:
{{.query}}

Consider the following command history when generating your response:
{{.history}}

Think step by step about what this request means and how to translate it to a shell command based on the user's history.
Return ONLY the shell command with no explanations or additional text.
`, SlotQuery, SlotHistory),
	KindWithContext: mustTemplate(KindWithContext, `Generate a shell command that accomplishes the following task:
{{.query}}

Consider the following context:
- Current working directory: {{.cwd}}
- Recent commands: {{.recent_commands}}
- Frequently used tools: {{.frequent_tools}}

Think step by step about what this request means and how to translate it to a shell command.
Return ONLY the shell command with no explanations or additional text.
`, SlotQuery, SlotCWD, SlotRecentCommands, SlotFrequentTools),
}

func mustTemplate(kind Kind, text string, slots ...string) Template {
	tmpl := template.Must(template.New(string(kind)).Option("missingkey=error").Parse(text))
	return Template{Kind: kind, Text: text, Slots: slots, tmpl: tmpl}
}

// SystemPrompt returns the system prompt for kind, or the default one when
// kind is unknown.
func SystemPrompt(kind Kind) string {
	if text, ok := systemPrompts[kind]; ok {
		return text
	}
	return systemPrompts[KindDefault]
}

// CommandPrompt returns the command template for kind, falling back to the
// default template.
func CommandPrompt(kind Kind) Template {
	if tmpl, ok := commandPrompts[kind]; ok {
		return tmpl
	}
	return commandPrompts[KindDefault]
}

// FormatCommandPrompt renders the command template for kind.
func FormatCommandPrompt(kind Kind, vars map[string]string) (string, error) {
	return CommandPrompt(kind).Render(vars)
}

// IsKnown reports whether kind names a system prompt or a command template.
func IsKnown(kind Kind) bool {
	_, system := systemPrompts[kind]
	_, command := commandPrompts[kind]
	return system || command
}

// Kinds lists every known prompt kind.
func Kinds() []Kind {
	return []Kind{KindDefault, KindAdvanced, KindHistoryAware, KindWithHistory, KindWithContext}
}
