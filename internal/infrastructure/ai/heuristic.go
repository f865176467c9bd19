package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/terminalfellow/terminalfellow/internal/ports"
)

var errNoOfflineRule = errors.New("no offline rule matches the request")

// keywordRule maps a request to a command when every keyword appears in it.
type keywordRule struct {
	keywords []string
	command  string
}

// Rules are checked in order; the first match wins.
var offlineRules = []keywordRule{
	{keywords: []string{"docker"}, command: "docker ps"},
	{keywords: []string{"git", "status"}, command: "git status"},
	{keywords: []string{"git", "log"}, command: "git log --oneline -n 10"},
	{keywords: []string{"git", "branch"}, command: "git branch -a"},
	{keywords: []string{"kubernetes"}, command: "kubectl get pods"},
	{keywords: []string{"pod"}, command: "kubectl get pods"},
	{keywords: []string{"disk"}, command: "df -h"},
	{keywords: []string{"listening"}, command: "lsof -i -P -n"},
	{keywords: []string{"process"}, command: "ps aux"},
	{keywords: []string{"current", "directory"}, command: "pwd"},
	{keywords: []string{"list", "file"}, command: "ls -la"},
}

type heuristicBackend struct{}

func newHeuristicBackend() ports.CompletionBackend {
	return heuristicBackend{}
}

func (heuristicBackend) Name() string {
	return "offline"
}

func (heuristicBackend) Complete(_ context.Context, req ports.CompletionRequest) (ports.CompletionResponse, error) {
	command, ok := guessCommand(req.Query)
	if !ok {
		return ports.CompletionResponse{}, errNoOfflineRule
	}
	return ports.CompletionResponse{Text: command, Model: "offline"}, nil
}

func guessCommand(query string) (string, bool) {
	query = strings.ToLower(query)
	for _, rule := range offlineRules {
		if containsAll(query, rule.keywords) {
			return rule.command, true
		}
	}
	return "", false
}

func containsAll(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if !strings.Contains(text, keyword) {
			return false
		}
	}
	return true
}
