package domain

// CommandCount is a command name and how often it appears in the history.
type CommandCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// HistoryAnalysis summarizes the user's shell history file.
type HistoryAnalysis struct {
	Count          int            `json:"count" yaml:"count"`
	MostRecent     []string       `json:"most_recent" yaml:"most_recent"`
	CommonCommands []CommandCount `json:"common_commands" yaml:"common_commands"`
}

// ToolNames returns up to limit command names, most frequent first.
func (a HistoryAnalysis) ToolNames(limit int) []string {
	names := make([]string, 0, min(limit, len(a.CommonCommands)))
	for _, cc := range a.CommonCommands {
		if len(names) >= limit {
			break
		}
		names = append(names, cc.Name)
	}
	return names
}

// RecentTail returns up to limit of the most recent entries, oldest first.
func (a HistoryAnalysis) RecentTail(limit int) []string {
	if limit <= 0 || len(a.MostRecent) <= limit {
		return a.MostRecent
	}
	return a.MostRecent[len(a.MostRecent)-limit:]
}
