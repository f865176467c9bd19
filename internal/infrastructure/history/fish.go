package history

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type fishEntry struct {
	Cmd  string `yaml:"cmd"`
	When int64  `yaml:"when"`
}

// readFish parses fish_history. Fish does not always emit valid YAML, so a
// line scan for "- cmd:" entries is used when decoding fails.
func readFish(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = []byte(strings.ToValidUTF8(string(raw), ""))

	var decoded []fishEntry
	if err := yaml.Unmarshal(raw, &decoded); err == nil {
		entries := make([]string, 0, len(decoded))
		for _, entry := range decoded {
			if cmd := strings.TrimSpace(entry.Cmd); cmd != "" {
				entries = append(entries, cmd)
			}
		}
		return entries, nil
	}
	return scanFish(string(raw)), nil
}

func scanFish(content string) []string {
	var entries []string
	for _, line := range strings.Split(content, "\n") {
		cmd, ok := strings.CutPrefix(strings.TrimSpace(line), "- cmd:")
		if !ok {
			continue
		}
		if cmd = strings.TrimSpace(cmd); cmd != "" {
			entries = append(entries, cmd)
		}
	}
	return entries
}
