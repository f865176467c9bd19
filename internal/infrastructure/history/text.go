package history

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

const maxLineSize = 1024 * 1024

// zshExtended matches the EXTENDED_HISTORY prefix ": <start>:<elapsed>;".
var zshExtended = regexp.MustCompile(`^: \d+:\d+;`)

// readText reads bash and zsh history files. zsh extended prefixes are
// removed and invalid UTF-8 is dropped.
func readText(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.ToValidUTF8(scanner.Text(), "")
		line = zshExtended.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func firstLine(path string) (string, bool) {
	file, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, true
		}
	}
	return "", false
}
