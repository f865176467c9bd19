package generator

import (
	"strings"
	"unicode"

	"al.essio.dev/pkg/shellescape"
)

const (
	fence       = "```"
	lineJoiner  = " && "
	errorPrefix = "Error generating command: "
)

var (
	// Line endings after which the next line continues the same command.
	continuationSuffixes = []string{"|", "&&", "||", ";", "{", "("}
	continuationWords    = map[string]bool{"do": true, "then": true, "else": true}

	blockOpeners = map[string]bool{"for": true, "while": true, "until": true, "if": true, "case": true, "{": true}
	blockClosers = map[string]bool{"done": true, "fi": true, "esac": true, "}": true}
)

// Normalize turns raw model output into a single command line. It strips
// markdown fences, "command:" labels and "$ " prompt markers, joins backslash
// continuations and chains top-level lines with " && ". Lines inside a
// for/while/if/case/{ block are joined with "; " or a space so the block
// still parses. Output with a heredoc keeps its newlines. An empty result
// means the output held no command.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	text = extractCodeBlock(text)
	text = stripWrappingBackticks(text)

	var lines []string
	for _, line := range strings.Split(joinContinuations(text), "\n") {
		line = stripLabels(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if hasHeredoc(lines) {
		return strings.Join(lines, "\n")
	}
	return joinLines(dropComments(lines))
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	depth := 0
	for i, line := range lines {
		if i > 0 {
			prev := lines[i-1]
			switch {
			case continuesLine(prev):
				b.WriteString(" ")
			case depth > 0:
				b.WriteString("; ")
			default:
				b.WriteString(lineJoiner)
			}
		}
		b.WriteString(line)
		depth += blockDelta(line)
		if depth < 0 {
			depth = 0
		}
	}
	return b.String()
}

func continuesLine(line string) bool {
	for _, suffix := range continuationSuffixes {
		if strings.HasSuffix(line, suffix) {
			return true
		}
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	return continuationWords[last] || (last == "in" && fields[0] == "case")
}

// blockDelta counts block keywords at the start of each ;-separated segment.
func blockDelta(line string) int {
	delta := 0
	for _, segment := range strings.Split(line, ";") {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			continue
		}
		switch {
		case blockOpeners[fields[0]]:
			delta++
		case blockClosers[fields[0]]:
			delta--
		}
	}
	return delta
}

func hasHeredoc(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(strings.ReplaceAll(line, "<<<", ""), "<<") {
			return true
		}
	}
	return false
}

// DiagnosticCommand renders err as an echo command so the caller always has
// something printable and harmless to show.
func DiagnosticCommand(err error) string {
	reason := "unknown error"
	if err != nil {
		if msg := strings.Join(strings.Fields(err.Error()), " "); msg != "" {
			reason = msg
		}
	}
	return "echo " + shellescape.Quote(errorPrefix+reason)
}

func extractCodeBlock(content string) string {
	start := strings.Index(content, fence)
	if start == -1 {
		return content
	}
	block := content[start+len(fence):]
	if end := strings.Index(block, fence); end != -1 {
		block = block[:end]
	}

	lines := strings.Split(block, "\n")
	if len(lines) > 1 && isLanguageTag(lines[0]) {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isLanguageTag(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '+' {
			return false
		}
	}
	return true
}

func stripWrappingBackticks(content string) string {
	if len(content) >= 2 && strings.HasPrefix(content, "`") && strings.HasSuffix(content, "`") &&
		!strings.Contains(content[1:len(content)-1], "`") {
		return strings.TrimSpace(content[1 : len(content)-1])
	}
	return content
}

func stripLabels(line string) string {
	if len(line) >= len("command:") && strings.EqualFold(line[:len("command:")], "command:") {
		line = strings.TrimSpace(line[len("command:"):])
	}
	if strings.HasPrefix(line, "$ ") {
		line = strings.TrimSpace(line[2:])
	}
	return stripWrappingBackticks(line)
}

func joinContinuations(content string) string {
	lines := strings.Split(content, "\n")
	var (
		out     []string
		pending string
	)
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if strings.HasSuffix(trimmed, `\`) {
			pending += strings.TrimSpace(strings.TrimSuffix(trimmed, `\`)) + " "
			continue
		}
		out = append(out, pending+strings.TrimSpace(trimmed))
		pending = ""
	}
	if pending != "" {
		out = append(out, strings.TrimSpace(pending))
	}
	return strings.Join(out, "\n")
}

func dropComments(lines []string) []string {
	var commands []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "#") {
			commands = append(commands, line)
		}
	}
	if len(commands) == 0 {
		return lines
	}
	return commands
}
