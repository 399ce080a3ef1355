package pactl

import (
	"bufio"
	"strconv"
	"strings"
)

// FilterInputSources keeps real capture devices: names containing "input"
// but not "monitor", case-insensitively.
func FilterInputSources(names []string) []string {
	var out []string
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "input") && !strings.Contains(lower, "monitor") {
			out = append(out, name)
		}
	}
	return out
}

// ParseShortSources extracts the name column from `pactl list short sources`.
// Lines are tab-separated: index, name, driver, sample spec, state.
func ParseShortSources(out string) []string {
	var names []string
	for _, line := range lines(out) {
		parts := strings.Split(line, "\t")
		if len(parts) >= 2 && parts[1] != "" {
			names = append(names, parts[1])
		}
	}
	return names
}

// ParseDescriptions pairs each "Name:" line of `pactl list sources` with the
// "Description:" line that follows it. A name never followed by a
// description is absent from the result.
func ParseDescriptions(out string) map[string]string {
	descriptions := make(map[string]string)
	current := ""
	for _, line := range lines(out) {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "Name:"):
			current = fieldValue(stripped)
		case strings.HasPrefix(stripped, "Description:") && current != "":
			descriptions[current] = fieldValue(stripped)
			current = ""
		}
	}
	return descriptions
}

// ParseMute interprets `pactl get-source-mute` output. It accepts "Mute: yes",
// "mute: no" or a bare "yes"/"no". ok is false for anything else.
func ParseMute(out string) (muted, ok bool) {
	s := strings.ToLower(strings.TrimSpace(out))
	switch {
	case s == "yes" || strings.HasSuffix(s, ": yes"):
		return true, true
	case s == "no" || strings.HasSuffix(s, ": no"):
		return false, true
	}
	return false, false
}

// MuteFromListing finds the "Mute:" field inside the block of `pactl list
// sources` whose "Name:" equals source. The scan stops at the next source
// boundary, so a later source's mute state is never attributed to this one.
func MuteFromListing(out, source string) (muted, ok bool) {
	inSource := false
	for _, line := range lines(out) {
		stripped := strings.TrimSpace(line)
		switch {
		case isSourceHeader(line):
			if inSource {
				return false, false
			}
		case strings.HasPrefix(stripped, "Name:"):
			if inSource {
				return false, false
			}
			inSource = fieldValue(stripped) == source
		case inSource && strings.HasPrefix(stripped, "Mute:"):
			return strings.EqualFold(fieldValue(stripped), "yes"), true
		}
	}
	return false, false
}

// ParseModuleID parses the module index printed by `pactl load-module`.
func ParseModuleID(out string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// isSourceHeader matches the unindented "Source #N" line opening each block.
func isSourceHeader(line string) bool {
	return strings.HasPrefix(line, "Source #")
}

func fieldValue(line string) string {
	_, v, _ := strings.Cut(line, ":")
	return strings.TrimSpace(v)
}

func lines(s string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out
}
