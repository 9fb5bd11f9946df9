package digest

import (
	"fmt"
	"strings"
)

// Quest descriptions are wrapped to this width, continuation lines
// indented four spaces.
const (
	descWidth  = 60
	descIndent = "    "
)

// noQuestHeader introduces the section for labors with no associated
// quest. It appears at most once per owner.
const noQuestHeader = "Labors with no associated quest:"

// Render formats one owner's quest group as the plain-text digest
// body. Output is byte-for-byte reproducible for identical inputs:
// quest sections appear in ascending id order and hostnames in
// lexicographic order.
func Render(owner string, group QuestGroup, quests QuestIndex, tagsByHost map[string][]string, frontendBaseURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", owner)
	b.WriteString("These open labors require maintenance on hosts you own.\n\n")

	for _, id := range group.QuestIDs() {
		if q, ok := quests.Find(id); ok {
			fmt.Fprintf(&b, "Quest %d, created by %s:\n", q.ID, q.Creator)
			b.WriteString(wrap(q.Description, descWidth, descIndent))
			b.WriteString("\n")
			fmt.Fprintf(&b, "Link: %s/v1/quests/%d\n", frontendBaseURL, q.ID)
		} else {
			b.WriteString(noQuestHeader)
			b.WriteString("\n")
		}
		for _, host := range group.Hosts(id) {
			fmt.Fprintf(&b, "%s (%s)\n", host, strings.Join(tagsByHost[host], ", "))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "To view or close out your labors, visit %s\n", frontendBaseURL)
	return b.String()
}

// wrap greedily word-wraps s to the given width. Lines after the first
// are prefixed with indent, which counts against the width.
func wrap(s string, width int, indent string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = indent + w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
