package markdown

import (
	"regexp"
	"strings"

	"github.com/arkan-labs/vaultengine/internal/sourcepos"
)

// taskPattern matches markdown checkboxes: "- [ ] text" or "- [x] text",
// allowing leading whitespace for nested lists. Adapted from the teacher's
// tasks.go.
var taskPattern = regexp.MustCompile(`(?m)^[\t ]*- \[([ xX])\] (.+)$`)

// dataviewFieldPattern matches Dataview inline fields: [key:: value].
var dataviewFieldPattern = regexp.MustCompile(`\[(\w+)::\s*([^\]]*)\]`)

// emojiDatePattern matches a Tasks-plugin emoji signifier followed by its
// value (date, or free text for fields like priority).
var emojiDatePattern = regexp.MustCompile(
	`([\x{2795}\x{23f3}\x{1f6eb}\x{1f4c5}\x{2705}\x{274c}])\s*(\S+)`,
)

var emojiPriorityPattern = regexp.MustCompile(
	`[\x{23ec}\x{1f53d}\x{1f53c}\x{23eb}\x{1f53a}]`,
)

var emojiToField = map[string]string{
	"➕":     "scheduled", // created, folded into scheduled for simplicity
	"⏳":     "scheduled",
	"\U0001f6eb": "scheduled",
	"\U0001f4c5": "due",
	"✅":     "completion",
	"❌":     "completion",
}

var emojiToPriorityMap = map[string]string{
	"⏬":     "lowest",
	"\U0001f53d": "low",
	"\U0001f53c": "medium",
	"⏫":     "high",
	"\U0001f53a": "highest",
}

// parseTasks finds checkbox items in masked text and parses their trailing
// Dataview or Tasks-plugin-emoji metadata, surfacing Due as the spec's named
// field and the rest as supplemental TaskMeta detail.
func parseTasks(masked string, idx *sourcepos.Index, offset int) []TaskItem {
	var out []TaskItem
	for _, loc := range taskPattern.FindAllStringSubmatchIndex(masked, -1) {
		done := masked[loc[2]:loc[3]] == "x" || masked[loc[2]:loc[3]] == "X"
		rawText := masked[loc[4]:loc[5]]
		meta := parseTaskMeta(rawText)

		item := TaskItem{
			Text:     strings.TrimSpace(rawText),
			Done:     done,
			Meta:     meta,
			Position: idx.Position(offset+loc[0], loc[1]-loc[0]),
		}
		if meta.Due != "" {
			due := meta.Due
			item.Due = &due
		}
		out = append(out, item)
	}
	return out
}

// parseTaskMeta extracts Dataview or emoji-format metadata from task text.
// Dataview fields are tried first; emoji signifiers are tried next.
func parseTaskMeta(rawText string) TaskMeta {
	var meta TaskMeta

	if dvMatches := dataviewFieldPattern.FindAllStringSubmatch(rawText, -1); len(dvMatches) > 0 {
		for _, m := range dvMatches {
			setMetaField(&meta, m[1], strings.TrimSpace(m[2]))
		}
		return meta
	}

	if loc := emojiPriorityPattern.FindStringIndex(rawText); loc != nil {
		emoji := rawText[loc[0]:loc[1]]
		if p, ok := emojiToPriorityMap[emoji]; ok {
			meta.Priority = p
		}
	}

	rest := rawText
	for {
		eLoc := emojiDatePattern.FindStringSubmatchIndex(rest)
		if eLoc == nil {
			break
		}
		emoji := rest[eLoc[2]:eLoc[3]]
		value := rest[eLoc[4]:eLoc[5]]
		if field, ok := emojiToField[emoji]; ok {
			setMetaField(&meta, field, value)
		}
		rest = rest[eLoc[1]:]
	}

	return meta
}

func setMetaField(m *TaskMeta, key, value string) {
	switch strings.ToLower(key) {
	case "due":
		m.Due = value
	case "scheduled":
		m.Scheduled = value
	case "priority":
		m.Priority = value
	case "completion":
		m.Completion = value
	}
}
