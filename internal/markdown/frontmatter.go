package markdown

import (
	"regexp"
	"strings"

	"github.com/arkan-labs/vaultengine/internal/sourcepos"
	"gopkg.in/yaml.v3"
)

// frontmatterFencePattern matches the leading frontmatter block: a `---`
// delimiter at byte 0, the YAML body, and a closing `---` or `...` delimiter.
var frontmatterFencePattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n(?:---|\.\.\.)[ \t]*\r?\n?`)

// extractFrontmatter splits text into a raw YAML block (if present at byte
// 0) and the remaining body. ok is false when there is no frontmatter block,
// in which case body equals text unchanged. rawOffset/bodyOffset are the
// byte offsets of raw and body within the original text.
func extractFrontmatter(text string) (raw string, rawOffset int, body string, bodyOffset int, ok bool) {
	loc := frontmatterFencePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", 0, text, 0, false
	}
	return text[loc[2]:loc[3]], loc[2], text[loc[1]:], loc[1], true
}

// parseFrontmatter parses the raw YAML block into a Frontmatter. On a YAML
// syntax error it returns a nil Frontmatter and the error; the caller
// records this as Document.ParseError without aborting the rest of the
// parse.
func parseFrontmatter(raw string, idx *sourcepos.Index, offset int) (*Frontmatter, error) {
	var values map[string]any
	if strings.TrimSpace(raw) == "" {
		values = map[string]any{}
	} else if err := yaml.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}

	fm := &Frontmatter{
		Values:   values,
		Position: idx.Position(offset, len(raw)),
	}
	fm.Tags = stringListField(values, "tags")
	fm.Aliases = stringListField(values, "aliases")
	return fm, nil
}

// stringListField normalizes a frontmatter value that may be a single
// scalar or a YAML sequence into a []string.
func stringListField(values map[string]any, key string) []string {
	v, ok := values[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
