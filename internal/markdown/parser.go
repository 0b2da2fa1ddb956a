package markdown

import "github.com/arkan-labs/vaultengine/internal/sourcepos"

// Parse tokenizes a note's content into a Document. sourcePath identifies
// the note for the SourcePath field of every Link it emits; it is not
// otherwise interpreted by the parser.
//
// A malformed frontmatter block does not abort the parse: Document.ParseError
// is set and the body is still parsed for every other construct.
func Parse(sourcePath string, content string) *Document {
	idx := sourcepos.NewIndex(content)
	doc := &Document{}

	raw, rawOffset, body, bodyOffset, hasFrontmatter := extractFrontmatter(content)
	if hasFrontmatter {
		fm, err := parseFrontmatter(raw, idx, rawOffset)
		if err != nil {
			doc.ParseError = err.Error()
		} else {
			doc.Frontmatter = fm
		}
	}

	masked := maskInertContent(body)

	doc.Headings = parseHeadings(masked, idx, bodyOffset)
	doc.Blocks = parseBlocks(masked, idx, bodyOffset)
	doc.Tasks = parseTasks(masked, idx, bodyOffset)

	links := parseWikilinks(masked, sourcePath, idx, bodyOffset)
	links = append(links, parseMarkdownLinks(masked, sourcePath, idx, bodyOffset)...)
	doc.Links = links

	doc.Callouts = parseCallouts(masked, idx, bodyOffset)

	tags := frontmatterTags(doc.Frontmatter)
	tags = append(tags, parseInlineTags(masked, idx, bodyOffset)...)
	doc.Tags = tags

	return doc
}
