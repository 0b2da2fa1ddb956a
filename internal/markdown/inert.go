package markdown

import "regexp"

// maskPass masks one type of inert zone. Each pass receives the text
// (potentially already partially masked by earlier passes) and returns the
// text with its zone type masked.
type maskPass func(text string) string

// inertPasses is the ordered slice of mask functions. Order matters: fenced
// code blocks first, then inline code, then comments, then math -- each pass
// must not be fooled by delimiters that only appear inside an earlier zone.
var inertPasses []maskPass

func registerMaskPass(p maskPass) {
	inertPasses = append(inertPasses, p)
}

// maskInertContent applies all registered masking passes in order. The
// result has the same byte length and line count as the input, but content
// inside inert zones is replaced with spaces (newlines preserved), so every
// later byte offset still lines up with the original source.
func maskInertContent(text string) string {
	for _, pass := range inertPasses {
		text = pass(text)
	}
	return text
}

// maskRegion replaces all non-newline bytes in text[start:end] with spaces.
func maskRegion(text []byte, start, end int) {
	for i := start; i < end; i++ {
		if text[i] != '\n' {
			text[i] = ' '
		}
	}
}

var fencedCodePattern = regexp.MustCompile("(?m)^(```\\w*)\n")
var closingFencePattern = regexp.MustCompile("(?m)^```[ \t]*$")

// maskFencedCodeBlocks masks the content inside fenced code blocks. The
// fence delimiters themselves are not masked. An unclosed fence at EOF masks
// to end of file.
func maskFencedCodeBlocks(text string) string {
	buf := []byte(text)
	pos := 0

	for pos < len(buf) {
		loc := fencedCodePattern.FindIndex(buf[pos:])
		if loc == nil {
			break
		}

		openEnd := pos + loc[1]
		contentStart := openEnd

		closeLoc := closingFencePattern.FindIndex(buf[contentStart:])
		if closeLoc == nil {
			maskRegion(buf, contentStart, len(buf))
			break
		}

		contentEnd := contentStart + closeLoc[0]
		maskRegion(buf, contentStart, contentEnd)
		pos = contentStart + closeLoc[1]
	}

	return string(buf)
}

var doubleBacktickPattern = regexp.MustCompile("``([^`\\n]+)``")
var singleBacktickPattern = regexp.MustCompile("`([^`\\n]+)`")

// maskInlineCode masks the content inside inline code spans (`` `` `` and
// `` ` `` `` ``), preserving the delimiters. Runs after fenced code blocks so
// backticks already masked there don't trigger false matches.
func maskInlineCode(text string) string {
	buf := []byte(text)

	for _, loc := range doubleBacktickPattern.FindAllSubmatchIndex(buf, -1) {
		maskRegion(buf, loc[2], loc[3])
	}
	for _, loc := range singleBacktickPattern.FindAllSubmatchIndex(buf, -1) {
		maskRegion(buf, loc[2], loc[3])
	}

	return string(buf)
}

var obsidianCommentPattern = regexp.MustCompile(`(?s)%%(.+?)%%`)

func maskObsidianComments(text string) string {
	buf := []byte(text)
	for _, loc := range obsidianCommentPattern.FindAllSubmatchIndex(buf, -1) {
		maskRegion(buf, loc[2], loc[3])
	}
	return string(buf)
}

var htmlCommentPattern = regexp.MustCompile(`(?s)<!--(.*?)-->`)

func maskHTMLComments(text string) string {
	buf := []byte(text)
	for _, loc := range htmlCommentPattern.FindAllSubmatchIndex(buf, -1) {
		maskRegion(buf, loc[2], loc[3])
	}
	return string(buf)
}

var displayMathPattern = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)

func maskDisplayMath(text string) string {
	buf := []byte(text)
	for _, loc := range displayMathPattern.FindAllSubmatchIndex(buf, -1) {
		maskRegion(buf, loc[2], loc[3])
	}
	return string(buf)
}

// inlineMathPattern requires a non-space character adjacent to each $
// delimiter so dollar amounts like $50 and spaced text like "$ nope $" are
// not mistaken for math. Does not cross newlines.
var inlineMathPattern = regexp.MustCompile(`\$([^\s$][^$\n]*?[^\s$])\$`)

func maskInlineMath(text string) string {
	buf := []byte(text)
	for _, loc := range inlineMathPattern.FindAllSubmatchIndex(buf, -1) {
		maskRegion(buf, loc[2], loc[3])
	}
	return string(buf)
}

func init() {
	registerMaskPass(maskFencedCodeBlocks)
	registerMaskPass(maskInlineCode)
	registerMaskPass(maskObsidianComments)
	registerMaskPass(maskHTMLComments)
	registerMaskPass(maskDisplayMath)
	registerMaskPass(maskInlineMath)
}
