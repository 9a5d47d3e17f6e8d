package markdown

import (
	"path"
	"regexp"
	"strings"
)

var (
	codeBlock     = regexp.MustCompile("(?s)```.*?```")
	inlineCode    = regexp.MustCompile("`[^`]+`")
	htmlComment   = regexp.MustCompile(`(?s)<!--.*?-->`)
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	blockquote    = regexp.MustCompile(`(?m)^>[ \t]*`)
	horizontal    = regexp.MustCompile(`(?m)^[-*_]{3,}[ \t]*$`)
	listMarkers   = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberedList  = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	tableRules    = regexp.MustCompile(`(?m)^[ \t]*\|?[ \t:|-]+\|[ \t:|-]*$`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// PlainText removes front-matter and common markdown formatting.
// The index tokenises this text and builds excerpts from it.
func PlainText(body string) string {
	lines := strings.Split(body, "\n")
	if _, end, ok := frontMatterBounds(lines); ok {
		body = strings.Join(lines[end+1:], "\n")
	}

	content := codeBlock.ReplaceAllString(body, "")
	content = htmlComment.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllStringFunc(content, func(s string) string {
		return strings.Trim(s, "`")
	})
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = blockquote.ReplaceAllString(content, "")
	content = horizontal.ReplaceAllString(content, "")
	content = tableRules.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "|", " ")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// firstHeading returns the text of the first heading line outside the
// front-matter, skipping the metadata section heading.
func firstHeading(segment string) string {
	lines := strings.Split(segment, "\n")
	from := 0
	if _, end, ok := frontMatterBounds(lines); ok {
		from = end + 1
	}
	inFence := false
	for _, line := range lines[from:] {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence || metadataHeading.MatchString(line) {
			continue
		}
		if m := anyHeading.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(strings.ReplaceAll(m[1], "**", ""))
		}
	}
	return ""
}

// titleFromPath turns a file name into a readable title.
func titleFromPath(sourcePath string) string {
	name := path.Base(sourcePath)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
