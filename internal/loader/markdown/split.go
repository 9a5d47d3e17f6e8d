package markdown

import "strings"

const (
	separatorPrefix = "<|RELATED_DOC_SEP-"
	separatorSuffix = "|>"
)

// DetectSeparator returns the first separator token found in content,
// or an empty string. The token is returned verbatim.
func DetectSeparator(content string) string {
	start := strings.Index(content, separatorPrefix)
	if start < 0 {
		return ""
	}
	rest := content[start+len(separatorPrefix):]
	end := strings.Index(rest, separatorSuffix)
	if end < 0 {
		return ""
	}
	token := content[start : start+len(separatorPrefix)+end+len(separatorSuffix)]
	if strings.ContainsAny(token, "\r\n") {
		return ""
	}
	return token
}

// Split cuts content on every occurrence of the literal separator.
// N occurrences yield N+1 segments and strings.Join(segments, sep)
// reproduces content exactly.
func Split(content, sep string) []string {
	if sep == "" {
		return []string{content}
	}
	return strings.Split(content, sep)
}
