package markdown

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// metaStyle records where a segment's metadata came from.
type metaStyle int

const (
	styleNone metaStyle = iota
	styleFrontMatter
	styleSection
)

// String returns the style name stored in document metadata.
func (s metaStyle) String() string {
	switch s {
	case styleFrontMatter:
		return "front-matter"
	case styleSection:
		return "section"
	default:
		return "none"
	}
}

// metadata is the raw metadata of one segment.
type metadata struct {
	style  metaStyle
	fields map[string]string
	tags   []string
}

var (
	metadataHeading = regexp.MustCompile(`(?i)^#{2,3}\s+metadata\s*:?\s*$`)
	anyHeading      = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*\s*$`)
	bulletLine      = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	tableRow        = regexp.MustCompile(`^\s*\|(.+)\|\s*$`)
	tableRule       = regexp.MustCompile(`^[\s:|-]+$`)
	plainKey        = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)
)

// keyAliases maps the spellings seen in the corpus to canonical keys.
var keyAliases = map[string]string{
	"id":             "id",
	"doc_id":         "id",
	"document_id":    "id",
	"methodology_id": "id",
	"name":           "title",
	"title":          "title",
	"domain":         "domain",
	"skill":          "skill",
	"agent":          "skill",
	"category":       "category",
	"tags":           "tags",
	"tag":            "tags",
	"keywords":       "tags",
}

// parseMetadata tries front-matter first and falls back to a
// "## Metadata" section. The returned error describes broken
// front-matter; the section fallback still runs in that case.
func parseMetadata(segment string) (metadata, error) {
	meta, found, err := parseFrontMatter(segment)
	if found && err == nil {
		return meta, nil
	}
	section := parseSection(segment)
	if err != nil {
		return section, err
	}
	return section, nil
}

// frontMatterBounds returns the line range of the YAML block, excluding
// the delimiters. ok is false when the segment has no front-matter.
func frontMatterBounds(lines []string) (start, end int, ok bool) {
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || strings.TrimSpace(lines[i]) != "---" {
		return 0, 0, false
	}
	for j := i + 1; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j])
		if t == "---" || t == "..." {
			return i + 1, j, true
		}
	}
	return 0, 0, false
}

func parseFrontMatter(segment string) (metadata, bool, error) {
	lines := strings.Split(segment, "\n")
	start, end, ok := frontMatterBounds(lines)
	if !ok {
		return metadata{}, false, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[start:end], "\n")), &raw); err != nil {
		return metadata{}, true, fmt.Errorf("front-matter: %w", err)
	}

	meta := metadata{style: styleFrontMatter, fields: make(map[string]string, len(raw))}
	for key, value := range raw {
		k := normaliseKey(key)
		if canonicalKey(k) == "tags" {
			meta.tags = append(meta.tags, tagsFromValue(value)...)
		}
		meta.fields[k] = stringify(value)
	}
	meta.tags = cleanTags(meta.tags)
	return meta, true, nil
}

func parseSection(segment string) metadata {
	meta := metadata{fields: make(map[string]string)}
	lines := strings.Split(segment, "\n")

	in := false
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if metadataHeading.MatchString(trimmed) {
			in = true
			meta.style = styleSection
			continue
		}
		if !in {
			continue
		}
		if anyHeading.MatchString(trimmed) {
			break
		}

		key, value, ok := sectionPair(line)
		if !ok {
			continue
		}
		if canonicalKey(key) == "tags" {
			meta.tags = append(meta.tags, splitTags(value)...)
		}
		meta.fields[key] = value
	}

	meta.tags = cleanTags(meta.tags)
	return meta
}

// sectionPair extracts a key/value from a bullet, table row or bold line.
func sectionPair(line string) (string, string, bool) {
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "__", "")

	if m := tableRow.FindStringSubmatch(line); m != nil {
		if tableRule.MatchString(m[1]) {
			return "", "", false
		}
		cells := strings.Split(m[1], "|")
		if len(cells) < 2 {
			return "", "", false
		}
		key := normaliseKey(cells[0])
		value := cleanValue(strings.Join(cells[1:], "|"))
		if key == "" || key == "field" || key == "key" || key == "property" {
			return "", "", false
		}
		return key, value, true
	}

	if m := bulletLine.FindStringSubmatch(line); m != nil {
		line = m[1]
	}
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key := normaliseKey(line[:idx])
	if !plainKey.MatchString(key) {
		return "", "", false
	}
	return key, cleanValue(line[idx+1:]), true
}

func normaliseKey(k string) string {
	k = strings.Trim(strings.TrimSpace(k), "`*_ ")
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, "-", "_")
	return strings.ReplaceAll(k, " ", "_")
}

func canonicalKey(k string) string {
	if c, ok := keyAliases[k]; ok {
		return c
	}
	return k
}

func cleanValue(v string) string {
	return strings.Trim(strings.TrimSpace(v), "`")
}

// lookup returns the first non-empty field whose key maps to canonical.
// Keys are visited in sorted order so the choice is deterministic.
func (m metadata) lookup(canonical string) string {
	keys := make([]string, 0, len(m.fields))
	for k := range m.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if v := strings.TrimSpace(m.fields[canonical]); v != "" {
		return v
	}
	for _, k := range keys {
		if canonicalKey(k) == canonical {
			if v := strings.TrimSpace(m.fields[k]); v != "" {
				return v
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func tagsFromValue(v any) []string {
	switch t := v.(type) {
	case []any:
		var tags []string
		for _, item := range t {
			tags = append(tags, splitTags(stringify(item))...)
		}
		return tags
	default:
		return splitTags(stringify(v))
	}
}

func splitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}

// cleanTags lowercases, strips '#', drops empties and de-duplicates.
func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.Trim(strings.TrimSpace(t), "#`\"'[]"))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
