package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSeparator(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "none", content: "# Title\nbody", want: ""},
		{name: "token", content: "a\n" + testSep + "\nb", want: testSep},
		{name: "first wins", content: "a<|RELATED_DOC_SEP-magic-1|>b<|RELATED_DOC_SEP-magic-2|>", want: "<|RELATED_DOC_SEP-magic-1|>"},
		{name: "unterminated", content: "a <|RELATED_DOC_SEP-magic-1 b", want: ""},
		{name: "spans lines", content: "<|RELATED_DOC_SEP-\nmagic|>", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSeparator(tt.content))
		})
	}
}

func TestSplit(t *testing.T) {
	t.Run("N separators give N+1 segments", func(t *testing.T) {
		for n := 0; n < 5; n++ {
			content := strings.Repeat("doc"+testSep, n) + "last"

			segments := Split(content, testSep)

			assert.Len(t, segments, n+1)
			assert.Equal(t, content, strings.Join(segments, testSep))
		}
	})

	t.Run("empty separator keeps content whole", func(t *testing.T) {
		assert.Equal(t, []string{"abc"}, Split("abc", ""))
	})

	t.Run("hash suffix is not interpreted", func(t *testing.T) {
		other := "<|RELATED_DOC_SEP-magic-ffff|>"
		segments := Split("a"+other+"b", testSep)

		assert.Equal(t, []string{"a" + other + "b"}, segments)
	})
}
