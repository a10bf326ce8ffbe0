package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJiraMarkdownConverter_ToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"headings", "h1. Title\nh3. Sub", "# Title\n### Sub"},
		{"bold and italic", "This is *bold* and _italic_ text", "This is **bold** and *italic* text"},
		{"strikethrough", "-gone- text", "~~gone~~ text"},
		{"adjacent bold", "*a* *b*", "**a** **b**"},
		{"adjacent italic", "_a_ _b_", "*a* *b*"},
		{"adjacent strikethrough", "-a- -b-", "~~a~~ ~~b~~"},
		{"bold then italic", "*a* _b_ *c*", "**a** *b* **c**"},
		{"monospace", "Use {{go test}} here", "Use `go test` here"},
		{"link", "See [docs|https://example.com/a_b_c] now", "See [docs](https://example.com/a_b_c) now"},
		{"bare link", "[https://example.com]", "<https://example.com>"},
		{"lists", "* one\n** two\n# first", "* one\n  * two\n1. first"},
		{"blockquote line", "bq. quoted", "> quoted"},
		{"quote block", "{quote}a\nb{quote}", "> a\n> b"},
		{"image", "!screen.png|thumbnail!", "![](screen.png)"},
		{"color", "{color:red}warn{color}", "warn"},
		{"crlf", "h2. A\r\nB", "## A\nB"},
		{"snake_case left alone", "use my_var_name", "use my_var_name"},
		{"hyphenated words left alone", "2024-01-02 and well-known", "2024-01-02 and well-known"},
		{
			"code block untouched",
			"before\n{code:go}\nx := *p*\n{code}\nafter",
			"before\n```go\nx := *p*\n```\nafter",
		},
		{"noformat", "{noformat}*raw*{noformat}", "```\n*raw*\n```"},
		{"code with title", "{code:title=Foo.java}\nint a;\n{code}", "```\nint a;\n```"},
	}

	conv := JiraMarkdownConverter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conv.ToMarkdown(tt.in))
		})
	}
}
