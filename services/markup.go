package services

import (
	"regexp"
	"strings"
)

// MarkupConverter はJIRA記法の本文をMarkdownに変換します
type MarkupConverter interface {
	ToMarkdown(text string) string
}

// JiraMarkdownConverter はJIRAのWiki記法をMarkdownに変換する既定の実装です
type JiraMarkdownConverter struct{}

var (
	// {code}, {code:java}, {code:title=Foo.java} と {noformat}
	codeBlockPattern  = regexp.MustCompile(`(?s)\{code(?::([A-Za-z0-9_+#-]+)(?:\|[^}]*)?|:[^}]*)?\}(.*?)\{code\}|\{noformat\}(.*?)\{noformat\}`)
	quoteBlockPattern = regexp.MustCompile(`(?s)\{quote\}(.*?)\{quote\}`)

	headingPattern = regexp.MustCompile(`^\s*h([1-6])\.\s*(.*)$`)
	bqPattern      = regexp.MustCompile(`^bq\.\s+(.*)$`)
	listPattern    = regexp.MustCompile(`^\s*([*#-]+)\s+(.*)$`)

	// 変換対象外にするトークン: {{等幅}}, [テキスト|URL], [URL]
	protectedPattern = regexp.MustCompile(`\{\{(.+?)\}\}|\[([^|\]\n]+)\|([^\]\n]+)\]|\[((?:https?|mailto|ftp):[^\]\s]*)\]`)

	// 中身に記号自体を含めないため、変換後の **x** や ~~x~~ には再びマッチしない
	boldPattern   = regexp.MustCompile(`(^|[^\w*])\*([^*\s](?:[^*\n]*[^*\s])?)\*([^\w*]|$)`)
	italicPattern = regexp.MustCompile(`(^|[^\w_])_([^_\s](?:[^_\n]*[^_\s])?)_([^\w_]|$)`)
	strikePattern = regexp.MustCompile(`(^|\s)-([^-\s](?:[^-\n]*[^-\s])?)-(\s|$)`)
	imagePattern  = regexp.MustCompile(`!([^!\s|]+)(?:\|[^!\n]*)?!`)
	colorPattern  = regexp.MustCompile(`\{color(?::[^}]*)?\}`)
)

// ToMarkdown はJIRA記法の文字列をMarkdownに変換します。コードブロック内は変換しません
func (JiraMarkdownConverter) ToMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	last := 0
	for _, m := range codeBlockPattern.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(convertText(text[last:m[0]]))

		lang, body := "", ""
		if m[2] >= 0 {
			lang = text[m[2]:m[3]]
		}
		if m[4] >= 0 {
			body = text[m[4]:m[5]]
		} else if m[6] >= 0 {
			body = text[m[6]:m[7]]
		}
		b.WriteString("```" + lang + "\n" + strings.Trim(body, "\n") + "\n```")
		last = m[1]
	}
	b.WriteString(convertText(text[last:]))

	return b.String()
}

// convertText はコードブロック以外の部分を行単位で変換します
func convertText(text string) string {
	text = quoteBlockPattern.ReplaceAllStringFunc(text, func(block string) string {
		inner := strings.Trim(quoteBlockPattern.FindStringSubmatch(block)[1], "\n")
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")
	})

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = convertLine(line)
	}
	return strings.Join(lines, "\n")
}

func convertLine(line string) string {
	if m := headingPattern.FindStringSubmatch(line); m != nil {
		level := int(m[1][0] - '0')
		return strings.Repeat("#", level) + " " + convertInline(m[2])
	}
	if m := bqPattern.FindStringSubmatch(line); m != nil {
		return "> " + convertInline(m[1])
	}
	if m := listPattern.FindStringSubmatch(line); m != nil {
		markers := m[1]
		indent := strings.Repeat("  ", len(markers)-1)
		bullet := "* "
		if markers[len(markers)-1] == '#' {
			bullet = "1. "
		}
		return indent + bullet + convertInline(m[2])
	}
	return convertInline(line)
}

// convertInline は等幅やリンクを保護しつつ行内の装飾を変換します
func convertInline(line string) string {
	var b strings.Builder
	last := 0
	for _, m := range protectedPattern.FindAllStringSubmatchIndex(line, -1) {
		b.WriteString(convertDecorations(line[last:m[0]]))

		switch {
		case m[2] >= 0:
			b.WriteString("`" + line[m[2]:m[3]] + "`")
		case m[4] >= 0:
			b.WriteString("[" + line[m[4]:m[5]] + "](" + strings.TrimSpace(line[m[6]:m[7]]) + ")")
		default:
			b.WriteString("<" + line[m[8]:m[9]] + ">")
		}
		last = m[1]
	}
	b.WriteString(convertDecorations(line[last:]))

	return b.String()
}

// convertDecorations は太字 → 斜体の順に変換します (逆順だと斜体の出力が太字として再変換されるため)
func convertDecorations(s string) string {
	s = colorPattern.ReplaceAllString(s, "")
	s = imagePattern.ReplaceAllString(s, "![]($1)")
	s = replaceRepeatedly(boldPattern, s, "${1}**${2}**${3}")
	s = replaceRepeatedly(italicPattern, s, "${1}*${2}*${3}")
	s = replaceRepeatedly(strikePattern, s, "${1}~~${2}~~${3}")
	return s
}

// replaceRepeatedly は変化がなくなるまで置換を繰り返します。
// 前後の区切り文字もマッチに含むため、"*a* *b*" のように隣接した装飾は1回の置換では片方しか変換されません
func replaceRepeatedly(re *regexp.Regexp, s, repl string) string {
	for {
		next := re.ReplaceAllString(s, repl)
		if next == s {
			return s
		}
		s = next
	}
}
