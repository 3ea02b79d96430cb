package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencedCode  = regexp.MustCompile("(?s)```([\\w+-]*)[ \\t]*\\n(.*?)```")
	inlineCode  = regexp.MustCompile("`([^`\\n]+)`")
	heading     = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*$`)
	blankLines  = regexp.MustCompile(`\n{2,}`)
	nonParaHead = regexp.MustCompile(`^(?:<|\x00\d+\x00$|[-*+][ \t]|\d+\.[ \t]|>|(?:---|\*\*\*)[ \t]*$)`)
	bold        = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	italic      = regexp.MustCompile(`\*([^\s*][^*\n]*?)\*`)
	link        = regexp.MustCompile(`!?\[([^\]]*)\]\(([^)\s]+)\)`)
	image       = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	rule        = regexp.MustCompile(`(?m)^(?:---|\*\*\*)[ \t]*$`)
	bulletList  = regexp.MustCompile(`(?m)(?:^[-*+][ \t]+.*(?:\n|$))+`)
	bulletItem  = regexp.MustCompile(`^[-*+][ \t]+`)
	orderedList = regexp.MustCompile(`(?m)(?:^\d+\.[ \t]+.*(?:\n|$))+`)
	orderedItem = regexp.MustCompile(`^\d+\.[ \t]+`)
	quote       = regexp.MustCompile(`(?m)(?:^>[ \t]?.*(?:\n|$))+`)
	quotePrefix = regexp.MustCompile(`^>[ \t]?`)
	placeholder = regexp.MustCompile(`\x00(\d+)\x00`)
)

// RegexRenderer converts a small markdown subset with a fixed chain of
// substitutions: code blocks, inline code, headings, paragraphs, bold,
// italic, links, images, rules, lists, blockquotes and finally line breaks.
// There is no parser behind it, so nested or malformed input renders as
// whatever the chain produces. Code spans are the only escaped content.
type RegexRenderer struct{}

func NewRegexRenderer() *RegexRenderer {
	return &RegexRenderer{}
}

func (r *RegexRenderer) Render(src string) string {
	// NUL delimits code placeholders, so it never survives from the input.
	s := strings.ReplaceAll(src, "\x00", "")
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if s == "" {
		return ""
	}

	// Code is swapped out for placeholders so later steps leave it alone.
	var stash []string
	hold := func(fragment string) string {
		stash = append(stash, fragment)
		return fmt.Sprintf("\x00%d\x00", len(stash)-1)
	}

	s = fencedCode.ReplaceAllStringFunc(s, func(m string) string {
		parts := fencedCode.FindStringSubmatch(m)
		body := html.EscapeString(strings.TrimRight(parts[2], "\n"))
		if parts[1] == "" {
			return hold("<pre><code>" + body + "</code></pre>")
		}
		return hold(`<pre><code class="language-` + parts[1] + `">` + body + "</code></pre>")
	})

	s = inlineCode.ReplaceAllStringFunc(s, func(m string) string {
		parts := inlineCode.FindStringSubmatch(m)
		return hold("<code>" + html.EscapeString(parts[1]) + "</code>")
	})

	s = heading.ReplaceAllStringFunc(s, func(m string) string {
		parts := heading.FindStringSubmatch(m)
		level := len(parts[1])
		return fmt.Sprintf("<h%d>%s</h%d>", level, parts[2], level)
	})

	s = paragraphs(separateBlocks(s))

	s = bold.ReplaceAllString(s, "<strong>$1</strong>")
	s = italic.ReplaceAllString(s, "<em>$1</em>")

	s = link.ReplaceAllStringFunc(s, func(m string) string {
		if strings.HasPrefix(m, "!") {
			return m
		}
		parts := link.FindStringSubmatch(m)
		return `<a href="` + parts[2] + `">` + parts[1] + "</a>"
	})
	s = image.ReplaceAllString(s, `<img src="$2" alt="$1">`)

	s = rule.ReplaceAllString(s, "<hr>")

	s = bulletList.ReplaceAllStringFunc(s, func(m string) string {
		return wrapList(m, "ul", bulletItem)
	})
	s = orderedList.ReplaceAllStringFunc(s, func(m string) string {
		return wrapList(m, "ol", orderedItem)
	})

	s = quote.ReplaceAllStringFunc(s, func(m string) string {
		lines := splitLines(m)
		for i, line := range lines {
			lines[i] = quotePrefix.ReplaceAllString(line, "")
		}
		return "<blockquote>" + strings.Join(lines, " ") + "</blockquote>" + trailingNewline(m)
	})

	s = lineBreaks(s)

	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		i, err := strconv.Atoi(placeholder.FindStringSubmatch(m)[1])
		if err != nil || i < 0 || i >= len(stash) {
			return ""
		}
		return stash[i]
	})
}

// separateBlocks puts a blank line wherever a list or quote run meets other
// text, so each run becomes its own block.
func separateBlocks(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 && line != "" && lines[i-1] != "" && lineKind(lines[i-1]) != lineKind(line) {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

type blockKind int

const (
	kindText blockKind = iota
	kindBullet
	kindOrdered
	kindQuote
)

func lineKind(line string) blockKind {
	switch {
	case bulletItem.MatchString(line):
		return kindBullet
	case orderedItem.MatchString(line):
		return kindOrdered
	case quotePrefix.MatchString(line):
		return kindQuote
	}
	return kindText
}

// paragraphs wraps every blank-line separated block that doesn't already
// start a block element.
func paragraphs(s string) string {
	blocks := blankLines.Split(s, -1)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if nonParaHead.MatchString(block) {
			out = append(out, block)
			continue
		}
		out = append(out, "<p>"+block+"</p>")
	}
	return strings.Join(out, "\n")
}

func wrapList(m, tag string, marker *regexp.Regexp) string {
	var b strings.Builder
	b.WriteString("<" + tag + ">")
	for _, line := range splitLines(m) {
		b.WriteString("<li>" + marker.ReplaceAllString(line, "") + "</li>")
	}
	b.WriteString("</" + tag + ">")
	return b.String() + trailingNewline(m)
}

// lineBreaks turns single newlines between two runs of text into <br>.
// Newlines next to a tag boundary are left alone.
func lineBreaks(s string) string {
	lines := strings.Split(s, "\n")
	for i := 0; i < len(lines)-1; i++ {
		cur, next := lines[i], lines[i+1]
		if cur == "" || next == "" {
			continue
		}
		if strings.HasSuffix(cur, ">") || strings.HasPrefix(next, "<") {
			continue
		}
		lines[i] = cur + "<br>"
	}
	return strings.Join(lines, "\n")
}

func splitLines(m string) []string {
	return strings.Split(strings.TrimRight(m, "\n"), "\n")
}

func trailingNewline(m string) string {
	if strings.HasSuffix(m, "\n") {
		return "\n"
	}
	return ""
}
