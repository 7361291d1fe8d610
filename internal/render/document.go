// Package render turns source lines into laid-out blocks for the terminal
// preview.
//
// Markdown files are split into headings, paragraphs, fenced code and
// comments, each tagged with the source lines it came from. Any other file
// is shown as a single preformatted block.
package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/previewsync/internal/preview/offset"
)

// Kind is the type of a rendered block.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindCode
	KindComment
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindCode:
		return "code"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Block is a rendered element and the source lines it covers.
type Block struct {
	offset.Block

	Kind Kind
	// Level is the heading level, 1 to 6.
	Level int
	// Lang is the code language, from the fence info string or file name.
	Lang string
	// Text holds the displayed lines: heading text without markers, code
	// without fences.
	Text []string
}

var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mkd":      true,
	".mdx":      true,
}

// IsMarkdown reports whether path is rendered as markdown.
func IsMarkdown(path string) bool {
	return markdownExts[strings.ToLower(filepath.Ext(path))]
}

// Document splits lines into blocks. Non-markdown paths yield one
// preformatted block covering the whole file.
func Document(path string, lines []string) []Block {
	if len(lines) == 0 {
		return nil
	}
	if !IsMarkdown(path) {
		return []Block{{
			Block: offset.Block{ID: "b0", StartLine: 0, EndLine: len(lines) - 1, Preformatted: true},
			Kind:  KindCode,
			Lang:  filepath.Base(path),
			Text:  lines,
		}}
	}

	p := &parser{lines: lines}
	p.run()
	return p.blocks
}

type parser struct {
	lines  []string
	blocks []Block
}

func (p *parser) add(b Block) {
	b.ID = fmt.Sprintf("b%d", len(p.blocks))
	p.blocks = append(p.blocks, b)
}

func (p *parser) run() {
	i := 0
	for i < len(p.lines) {
		line := p.lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++
		case fenceOpen(line) != "":
			i = p.code(i)
		case strings.HasPrefix(trimmed, "<!--"):
			i = p.comment(i)
		case headingLevel(line) > 0:
			p.heading(i)
			i++
		default:
			i = p.paragraph(i)
		}
	}
}

// code consumes a fenced block starting at i and returns the next line.
func (p *parser) code(i int) int {
	fence := fenceOpen(p.lines[i])
	info := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(p.lines[i]), fence[:1]))
	lang, _, _ := strings.Cut(info, " ")

	end := len(p.lines) - 1
	for j := i + 1; j < len(p.lines); j++ {
		if fenceClose(p.lines[j], fence) {
			end = j
			break
		}
	}

	textEnd := end
	if end > i && fenceClose(p.lines[end], fence) {
		textEnd = end - 1
	}
	var text []string
	if textEnd >= i+1 {
		text = p.lines[i+1 : textEnd+1]
	}

	p.add(Block{
		Block: offset.Block{StartLine: i, EndLine: end, Preformatted: true},
		Kind:  KindCode,
		Lang:  lang,
		Text:  text,
	})
	return end + 1
}

func (p *parser) comment(i int) int {
	end := len(p.lines) - 1
	for j := i; j < len(p.lines); j++ {
		if strings.Contains(p.lines[j], "-->") {
			end = j
			break
		}
	}
	p.add(Block{
		Block: offset.Block{StartLine: i, EndLine: end},
		Kind:  KindComment,
		Text:  p.lines[i : end+1],
	})
	return end + 1
}

func (p *parser) heading(i int) {
	level := headingLevel(p.lines[i])
	text := strings.TrimSpace(strings.TrimSpace(p.lines[i])[level:])
	text = strings.TrimSpace(strings.TrimRight(text, "#"))
	p.add(Block{
		Block: offset.Block{StartLine: i, EndLine: i},
		Kind:  KindHeading,
		Level: level,
		Text:  []string{text},
	})
}

func (p *parser) paragraph(i int) int {
	j := i
	for j < len(p.lines) {
		line := p.lines[j]
		if strings.TrimSpace(line) == "" || (j > i && (fenceOpen(line) != "" || headingLevel(line) > 0)) {
			break
		}
		j++
	}
	p.add(Block{
		Block: offset.Block{StartLine: i, EndLine: j - 1},
		Kind:  KindParagraph,
		Text:  p.lines[i:j],
	})
	return j
}

// fenceOpen returns the fence marker (``` or ~~~, possibly longer) that
// opens a code block on line, or "".
func fenceOpen(line string) string {
	s := strings.TrimLeft(line, " ")
	if len(line)-len(s) > 3 {
		return ""
	}
	for _, c := range []byte{'`', '~'} {
		n := 0
		for n < len(s) && s[n] == c {
			n++
		}
		if n >= 3 {
			if c == '`' && strings.ContainsRune(s[n:], '`') {
				return ""
			}
			return s[:n]
		}
	}
	return ""
}

func fenceClose(line, fence string) bool {
	s := strings.TrimSpace(line)
	if len(s) < len(fence) || s[0] != fence[0] {
		return false
	}
	return strings.Trim(s, fence[:1]) == ""
}

// headingLevel returns the ATX heading level of line, or 0.
func headingLevel(line string) int {
	s := strings.TrimLeft(line, " ")
	if len(line)-len(s) > 3 {
		return 0
	}
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	if n < len(s) && s[n] != ' ' && s[n] != '\t' {
		return 0
	}
	return n
}

// OffsetBlocks returns the line ranges of blocks for the offset index.
func OffsetBlocks(blocks []Block) []offset.Block {
	out := make([]offset.Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Block
	}
	return out
}
