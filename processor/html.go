package processor

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/polyglot"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TranslatableTags lists the elements whose text is extracted, in the order
// they are visited. Identifiers are "<tag>_<n>" where n counts every element
// of that tag in document order.
var TranslatableTags = []string{
	"title",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "a", "span", "div", "td", "th", "li", "label", "button",
}

// NoTranslateAttr marks an element whose text and attributes are left alone.
const NoTranslateAttr = "data-no-translate"

// HTMLProcessor handles HTML documents and fragments.
type HTMLProcessor struct {
	logger zerolog.Logger
}

// NewHTMLProcessor creates an HTML processor.
func NewHTMLProcessor(opts ...Option) *HTMLProcessor {
	o := buildOptions(opts)
	return &HTMLProcessor{logger: o.logger}
}

// Format returns polyglot.FormatHTML.
func (p *HTMLProcessor) Format() polyglot.Format {
	return polyglot.FormatHTML
}

// CanProcess reports whether path is a .html or .htm file.
func (p *HTMLProcessor) CanProcess(path string) bool {
	return hasFormat(path, polyglot.FormatHTML)
}

// parsedHTML is a document tree built straight from the tokenizer. Every
// text node and element start tag remembers its byte span in the source, so
// Rebuild can splice translations into the original bytes.
type parsedHTML struct {
	doc   *goquery.Document
	src   string
	spans map[*html.Node]span
}

type span struct {
	start, end int
}

// htmlSlot is one translatable location in a parsed document.
type htmlSlot struct {
	id   string
	text string
	at   span
	// encode turns a translation into the bytes that replace at.
	encode func(translated string) string
}

// Extract returns element text, img alt and title attribute units.
func (p *HTMLProcessor) Extract(content string) ([]polyglot.TranslatableUnit, error) {
	parsed, err := parseHTML(content)
	if err != nil {
		return nil, err
	}

	slots := parsed.collectSlots()
	units := make([]polyglot.TranslatableUnit, len(slots))
	for i, s := range slots {
		units[i] = polyglot.TranslatableUnit{ID: s.id, Text: s.text}
	}
	return units, nil
}

// Rebuild walks content in the same order as Extract and splices each
// translated slot into the original bytes. Everything outside the slots,
// including markup the HTML5 parser would normalize, is returned as written.
// Surrounding whitespace of text nodes and attribute values is kept.
func (p *HTMLProcessor) Rebuild(content string, translations map[string]string) (string, error) {
	if len(translations) == 0 {
		return content, nil
	}

	parsed, err := parseHTML(content)
	if err != nil {
		return "", err
	}

	var edits []htmlSlot
	var replacements []string
	for _, s := range parsed.collectSlots() {
		if translated, ok := translations[s.id]; ok {
			edits = append(edits, s)
			replacements = append(replacements, s.encode(translated))
		}
	}
	if len(edits) < len(translations) {
		p.logger.Warn().
			Int("translations", len(translations)).
			Int("applied", len(edits)).
			Msg("some html translations did not match any element")
	}

	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return edits[order[a]].at.start < edits[order[b]].at.start
	})

	var sb strings.Builder
	sb.Grow(len(content))
	pos := 0
	for _, i := range order {
		sb.WriteString(content[pos:edits[i].at.start])
		sb.WriteString(replacements[i])
		pos = edits[i].at.end
	}
	sb.WriteString(content[pos:])
	return sb.String(), nil
}

// impliedEnd lists elements whose open sibling is closed by a new start tag
// of the same name, as in "<li>one<li>two".
var impliedEnd = map[atom.Atom]bool{
	atom.P: true, atom.Li: true, atom.Td: true, atom.Th: true, atom.Tr: true,
	atom.Dt: true, atom.Dd: true, atom.Option: true,
}

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// parseHTML builds the tree without the HTML5 parser's error recovery: no
// elements are inserted, moved or dropped, and stray end tags are ignored.
// Fragments and full documents go through the same path.
func parseHTML(content string) (*parsedHTML, error) {
	root := &html.Node{Type: html.DocumentNode}
	parsed := &parsedHTML{src: content, spans: make(map[*html.Node]span)}
	stack := []*html.Node{root}
	offset := 0

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, &polyglot.ProcessorError{
					Message: "failed to parse HTML",
					Cause:   err,
					Format:  polyglot.FormatHTML,
				}
			}
			break
		}

		at := span{start: offset, end: offset + len(z.Raw())}
		offset = at.end
		tok := z.Token()
		top := stack[len(stack)-1]

		switch tt {
		case html.TextToken:
			n := &html.Node{Type: html.TextNode, Data: tok.Data}
			top.AppendChild(n)
			parsed.spans[n] = at
		case html.CommentToken:
			top.AppendChild(&html.Node{Type: html.CommentNode, Data: tok.Data})
		case html.DoctypeToken:
			top.AppendChild(&html.Node{Type: html.DoctypeNode, Data: tok.Data})
		case html.StartTagToken, html.SelfClosingTagToken:
			if impliedEnd[tok.DataAtom] && top.Type == html.ElementNode && top.Data == tok.Data {
				stack = stack[:len(stack)-1]
				top = stack[len(stack)-1]
			}
			n := &html.Node{Type: html.ElementNode, Data: tok.Data, DataAtom: tok.DataAtom, Attr: tok.Attr}
			top.AppendChild(n)
			parsed.spans[n] = at
			if tt == html.StartTagToken && !voidElements[tok.DataAtom] {
				stack = append(stack, n)
			}
		case html.EndTagToken:
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Data == tok.Data {
					stack = stack[:i]
					break
				}
			}
		}
	}

	parsed.doc = goquery.NewDocumentFromNode(root)
	return parsed, nil
}

// collectSlots is the single traversal shared by Extract and Rebuild.
func (h *parsedHTML) collectSlots() []htmlSlot {
	var slots []htmlSlot

	for _, tag := range TranslatableTags {
		h.doc.Find(tag).Each(func(i int, s *goquery.Selection) {
			if optedOut(s) {
				return
			}
			textNode := soleTextChild(s.Get(0))
			if textNode == nil {
				return
			}
			text := strings.TrimSpace(textNode.Data)
			if !translatableText(text) {
				return
			}
			original := textNode.Data
			slots = append(slots, htmlSlot{
				id:   fmt.Sprintf("%s_%d", tag, i),
				text: text,
				at:   h.spans[textNode],
				encode: func(translated string) string {
					return textEscaper.Replace(preserveWhitespace(original, translated))
				},
			})
		})
	}

	h.doc.Find("img[alt]").Each(func(i int, s *goquery.Selection) {
		if slot, ok := h.attrSlot(s, "alt", fmt.Sprintf("img_alt_%d", i)); ok {
			slots = append(slots, slot)
		}
	})
	h.doc.Find("[title]").Each(func(i int, s *goquery.Selection) {
		if slot, ok := h.attrSlot(s, "title", fmt.Sprintf("title_attr_%d", i)); ok {
			slots = append(slots, slot)
		}
	})

	return slots
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (h *parsedHTML) attrSlot(s *goquery.Selection, attr, id string) (htmlSlot, bool) {
	if optedOut(s) {
		return htmlSlot{}, false
	}
	original, _ := s.Attr(attr)
	text := strings.TrimSpace(original)
	if utf8.RuneCountInString(text) < 2 {
		return htmlSlot{}, false
	}

	tag := h.spans[s.Get(0)]
	value, quoted, ok := attrValueSpan(h.src[tag.start:tag.end], attr)
	if !ok {
		return htmlSlot{}, false
	}
	return htmlSlot{
		id:   id,
		text: text,
		at:   span{start: tag.start + value.start, end: tag.start + value.end},
		encode: func(translated string) string {
			escaped := html.EscapeString(preserveWhitespace(original, translated))
			if quoted {
				return escaped
			}
			return `"` + escaped + `"`
		},
	}, true
}

// attrValueSpan finds the value of the first attribute called name in a raw
// start tag. The span excludes quotes; quoted reports whether there were any.
func attrValueSpan(tag, name string) (value span, quoted, ok bool) {
	i := 1
	for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' {
		i++
	}

	for i < len(tag) {
		for i < len(tag) && (isTagSpace(tag[i]) || tag[i] == '/') {
			i++
		}
		if i >= len(tag) || tag[i] == '>' {
			return span{}, false, false
		}

		nameStart := i
		i++
		for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' && tag[i] != '=' {
			i++
		}
		attrName := tag[nameStart:i]

		for i < len(tag) && isTagSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] != '=' {
			continue
		}
		i++
		for i < len(tag) && isTagSpace(tag[i]) {
			i++
		}

		if i < len(tag) && (tag[i] == '"' || tag[i] == '\'') {
			quote := tag[i]
			i++
			value = span{start: i}
			for i < len(tag) && tag[i] != quote {
				i++
			}
			value.end = i
			quoted = true
			if i < len(tag) {
				i++
			}
		} else {
			value = span{start: i}
			for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '>' {
				i++
			}
			value.end = i
			quoted = false
		}

		if strings.EqualFold(attrName, name) {
			return value, quoted, true
		}
	}
	return span{}, false, false
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// optedOut reports whether the element or an ancestor carries NoTranslateAttr.
func optedOut(s *goquery.Selection) bool {
	if _, ok := s.Attr(NoTranslateAttr); ok {
		return true
	}
	return s.ParentsFiltered("[" + NoTranslateAttr + "]").Length() > 0
}

// soleTextChild returns the only child of n when it is a text node.
func soleTextChild(n *html.Node) *html.Node {
	c := n.FirstChild
	if c == nil || c.NextSibling != nil || c.Type != html.TextNode {
		return nil
	}
	return c
}

// translatableText rejects empty, single-character and all-digit text.
func translatableText(text string) bool {
	if utf8.RuneCountInString(text) < 2 {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 && trailingLen < len(original) {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + strings.TrimSpace(translated) + trailing
}

var _ FormatProcessor = (*HTMLProcessor)(nil)
