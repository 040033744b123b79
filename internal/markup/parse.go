package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tonnikala/internal/diag"
	"tonnikala/internal/source"
)

// parser builds the source tree from html.Tokenizer tokens. It does not
// apply the HTML5 tree construction rules: the tree follows the source,
// only void and self-closing elements are closed implicitly.
type parser struct {
	file  *source.File
	z     *html.Tokenizer
	stack []*Node
	doc   *Document
	// offset of the first byte not yet tokenized
	off uint32
}

// Parse builds the source tree for f. HTML leniency is enabled: void
// elements close themselves, HTML entities are known, attributes may be
// unquoted or valueless and a '<' that starts no tag is text. Tag and
// attribute names are lowercased and keep the prefix they were written
// with (py:if). Only script and style bodies are raw text.
func Parse(f *source.File) (*Document, error) {
	z := html.NewTokenizer(bytes.NewReader(f.Content))
	z.AllowCDATA(true)
	p := &parser{
		file: f,
		z:    z,
		doc:  &Document{File: f.ID, Path: f.Path},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *parser) run() error {
	for {
		tt := p.z.Next()
		if tt == html.ErrorToken {
			if err := p.z.Err(); !errors.Is(err, io.EOF) {
				return p.errorAt(diag.SynMalformedMarkup, source.Point(p.file.ID, p.off), err.Error())
			}
			return p.finish()
		}
		raw := p.z.Raw()
		n, err := safecast.Conv[uint32](len(raw))
		if err != nil {
			return fmt.Errorf("%s: token length overflow: %w", p.file.Path, err)
		}
		span := source.Span{File: p.file.ID, Start: p.off, End: p.off + n}
		p.off += n

		switch tt {
		case html.StartTagToken:
			tok := p.z.Token()
			el := p.element(tok, span)
			p.add(el)
			if isVoid(tok.DataAtom) {
				continue
			}
			if !isRawText(tok.DataAtom) {
				// title, textarea and the like hold markup in templates
				p.z.NextIsNotRawText()
			}
			p.stack = append(p.stack, el)
		case html.SelfClosingTagToken:
			p.add(p.element(p.z.Token(), span))
			p.z.NextIsNotRawText()
		case html.EndTagToken:
			if err := p.closeElement(p.z.Token(), span); err != nil {
				return err
			}
		case html.TextToken:
			text := string(p.z.Text())
			if body, ok := strings.CutPrefix(string(raw), "<![CDATA["); ok {
				text = strings.TrimSuffix(body, "]]>")
			}
			p.add(p.leaf(KindText, span, text))
		case html.CommentToken:
			p.add(p.comment(string(raw), span))
		case html.DoctypeToken:
			p.add(p.leaf(KindDoctype, span, string(raw)))
		}
	}
}

func (p *parser) finish() error {
	size, err := safecast.Conv[uint32](len(p.file.Content))
	if err != nil {
		return fmt.Errorf("%s: file too large: %w", p.file.Path, err)
	}
	if p.off < size {
		// the tokenizer drops a tag cut off by the end of input
		span := source.Span{File: p.file.ID, Start: p.off, End: size}
		return p.errorAt(diag.SynMalformedMarkup, span, "unexpected end of input inside a tag")
	}
	if len(p.stack) > 0 {
		open := p.stack[len(p.stack)-1]
		return p.errorAt(diag.SynUnclosedElement, open.Span, fmt.Sprintf("element <%s> is never closed", open.Tag))
	}
	return nil
}

func (p *parser) element(tok html.Token, span source.Span) *Node {
	n := &Node{
		Kind: KindElement,
		Span: span,
		Pos:  p.file.Position(span.Start),
		Tag:  tok.Data,
	}
	for _, a := range tok.Attr {
		n.Attrs.Set(a.Key, a.Val)
	}
	return n
}

func (p *parser) closeElement(tok html.Token, span source.Span) error {
	depth := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Tag == tok.Data {
			depth = i
			break
		}
	}
	switch {
	case depth < 0 && isVoid(tok.DataAtom):
		// </br> and friends close nothing
		return nil
	case depth < 0:
		return p.errorAt(diag.SynMalformedMarkup, span, fmt.Sprintf("unexpected closing tag </%s>", tok.Data))
	case depth < len(p.stack)-1:
		open := p.stack[len(p.stack)-1]
		return p.errorAt(diag.SynUnclosedElement, open.Span,
			fmt.Sprintf("element <%s> is never closed before </%s>", open.Tag, tok.Data))
	}
	top := p.stack[depth]
	top.Span = top.Span.Cover(span)
	p.stack = p.stack[:depth]
	return nil
}

// comment splits processing instructions out of comment tokens: the
// tokenizer reports <?target data?> as a bogus comment.
func (p *parser) comment(raw string, span source.Span) *Node {
	if body, ok := strings.CutPrefix(raw, "<?"); ok {
		body = strings.TrimSuffix(body, ">")
		body = strings.TrimSuffix(body, "?")
		target, data := body, ""
		if i := strings.IndexAny(body, " \t\r\n"); i >= 0 {
			target, data = body[:i], body[i:]
		}
		n := p.leaf(KindProcInst, span, data)
		n.Target = target
		return n
	}
	body := strings.TrimPrefix(raw, "<!--")
	body = strings.TrimSuffix(body, "-->")
	return p.leaf(KindComment, span, body)
}

func (p *parser) leaf(kind Kind, span source.Span, data string) *Node {
	return &Node{Kind: kind, Span: span, Pos: p.file.Position(span.Start), Data: data}
}

func (p *parser) add(n *Node) {
	if len(p.stack) == 0 {
		p.doc.Children = append(p.doc.Children, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	top.Children = append(top.Children, n)
}

func (p *parser) errorAt(code diag.Code, span source.Span, msg string) error {
	return diag.NewSyntaxError(code, p.file.Path, span, p.file.Position(span.Start), msg)
}

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param, atom.Source,
		atom.Track, atom.Wbr:
		return true
	}
	return false
}

func isRawText(a atom.Atom) bool {
	return a == atom.Script || a == atom.Style
}
