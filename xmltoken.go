package streamxml

import (
	"encoding/xml"
	"io"
)

// xmltoken.go bridges a Parser into the standard library's encoding/xml
// token model, so callers that already work against xml.TokenReader (or
// xml.Decoder, which accepts one) can drop in a Parser as their source.
// Grounded on the teacher's xml.go/token.go, which do the same conversion
// for its whole-buffer Scanner.

// XMLName converts a Name to its encoding/xml equivalent. Space is the
// prefix as written in the document, not a resolved namespace URI - this
// parser does no namespace resolution (spec.md §1 non-goals).
func XMLName(n Name) xml.Name {
	return xml.Name{Space: string(n.Space), Local: string(n.Local)}
}

// XMLAttr converts an Attr to its encoding/xml equivalent.
func XMLAttr(a Attr) xml.Attr {
	return xml.Attr{Name: XMLName(a.Name), Value: string(a.Value)}
}

// XMLAttrs converts a slice of Attr to their encoding/xml equivalents.
func XMLAttrs(attrs []Attr) []xml.Attr {
	if attrs == nil {
		return nil
	}
	out := make([]xml.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = XMLAttr(a)
	}
	return out
}

// Token converts the Parser's current item into an encoding/xml.Token.
// Returns nil for Begin and End, which have no token representation.
func (p *Parser) Token() xml.Token {
	switch p.item {
	case Prefix:
		return xml.StartElement{Name: XMLName(p.Name()), Attr: XMLAttrs(p.Attrs())}
	case SelfClosing:
		return xml.StartElement{Name: XMLName(p.Name()), Attr: XMLAttrs(p.Attrs())}
	case Suffix:
		return xml.EndElement{Name: XMLName(p.Name())}
	case EscapedText:
		text := p.Text()
		cp := make([]byte, len(text))
		copy(cp, text)
		return xml.CharData(cp)
	case CData:
		text := p.Text()
		cp := make([]byte, len(text))
		copy(cp, text)
		return xml.CharData(cp)
	case Comment:
		body := CommentText(p.text)
		cp := make([]byte, len(body))
		copy(cp, body)
		return xml.Comment(cp)
	case PI:
		target, inst := ProcInstParts(p.text)
		return xml.ProcInst{Target: string(target), Inst: append([]byte(nil), inst...)}
	case DTD:
		body := DirectiveText(p.text)
		cp := make([]byte, len(body))
		copy(cp, body)
		return xml.Directive(cp)
	default:
		return nil
	}
}

// tokenReader is the xml.TokenReader bridge. hasPendingEnd records that a
// SelfClosing item's StartElement must be followed by a synthetic
// EndElement on the reader's next call, since encoding/xml has no
// self-closing token and always expects a StartElement to be matched by an
// EndElement.
type tokenReader struct {
	p              *Parser
	pendingEndName xml.Name
	hasPendingEnd  bool
}

// NewTokenReader wraps p as an xml.TokenReader, so it can be handed to
// xml.NewTokenDecoder for interop with code built against encoding/xml.
func NewTokenReader(p *Parser) xml.TokenReader {
	return &tokenReader{p: p}
}

func (r *tokenReader) Token() (xml.Token, error) {
	if r.hasPendingEnd {
		r.hasPendingEnd = false
		return xml.EndElement{Name: r.pendingEndName}, nil
	}
	for {
		item := r.p.Next()
		if item == End {
			if err := r.p.Error(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		tok := r.p.Token()
		if tok == nil {
			continue
		}
		if item == SelfClosing {
			name := tok.(xml.StartElement).Name
			r.pendingEndName = name
			r.hasPendingEnd = true
		}
		return tok, nil
	}
}
