package streamxml

import (
	"encoding/xml"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXMLNameConversion(t *testing.T) {
	got := XMLName(Name{Space: []byte("ns"), Local: []byte("tag")})
	require.Equal(t, xml.Name{Space: "ns", Local: "tag"}, got)
}

func TestXMLAttrConversion(t *testing.T) {
	got := XMLAttr(Attr{Name: Name{Local: []byte("x")}, Value: []byte("1")})
	require.Equal(t, xml.Attr{Name: xml.Name{Local: "x"}, Value: "1"}, got)
}

func TestXMLAttrsConversion(t *testing.T) {
	require.Nil(t, XMLAttrs(nil))
	attrs := []Attr{
		{Name: Name{Local: []byte("x")}, Value: []byte("1")},
		{Name: Name{Local: []byte("y")}, Value: []byte("2")},
	}
	got := XMLAttrs(attrs)
	require.Len(t, got, 2)
	require.Equal(t, "x", got[0].Name.Local)
	require.Equal(t, "2", got[1].Value)
}

func TestParserTokenStartEnd(t *testing.T) {
	p := newTestParser(t, `<a x="1"></a>`, 4)
	require.Equal(t, Prefix, p.Next())
	tok := p.Token()
	start, ok := tok.(xml.StartElement)
	require.True(t, ok)
	require.Equal(t, "a", start.Name.Local)
	require.Len(t, start.Attr, 1)
	require.Equal(t, "1", start.Attr[0].Value)

	require.Equal(t, Suffix, p.Next())
	end, ok := p.Token().(xml.EndElement)
	require.True(t, ok)
	require.Equal(t, "a", end.Name.Local)
}

func TestParserTokenSelfClosing(t *testing.T) {
	p := newTestParser(t, `<a/>`, 2)
	require.Equal(t, SelfClosing, p.Next())
	start, ok := p.Token().(xml.StartElement)
	require.True(t, ok)
	require.Equal(t, "a", start.Name.Local)
}

func TestParserTokenCharData(t *testing.T) {
	p := newTestParser(t, `<a>hi &amp; bye</a>`, 4)
	require.Equal(t, Prefix, p.Next())
	require.Equal(t, EscapedText, p.Next())
	cd, ok := p.Token().(xml.CharData)
	require.True(t, ok)
	require.Equal(t, "hi & bye", string(cd))
}

func TestParserTokenCData(t *testing.T) {
	p := newTestParser(t, `<a><![CDATA[raw]]></a>`, 4)
	require.Equal(t, Prefix, p.Next())
	require.Equal(t, CData, p.Next())
	cd, ok := p.Token().(xml.CharData)
	require.True(t, ok)
	require.Equal(t, "raw", string(cd))
}

func TestParserTokenComment(t *testing.T) {
	p := newTestParser(t, `<!--hi-->`, 3)
	require.Equal(t, Comment, p.Next())
	c, ok := p.Token().(xml.Comment)
	require.True(t, ok)
	require.Equal(t, "hi", string(c))
}

func TestParserTokenPI(t *testing.T) {
	p := newTestParser(t, `<?target data here?>`, 5)
	require.Equal(t, PI, p.Next())
	pi, ok := p.Token().(xml.ProcInst)
	require.True(t, ok)
	require.Equal(t, "target", pi.Target)
	require.Equal(t, "data here", string(pi.Inst))
}

func TestParserTokenDirective(t *testing.T) {
	p := newTestParser(t, `<!DOCTYPE a>`, 3)
	require.Equal(t, DTD, p.Next())
	d, ok := p.Token().(xml.Directive)
	require.True(t, ok)
	require.Equal(t, "DOCTYPE a", string(d))
}

func TestParserTokenNilForBeginEnd(t *testing.T) {
	p := newTestParser(t, `<a/>`, 2)
	require.Nil(t, p.Token()) // Begin

	require.Equal(t, SelfClosing, p.Next())
	require.Equal(t, End, p.Next())
	require.Nil(t, p.Token())
}

func TestTokenReaderBasic(t *testing.T) {
	p := newTestParser(t, `<a x="1">hi</a>`, 4)
	r := NewTokenReader(p)

	tok, err := r.Token()
	require.NoError(t, err)
	start, ok := tok.(xml.StartElement)
	require.True(t, ok)
	require.Equal(t, "a", start.Name.Local)

	tok, err = r.Token()
	require.NoError(t, err)
	cd, ok := tok.(xml.CharData)
	require.True(t, ok)
	require.Equal(t, "hi", string(cd))

	tok, err = r.Token()
	require.NoError(t, err)
	end, ok := tok.(xml.EndElement)
	require.True(t, ok)
	require.Equal(t, "a", end.Name.Local)

	_, err = r.Token()
	require.ErrorIs(t, err, io.EOF)
}

// TestTokenReaderSynthesizesEndForSelfClosing covers the one real divergence
// between this parser's item model and encoding/xml's: a SelfClosing item
// must surface as a StartElement immediately followed by a synthetic
// EndElement, since xml.TokenReader has no self-closing concept.
func TestTokenReaderSynthesizesEndForSelfClosing(t *testing.T) {
	p := newTestParser(t, `<a><b/></a>`, 3)
	r := NewTokenReader(p)

	tok, err := r.Token() // <a>
	require.NoError(t, err)
	_, ok := tok.(xml.StartElement)
	require.True(t, ok)

	tok, err = r.Token() // <b/> as StartElement
	require.NoError(t, err)
	start, ok := tok.(xml.StartElement)
	require.True(t, ok)
	require.Equal(t, "b", start.Name.Local)

	tok, err = r.Token() // synthetic </b>
	require.NoError(t, err)
	end, ok := tok.(xml.EndElement)
	require.True(t, ok)
	require.Equal(t, "b", end.Name.Local)

	tok, err = r.Token() // </a>
	require.NoError(t, err)
	end, ok = tok.(xml.EndElement)
	require.True(t, ok)
	require.Equal(t, "a", end.Name.Local)

	_, err = r.Token()
	require.ErrorIs(t, err, io.EOF)
}

func TestTokenReaderSurfacesDirective(t *testing.T) {
	p := newTestParser(t, `<!DOCTYPE a><r/>`, 4)
	r := NewTokenReader(p)
	tok, err := r.Token()
	require.NoError(t, err)
	d, ok := tok.(xml.Directive)
	require.True(t, ok)
	require.Equal(t, "DOCTYPE a", string(d))

	tok, err = r.Token()
	require.NoError(t, err)
	start, ok := tok.(xml.StartElement)
	require.True(t, ok)
	require.Equal(t, "r", start.Name.Local)
}

func TestTokenReaderPropagatesParseError(t *testing.T) {
	p := newTestParser(t, `<a>`, 2)
	r := NewTokenReader(p)
	_, err := r.Token() // <a>
	require.NoError(t, err)
	_, err = r.Token()
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrUnmatchedEndTag, pe.Code)
}

// TestTokenReaderWithStdlibDecoder drives an xml.Decoder entirely off a
// Parser, confirming the bridge satisfies the standard xml.TokenReader
// contract end to end.
func TestTokenReaderWithStdlibDecoder(t *testing.T) {
	p := newTestParser(t, `<root x="1"><child>text</child></root>`, 5)
	dec := xml.NewTokenDecoder(NewTokenReader(p))

	var names []string
	for {
		tok, err := dec.Token()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		if se, ok := tok.(xml.StartElement); ok {
			names = append(names, se.Name.Local)
		}
	}
	require.Equal(t, []string{"root", "child"}, names)
}
