package sparql

import (
	"strings"
	"unicode"

	"github.com/wurlab/sparq/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRIRef
	tokPName
	tokVar
	tokLiteral
	tokNumber
	tokIdent
	tokPunct
)

type token struct {
	kind tokenKind
	text string // IRI value, pname, var name, ident, punct or number text

	// literal parts (kind == tokLiteral)
	litValue   string
	litLang    string
	litDTIRI   string // datatype written as <iri>
	litDTPName string // datatype written as a prefixed name

	pos int // byte offset in the query string
}

type lexer struct {
	src []rune
	i   int
}

func lexQuery(src string) ([]token, error) {
	l := &lexer{src: []rune(src)}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	if l.i >= len(l.src) {
		return token{kind: tokEOF, pos: l.i}, nil
	}

	start := l.i
	c := l.src[l.i]

	switch {
	case c == '<':
		return l.lexIRIRef(start)
	case c == '?' || c == '$':
		l.i++
		name := l.takeWhile(isNameChar)
		if name == "" {
			return token{}, errors.Newf("query position %d: empty variable name", start)
		}
		return token{kind: tokVar, text: name, pos: start}, nil
	case c == '"' || c == '\'':
		return l.lexLiteral(start, c)
	case strings.ContainsRune("{}.;,()*", c):
		l.i++
		return token{kind: tokPunct, text: string(c), pos: start}, nil
	case unicode.IsDigit(c) || (c == '-' && l.i+1 < len(l.src) && unicode.IsDigit(l.src[l.i+1])):
		neg := c == '-'
		if neg {
			l.i++
		}
		num := l.takeWhile(func(r rune) bool { return unicode.IsDigit(r) || r == '.' })
		if neg {
			num = "-" + num
		}
		return token{kind: tokNumber, text: num, pos: start}, nil
	case isNameStartChar(c) || c == '_':
		word := l.takeWhile(isNameChar)
		if l.i < len(l.src) && l.src[l.i] == ':' {
			// Prefixed name: prefix ':' local
			l.i++
			local := l.takeWhile(isNameChar)
			return token{kind: tokPName, text: word + ":" + local, pos: start}, nil
		}
		return token{kind: tokIdent, text: word, pos: start}, nil
	case c == ':':
		// Default-prefix name
		l.i++
		local := l.takeWhile(isNameChar)
		return token{kind: tokPName, text: ":" + local, pos: start}, nil
	}
	return token{}, errors.Newf("query position %d: unexpected character %q", start, string(c))
}

func (l *lexer) lexIRIRef(start int) (token, error) {
	l.i++ // consume '<'
	var b strings.Builder
	for l.i < len(l.src) {
		c := l.src[l.i]
		if c == '>' {
			l.i++
			return token{kind: tokIRIRef, text: b.String(), pos: start}, nil
		}
		if c == '\n' {
			break
		}
		b.WriteRune(c)
		l.i++
	}
	return token{}, errors.Newf("query position %d: unterminated IRI reference", start)
}

func (l *lexer) lexLiteral(start int, quote rune) (token, error) {
	l.i++ // consume opening quote
	var b strings.Builder
	for {
		if l.i >= len(l.src) {
			return token{}, errors.Newf("query position %d: unterminated string literal", start)
		}
		c := l.src[l.i]
		l.i++
		if c == quote {
			break
		}
		if c == '\\' {
			if l.i >= len(l.src) {
				return token{}, errors.Newf("query position %d: unterminated escape", start)
			}
			e := l.src[l.i]
			l.i++
			switch e {
			case 't':
				b.WriteRune('\t')
			case 'n':
				b.WriteRune('\n')
			case 'r':
				b.WriteRune('\r')
			case '\\', '"', '\'':
				b.WriteRune(e)
			default:
				return token{}, errors.Newf("query position %d: unsupported escape \\%s", start, string(e))
			}
			continue
		}
		b.WriteRune(c)
	}

	tok := token{kind: tokLiteral, litValue: b.String(), pos: start}

	// Optional language tag or datatype, attached without whitespace
	if l.i < len(l.src) && l.src[l.i] == '@' {
		l.i++
		tok.litLang = l.takeWhile(func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
		})
		if tok.litLang == "" {
			return token{}, errors.Newf("query position %d: empty language tag", start)
		}
		return tok, nil
	}
	if l.i+1 < len(l.src) && l.src[l.i] == '^' && l.src[l.i+1] == '^' {
		l.i += 2
		if l.i >= len(l.src) {
			return token{}, errors.Newf("query position %d: missing datatype after ^^", start)
		}
		if l.src[l.i] == '<' {
			dt, err := l.lexIRIRef(l.i)
			if err != nil {
				return token{}, err
			}
			tok.litDTIRI = dt.text
			return tok, nil
		}
		prefix := l.takeWhile(isNameChar)
		if l.i >= len(l.src) || l.src[l.i] != ':' {
			return token{}, errors.Newf("query position %d: malformed datatype", start)
		}
		l.i++
		local := l.takeWhile(isNameChar)
		tok.litDTPName = prefix + ":" + local
		return tok, nil
	}
	return tok, nil
}

func (l *lexer) takeWhile(pred func(rune) bool) string {
	start := l.i
	for l.i < len(l.src) && pred(l.src[l.i]) {
		l.i++
	}
	return string(l.src[start:l.i])
}

func (l *lexer) skipSpaceAndComments() {
	for l.i < len(l.src) {
		c := l.src[l.i]
		if unicode.IsSpace(c) {
			l.i++
			continue
		}
		if c == '#' {
			for l.i < len(l.src) && l.src[l.i] != '\n' {
				l.i++
			}
			continue
		}
		return
	}
}

func isNameStartChar(c rune) bool {
	return unicode.IsLetter(c)
}

func isNameChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-'
}
