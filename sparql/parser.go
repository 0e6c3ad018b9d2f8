package sparql

import (
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/wurlab/sparq/errors"
)

const xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"

// Prepare parses a query string into an executable Query. A parse error
// here is an acquisition failure at the dispatcher boundary: the query
// never obtains an execution handle.
func Prepare(query string) (*Query, error) {
	toks, err := lexQuery(query)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks: toks,
		q:    &Query{Prefixes: map[string]string{}},
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.q, nil
}

type parser struct {
	toks []token
	i    int
	q    *Query
}

func (p *parser) peek() token { return p.toks[p.i] }

// take consumes and returns the next token. EOF is sticky so that error
// paths never run off the token slice.
func (p *parser) take() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) atEOF() bool { return p.peek().kind == tokEOF }

// keyword reports whether the next token is the given keyword
// (case-insensitive) and consumes it if so.
func (p *parser) keyword(kw string) bool {
	t := p.peek()
	if t.kind == tokIdent && strings.EqualFold(t.text, kw) {
		p.i++
		return true
	}
	return false
}

func (p *parser) punct(s string) bool {
	t := p.peek()
	if t.kind == tokPunct && t.text == s {
		p.i++
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) error {
	if !p.punct(s) {
		t := p.peek()
		return errors.Newf("query position %d: expected %q, got %q", t.pos, s, t.text)
	}
	return nil
}

func (p *parser) parse() error {
	if err := p.parsePrologue(); err != nil {
		return err
	}

	switch {
	case p.keyword("SELECT"):
		return p.parseSelect()
	case p.keyword("ASK"):
		return p.parseAsk()
	case p.keyword("CONSTRUCT"):
		return p.parseConstruct()
	case p.keyword("DESCRIBE"):
		return p.parseDescribe()
	}
	t := p.peek()
	return errors.Wrapf(errors.ErrUnsupportedForm, "query position %d: expected SELECT, ASK, CONSTRUCT or DESCRIBE, got %q", t.pos, t.text)
}

func (p *parser) parsePrologue() error {
	for {
		switch {
		case p.keyword("PREFIX"):
			name := p.take()
			if name.kind != tokPName || !strings.HasSuffix(name.text, ":") {
				return errors.Newf("query position %d: expected prefix name in PREFIX declaration", name.pos)
			}
			iri := p.take()
			if iri.kind != tokIRIRef {
				return errors.Newf("query position %d: expected IRI in PREFIX declaration", iri.pos)
			}
			p.q.Prefixes[strings.TrimSuffix(name.text, ":")] = iri.text
		case p.keyword("BASE"):
			iri := p.take()
			if iri.kind != tokIRIRef {
				return errors.Newf("query position %d: expected IRI in BASE declaration", iri.pos)
			}
			p.q.Base = iri.text
		default:
			return nil
		}
	}
}

func (p *parser) parseSelect() error {
	p.q.Form = FormSelect
	p.q.Distinct = p.keyword("DISTINCT")

	if !p.punct("*") {
		for p.peek().kind == tokVar {
			p.q.Vars = append(p.q.Vars, p.take().text)
		}
		if len(p.q.Vars) == 0 {
			t := p.peek()
			return errors.Newf("query position %d: SELECT needs a projection (* or variables)", t.pos)
		}
	}

	p.keyword("WHERE")
	group, err := p.parseGroup()
	if err != nil {
		return err
	}
	p.q.Where = group
	return p.parseModifiers()
}

func (p *parser) parseAsk() error {
	p.q.Form = FormAsk
	p.keyword("WHERE")
	group, err := p.parseGroup()
	if err != nil {
		return err
	}
	p.q.Where = group
	return p.parseModifiers()
}

func (p *parser) parseConstruct() error {
	p.q.Form = FormConstruct
	template, err := p.parseGroup()
	if err != nil {
		return err
	}
	if len(template.Optionals) > 0 {
		return errors.New("OPTIONAL is not allowed in a CONSTRUCT template")
	}
	p.q.Template = template.Patterns

	if !p.keyword("WHERE") {
		t := p.peek()
		return errors.Newf("query position %d: expected WHERE after CONSTRUCT template", t.pos)
	}
	group, err := p.parseGroup()
	if err != nil {
		return err
	}
	p.q.Where = group
	return p.parseModifiers()
}

func (p *parser) parseDescribe() error {
	p.q.Form = FormDescribe
	for {
		t := p.peek()
		if t.kind == tokVar {
			p.take()
			p.q.Describe = append(p.q.Describe, PatternTerm{Var: t.text})
			continue
		}
		if t.kind == tokIRIRef || t.kind == tokPName {
			node, err := p.resolveIRIToken(p.take())
			if err != nil {
				return err
			}
			p.q.Describe = append(p.q.Describe, PatternTerm{Node: node})
			continue
		}
		break
	}
	if len(p.q.Describe) == 0 {
		t := p.peek()
		return errors.Newf("query position %d: DESCRIBE needs at least one IRI or variable", t.pos)
	}

	p.keyword("WHERE")
	if p.peek().kind == tokPunct && p.peek().text == "{" {
		group, err := p.parseGroup()
		if err != nil {
			return err
		}
		p.q.Where = group
	}
	return p.parseModifiers()
}

func (p *parser) parseModifiers() error {
	if p.keyword("LIMIT") {
		t := p.take()
		if t.kind != tokNumber || strings.Contains(t.text, ".") || strings.HasPrefix(t.text, "-") {
			return errors.Newf("query position %d: LIMIT needs a non-negative integer", t.pos)
		}
		limit := 0
		for _, d := range t.text {
			limit = limit*10 + int(d-'0')
		}
		p.q.Limit = limit
	}
	if !p.atEOF() {
		t := p.peek()
		return errors.Newf("query position %d: unexpected trailing token %q", t.pos, t.text)
	}
	return nil
}

var unsupportedInGroup = []string{
	"FILTER", "UNION", "GRAPH", "BIND", "MINUS", "SERVICE", "VALUES", "EXISTS",
}

func (p *parser) parseGroup() (*GroupPattern, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	group := &GroupPattern{}
	for {
		if p.punct("}") {
			return group, nil
		}
		if p.atEOF() {
			return nil, errors.New("unterminated group pattern: missing }")
		}
		if p.keyword("OPTIONAL") {
			sub, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			group.Optionals = append(group.Optionals, sub)
			p.punct(".")
			continue
		}
		for _, kw := range unsupportedInGroup {
			if t := p.peek(); t.kind == tokIdent && strings.EqualFold(t.text, kw) {
				return nil, errors.Wrapf(errors.ErrUnsupportedForm,
					"query position %d: %s is not supported in local queries", t.pos, kw)
			}
		}
		if err := p.parseTriplesSameSubject(group); err != nil {
			return nil, err
		}
		// A '.' separates statements and is optional before '}'
		p.punct(".")
	}
}

func (p *parser) parseTriplesSameSubject(group *GroupPattern) error {
	subject, err := p.parseTerm(false)
	if err != nil {
		return err
	}
	for {
		verb, err := p.parseVerb()
		if err != nil {
			return err
		}
		for {
			object, err := p.parseTerm(true)
			if err != nil {
				return err
			}
			group.Patterns = append(group.Patterns, TriplePattern{S: subject, P: verb, O: object})
			if !p.punct(",") {
				break
			}
		}
		if !p.punct(";") {
			return nil
		}
		// A trailing ';' before '.' or '}' is permitted
		if t := p.peek(); t.kind == tokPunct && (t.text == "." || t.text == "}") {
			return nil
		}
	}
}

func (p *parser) parseVerb() (PatternTerm, error) {
	t := p.peek()
	if t.kind == tokIdent && t.text == "a" {
		p.take()
		return PatternTerm{Node: ld.NewIRI(ld.RDFType)}, nil
	}
	term, err := p.parseTerm(false)
	if err != nil {
		return PatternTerm{}, err
	}
	if !term.IsVar() {
		if _, ok := term.Node.(*ld.IRI); !ok {
			return PatternTerm{}, errors.Newf("query position %d: predicate must be an IRI or variable", t.pos)
		}
	}
	return term, nil
}

// parseTerm parses a variable, IRI, prefixed name, blank node or (in
// object position) a literal.
func (p *parser) parseTerm(allowLiteral bool) (PatternTerm, error) {
	t := p.take()
	switch t.kind {
	case tokVar:
		return PatternTerm{Var: t.text}, nil
	case tokIRIRef, tokPName:
		node, err := p.resolveIRIToken(t)
		if err != nil {
			return PatternTerm{}, err
		}
		return PatternTerm{Node: node}, nil
	case tokLiteral:
		if !allowLiteral {
			return PatternTerm{}, errors.Newf("query position %d: literal not allowed here", t.pos)
		}
		return p.literalTerm(t)
	case tokNumber:
		if !allowLiteral {
			return PatternTerm{}, errors.Newf("query position %d: literal not allowed here", t.pos)
		}
		datatype := ld.XSDInteger
		if strings.Contains(t.text, ".") {
			datatype = xsdDecimal
		}
		return PatternTerm{Node: ld.NewLiteral(t.text, datatype, "")}, nil
	case tokIdent:
		if allowLiteral && (strings.EqualFold(t.text, "true") || strings.EqualFold(t.text, "false")) {
			return PatternTerm{Node: ld.NewLiteral(strings.ToLower(t.text), ld.XSDBoolean, "")}, nil
		}
	}
	return PatternTerm{}, errors.Newf("query position %d: unexpected token %q in triple pattern", t.pos, t.text)
}

func (p *parser) literalTerm(t token) (PatternTerm, error) {
	switch {
	case t.litLang != "":
		return PatternTerm{Node: ld.NewLiteral(t.litValue, ld.RDFLangString, t.litLang)}, nil
	case t.litDTIRI != "":
		return PatternTerm{Node: ld.NewLiteral(t.litValue, p.resolveBase(t.litDTIRI), "")}, nil
	case t.litDTPName != "":
		iri, err := p.expandPName(t.litDTPName, t.pos)
		if err != nil {
			return PatternTerm{}, err
		}
		return PatternTerm{Node: ld.NewLiteral(t.litValue, iri, "")}, nil
	}
	return PatternTerm{Node: ld.NewLiteral(t.litValue, ld.XSDString, "")}, nil
}

// resolveIRIToken turns an IRIREF or prefixed-name token into a node.
// Prefixed names with the reserved "_" prefix are blank nodes.
func (p *parser) resolveIRIToken(t token) (ld.Node, error) {
	if t.kind == tokIRIRef {
		return ld.NewIRI(p.resolveBase(t.text)), nil
	}
	if strings.HasPrefix(t.text, "_:") {
		return ld.NewBlankNode(t.text), nil
	}
	iri, err := p.expandPName(t.text, t.pos)
	if err != nil {
		return nil, err
	}
	return ld.NewIRI(iri), nil
}

func (p *parser) expandPName(pname string, pos int) (string, error) {
	idx := strings.Index(pname, ":")
	if idx < 0 {
		return "", errors.Newf("query position %d: malformed prefixed name %q", pos, pname)
	}
	prefix, local := pname[:idx], pname[idx+1:]
	base, ok := p.q.Prefixes[prefix]
	if !ok {
		return "", errors.Newf("query position %d: undeclared prefix %q", pos, prefix)
	}
	return base + local, nil
}

// resolveBase prepends the BASE IRI to relative references. Absolute
// IRIs (with a scheme) pass through.
func (p *parser) resolveBase(iri string) string {
	if p.q.Base == "" || strings.Contains(iri, ":") {
		return iri
	}
	return p.q.Base + iri
}
