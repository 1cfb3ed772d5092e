package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Interpreter symbols bound to the global dimensions.
var globalSymbols = map[string]string{
	"#W":  "gW",
	"#H":  "gH",
	"#D":  "gD",
	"#BT": "gBT",
}

// Compile translates expr into the Lisp program Evaluate runs. The program
// binds the globals, then every custom variable expr refers to (directly or
// through other variables) in dependency order, and ends with expr itself.
func Compile(expr string, env Env) (string, error) {
	c := &compiler{
		env:      env,
		syms:     make(map[string]string),
		visiting: make(map[string]bool),
	}
	body, err := c.compile(expr)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	g := env.Globals
	fmt.Fprintf(&b, "(def gW %s)\n", literal(g.Width))
	fmt.Fprintf(&b, "(def gH %s)\n", literal(g.Height))
	fmt.Fprintf(&b, "(def gD %s)\n", literal(g.Depth))
	fmt.Fprintf(&b, "(def gBT %s)\n", literal(g.PanelThickness))
	for _, d := range c.defs {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString(body)
	b.WriteByte('\n')
	return b.String(), nil
}

// literal prints v as a float the interpreter cannot mistake for an
// integer, so division never truncates.
func literal(v float64) string {
	if v < 0 {
		return "(- 0.0 " + literal(-v) + ")"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type compiler struct {
	env      Env
	syms     map[string]string // variable name -> interpreter symbol
	visiting map[string]bool
	defs     []string
}

func (c *compiler) compile(expr string) (string, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return "", err
	}
	p := &parser{toks: toks, c: c}
	out, err := p.expr()
	if err != nil {
		return "", err
	}
	if t := p.peek(); t.kind != tokEOF {
		return "", EvalError{Col: t.pos + 1, Message: fmt.Sprintf("unexpected %q", t.text)}
	}
	return out, nil
}

// variable returns the interpreter symbol for name, compiling its
// expression the first time it is referenced.
func (c *compiler) variable(name string) (string, error) {
	if sym, ok := c.syms[name]; ok {
		return sym, nil
	}
	if c.visiting[name] {
		return "", fmt.Errorf("%w: %s", ErrCycle, name)
	}
	src, ok := c.env.Variables[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUndefined, name)
	}

	c.visiting[name] = true
	body, err := c.compile(src)
	delete(c.visiting, name)
	if err != nil {
		return "", fmt.Errorf("variable %s: %w", name, err)
	}

	sym := "v" + strconv.Itoa(len(c.defs))
	c.defs = append(c.defs, fmt.Sprintf("(def %s %s)", sym, body))
	c.syms[name] = sym
	return sym, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokGlobal
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func tokenize(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += w
		case r == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case strings.ContainsRune("+-*/", r):
			toks = append(toks, token{tokOp, string(r), i})
			i++
		case r == '#':
			j := i + 1
			for j < len(s) && s[j] >= 'A' && s[j] <= 'Z' {
				j++
			}
			if _, ok := globalSymbols[s[i:j]]; !ok {
				return nil, EvalError{Col: i + 1, Message: fmt.Sprintf("unknown symbol %q", s[i:j])}
			}
			toks = append(toks, token{tokGlobal, s[i:j], i})
			i = j
		case r == '.' || (r >= '0' && r <= '9'):
			j := i
			dot := false
			for j < len(s) && (s[j] == '.' || (s[j] >= '0' && s[j] <= '9')) {
				if s[j] == '.' {
					if dot {
						return nil, EvalError{Col: j + 1, Message: "malformed number"}
					}
					dot = true
				}
				j++
			}
			if s[i:j] == "." {
				return nil, EvalError{Col: i + 1, Message: "malformed number"}
			}
			toks = append(toks, token{tokNum, s[i:j], i})
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i
			for j < len(s) {
				r, w := utf8.DecodeRuneInString(s[j:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				j += w
			}
			toks = append(toks, token{tokIdent, s[i:j], i})
			i = j
		default:
			return nil, EvalError{Col: i + 1, Message: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return append(toks, token{tokEOF, "", len(s)}), nil
}

// parser is a recursive-descent parser emitting prefix expressions.
//
//	expr  = term { ("+" | "-") term }
//	term  = unary { ("*" | "/") unary }
//	unary = ("-" | "+") unary | primary
//	primary = number | global | ident | "(" expr ")"
type parser struct {
	toks []token
	i    int
	c    *compiler
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expr() (string, error) {
	left, err := p.term()
	if err != nil {
		return "", err
	}
	for t := p.peek(); t.kind == tokOp && (t.text == "+" || t.text == "-"); t = p.peek() {
		p.next()
		right, err := p.term()
		if err != nil {
			return "", err
		}
		left = fmt.Sprintf("(%s %s %s)", t.text, left, right)
	}
	return left, nil
}

func (p *parser) term() (string, error) {
	left, err := p.unary()
	if err != nil {
		return "", err
	}
	for t := p.peek(); t.kind == tokOp && (t.text == "*" || t.text == "/"); t = p.peek() {
		p.next()
		right, err := p.unary()
		if err != nil {
			return "", err
		}
		left = fmt.Sprintf("(%s %s %s)", t.text, left, right)
	}
	return left, nil
}

func (p *parser) unary() (string, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return "", err
		}
		if t.text == "+" {
			return operand, nil
		}
		return fmt.Sprintf("(- 0.0 %s)", operand), nil
	}
	return p.primary()
}

func (p *parser) primary() (string, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return "", EvalError{Col: t.pos + 1, Message: "malformed number"}
		}
		return literal(v), nil
	case tokGlobal:
		return globalSymbols[t.text], nil
	case tokIdent:
		return p.c.variable(t.text)
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return "", err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return "", EvalError{Col: closing.pos + 1, Message: "missing closing parenthesis"}
		}
		return inner, nil
	case tokEOF:
		if len(p.toks) == 1 {
			return "", EvalError{Message: "empty expression"}
		}
		return "", EvalError{Col: t.pos + 1, Message: "unexpected end of expression"}
	}
	return "", EvalError{Col: t.pos + 1, Message: fmt.Sprintf("unexpected %q", t.text)}
}
