package hlotext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

// splitTopLevel splits s on commas that are not nested in brackets or quotes.
func splitTopLevel(s string) ([]string, error) {
	var (
		parts []string
		depth int
		start int
	)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			end, err := skipQuoted(s, i)
			if err != nil {
				return nil, err
			}

			i = end
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q in %q", s[i], s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in %q", s)
	}

	return append(parts, s[start:]), nil
}

// stripComments removes "/*...*/" comments outside quoted strings, as in "/*index=5*/%p5".
func stripComments(s string) (string, error) {
	if !strings.Contains(s, "/*") {
		return s, nil
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			end, err := skipQuoted(s, i)
			if err != nil {
				return "", err
			}

			b.WriteString(s[i : end+1])
			i = end
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return "", fmt.Errorf("unterminated comment in %q", s)
			}

			i += end + 3
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String(), nil
}

// matchingClose returns the index of the ')' closing the '(' at open.
func matchingClose(s string, open int) (int, error) {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '"':
			end, err := skipQuoted(s, i)
			if err != nil {
				return 0, err
			}

			i = end
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				if s[i] != ')' {
					return 0, fmt.Errorf("mismatched %q in %q", s[i], s)
				}

				return i, nil
			}
		}
	}

	return 0, fmt.Errorf("unterminated argument list in %q", s)
}

// skipQuoted returns the index of the quote closing the string that starts at i.
func skipQuoted(s string, i int) (int, error) {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j, nil
		}
	}

	return 0, fmt.Errorf("unterminated string in %q", s)
}

// shapeParser reads a shape from the front of s and leaves pos just after it.
type shapeParser struct {
	s   string
	pos int
}

func (p *shapeParser) parse() (domain.Shape, error) {
	p.skipSpace()

	if p.peek() == '(' {
		return p.parseTuple()
	}

	start := p.pos
	for p.pos < len(p.s) && isIdentChar(p.s[p.pos]) {
		p.pos++
	}

	name := p.s[start:p.pos]

	elementType, ok := domain.ParsePrimitiveType(name)
	if !ok || elementType == domain.Tuple {
		return domain.Shape{}, fmt.Errorf("unknown element type %q", name)
	}

	shape := domain.Shape{ElementType: elementType}

	dims, err := p.parseInts('[', ']')
	if err != nil {
		return domain.Shape{}, fmt.Errorf("shape %s: %w", name, err)
	}

	shape.Dimensions = dims

	if p.peek() == '{' {
		layout, err := p.parseLayout()
		if err != nil {
			return domain.Shape{}, fmt.Errorf("layout of %s: %w", name, err)
		}

		if len(layout.MinorToMajor) != len(dims) {
			return domain.Shape{}, fmt.Errorf("layout {%s} does not match rank %d", joinInt64s(layout.MinorToMajor), len(dims))
		}

		shape.Layout = layout
	}

	return shape, nil
}

// parseLayout reads "{1,0}" or a tiled "{1,0:T(8,128)}". The part after ':' is kept as written.
func (p *shapeParser) parseLayout() (*domain.Layout, error) {
	end := strings.IndexByte(p.s[p.pos:], '}')
	if end < 0 {
		return nil, fmt.Errorf("missing %q", '}')
	}

	body := p.s[p.pos+1 : p.pos+end]
	p.pos += end + 1

	dims, tiling, _ := strings.Cut(body, ":")

	minorToMajor, err := parseInt64s(dims)
	if err != nil {
		return nil, err
	}

	return &domain.Layout{MinorToMajor: minorToMajor, Tiling: strings.TrimSpace(tiling)}, nil
}

func (p *shapeParser) parseTuple() (domain.Shape, error) {
	p.pos++ // (

	shape := domain.Shape{ElementType: domain.Tuple}

	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return shape, nil
	}

	for {
		elem, err := p.parse()
		if err != nil {
			return domain.Shape{}, err
		}

		shape.TupleShapes = append(shape.TupleShapes, elem)

		p.skipSpace()

		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return shape, nil
		default:
			return domain.Shape{}, fmt.Errorf("expected ',' or ')' in tuple shape at %q", p.s[p.pos:])
		}
	}
}

func (p *shapeParser) parseInts(open, closing byte) ([]int64, error) {
	if p.peek() != open {
		return nil, fmt.Errorf("expected %q at %q", open, p.s[p.pos:])
	}

	end := strings.IndexByte(p.s[p.pos:], closing)
	if end < 0 {
		return nil, fmt.Errorf("missing %q", closing)
	}

	body := p.s[p.pos+1 : p.pos+end]
	p.pos += end + 1

	return parseInt64s(body)
}

// parseInt64s parses a comma separated integer list such as "2,3".
func parseInt64s(body string) ([]int64, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}

	fields := strings.Split(body, ",")
	values := make([]int64, 0, len(fields))

	for _, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", strings.TrimSpace(f))
		}

		values = append(values, v)
	}

	return values, nil
}

func (p *shapeParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}

	return p.s[p.pos]
}

func (p *shapeParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func joinInt64s(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}

	return strings.Join(parts, ",")
}
