package sweep

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// rangeSlack is the fraction of a range's step added to its limit before
// enumeration, so that an endpoint the author intended to include is not
// lost to accumulated floating-point error. The historical value is step/256;
// changing it would change the cardinality of existing sweep files.
const rangeSlack = 256.0

// Parse reads a sweep file and returns its Spec, or a *ParseError wrapping
// a classified sentinel error.
func Parse(r io.Reader) (*Spec, error) {
	spec := &Spec{
		Params: make(map[string][]float64),
		byName: make(map[string]*Label),
	}

	lx, err := newLexer(r)
	if err != nil {
		return nil, err
	}

	for {
		key, ok := lx.next()
		if !ok {
			return spec, nil
		}

		// A token starting with "#" begins a comment running to end of line.
		if strings.HasPrefix(key, "#") {
			lx.skipLine()
			continue
		}

		// A token starting with "[" begins a spin override: [x y z] = norm.
		if strings.HasPrefix(key, "[") {
			if err := parseOverride(lx, key, spec); err != nil {
				return nil, err
			}
			continue
		}

		if err := parseEntry(lx, key, spec); err != nil {
			return nil, err
		}
	}
}

// parseEntry parses one parameter entry: key [label] followed by one of
// "= v", ": start limit step", or "{ v1 v2 ... }".
func parseEntry(lx *lexer, key string, spec *Spec) error {
	line := lx.line
	fail := func(err error) error {
		return &ParseError{Line: line, Key: key, Err: err}
	}

	var values []float64
	label := ""
	for len(values) == 0 {
		tok, ok := lx.next()
		if !ok {
			return fail(ErrUnexpectedEOF)
		}

		switch tok {
		case "=":
			v, err := lx.nextFloat()
			if err != nil {
				return fail(err)
			}
			values = []float64{v}

		case ":":
			start, err := lx.nextFloat()
			if err != nil {
				return fail(err)
			}
			limit, err := lx.nextFloat()
			if err != nil {
				return fail(err)
			}
			step, err := lx.nextFloat()
			if err != nil {
				return fail(err)
			}
			if step == 0 {
				return fail(ErrZeroStep)
			}
			limit += step / rangeSlack
			for v := start; (step > 0 && v < limit) || (step < 0 && v > limit); v += step {
				values = append(values, v)
			}

		case "{":
			for {
				tok, ok := lx.next()
				if !ok {
					return fail(ErrUnterminatedList)
				}
				if tok == "}" {
					break
				}
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return fail(fmt.Errorf("%w: %q", ErrBadNumber, tok))
				}
				values = append(values, v)
			}
			if len(values) == 0 {
				return fail(ErrEmptyList)
			}

		default:
			if label != "" {
				return fail(fmt.Errorf("%w: %q then %q", ErrExtraLabel, label, tok))
			}
			label = tok
		}
	}

	if err := spec.register(key, label, values); err != nil {
		return fail(err)
	}
	return nil
}

// parseOverride parses a spin override entry. The opening bracket may be
// attached to the x coordinate or stand alone, and the closing bracket may
// be attached to the z coordinate or stand alone.
func parseOverride(lx *lexer, first string, spec *Spec) error {
	line := lx.line
	fail := func(err error) error {
		return &ParseError{Line: line, Err: fmt.Errorf("%w: %v", ErrBadOverride, err)}
	}

	var s Spin
	var err error

	xTok := strings.TrimPrefix(first, "[")
	if xTok == "" {
		if xTok, err = lx.nextToken(); err != nil {
			return fail(err)
		}
	}
	if s.X, err = parseCoord(xTok); err != nil {
		return fail(err)
	}

	yTok, err := lx.nextToken()
	if err != nil {
		return fail(err)
	}
	if s.Y, err = parseCoord(yTok); err != nil {
		return fail(err)
	}

	zTok, err := lx.nextToken()
	if err != nil {
		return fail(err)
	}
	closed := strings.HasSuffix(zTok, "]")
	if s.Z, err = parseCoord(strings.TrimSuffix(zTok, "]")); err != nil {
		return fail(err)
	}

	tok, err := lx.nextToken()
	if err != nil {
		return fail(err)
	}
	if !closed {
		if tok != "]" {
			return fail(fmt.Errorf("expected ], got %q", tok))
		}
		if tok, err = lx.nextToken(); err != nil {
			return fail(err)
		}
	}
	if tok != "=" {
		return fail(fmt.Errorf("expected =, got %q", tok))
	}

	if s.Norm, err = lx.nextFloat(); err != nil {
		return fail(err)
	}

	spec.Spins = append(spec.Spins, s)
	return nil
}

func parseCoord(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: coordinate %q", ErrBadNumber, tok)
	}
	return n, nil
}

// lexer yields whitespace-delimited tokens while remembering line
// boundaries, so comments can discard the remainder of their line and
// errors can report where an entry started.
type lexer struct {
	lines [][]string
	line  int // 1-based index of the current line
	pos   int // next token within the current line
}

func newLexer(r io.Reader) (*lexer, error) {
	var lines [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.Fields(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading sweep file: %w", err)
	}
	return &lexer{lines: lines, line: 1}, nil
}

// next returns the next token, crossing line boundaries, or false at EOF.
func (lx *lexer) next() (string, bool) {
	for lx.line-1 < len(lx.lines) {
		fields := lx.lines[lx.line-1]
		if lx.pos < len(fields) {
			tok := fields[lx.pos]
			lx.pos++
			return tok, true
		}
		lx.line++
		lx.pos = 0
	}
	return "", false
}

// nextToken is next but with EOF reported as ErrUnexpectedEOF.
func (lx *lexer) nextToken() (string, error) {
	tok, ok := lx.next()
	if !ok {
		return "", ErrUnexpectedEOF
	}
	return tok, nil
}

func (lx *lexer) nextFloat() (float64, error) {
	tok, ok := lx.next()
	if !ok {
		return 0, ErrUnexpectedEOF
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, tok)
	}
	return v, nil
}

// skipLine discards the remaining tokens on the current line.
func (lx *lexer) skipLine() {
	lx.line++
	lx.pos = 0
}
