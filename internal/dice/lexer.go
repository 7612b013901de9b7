package dice

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokDice
	tokRef
	tokFlavor
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokIdent
)

// token is one lexeme with its byte offsets in the source formula
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
	num   float64
	dice  *diceSpec
}

// diceSpec is the parsed form of a dice lexeme such as 2d6r<=2
type diceSpec struct {
	count    int
	hasCount bool // false for "d20" and for "(expr)d6"
	suffix   bool // count comes from the preceding parenthesized group
	faces    int
	mods     string
}

func (d *diceSpec) format() string {
	var b strings.Builder
	if d.hasCount && !d.suffix {
		b.WriteString(strconv.Itoa(d.count))
	}
	b.WriteString("d")
	b.WriteString(strconv.Itoa(d.faces))
	b.WriteString(d.mods)
	return b.String()
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' }

func isModChar(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || c == '<' || c == '>' || c == '='
}

func isRefChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '.' || c == '-'
}

// lex splits a formula into tokens
func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++

		case isDigit(c) || c == '.':
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			text := src[start:i]
			if i < len(src) && src[i] == 'd' && i+1 < len(src) && (isDigit(src[i+1]) || src[i+1] == '%') {
				count, err := strconv.Atoi(text)
				if err != nil {
					return nil, fmt.Errorf("invalid dice count %q", text)
				}
				spec, end, err := lexDiceBody(src, i)
				if err != nil {
					return nil, err
				}
				spec.count = count
				spec.hasCount = true
				tokens = append(tokens, token{kind: tokDice, text: src[start:end], start: start, end: end, dice: spec})
				i = end
				continue
			}
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, start: start, end: i, num: n})

		case c == 'd' && i+1 < len(src) && (isDigit(src[i+1]) || src[i+1] == '%'):
			spec, end, err := lexDiceBody(src, i)
			if err != nil {
				return nil, err
			}
			if len(tokens) > 0 && tokens[len(tokens)-1].kind == tokRParen {
				spec.suffix = true
			} else {
				spec.count = 1
			}
			tokens = append(tokens, token{kind: tokDice, text: src[i:end], start: i, end: end, dice: spec})
			i = end

		case isLetter(c):
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[start:i], start: start, end: i})

		case c == '@':
			start := i
			i++
			for i < len(src) && isRefChar(src[i]) {
				i++
			}
			if i == start+1 {
				return nil, fmt.Errorf("empty reference at %d", start)
			}
			tokens = append(tokens, token{kind: tokRef, text: src[start+1 : i], start: start, end: i})

		case c == '[':
			end := strings.IndexByte(src[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated flavor text at %d", i)
			}
			tokens = append(tokens, token{kind: tokFlavor, text: src[i+1 : i+end], start: i, end: i + end + 1})
			i += end + 1

		case strings.IndexByte("+-*/%", c) >= 0:
			tokens = append(tokens, token{kind: tokOp, text: string(c), start: i, end: i + 1})
			i++

		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", start: i, end: i + 1})
			i++

		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", start: i, end: i + 1})
			i++

		case c == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", start: i, end: i + 1})
			i++

		default:
			return nil, fmt.Errorf("unexpected character %q at %d", c, i)
		}
	}
	return tokens, nil
}

// lexDiceBody reads "d<faces><mods>" starting at the 'd'
func lexDiceBody(src string, i int) (*diceSpec, int, error) {
	i++ // skip 'd'
	spec := &diceSpec{}
	if src[i] == '%' {
		spec.faces = 100
		i++
	} else {
		start := i
		for i < len(src) && isDigit(src[i]) {
			i++
		}
		faces, err := strconv.Atoi(src[start:i])
		if err != nil || faces < 1 {
			return nil, 0, fmt.Errorf("invalid dice faces %q", src[start:i])
		}
		spec.faces = faces
	}

	start := i
	for i < len(src) && isModChar(src[i]) {
		i++
	}
	spec.mods = src[start:i]
	if spec.mods != "" && !validMods(spec.mods) {
		return nil, 0, fmt.Errorf("invalid dice modifiers %q", spec.mods)
	}
	return spec, i, nil
}
