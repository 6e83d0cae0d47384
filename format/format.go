// Package format parses user output templates such as "VPN is {status}"
// into tokens and renders them.
package format

import (
	"strings"

	"github.com/yllada/vpn-status/common"
	"github.com/yllada/vpn-status/style"
)

// Kind identifies what a token renders.
type Kind int

const (
	Literal Kind = iota
	Status
	IP
	City
	Country
)

// String returns the placeholder keyword, or "literal".
func (k Kind) String() string {
	switch k {
	case Status:
		return "status"
	case IP:
		return "ip"
	case City:
		return "city"
	case Country:
		return "country"
	default:
		return "literal"
	}
}

// Token is one parsed unit of a template. Text is only set for literals.
type Token struct {
	Kind Kind
	Text string
}

// Text returns a literal token.
func Text(s string) Token {
	return Token{Kind: Literal, Text: s}
}

// Lookup holds the already resolved geolocation values.
type Lookup struct {
	IP      string
	City    string
	Country string
}

func kindOf(piece string) Kind {
	switch piece {
	case "status":
		return Status
	case "ip":
		return IP
	case "city":
		return City
	case "country":
		return Country
	default:
		return Literal
	}
}

// Parse splits format on '{' and '}' and classifies every non-empty piece.
// Pieces naming a placeholder become typed tokens, anything else is kept
// as literal text. Braces never appear in the output and parsing never fails.
func Parse(format string) []Token {
	pieces := strings.FieldsFunc(format, func(r rune) bool {
		return r == '{' || r == '}'
	})

	tokens := make([]Token, 0, len(pieces))
	for _, piece := range pieces {
		kind := kindOf(piece)
		if kind == Literal {
			tokens = append(tokens, Text(piece))
			continue
		}
		tokens = append(tokens, Token{Kind: kind})
	}
	common.LogDebug("output_format: %v", tokens)
	return tokens
}

// Render concatenates tokens in order. A nil lookup renders ip, city and
// country as empty strings.
func Render(tokens []Token, status string, lookup *Lookup) string {
	return RenderStyled(tokens, status, lookup, nil)
}

// RenderStyled is Render with every literal decorated by literal.
// Placeholder values are inserted as given; callers style them beforehand.
func RenderStyled(tokens []Token, status string, lookup *Lookup, literal *style.Spec) string {
	if lookup == nil {
		lookup = &Lookup{}
	}

	var b strings.Builder
	for _, tok := range tokens {
		switch tok.Kind {
		case Status:
			b.WriteString(status)
		case IP:
			b.WriteString(lookup.IP)
		case City:
			b.WriteString(lookup.City)
		case Country:
			b.WriteString(lookup.Country)
		default:
			b.WriteString(literal.Apply(tok.Text))
		}
	}
	return b.String()
}
