package obfuscator

import (
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type cssToken struct {
	tt   css.TokenType
	text string
}

// MinifyCSS compacts a stylesheet: comments are removed, whitespace runs
// collapse and spaces around punctuation disappear. Strings, urls and the
// space in front of a pseudo-class selector such as ".nav :hover" are kept,
// as are spaces around + so that calc() stays valid.
func MinifyCSS(source string) string {
	tokens := lexCSS(source)

	var out []byte
	for i, tok := range tokens {
		switch tok.tt {
		case css.WhitespaceToken:
			if i == 0 || i == len(tokens)-1 || isTight(tokens[i-1]) || tokens[i-1].tt == css.ColonToken || isTight(tokens[i+1]) {
				continue
			}
			if tokens[i+1].tt == css.ColonToken && inDeclaration(tokens[i+1:]) {
				continue
			}
			out = append(out, ' ')
		case css.SemicolonToken:
			if next := nextSignificant(tokens, i); next >= 0 && tokens[next].tt == css.RightBraceToken {
				continue
			}
			out = append(out, tok.text...)
		default:
			out = append(out, tok.text...)
		}
	}
	return string(out)
}

// lexCSS splits source into tokens without comments, merging the whitespace
// left on both sides of a removed comment
func lexCSS(source string) []cssToken {
	l := css.NewLexer(parse.NewInputString(source))

	var tokens []cssToken
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return tokens
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			if n := len(tokens); n > 0 && tokens[n-1].tt == css.WhitespaceToken {
				continue
			}
		}
		tokens = append(tokens, cssToken{tt: tt, text: string(data)})
	}
}

// isTight reports whether spaces next to tok can be dropped
func isTight(tok cssToken) bool {
	switch tok.tt {
	case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken, css.CommaToken:
		return true
	case css.DelimToken:
		return tok.text == ">" || tok.text == "~"
	}
	return false
}

// inDeclaration reports whether tokens, starting at a colon, belong to a
// declaration rather than a selector: a declaration ends at ; or } before
// any { opens a block
func inDeclaration(tokens []cssToken) bool {
	depth := 0
	for _, tok := range tokens {
		switch tok.tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.LeftBraceToken:
			return false
		case css.SemicolonToken, css.RightBraceToken:
			if depth <= 0 {
				return true
			}
		}
	}
	return false
}

func nextSignificant(tokens []cssToken, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].tt != css.WhitespaceToken {
			return j
		}
	}
	return -1
}
