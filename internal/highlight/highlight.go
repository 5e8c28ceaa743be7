// Package highlight colours generated SQL for terminal output.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/schemagen/internal/theme"
)

// Highlighter tokenises SQL text using chroma and renders it with lipgloss
// styles from a theme.
type Highlighter struct {
	lexer chroma.Lexer
}

// New creates a Highlighter for the MySQL dialect, falling back to the
// generic SQL lexer when chroma has no MySQL lexer registered.
func New() *Highlighter {
	l := lexers.Get("MySQL")
	if l == nil {
		l = lexers.Get("SQL")
	}
	if l == nil {
		l = lexers.Fallback
	}
	// Coalesce runs of identical token types so the loop below processes
	// fewer, larger chunks.
	return &Highlighter{lexer: chroma.Coalesce(l)}
}

// Highlight tokenises sql and returns it with each token styled from th.
// Newlines are emitted unstyled so line structure survives. A nil theme or a
// tokeniser error returns sql unchanged.
func (h *Highlighter) Highlight(sql string, th *theme.Theme) string {
	if th == nil {
		return sql
	}

	iter, err := h.lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) * 2)

	for _, tok := range iter.Tokens() {
		if tok.Value == "" {
			continue
		}
		style, ok := styleFor(tok.Type, th)
		if !ok {
			b.WriteString(tok.Value)
			continue
		}
		for i, line := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}

	return b.String()
}

// styleFor maps a chroma token type to a theme style. The second return
// value is false when the token passes through unstyled.
func styleFor(tt chroma.TokenType, th *theme.Theme) (lipgloss.Style, bool) {
	switch {
	// KeywordType is also a keyword, so check it first.
	case tt == chroma.KeywordType:
		return th.SQLType, true
	case tt == chroma.NameFunction || tt == chroma.NameBuiltin:
		return th.SQLFunction, true
	case isKeyword(tt):
		return th.SQLKeyword, true
	case isString(tt):
		return th.SQLString, true
	case isNumber(tt):
		return th.SQLNumber, true
	case isComment(tt):
		return th.SQLComment, true
	case tt == chroma.Operator || tt == chroma.OperatorWord:
		return th.SQLOperator, true
	case tt == chroma.NameVariable || tt == chroma.LiteralStringBacktick:
		return th.SQLIdentifier, true
	default:
		return lipgloss.Style{}, false
	}
}

func isKeyword(tt chroma.TokenType) bool {
	switch tt {
	case chroma.Keyword, chroma.KeywordConstant, chroma.KeywordDeclaration,
		chroma.KeywordNamespace, chroma.KeywordPseudo, chroma.KeywordReserved:
		return true
	}
	return false
}

func isString(tt chroma.TokenType) bool {
	switch tt {
	case chroma.LiteralString, chroma.LiteralStringAffix, chroma.LiteralStringChar,
		chroma.LiteralStringDelimiter, chroma.LiteralStringDouble, chroma.LiteralStringEscape,
		chroma.LiteralStringSingle, chroma.LiteralStringOther:
		return true
	}
	return false
}

func isNumber(tt chroma.TokenType) bool {
	switch tt {
	case chroma.LiteralNumber, chroma.LiteralNumberBin, chroma.LiteralNumberFloat,
		chroma.LiteralNumberHex, chroma.LiteralNumberInteger, chroma.LiteralNumberIntegerLong,
		chroma.LiteralNumberOct:
		return true
	}
	return false
}

func isComment(tt chroma.TokenType) bool {
	switch tt {
	case chroma.Comment, chroma.CommentHashbang, chroma.CommentMultiline,
		chroma.CommentPreproc, chroma.CommentSingle, chroma.CommentSpecial:
		return true
	}
	return false
}
