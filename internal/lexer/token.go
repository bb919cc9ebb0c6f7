package lexer

import (
	"fmt"
	"sort"
	"strconv"
)

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // byte offset into the input
	End      int    // exclusive end offset
}

// Token represents a lexical or structural token.
//
// Literal tokens carry their decoded value in the typed payload matching
// their Type (Int for INT, Float for FLOAT, Bool for BOOL). Identifier text
// lives in Raw. The scanner validates every payload before it hands the token
// out.
type Token struct {
	Type  TokenType
	Raw   string // exact text from source, empty for structural tokens
	Int   int32
	Float float32
	Bool  bool
	Span  Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT TokenType = "IDENT" // foo, x, _tmp
	INT   TokenType = "INT"   // 42, -7
	FLOAT TokenType = "FLOAT" // 1.5, .5, -0.25
	BOOL  TokenType = "BOOL"  // True, False

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA  TokenType = ","
	COLON  TokenType = ":"
	LPAREN TokenType = "("
	RPAREN TokenType = ")"

	// Keywords
	AND    TokenType = "AND"
	BREAK  TokenType = "BREAK"
	DEF    TokenType = "DEF"
	ELIF   TokenType = "ELIF"
	ELSE   TokenType = "ELSE"
	FOR    TokenType = "FOR"
	IF     TokenType = "IF"
	NOT    TokenType = "NOT"
	OR     TokenType = "OR"
	RETURN TokenType = "RETURN"
	WHILE  TokenType = "WHILE"

	// Structural tokens synthesized by Layout
	NEWLINE TokenType = "NEWLINE"
	INDENT  TokenType = "INDENT"
	DEDENT  TokenType = "DEDENT"
)

var keywords = map[string]TokenType{
	"and":    AND,
	"break":  BREAK,
	"def":    DEF,
	"elif":   ELIF,
	"else":   ELSE,
	"for":    FOR,
	"if":     IF,
	"not":    NOT,
	"or":     OR,
	"return": RETURN,
	"while":  WHILE,
}

var booleans = map[string]bool{
	"True":  true,
	"False": false,
}

// operator is one entry of the longest-match operator table.
type operator struct {
	text string
	typ  TokenType
}

// operators is sorted longest text first so the scanner can take the first
// entry that prefixes the remaining input. Built once, never mutated.
var operators = buildOperatorTable(map[string]TokenType{
	"=":  ASSIGN,
	"+":  PLUS,
	"-":  MINUS,
	"*":  ASTERISK,
	"/":  SLASH,
	"==": EQ,
	"!=": NOT_EQ,
	"<":  LT,
	">":  GT,
	"<=": LE,
	">=": GE,
	"(":  LPAREN,
	")":  RPAREN,
	",":  COMMA,
	":":  COLON,
})

func buildOperatorTable(src map[string]TokenType) []operator {
	table := make([]operator, 0, len(src))
	for text, typ := range src {
		table = append(table, operator{text: text, typ: typ})
	}
	sort.Slice(table, func(i, j int) bool {
		if len(table[i].text) != len(table[j].text) {
			return len(table[i].text) > len(table[j].text)
		}
		return table[i].text < table[j].text
	})
	return table
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if _, ok := booleans[ident]; ok {
		return BOOL
	}
	return IDENT
}

// IsKeyword reports whether tt is one of the reserved words.
func (tt TokenType) IsKeyword() bool {
	for _, kw := range keywords {
		if kw == tt {
			return true
		}
	}
	return false
}

// IsStructural reports whether tt is synthesized from layout rather than
// scanned from source text.
func (tt TokenType) IsStructural() bool {
	return tt == NEWLINE || tt == INDENT || tt == DEDENT
}

// Describe returns the wording used for tt in diagnostics.
func (tt TokenType) Describe() string {
	switch tt {
	case EOF:
		return "end of input"
	case IDENT:
		return "identifier"
	case INT:
		return "integer"
	case FLOAT:
		return "float"
	case BOOL:
		return "boolean"
	case NEWLINE:
		return "newline"
	case INDENT:
		return "indent"
	case DEDENT:
		return "dedent"
	case ILLEGAL:
		return "illegal token"
	}
	for text, kw := range keywords {
		if kw == tt {
			return "`" + text + "`"
		}
	}
	return "`" + string(tt) + "`"
}

// Describe returns the wording used for the token in diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case IDENT, INT, FLOAT, BOOL:
		return t.Type.Describe() + " `" + t.Raw + "`"
	}
	return t.Type.Describe()
}

// String renders the token for token dumps.
func (t Token) String() string {
	switch t.Type {
	case IDENT:
		return fmt.Sprintf("%s(%s)", t.Type, t.Raw)
	case INT:
		return fmt.Sprintf("%s(%d)", t.Type, t.Int)
	case FLOAT:
		return fmt.Sprintf("%s(%s)", t.Type, strconv.FormatFloat(float64(t.Float), 'g', -1, 32))
	case BOOL:
		return fmt.Sprintf("%s(%t)", t.Type, t.Bool)
	}
	return string(t.Type)
}
