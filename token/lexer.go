package token

import (
	"strings"

	"github.com/lookbusy1344/gpusim/ast"
)

// Lexer converts one source line into a sequence of positioned tokens.
// Whitespace separates tokens; ',', '(', ')' are single-character tokens;
// ';' begins a comment running to end of line.
type Lexer struct {
	line   []byte
	lineNo int
	pos    int // byte offset into line
	errs   []*LexError
}

// NewLexer creates a lexer over one source line. lineNo (1-based) is stored
// in the Line field of every Position the lexer produces.
func NewLexer(line string, lineNo int) *Lexer {
	return &Lexer{line: []byte(line), lineNo: lineNo}
}

// Errors returns the lexical errors accumulated so far.
func (l *Lexer) Errors() []*LexError { return l.errs }

func (l *Lexer) col() int { return l.pos + 1 }

func (l *Lexer) posAt(col int) Position { return Position{Line: l.lineNo, Column: col} }

func (l *Lexer) addError(pos Position, msg string) {
	l.errs = append(l.errs, &LexError{Pos: pos, Message: msg})
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// TokenizeAll lexes the entire line, returning every token followed by a
// final EOF token. Lexical errors are collected in Errors() rather than
// aborting the scan.
func (l *Lexer) TokenizeAll() []Token {
	var toks []Token
	for {
		tok, ok := l.NextToken()
		if !ok {
			toks = append(toks, Token{Kind: EOF, Pos: l.posAt(l.col())})
			return toks
		}
		toks = append(toks, tok)
	}
}

// NextToken returns the next token, or ok=false at end of line (including
// after a ';' comment, which runs to end of line).
func (l *Lexer) NextToken() (Token, bool) {
	for l.pos < len(l.line) && isSpace(l.line[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.line) || l.line[l.pos] == ';' {
		return Token{}, false
	}

	startCol := l.col()
	pos := l.posAt(startCol)
	ch := l.line[l.pos]

	switch ch {
	case ',':
		l.pos++
		return Token{Kind: Comma, Pos: pos}, true
	case '(':
		l.pos++
		return Token{Kind: LParen, Pos: pos}, true
	case ')':
		l.pos++
		return Token{Kind: RParen, Pos: pos}, true
	case '.':
		return l.lexDirective(pos), true
	}

	if ch == '-' || isDigit(ch) {
		return l.lexImmediate(pos), true
	}

	if isIdentStart(ch) {
		return l.lexIdentLike(pos), true
	}

	l.addError(pos, "unexpected character '"+string(ch)+"'")
	l.pos++
	return l.NextToken()
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for l.pos < len(l.line) && isIdentChar(l.line[l.pos]) {
		l.pos++
	}
	return string(l.line[start:l.pos])
}

func (l *Lexer) lexDirective(pos Position) Token {
	start := l.pos
	l.pos++ // consume '.'
	for l.pos < len(l.line) && isIdentChar(l.line[l.pos]) {
		l.pos++
	}
	text := strings.ToLower(string(l.line[start:l.pos]))
	switch text {
	case ".blocks":
		return Token{Kind: BlocksDirective, Pos: pos}
	case ".warps":
		return Token{Kind: WarpsDirective, Pos: pos}
	default:
		l.addError(pos, "unknown directive "+text)
		return Token{Kind: EOF, Pos: pos}
	}
}

func (l *Lexer) lexImmediate(pos Position) Token {
	remaining := l.line[l.pos:]
	before := len(remaining)
	val, err := ParseNumber(&remaining, pos)
	consumed := before - len(remaining)
	l.pos += consumed
	if err != nil {
		l.addError(pos, err.Error())
		// Ensure forward progress even on a malformed literal.
		if consumed == 0 {
			l.pos++
		}
		return Token{Kind: EOF, Pos: pos}
	}
	return Token{Kind: Immediate, Pos: pos, Value: val}
}

func (l *Lexer) lexIdentLike(pos Position) Token {
	text := l.readIdent()

	// ':' immediately following an identifier makes it a label definition,
	// regardless of what the identifier would otherwise classify as.
	if l.pos < len(l.line) && l.line[l.pos] == ':' {
		l.pos++
		return Token{Kind: LabelDef, Pos: pos, Label: text}
	}

	if kind, digits, matched := registerPrefix(text); matched {
		num := 0
		for i := 0; i < len(digits); i++ {
			num = num*10 + int(digits[i]-'0')
		}
		reg, err := ast.NewRegister(kind, int32(num))
		if err != nil {
			l.addError(pos, err.Error())
			return Token{Kind: EOF, Pos: pos}
		}
		return Token{Kind: RegisterTok, Pos: pos, Register: reg}
	}
	if strings.ToLower(text) == "pc" {
		reg, _ := ast.NewRegister(ast.PC, 0)
		return Token{Kind: RegisterTok, Pos: pos, Register: reg}
	}

	if m, ok := ast.LookupMnemonic(text); ok {
		return Token{Kind: Mnemonic, Pos: pos, MnemonicName: m, IsScalar: false}
	}

	return Token{Kind: LabelRef, Pos: pos, Label: text}
}

// registerPrefix recognizes "x<digits>" / "s<digits>" (case-insensitive)
// and reports the implied kind and the digit run. "pc" is handled
// separately since it has no trailing digits.
func registerPrefix(text string) (kind ast.RegisterKind, digits string, matched bool) {
	if len(text) < 2 {
		return 0, "", false
	}
	lower := strings.ToLower(text)
	switch lower[0] {
	case 'x':
		kind = ast.Vector
	case 's':
		kind = ast.Scalar
	default:
		return 0, "", false
	}
	rest := lower[1:]
	for i := 0; i < len(rest); i++ {
		if !isDigit(rest[i]) {
			return 0, "", false
		}
	}
	return kind, rest, true
}
