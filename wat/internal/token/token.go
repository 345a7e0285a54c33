package token

type Type int

const (
	LParen Type = iota
	RParen
	Ident
	String
	Number
	Illegal
)

func (t Type) String() string {
	switch t {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	case Illegal:
		return "illegal character"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Line  int
}

// Tokenize splits WAT source into tokens. Comments and whitespace are
// dropped. Characters that cannot start a token become Illegal tokens so the
// parser can report them with a line number.
func Tokenize(input string) []Token {
	var tokens []Token
	line := 1

	for i := 0; i < len(input); i++ {
		c := input[i]

		switch {
		case c == '\n':
			line++

		case c == ' ' || c == '\t' || c == '\r':

		// Line comment
		case c == ';' && i+1 < len(input) && input[i+1] == ';':
			for i < len(input) && input[i] != '\n' {
				i++
			}
			i--

		// Block comment, possibly nested
		case c == '(' && i+1 < len(input) && input[i+1] == ';':
			depth := 1
			i += 2
			for i < len(input) && depth > 0 {
				switch {
				case input[i] == '(' && i+1 < len(input) && input[i+1] == ';':
					depth++
					i++
				case input[i] == ';' && i+1 < len(input) && input[i+1] == ')':
					depth--
					i++
				case input[i] == '\n':
					line++
				}
				i++
			}
			i--

		case c == '(':
			tokens = append(tokens, Token{"(", LParen, line})

		case c == ')':
			tokens = append(tokens, Token{")", RParen, line})

		case c == '"':
			start := i + 1
			i++
			for i < len(input) && input[i] != '"' {
				if input[i] == '\\' {
					i++
				}
				i++
			}
			end := min(i, len(input))
			tokens = append(tokens, Token{input[start:end], String, line})

		case c == '-' || c == '+' || isDigit(c):
			start := i
			i++
			for i < len(input) && isNumChar(input[i]) {
				i++
			}
			tokens = append(tokens, Token{input[start:i], Number, line})
			i--

		case c == '$' || isLetter(c) || c == '_' || c == '.':
			start := i
			for i < len(input) && isIdentChar(input[i]) {
				i++
			}
			tokens = append(tokens, Token{input[start:i], Ident, line})
			i--

		default:
			tokens = append(tokens, Token{string(c), Illegal, line})
		}
	}

	return tokens
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isNumChar covers decimal and hex digits, the hex prefix, underscores,
// fraction points and exponents.
func isNumChar(c byte) bool {
	return isDigit(c) || isLetter(c) || c == '_' || c == '.' || c == '+' || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '.' || c == '$' || c == '-' || c == ':' || c == '='
}
