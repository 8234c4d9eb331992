package sqlparse

// TokenKind enumerates the lexer's token vocabulary (spec §4.3).
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokSelect
	TokFrom
	TokWhere
	TokGroupBy
	TokOrderBy
	TokHaving
	TokAsc
	TokDesc
	TokAnd
	TokOr
	TokNot
	TokIn
	TokIs
	TokNull
	TokBetween
	TokLike
	TokLimit
	TokOffset
	TokIdent
	TokString
	TokNumber
	TokComma
	TokDot
	TokLParen
	TokRParen
	TokStar
	TokOp // =, !=, <, <=, >, >=
)

var keywords = map[string]TokenKind{
	"SELECT":   TokSelect,
	"FROM":     TokFrom,
	"WHERE":    TokWhere,
	"ORDER":    TokOrderBy, // consumed together with BY, see lexer
	"HAVING":   TokHaving,
	"ASC":      TokAsc,
	"DESC":     TokDesc,
	"AND":      TokAnd,
	"OR":       TokOr,
	"NOT":      TokNot,
	"IN":       TokIn,
	"IS":       TokIs,
	"NULL":     TokNull,
	"BETWEEN":  TokBetween,
	"LIKE":     TokLike,
	"LIMIT":    TokLimit,
	"OFFSET":   TokOffset,
	"GROUP":    TokGroupBy, // consumed together with BY
}

// Token is a single lexed token with its position, used for
// cursor-aware completion and precise error reporting (spec §4.3).
type Token struct {
	Kind  TokenKind
	Text  string
	Pos   int
	Num   float64
}

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokSelect:
		return "SELECT"
	case TokFrom:
		return "FROM"
	case TokWhere:
		return "WHERE"
	case TokGroupBy:
		return "GROUP BY"
	case TokOrderBy:
		return "ORDER BY"
	case TokHaving:
		return "HAVING"
	case TokAsc:
		return "ASC"
	case TokDesc:
		return "DESC"
	case TokAnd:
		return "AND"
	case TokOr:
		return "OR"
	case TokNot:
		return "NOT"
	case TokIn:
		return "IN"
	case TokIs:
		return "IS"
	case TokNull:
		return "NULL"
	case TokBetween:
		return "BETWEEN"
	case TokLike:
		return "LIKE"
	case TokLimit:
		return "LIMIT"
	case TokOffset:
		return "OFFSET"
	case TokIdent:
		return "identifier"
	case TokString:
		return "string literal"
	case TokNumber:
		return "number"
	case TokComma:
		return ","
	case TokDot:
		return "."
	case TokLParen:
		return "("
	case TokRParen:
		return ")"
	case TokStar:
		return "*"
	case TokOp:
		return "operator"
	default:
		return "?"
	}
}
