package chatbot

import (
	"regexp"
	"strings"
)

var (
	readStatementStart   = regexp.MustCompile(`^(SELECT|WITH)\b`)
	forbiddenSqlKeywords = regexp.MustCompile(`\b(INSERT|UPDATE|DELETE|MERGE|DROP|CREATE|ALTER|TRUNCATE|GRANT|REVOKE|CALL|EXECUTE|EXPORT|LOAD|DECLARE|SET|BEGIN|COMMIT|ROLLBACK|ATTACH|DETACH|COPY|INSTALL|PRAGMA)\b`)
	dollarQuoteTag       = regexp.MustCompile(`^\$[A-Za-z_]*\$`)
)

// sqlLexRules describes how a dialect delimits comments and literals.
// Any rule a dialect does not have must stay off: a literal that the guard
// reads as longer than the engine does would hide statements from it.
type sqlLexRules struct {
	hashComments bool
	// backtick quoted identifiers
	backticks bool
	// backslash escapes in every literal unless r-prefixed
	backslashEscapes bool
	tripleQuotes     bool
	// backslash escapes only in E'' literals
	escapeStrings bool
	dollarQuotes  bool
}

var (
	bigQueryLexRules = sqlLexRules{hashComments: true, backticks: true, backslashEscapes: true, tripleQuotes: true}
	duckDbLexRules   = sqlLexRules{escapeStrings: true, dollarQuotes: true}
)

func lexRulesFor(dialect string) sqlLexRules {
	if strings.EqualFold(dialect, "DuckDB") {
		return duckDbLexRules
	}
	return bigQueryLexRules
}

// IsSafeSql accepts a single read-only SELECT (or WITH ... SELECT) statement written for dialect.
// Keywords inside comments, string literals and quoted identifiers are ignored.
func IsSafeSql(sql, dialect string) bool {
	cleaned, ok := lexRulesFor(dialect).stripCommentsAndLiterals(sql)
	if !ok {
		return false
	}

	statement := strings.TrimSpace(cleaned)
	statement = strings.TrimSpace(strings.TrimSuffix(statement, ";"))
	if statement == "" || strings.Contains(statement, ";") {
		return false
	}

	upper := strings.ToUpper(statement)
	head := strings.TrimLeft(upper, "( \t\r\n")
	if !readStatementStart.MatchString(head) {
		return false
	}

	return !forbiddenSqlKeywords.MatchString(upper)
}

// stripCommentsAndLiterals blanks out comments, replaces string literals with '' and quoted
// identifiers with a placeholder. It reports false on unterminated literals or comments.
func (rules sqlLexRules) stripCommentsAndLiterals(sql string) (string, bool) {
	var out strings.Builder
	out.Grow(len(sql))

	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-', c == '#' && rules.hashComments:
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				return out.String(), true
			}
			out.WriteByte(' ')
			i += end
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				return "", false
			}
			out.WriteByte(' ')
			i += end + 4
		case c == '$' && rules.dollarQuotes && dollarQuoteTag.MatchString(sql[i:]) && !isIdentByte(sql, i-1):
			tag := dollarQuoteTag.FindString(sql[i:])
			end := strings.Index(sql[i+len(tag):], tag)
			if end < 0 {
				return "", false
			}
			out.WriteString("''")
			i += len(tag) + end + len(tag)
		case c == '`' && rules.backticks:
			end, ok := rules.literalEnd(sql, i, false)
			if !ok {
				return "", false
			}
			out.WriteString(" quoted_identifier ")
			i = end
		case c == '\'' || c == '"':
			end, ok := rules.literalEnd(sql, i, rules.backslashesApply(literalPrefix(sql, i)))
			if !ok {
				return "", false
			}
			out.WriteString("''")
			i = end
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), true
}

func (rules sqlLexRules) backslashesApply(prefix string) bool {
	prefix = strings.ToLower(prefix)
	switch {
	case rules.backslashEscapes:
		return !strings.Contains(prefix, "r")
	case rules.escapeStrings:
		return prefix == "e"
	}
	return false
}

func isIdentByte(sql string, i int) bool {
	if i < 0 || i >= len(sql) {
		return false
	}
	c := sql[i]
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// literalPrefix returns the identifier characters glued to the quote at start, like the r of r'...'.
func literalPrefix(sql string, start int) string {
	i := start
	for isIdentByte(sql, i-1) {
		i--
	}
	return sql[i:start]
}

// literalEnd returns the index right after the literal starting at start.
// Handles triple quoted strings, backslash escapes and doubled quotes.
func (rules sqlLexRules) literalEnd(sql string, start int, backslashes bool) (int, bool) {
	quote := sql[start]
	delimiter := strings.Repeat(string(quote), 3)
	if rules.tripleQuotes && quote != '`' && strings.HasPrefix(sql[start:], delimiter) {
		for i := start + 3; i < len(sql); i++ {
			if backslashes && sql[i] == '\\' {
				i++
				continue
			}
			if strings.HasPrefix(sql[i:], delimiter) {
				return i + 3, true
			}
		}
		return 0, false
	}

	for i := start + 1; i < len(sql); i++ {
		switch sql[i] {
		case '\\':
			if backslashes {
				i++
			}
		case quote:
			if i+1 < len(sql) && sql[i+1] == quote {
				i++
				continue
			}
			return i + 1, true
		}
	}
	return 0, false
}
