package models

import (
	"fmt"
	"strings"
	"time"
)

type QueryColumn struct {
	Name string
	Type string
}

type QueryResult struct {
	Columns             []QueryColumn
	Rows                [][]any
	TotalBytesProcessed int64
	DryRun              bool
	// Truncated is set when the query returned more rows than the configured cap
	Truncated bool
}

func (r QueryResult) RowCount() int {
	return len(r.Rows)
}

func (r QueryResult) IsEmpty() bool {
	return len(r.Rows) == 0
}

func (r QueryResult) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, column := range r.Columns {
		names[i] = column.Name
	}
	return names
}

// Head returns a copy of the result restricted to its first n rows.
func (r QueryResult) Head(n int) QueryResult {
	head := r
	if n < len(r.Rows) {
		head.Rows = r.Rows[:max(n, 0)]
	}
	return head
}

// RowSentence renders a row as "col: value. col: value."
func (r QueryResult) RowSentence(row []any) string {
	parts := make([]string, 0, len(row))
	for i, value := range row {
		parts = append(parts, fmt.Sprintf("%s: %s", r.columnName(i), FormatValue(value)))
	}
	return strings.Join(parts, ". ") + "."
}

// RowPreview renders a row as "col: value, col: value"
func (r QueryResult) RowPreview(row []any) string {
	parts := make([]string, 0, len(row))
	for i, value := range row {
		parts = append(parts, fmt.Sprintf("%s: %s", r.columnName(i), FormatValue(value)))
	}
	return strings.Join(parts, ", ")
}

func (r QueryResult) columnName(i int) string {
	if i < len(r.Columns) {
		return r.Columns[i].Name
	}
	return fmt.Sprintf("column_%d", i)
}

// FormatValue renders a normalized warehouse value for prompts and CSV exports.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case float64:
		return fmt.Sprintf("%g", v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

type QueryOptions struct {
	Params         map[string]any
	Labels         map[string]string
	DryRun         bool
	MaxBytesBilled int64
	Timeout        time.Duration
	MaxRows        int
	ToSnakeCase    bool
}
