package models

import (
	"strings"

	"github.com/cockroachdb/errors"
)

type TableRef struct {
	Project string
	Dataset string
	Table   string
}

// ParseTableRef accepts "dataset.table" or "project.dataset.table". Surrounding backticks are ignored.
func ParseTableRef(ref string) (TableRef, error) {
	parts := strings.Split(strings.Trim(ref, "` "), ".")
	for _, part := range parts {
		if part == "" {
			return TableRef{}, errors.Wrapf(ErrInvalidTableRef, "got '%s'", ref)
		}
	}

	switch len(parts) {
	case 3:
		return TableRef{Project: parts[0], Dataset: parts[1], Table: parts[2]}, nil
	case 2:
		return TableRef{Dataset: parts[0], Table: parts[1]}, nil
	default:
		return TableRef{}, errors.Wrapf(ErrInvalidTableRef, "got '%s'", ref)
	}
}

func (t TableRef) String() string {
	if t.Project == "" {
		return t.Dataset + "." + t.Table
	}
	return t.Project + "." + t.Dataset + "." + t.Table
}

type FieldSchema struct {
	Name        string
	Type        string
	Mode        string
	Description string
}

type TableSchema struct {
	TableId     string
	Description string
	Fields      []FieldSchema
}
