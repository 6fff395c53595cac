package dto

import (
	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/pure_utils"
)

type CatalogTableDto struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

func AdaptCatalogTableDto(table models.CatalogTable) CatalogTableDto {
	return CatalogTableDto{Name: table.Name, Summary: table.Summary}
}

type ExampleQuestionDto struct {
	Label    string `json:"label"`
	Question string `json:"question"`
}

func AdaptExampleQuestionDto(example models.ExampleQuestion) ExampleQuestionDto {
	return ExampleQuestionDto{Label: example.Label, Question: example.Question}
}

type FieldSchemaDto struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Mode        string `json:"mode"`
	Description string `json:"description"`
}

type TableSchemaDto struct {
	TableId     string           `json:"table_id"`
	Description string           `json:"description"`
	Fields      []FieldSchemaDto `json:"fields"`
}

func AdaptTableSchemaDto(schema models.TableSchema) TableSchemaDto {
	return TableSchemaDto{
		TableId:     schema.TableId,
		Description: schema.Description,
		Fields: pure_utils.Map(schema.Fields, func(f models.FieldSchema) FieldSchemaDto {
			return FieldSchemaDto{Name: f.Name, Type: f.Type, Mode: f.Mode, Description: f.Description}
		}),
	}
}
