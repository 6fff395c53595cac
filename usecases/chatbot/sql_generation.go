package chatbot

import (
	"context"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-set/v2"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/utils"
)

var (
	prefixedTableNamePattern = regexp.MustCompile(`\b[a-z0-9_]*fct_[a-z0-9_]+\b`)
	tableNamePattern         = regexp.MustCompile(`\bfct_[a-z0-9_]+\b`)
	languageTagPattern       = regexp.MustCompile(`^[A-Za-z]+$`)
)

type GeneratedSql struct {
	Sql            string
	SelectedTables []string
}

// ExtractTableNames returns the catalog tables mentioned in text, in catalog order.
func ExtractTableNames(text string, catalog models.Catalog) []string {
	candidates := set.From(prefixedTableNamePattern.FindAllString(text, -1))
	candidates.InsertSlice(tableNamePattern.FindAllString(text, -1))

	seen := set.New[string](len(catalog.Tables))
	names := make([]string, 0, len(catalog.Tables))
	for _, name := range catalog.TableNames() {
		if candidates.Contains(name) && seen.Insert(name) {
			names = append(names, name)
		}
	}
	return names
}

// StripSqlFences extracts the query from a markdown answer. The block following the last "```sql"
// marker wins, then the last generic fenced block.
func StripSqlFences(text string) string {
	sql := strings.TrimSpace(text)

	if idx := strings.LastIndex(sql, "```sql"); idx >= 0 {
		block := sql[idx+len("```sql"):]
		block, _, _ = strings.Cut(block, "```")
		return strings.TrimSpace(block)
	}

	parts := strings.Split(sql, "```")
	switch {
	case len(parts) == 1:
		return sql
	case len(parts) == 2:
		sql = parts[1]
	default:
		sql = parts[len(parts)-2]
		if len(parts)%2 == 0 {
			// unbalanced fences, the trailing one is left open
			sql = parts[len(parts)-1]
		}
	}

	sql = strings.TrimSpace(sql)
	if firstLine, rest, found := strings.Cut(sql, "\n"); found && languageTagPattern.MatchString(firstLine) {
		switch strings.ToUpper(firstLine) {
		case "SELECT", "WITH":
		default:
			sql = rest
		}
	}
	return strings.TrimSpace(sql)
}

func (uc *ChatbotUsecase) selectTables(ctx context.Context, requestText string, catalog models.Catalog) ([]string, error) {
	ctx, span := utils.OpenTelemetryTracerFromContext(ctx).Start(ctx, "chatbot.select_tables")
	defer span.End()

	model, prompt, err := uc.prompts.preparePromptWithModel(PROMPT_TABLE_SELECTION_PATH, map[string]any{
		"question": requestText,
		"dialect":  uc.config.Dialect,
		"tables":   catalog.Tables,
	})
	if err != nil {
		return nil, err
	}

	answer, err := uc.llm.SelectTables(ctx, models.LlmRequest{Model: model, Prompt: prompt})
	if err != nil {
		return nil, errors.Wrap(err, "table selection failed")
	}

	selected := ExtractTableNames(strings.Join(answer, ", "), catalog)
	if len(selected) == 0 {
		utils.LoggerFromContext(ctx).DebugContext(ctx, "table selection matched no catalog table, using all tables",
			"answer", answer)
		return catalog.TableNames(), nil
	}
	return selected, nil
}

func (uc *ChatbotUsecase) generateSql(ctx context.Context, requestText string) (GeneratedSql, error) {
	catalog, err := uc.catalog.GetCatalog(ctx)
	if err != nil {
		return GeneratedSql{}, err
	}

	selected, err := uc.selectTables(ctx, requestText, catalog)
	if err != nil {
		return GeneratedSql{}, err
	}

	ctx, span := utils.OpenTelemetryTracerFromContext(ctx).Start(ctx, "chatbot.generate_sql")
	defer span.End()

	tablePrompts := make([]string, 0, len(selected))
	for _, name := range selected {
		table, _ := catalog.FindTable(name)
		tablePrompt, err := uc.prompts.preparePrompt(table.PromptPath, map[string]any{
			"table": uc.warehouse.QualifiedTableName(table.Name),
		})
		if err != nil {
			return GeneratedSql{}, err
		}
		tablePrompts = append(tablePrompts, tablePrompt)
	}

	guidelines := ""
	if catalog.GuidelinesPath != "" {
		guidelines, err = uc.prompts.preparePrompt(catalog.GuidelinesPath, map[string]any{})
		if err != nil {
			return GeneratedSql{}, err
		}
	}

	model, prompt, err := uc.prompts.preparePromptWithModel(PROMPT_SQL_GENERATION_PATH, map[string]any{
		"dialect":       uc.config.Dialect,
		"guidelines":    guidelines,
		"table_prompts": tablePrompts,
		"question":      requestText,
	})
	if err != nil {
		return GeneratedSql{}, err
	}

	answer, err := uc.llm.Generate(ctx, models.LlmRequest{Model: model, Prompt: prompt})
	if err != nil {
		return GeneratedSql{}, errors.Wrap(err, "SQL generation failed")
	}

	return GeneratedSql{Sql: StripSqlFences(answer), SelectedTables: selected}, nil
}
