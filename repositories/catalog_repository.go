package repositories

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/trilytx/trilytx-backend/models"
)

const CATALOG_FILE_NAME = "catalog.yaml"

type catalogFile struct {
	Guidelines string `yaml:"guidelines"`
	Tables     []struct {
		Name    string `yaml:"name"`
		Summary string `yaml:"summary"`
		Prompt  string `yaml:"prompt"`
	} `yaml:"tables"`
	Examples []struct {
		Label    string `yaml:"label"`
		Question string `yaml:"question"`
	} `yaml:"examples"`
}

// CatalogRepository reads the table catalog from the prompts directory. The file is read on every
// call so that prompt edits apply without a restart.
type CatalogRepository struct {
	promptsDir string
}

func NewCatalogRepository(promptsDir string) CatalogRepository {
	return CatalogRepository{promptsDir: promptsDir}
}

func (repo CatalogRepository) PromptsDir() string {
	return repo.promptsDir
}

func (repo CatalogRepository) GetCatalog(ctx context.Context) (models.Catalog, error) {
	path := filepath.Join(repo.promptsDir, CATALOG_FILE_NAME)
	content, err := os.ReadFile(path)
	if err != nil {
		return models.Catalog{}, errors.Wrapf(err, "could not read catalog file %s", path)
	}

	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return models.Catalog{}, errors.Wrapf(err, "could not parse catalog file %s", path)
	}

	catalog := models.Catalog{
		GuidelinesPath: file.Guidelines,
		Tables:         make([]models.CatalogTable, 0, len(file.Tables)),
		Examples:       make([]models.ExampleQuestion, 0, len(file.Examples)),
	}

	seen := make(map[string]bool, len(file.Tables))
	for i, table := range file.Tables {
		if table.Name == "" || table.Prompt == "" {
			return models.Catalog{}, errors.Newf("catalog table #%d must have a name and a prompt", i)
		}
		if seen[table.Name] {
			return models.Catalog{}, errors.Newf("catalog table %s is declared twice", table.Name)
		}
		seen[table.Name] = true
		catalog.Tables = append(catalog.Tables, models.CatalogTable{
			Name:       table.Name,
			Summary:    table.Summary,
			PromptPath: table.Prompt,
		})
	}
	if len(catalog.Tables) == 0 {
		return models.Catalog{}, errors.Newf("catalog file %s declares no table", path)
	}

	for _, example := range file.Examples {
		label := example.Label
		if label == "" {
			label = example.Question
		}
		catalog.Examples = append(catalog.Examples, models.ExampleQuestion{
			Label:    label,
			Question: example.Question,
		})
	}

	return catalog, nil
}
