package models

type CatalogTable struct {
	Name       string
	Summary    string
	PromptPath string
}

type ExampleQuestion struct {
	Label    string
	Question string
}

// Catalog lists the tables the chatbot may query, with the prompt template describing each one.
type Catalog struct {
	Tables         []CatalogTable
	GuidelinesPath string
	Examples       []ExampleQuestion
}

func (c Catalog) TableNames() []string {
	names := make([]string, len(c.Tables))
	for i, table := range c.Tables {
		names[i] = table.Name
	}
	return names
}

func (c Catalog) FindTable(name string) (CatalogTable, bool) {
	for _, table := range c.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return CatalogTable{}, false
}
