package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableRef(t *testing.T) {
	ref, err := ParseTableRef("my-project.retail.fct_store_sales")
	require.NoError(t, err)
	assert.Equal(t, TableRef{Project: "my-project", Dataset: "retail", Table: "fct_store_sales"}, ref)
	assert.Equal(t, "my-project.retail.fct_store_sales", ref.String())

	ref, err = ParseTableRef("`retail.fct_inventory_daily`")
	require.NoError(t, err)
	assert.Equal(t, TableRef{Dataset: "retail", Table: "fct_inventory_daily"}, ref)
	assert.Equal(t, "retail.fct_inventory_daily", ref.String())

	for _, invalid := range []string{"fct_store_sales", "a.b.c.d", "retail.", ""} {
		_, err := ParseTableRef(invalid)
		assert.ErrorIs(t, err, BadParameterError, invalid)
	}
}
