package pure_utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedup(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, Dedup([]int{3, 1, 3, 2, 1}))
	assert.Equal(t, []string{"fct_store_sales"}, Dedup([]string{"fct_store_sales", "fct_store_sales"}))
	assert.Empty(t, Dedup[string](nil))
}
