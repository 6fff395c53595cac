package pure_utils

import (
	"regexp"
	"strings"
)

var (
	snakeSeparators = regexp.MustCompile(`[\s\-]+`)
	snakeInvalid    = regexp.MustCompile(`[^0-9a-zA-Z_]`)
	snakeCamel      = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToSnakeCase turns a column label such as "Total Revenue" or "unitsSold" into "total_revenue" / "units_sold".
func ToSnakeCase(name string) string {
	name = snakeSeparators.ReplaceAllString(strings.TrimSpace(name), "_")
	name = snakeInvalid.ReplaceAllString(name, "")
	name = snakeCamel.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(name)
}
