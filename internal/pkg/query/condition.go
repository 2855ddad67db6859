package query

import "fmt"

// Condition represents a WHERE clause condition.
// Implementations generate SQL fragments and parameter maps using Spanner's
// named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// comparison implements field <op> value.
type comparison struct {
	field string
	op    string
	value interface{}
}

func (c *comparison) SQL(paramIndex int) (string, map[string]interface{}) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, name), map[string]interface{}{name: c.value}
}

// Eq creates an equality condition: Eq("reason", "recalculation") generates "reason = @p0".
func Eq(field string, value interface{}) Condition {
	return &comparison{field: field, op: "=", value: value}
}

// Lt creates field < value.
func Lt(field string, value interface{}) Condition {
	return &comparison{field: field, op: "<", value: value}
}

// Gte creates field >= value.
func Gte(field string, value interface{}) Condition {
	return &comparison{field: field, op: ">=", value: value}
}
