package pipeline

import (
	"context"
	"strings"

	"sparql-flatten/internal/sparql"
)

// transform decodes the result set and flattens every binding.
func (r *Runner) transform(ctx context.Context, data []byte) ([]sparql.FlatRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rs, err := sparql.Decode(data)
	if err != nil {
		return nil, err
	}
	records, err := sparql.Flatten(rs)
	if err != nil {
		return nil, err
	}

	values := 0
	for _, rec := range records {
		values += rec.Len()
	}
	if len(rs.Vars) > 0 {
		r.logger().Printf("🔄 Flattened %d bindings, %d values (vars: %s)", len(records), values, strings.Join(rs.Vars, ", "))
	} else {
		r.logger().Printf("🔄 Flattened %d bindings, %d values", len(records), values)
	}
	return records, nil
}
