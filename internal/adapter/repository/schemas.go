package repository

import (
	"fmt"
	"strings"

	"github.com/eslsoft/readvoc/pkg/filterexpr"
)

// textFilterSchema declares the fields a text listing filter may reference.
var textFilterSchema = map[string]filterexpr.Field{
	"title": {
		Kind: filterexpr.KindString,
		Ops:  []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpSW, filterexpr.OpIN},
	},
	"language_id": {
		Kind: filterexpr.KindNumber,
		Ops:  []filterexpr.Op{filterexpr.OpEQ},
	},
	"annotated": {
		Kind: filterexpr.KindBool,
		Ops:  []filterexpr.Op{filterexpr.OpEQ},
	},
	"archived": {
		Kind: filterexpr.KindBool,
		Ops:  []filterexpr.Op{filterexpr.OpEQ},
	},
	"created_at": {
		Kind: filterexpr.KindTimestamp,
		Ops:  []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE},
	},
}

// textFilterColumns maps filter fields to SQL columns.
var textFilterColumns = map[string]string{
	"title":       "title",
	"language_id": "lang_id",
	"annotated":   "annotated",
	"archived":    "archived",
	"created_at":  "created_at",
}

var textOrderSchema = filterexpr.OrderSchema{
	Default:      "created_at",
	DefaultDesc:  true,
	Fallback:     "id",
	FallbackDesc: false,
	Fields: map[string]string{
		"title":      "title",
		"created_at": "created_at",
		"updated_at": "updated_at",
		"id":         "id",
	},
}

// buildWhere renders parsed predicates into a WHERE fragment with args.
func buildWhere(preds []filterexpr.Predicate, columns map[string]string) (string, []any, error) {
	if len(preds) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, p := range preds {
		col, ok := columns[p.Field]
		if !ok {
			return "", nil, fmt.Errorf("no column for field %q", p.Field)
		}
		switch p.Op {
		case filterexpr.OpEQ:
			clauses = append(clauses, col+" = ?")
			args = append(args, p.Value)
		case filterexpr.OpGTE:
			clauses = append(clauses, col+" >= ?")
			args = append(args, p.Value)
		case filterexpr.OpLTE:
			clauses = append(clauses, col+" <= ?")
			args = append(args, p.Value)
		case filterexpr.OpSW:
			s, ok := p.Value.(string)
			if !ok {
				return "", nil, fmt.Errorf("startsWith on %q needs a string", p.Field)
			}
			clauses = append(clauses, col+" LIKE ?")
			args = append(args, s+"%")
		case filterexpr.OpIN:
			values, ok := p.Value.([]string)
			if !ok || len(values) == 0 {
				return "", nil, fmt.Errorf("in on %q needs a non-empty list", p.Field)
			}
			clauses = append(clauses, col+" IN ("+placeholders(len(values))+")")
			for _, v := range values {
				args = append(args, v)
			}
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func buildOrderBy(clauses []filterexpr.OrderClause) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		dir := " ASC"
		if c.Desc {
			dir = " DESC"
		}
		parts = append(parts, c.Expr+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
