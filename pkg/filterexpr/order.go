package filterexpr

import (
	"fmt"
	"strings"
)

// OrderClause is one resolved ordering key with its SQL expression.
type OrderClause struct {
	Expr string
	Desc bool
}

// OrderSchema whitelists order keys and fixes the defaults. Fallback is
// appended whenever the caller's ordering would leave ties unresolved.
type OrderSchema struct {
	Default      string
	DefaultDesc  bool
	Fallback     string
	FallbackDesc bool
	Fields       map[string]string // order key -> SQL expression
}

// ParseOrderBy resolves a raw "key [asc|desc], key2 ..." input against the
// schema into SQL-ready clauses. An empty input yields the defaults; the
// fallback key is always appended last so ordering stays deterministic.
func ParseOrderBy(raw string, schema OrderSchema) ([]OrderClause, error) {
	if schema.Default == "" || schema.Fallback == "" {
		return nil, fmt.Errorf("order schema requires default and fallback keys")
	}
	if _, ok := schema.Fields[schema.Default]; !ok {
		return nil, fmt.Errorf("order key %q missing from schema fields", schema.Default)
	}
	if _, ok := schema.Fields[schema.Fallback]; !ok {
		return nil, fmt.Errorf("fallback order key %q missing from schema fields", schema.Fallback)
	}

	type keyDir struct {
		key  string
		desc bool
	}
	var keys []keyDir

	raw = strings.TrimSpace(raw)
	if raw == "" {
		keys = append(keys, keyDir{schema.Default, schema.DefaultDesc})
	} else {
		seen := make(map[string]struct{})
		for _, segment := range strings.Split(raw, ",") {
			parts := strings.Fields(segment)
			if len(parts) == 0 {
				continue
			}
			key := parts[0]
			if _, ok := schema.Fields[key]; !ok {
				return nil, fmt.Errorf("field %q cannot be used for ordering", key)
			}
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("duplicate order key %q", key)
			}
			seen[key] = struct{}{}

			desc := false
			switch len(parts) {
			case 1:
			case 2:
				switch strings.ToLower(parts[1]) {
				case "asc":
				case "desc":
					desc = true
				default:
					return nil, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
				}
			default:
				return nil, fmt.Errorf("invalid order segment %q", segment)
			}
			keys = append(keys, keyDir{key, desc})
		}
		if len(keys) == 0 {
			keys = append(keys, keyDir{schema.Default, schema.DefaultDesc})
		}
	}

	hasFallback := false
	for _, k := range keys {
		if k.key == schema.Fallback {
			hasFallback = true
			break
		}
	}
	if !hasFallback {
		keys = append(keys, keyDir{schema.Fallback, schema.FallbackDesc})
	}

	clauses := make([]OrderClause, 0, len(keys))
	for _, k := range keys {
		clauses = append(clauses, OrderClause{Expr: schema.Fields[k.key], Desc: k.desc})
	}
	return clauses, nil
}
