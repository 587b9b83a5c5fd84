package filterexpr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ValueKind describes the kind of literal value a field accepts.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindNumber    ValueKind = "number"
	KindBool      ValueKind = "bool"
	KindTimestamp ValueKind = "timestamp"
)

// Op represents a supported comparison operation.
type Op string

const (
	OpEQ  Op = "=="
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// Field whitelists a filterable field: its literal kind and allowed ops.
type Field struct {
	Kind ValueKind
	Ops  []Op
}

func (f Field) allows(op Op) bool {
	for _, allowed := range f.Ops {
		if allowed == op {
			return true
		}
	}
	return false
}

// Predicate is one parsed conjunct of a filter expression. Value is a
// string, float64, bool, []string or time.Time depending on the field kind.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Parse validates a filter expression against the schema and returns its
// conjuncts. Only AND-joined comparisons over whitelisted fields are
// accepted; OR, negation and nested calls are rejected so every filter maps
// onto an indexable query.
func Parse(filter string, schema map[string]Field) ([]Predicate, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}
	if len(schema) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := buildEnv(schema)
	if err != nil {
		return nil, err
	}

	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to convert AST: %w", err)
	}

	conjuncts, err := flattenAnd(parsed.GetExpr())
	if err != nil {
		return nil, err
	}

	predicates := make([]Predicate, 0, len(conjuncts))
	for _, expr := range conjuncts {
		pred, err := parsePredicate(expr)
		if err != nil {
			return nil, err
		}
		rule, ok := schema[pred.Field]
		if !ok {
			return nil, fmt.Errorf("field %q is not allowed", pred.Field)
		}
		if !rule.allows(pred.Op) {
			return nil, fmt.Errorf("operator %q is not allowed for field %q", string(pred.Op), pred.Field)
		}
		if err := checkLiteral(rule.Kind, pred.Op, pred.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", pred.Field, err)
		}
		predicates = append(predicates, pred)
	}
	return predicates, nil
}

func buildEnv(schema map[string]Field) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(schema)+1)
	for name, rule := range schema {
		celType, err := celTypeForKind(rule.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, celType))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func celTypeForKind(kind ValueKind) (*cel.Type, error) {
	switch kind {
	case KindString:
		return cel.StringType, nil
	case KindNumber:
		return cel.DoubleType, nil
	case KindBool:
		return cel.BoolType, nil
	case KindTimestamp:
		return cel.TimestampType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", kind)
	}
}

// flattenAnd collapses nested AND chains into a flat conjunct list.
func flattenAnd(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}
	switch call.Function {
	case "_&&_":
		var result []*exprpb.Expr
		for _, arg := range call.Args {
			inner, err := flattenAnd(arg)
			if err != nil {
				return nil, err
			}
			result = append(result, inner...)
		}
		return result, nil
	case "_||_", "_?_:_", "!_":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

func parsePredicate(expr *exprpb.Expr) (Predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return Predicate{}, errors.New("unsupported expression; expected a comparison")
	}

	switch call.Function {
	case "_==_", "_>=_", "_<=_":
		op := Op(strings.Trim(call.Function, "_"))
		if call.Target != nil || len(call.Args) != 2 {
			return Predicate{}, fmt.Errorf("operator %q expects two operands", string(op))
		}
		return buildPredicate(op, call.Args[0], call.Args[1])
	case "_in_", "@in":
		if call.Target != nil || len(call.Args) != 2 {
			return Predicate{}, errors.New("in operator expects two operands")
		}
		return buildPredicate(OpIN, call.Args[0], call.Args[1])
	case "startsWith":
		if call.Target == nil || len(call.Args) != 1 {
			return Predicate{}, errors.New("startsWith must be called as field.startsWith(value)")
		}
		return buildPredicate(OpSW, call.Target, call.Args[0])
	default:
		return Predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}
}

func buildPredicate(op Op, fieldExpr, valueExpr *exprpb.Expr) (Predicate, error) {
	ident := fieldExpr.GetIdentExpr()
	if ident == nil {
		return Predicate{}, errors.New("left-hand side must be a field identifier")
	}
	value, err := parseLiteral(valueExpr)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

func parseLiteral(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		switch constant.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return constant.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(constant.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(constant.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return constant.GetDoubleValue(), nil
		case *exprpb.Constant_BoolValue:
			return constant.GetBoolValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", constant.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		elements := list.GetElements()
		values := make([]string, len(elements))
		for i, elem := range elements {
			val, err := parseLiteral(elem)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			str, ok := val.(string)
			if !ok {
				return nil, errors.New("list literal elements must be strings")
			}
			values[i] = str
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" {
		if call.Target != nil || len(call.Args) != 1 {
			return nil, errors.New("timestamp() expects a single string argument")
		}
		arg := call.Args[0].GetConstExpr()
		if arg == nil {
			return nil, errors.New("timestamp() argument must be a string literal")
		}
		parsed, err := time.Parse(time.RFC3339, arg.GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("timestamp literal %q is not RFC3339", arg.GetStringValue())
		}
		return parsed, nil
	}

	return nil, errors.New("right-hand side must be a literal, list literal, or timestamp() call")
}

func checkLiteral(kind ValueKind, op Op, value any) error {
	if op == OpIN {
		list, ok := value.([]string)
		if !ok || kind != KindString {
			return errors.New("in requires a list of string literals")
		}
		if len(list) == 0 {
			return errors.New("list literal must not be empty")
		}
		return nil
	}

	switch kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return errors.New("expected string literal")
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return errors.New("expected number literal")
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return errors.New("expected bool literal")
		}
		if op != OpEQ {
			return errors.New("bool fields support == only")
		}
	case KindTimestamp:
		if _, ok := value.(time.Time); !ok {
			return errors.New("expected timestamp() literal")
		}
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}
