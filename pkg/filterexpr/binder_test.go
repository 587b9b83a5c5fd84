package filterexpr

import (
	"testing"
	"time"
)

var textSchema = map[string]Field{
	"title":       {Kind: KindString, Ops: []Op{OpEQ, OpSW, OpIN}},
	"language_id": {Kind: KindNumber, Ops: []Op{OpEQ}},
	"annotated":   {Kind: KindBool, Ops: []Op{OpEQ}},
	"created_at":  {Kind: KindTimestamp, Ops: []Op{OpGTE, OpLTE}},
}

func TestParseEmptyFilter(t *testing.T) {
	preds, err := Parse("", textSchema)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if preds != nil {
		t.Fatalf("expected no predicates, got %+v", preds)
	}
}

func TestParseConjunction(t *testing.T) {
	preds, err := Parse(`title.startsWith("Der") && language_id == 3 && annotated == true`, textSchema)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("expected 3 predicates, got %d: %+v", len(preds), preds)
	}
	if preds[0].Field != "title" || preds[0].Op != OpSW || preds[0].Value != "Der" {
		t.Errorf("unexpected first predicate: %+v", preds[0])
	}
	if preds[1].Field != "language_id" || preds[1].Op != OpEQ || preds[1].Value != float64(3) {
		t.Errorf("unexpected second predicate: %+v", preds[1])
	}
	if preds[2].Field != "annotated" || preds[2].Value != true {
		t.Errorf("unexpected third predicate: %+v", preds[2])
	}
}

func TestParseInList(t *testing.T) {
	preds, err := Parse(`title in ["Faust", "Die Verwandlung"]`, textSchema)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(preds) != 1 || preds[0].Op != OpIN {
		t.Fatalf("expected one in-predicate, got %+v", preds)
	}
	list, ok := preds[0].Value.([]string)
	if !ok || len(list) != 2 || list[0] != "Faust" {
		t.Fatalf("unexpected list value: %#v", preds[0].Value)
	}
}

func TestParseTimestamp(t *testing.T) {
	preds, err := Parse(`created_at >= timestamp("2024-01-01T00:00:00Z")`, textSchema)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got, ok := preds[0].Value.(time.Time)
	if !ok || !got.Equal(want) {
		t.Fatalf("unexpected timestamp value: %#v", preds[0].Value)
	}
}

func TestParseRejections(t *testing.T) {
	cases := []struct {
		name   string
		filter string
	}{
		{"disallowed field", `secret == "x"`},
		{"disallowed op", `language_id >= 3`},
		{"or", `language_id == 3 || annotated == true`},
		{"kind mismatch", `language_id == "three"`},
		{"bool inequality", `annotated >= true`},
		{"empty list", `title in []`},
		{"unparseable", `title ==`},
	}
	for _, c := range cases {
		if _, err := Parse(c.filter, textSchema); err == nil {
			t.Errorf("%s: expected error for %q", c.name, c.filter)
		}
	}
}

func TestParseOrderByDefaults(t *testing.T) {
	schema := OrderSchema{
		Default:     "created_at",
		DefaultDesc: true,
		Fallback:    "id",
		Fields:      map[string]string{"created_at": "t.created_at", "id": "t.id", "title": "t.title"},
	}

	clauses, err := ParseOrderBy("", schema)
	if err != nil {
		t.Fatalf("ParseOrderBy returned error: %v", err)
	}
	if len(clauses) != 2 {
		t.Fatalf("expected default + fallback, got %+v", clauses)
	}
	if clauses[0].Expr != "t.created_at" || !clauses[0].Desc {
		t.Errorf("unexpected default clause: %+v", clauses[0])
	}
	if clauses[1].Expr != "t.id" || clauses[1].Desc {
		t.Errorf("unexpected fallback clause: %+v", clauses[1])
	}
}

func TestParseOrderByExplicit(t *testing.T) {
	schema := OrderSchema{
		Default:  "id",
		Fallback: "id",
		Fields:   map[string]string{"id": "t.id", "title": "t.title"},
	}

	clauses, err := ParseOrderBy("title desc", schema)
	if err != nil {
		t.Fatalf("ParseOrderBy returned error: %v", err)
	}
	if len(clauses) != 2 || clauses[0].Expr != "t.title" || !clauses[0].Desc {
		t.Fatalf("unexpected clauses: %+v", clauses)
	}

	if _, err := ParseOrderBy("nope", schema); err == nil {
		t.Error("expected error for unknown order key")
	}
	if _, err := ParseOrderBy("title sideways", schema); err == nil {
		t.Error("expected error for invalid direction")
	}
	if _, err := ParseOrderBy("title, title", schema); err == nil {
		t.Error("expected error for duplicate keys")
	}
}
