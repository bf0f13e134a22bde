package database

import (
	"reflect"
	"testing"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("leads"))

	expected := `SELECT * FROM "leads"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithQualifiedColumns(t *testing.T) {
	opts := NewListQueryOptions("leads",
		WithColumns("leads.id", "leads.email"),
	)
	query, _ := BuildListQuery(opts)

	expected := `SELECT "leads"."id", "leads"."email" FROM "leads"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_CountOnlyIgnoresOrderAndLimit(t *testing.T) {
	opts := NewListQueryOptions("leads",
		WithCountOnly(),
		WithCondition(WhereCond("source", Equal, "florida")),
		WithOrderBy("created_at", "DESC"),
		WithLimit(5),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT COUNT(*) FROM "leads" WHERE "source" = $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if !reflect.DeepEqual(args, []any{"florida"}) {
		t.Errorf("Unexpected args %v", args)
	}
}

func TestBuildListQuery_ConditionsOrderLimit(t *testing.T) {
	opts := NewListQueryOptions("leads",
		WithColumns("id"),
		WithCondition(WhereCond("source", Equal, "california")),
		WithCondition(WhereRawCond("email IS NOT NULL")),
		WithCondition(WhereRawCond("id = ANY($1::uuid[]) AND trade <> $2", []string{"a", "b"}, "")),
		WithCondition(WhereCond("enrichment_status", Equal, "pending")),
		WithOrderBy("created_at", "asc"),
		WithLimit(25),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "id" FROM "leads" WHERE "source" = $1 AND email IS NOT NULL AND id = ANY($2::uuid[]) AND trade <> $3 AND "enrichment_status" = $4 ORDER BY "created_at" ASC LIMIT $5`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	want := []any{"california", []string{"a", "b"}, "", "pending", 25}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("Expected args %v, got %v", want, args)
	}
}

func TestBuildListQuery_SkipsEmptyAny(t *testing.T) {
	opts := NewListQueryOptions("jobs",
		WithCondition(WhereCond("trade", Any, []string{})),
		WithCondition(WhereCond("status", Any, []string{"open", "dispatched"})),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "jobs" WHERE "status" = ANY($1)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 {
		t.Errorf("Expected 1 arg, got %d", len(args))
	}
}

func TestBuildListQuery_InvalidOrderDirIgnored(t *testing.T) {
	opts := NewListQueryOptions("jobs", WithOrderBy("created_at", "sideways"))
	query, _ := BuildListQuery(opts)

	expected := `SELECT * FROM "jobs" ORDER BY "created_at"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_SanitizesIdentifiers(t *testing.T) {
	opts := NewListQueryOptions(`leads"; DROP TABLE leads; --`)
	query, _ := BuildListQuery(opts)

	expected := `SELECT * FROM "leads""; DROP TABLE leads; --"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestWhereCond_PanicsOnCustom(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	WhereCond("x", Custom, nil)
}
