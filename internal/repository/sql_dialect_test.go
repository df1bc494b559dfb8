package repository

import (
	"testing"
)

func TestBuildLikeConditionByDialect(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", "name", " ", "cuisine")
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "name LIKE ? OR cuisine LIKE ?" {
		t.Fatalf("unexpected sqlite condition: %s", condition)
	}

	condition, _ = buildLikeConditionByDialect("postgres", "code")
	if condition != "code ILIKE ?" {
		t.Fatalf("unexpected postgres condition: %s", condition)
	}
}

func TestBuildLikeConditionNilDB(t *testing.T) {
	condition, argCount := buildLikeCondition(nil, "name")
	if condition != "name LIKE ?" || argCount != 1 {
		t.Fatalf("nil db should fall back to sqlite, got %s (%d)", condition, argCount)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%taco%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%taco%" {
			t.Fatalf("args[%d] want %%taco%% got %v", idx, arg)
		}
	}
}
