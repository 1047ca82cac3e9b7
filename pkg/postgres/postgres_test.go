package postgres

import (
	"context"
	"errors"
	"testing"
)

type fakeSchema struct {
	calls *[]string
	name  string
	err   error
}

func (f fakeSchema) CreateSchema(ctx context.Context) error {
	*f.calls = append(*f.calls, f.name)
	return f.err
}

func TestCreateSchemasStopsAtFirstError(t *testing.T) {
	t.Parallel()

	var calls []string
	boom := errors.New("boom")
	err := CreateSchemas(context.Background(),
		fakeSchema{calls: &calls, name: "callers"},
		nil,
		fakeSchema{calls: &calls, name: "reviews", err: boom},
		fakeSchema{calls: &calls, name: "calls"},
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "callers" || calls[1] != "reviews" {
		t.Fatalf("unexpected schema order: %v", calls)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{DSN: "  "}); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}
