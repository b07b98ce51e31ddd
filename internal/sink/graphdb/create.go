package graphdb

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// CreateConstraints creates every uniqueness constraint, field index, and
// vector index idempotently (spec.md §4.I.3: "created idempotently before
// any write"). Returns the names of the constraints that were created or
// already existed; failures are swallowed per-statement rather than
// aborting the run, since a constraint may already exist under a
// different internal name or the connected edition may not support
// vector indexes.
func (w *Writer) CreateConstraints(ctx context.Context) ([]string, error) {
	session := w.session(ctx)
	defer session.Close(ctx)

	var created []string
	for _, c := range uniquenessConstraints {
		if runAndConsume(ctx, session, c.cypher) {
			created = append(created, c.name)
		}
	}
	for _, idx := range fieldIndexes {
		runAndConsume(ctx, session, idx.cypher)
	}
	for _, idx := range vectorIndexes {
		runAndConsume(ctx, session, idx.cypher)
	}

	return created, nil
}

func runAndConsume(ctx context.Context, session neo4j.SessionWithContext, cypher string) bool {
	result, err := session.Run(ctx, cypher, nil)
	if err != nil {
		return false
	}
	if _, err := result.Consume(ctx); err != nil {
		return false
	}
	return true
}
