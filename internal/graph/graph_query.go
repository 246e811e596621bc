package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Querier reads published sequences back from the graph.
type Querier struct {
	driver neo4j.DriverWithContext
}

// NewQuerier creates a new graph querier.
func NewQuerier(driver neo4j.DriverWithContext) *Querier {
	return &Querier{driver: driver}
}

// Messages returns the messages of a run ordered by sequence number.
func (q *Querier) Messages(ctx context.Context, runID string) ([]Message, error) {
	session := q.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (a:Participant)-[m:MESSAGE {run: $run}]->(b:Participant)
		RETURN m.seq AS seq, a.name AS sender, b.name AS receiver, m.label AS label
		ORDER BY m.seq
	`, map[string]any{"run": runID})
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}

	var msgs []Message
	for result.Next(ctx) {
		record := result.Record()
		seq, _ := record.Get("seq")
		from, _ := record.Get("sender")
		to, _ := record.Get("receiver")
		label, _ := record.Get("label")

		n, _ := seq.(int64)
		msgs = append(msgs, Message{
			Seq:   int(n),
			From:  fmt.Sprintf("%v", from),
			To:    fmt.Sprintf("%v", to),
			Label: fmt.Sprintf("%v", label),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	log.Debug().Str("run", runID).Int("messages", len(msgs)).Msg("Graph query complete")
	return msgs, nil
}

// Participants returns the participant names of a run.
func (q *Querier) Participants(ctx context.Context, runID string) ([]string, error) {
	session := q.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (:Run {id: $run})-[:INVOLVES]->(p:Participant)
		RETURN p.name AS name
		ORDER BY name
	`, map[string]any{"run": runID})
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}

	var names []string
	for result.Next(ctx) {
		name, _ := result.Record().Get("name")
		names = append(names, fmt.Sprintf("%v", name))
	}
	return names, result.Err()
}
