// Package graph publishes translated sequence diagrams to Neo4j.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Connect opens a driver and verifies the server is reachable.
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}

// Publisher writes runs and their messages to the graph.
type Publisher struct {
	driver neo4j.DriverWithContext
}

// NewPublisher creates a new publisher.
func NewPublisher(driver neo4j.DriverWithContext) *Publisher {
	return &Publisher{driver: driver}
}

// EnsureSchema creates the uniqueness constraints used by Publish.
func (p *Publisher) EnsureSchema(ctx context.Context) error {
	session := p.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (p:Participant) REQUIRE p.name IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (r:Run) REQUIRE r.id IS UNIQUE",
	}
	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

const publishQuery = `
MERGE (r:Run {id: $run})
SET r.input = $input, r.messages = size($messages)
WITH r
UNWIND $messages AS m
MERGE (a:Participant {name: m.from})
MERGE (b:Participant {name: m.to})
MERGE (r)-[:INVOLVES]->(a)
MERGE (r)-[:INVOLVES]->(b)
CREATE (a)-[:MESSAGE {run: $run, seq: m.seq, label: m.label}]->(b)`

// Publish stores the messages found in lines under runID. Lines that are not
// arrows are ignored. It returns the number of messages written.
func (p *Publisher) Publish(ctx context.Context, runID, input string, lines []string) (int, error) {
	session := p.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)
	return publish(ctx, session, runID, input, ParseSequence(lines))
}

// cypherRunner is the part of neo4j.SessionWithContext used by publish.
type cypherRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error)
}

func publish(ctx context.Context, r cypherRunner, runID, input string, msgs []Message) (int, error) {
	if _, err := r.Run(ctx, publishQuery, publishParams(runID, input, msgs)); err != nil {
		return 0, fmt.Errorf("publish run %s: %w", runID, err)
	}
	log.Info().Str("run", runID).Int("messages", len(msgs)).Msg("Published sequence to graph")
	return len(msgs), nil
}

func publishParams(runID, input string, msgs []Message) map[string]any {
	list := make([]any, 0, len(msgs))
	for _, m := range msgs {
		list = append(list, map[string]any{
			"seq":   int64(m.Seq),
			"from":  m.From,
			"to":    m.To,
			"label": m.Label,
		})
	}
	return map[string]any{
		"run":      runID,
		"input":    input,
		"messages": list,
	}
}
