package llm

import (
	"context"
	"log/slog"
	"sync"

	"github.com/talgya/maigreifinn/internal/engine"
	"github.com/talgya/maigreifinn/internal/fate"
)

// FallbackDescription replaces a description that could not be generated.
const FallbackDescription = "The fog is thick today. Nobody remembers much about this place."

// Enricher runs content requests in the background and delivers the results
// as game commands. Callers never wait on it; failures are logged and either
// dropped or replaced with fallback text.
type Enricher struct {
	client *Client
	out    chan engine.Command
	sem    chan struct{}
	wg     sync.WaitGroup
}

// NewEnricher creates an enricher running at most concurrency requests at
// once. A nil client is allowed: every request then falls back immediately.
func NewEnricher(client *Client, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = 2
	}
	return &Enricher{
		client: client,
		out:    make(chan engine.Command, 64),
		sem:    make(chan struct{}, concurrency),
	}
}

// Results delivers MergeContent and AddFateOutcomes commands. It is closed
// by Close.
func (e *Enricher) Results() <-chan engine.Command {
	return e.out
}

// Describe requests descriptions for each space.
func (e *Enricher) Describe(ctx context.Context, reqs ...SpaceRequest) {
	for _, req := range reqs {
		e.spawn(ctx, func() {
			text, err := DescribeSpace(ctx, e.client, req)
			if err != nil {
				slog.Warn("space description failed", "space", req.Name, "error", err)
				if req.Current != "" {
					return
				}
				text = FallbackDescription
			}
			e.deliver(ctx, engine.MergeContent(engine.Content{SpaceID: req.SpaceID, Description: text}))
		})
	}
}

// Fates requests n generated fate outcomes and delivers those that succeed
// in one command.
func (e *Enricher) Fates(ctx context.Context, n int) {
	e.spawn(ctx, func() {
		var outcomes []fate.Outcome
		for i := 0; i < n; i++ {
			o, err := GenerateFate(ctx, e.client)
			if err != nil {
				slog.Warn("fate generation failed", "error", err)
				continue
			}
			outcomes = append(outcomes, o)
		}
		if len(outcomes) > 0 {
			e.deliver(ctx, engine.AddFateOutcomes(outcomes...))
		}
	})
}

func (e *Enricher) spawn(ctx context.Context, fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-e.sem }()
		fn()
	}()
}

func (e *Enricher) deliver(ctx context.Context, cmd engine.Command) {
	select {
	case e.out <- cmd:
	case <-ctx.Done():
	}
}

// Close waits for running requests and closes Results.
func (e *Enricher) Close() {
	e.wg.Wait()
	close(e.out)
}
