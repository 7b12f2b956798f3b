package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	routing "github.com/IlliaMaluk/transport-routing-system"
	"github.com/IlliaMaluk/transport-routing-system/engine"
)

func main() {
	ctx := context.Background()

	// Wire up an in-memory graph; no database is needed for the demo,
	// the persistence collaborators are all optional.
	state, err := routing.NewGraphState(engine.Factory)
	if err != nil {
		log.Fatalf("graph state: %v", err)
	}

	// ── Build a small network ─────────────────────────────────────────
	state.AddEdges([]routing.Edge{
		{From: 1, To: 2, Weight: 4},
		{From: 2, To: 3, Weight: 3},
		{From: 1, To: 3, Weight: 9},
		{From: 3, To: 4, Weight: 2},
		{From: 4, To: 5, Weight: 0},
		{From: 5, To: 4, Weight: 0},
	})
	state.AddNode(99) // standalone node, touches no edge

	nodes, edges := state.Stats()
	fmt.Printf("graph: %d nodes, %d edges\n", nodes, edges)

	// ── Single route ──────────────────────────────────────────────────
	router := &routing.Router{State: state, NewEngine: engine.Factory}

	resp, err := router.FindRoute(ctx, routing.RouteRequest{Source: 1, Target: 4})
	if err != nil {
		log.Fatalf("route: %v", err)
	}
	fmt.Println("\nroute 1 → 4:")
	printJSON(resp)

	// ── Batch via the async job orchestrator ──────────────────────────
	jobs := routing.NewJobOrchestrator(router, routing.JobOrchestratorOptions{})
	job := jobs.Submit(routing.RouteBatchRequest{Queries: []routing.RouteRequest{
		{Source: 1, Target: 3},
		{Source: 1, Target: 5},
		{Source: 5, Target: 1}, // unreachable, yields the +Inf sentinel
	}})
	fmt.Printf("\nsubmitted job %s\n", job.ID)

	for {
		job, err = jobs.GetJob(job.ID)
		if err != nil {
			log.Fatalf("job: %v", err)
		}
		if job.Status == routing.JobFinished || job.Status == routing.JobFailed {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	fmt.Printf("job %s:\n", job.Status)
	printJSON(job.Result)
	printJSON(jobs.Metrics())

	// ── Quality analysis and auto-fix ─────────────────────────────────
	report := routing.AnalyzeQuality(state.Edges(), state.Nodes(), routing.QualityOptions{})
	fmt.Println("\nquality report:")
	printJSON(report)

	fix, err := routing.FixQuality(ctx, state, nil, report)
	if err != nil {
		log.Fatalf("fix: %v", err)
	}
	fmt.Println("auto-fix result:")
	printJSON(fix)

	nodes, edges = state.Stats()
	fmt.Printf("graph after fix: %d nodes, %d edges\n", nodes, edges)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
