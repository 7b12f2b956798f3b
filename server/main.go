package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	routing "github.com/IlliaMaluk/transport-routing-system"
	"github.com/IlliaMaluk/transport-routing-system/engine"
	"github.com/IlliaMaluk/transport-routing-system/postgres"
)

type edgeBulkRequest struct {
	Edges []routing.Edge `json:"edges"`
}

type nodeBulkRequest struct {
	Nodes []int64 `json:"nodes"`
}

type graphInfoResponse struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	store := postgres.New(pool)

	state, err := routing.NewGraphState(engine.Factory)
	if err != nil {
		log.Fatalf("graph state: %v", err)
	}

	router := &routing.Router{
		State:     state,
		Scenarios: store,
		Profiles:  store,
		Metadata:  store,
		History:   store,
		NewEngine: engine.Factory,
	}
	jobs := routing.NewJobOrchestrator(router, routing.JobOrchestratorOptions{})

	app := fiber.New()

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Graph ─────────────────────────────────────────────────────────
	app.Get("/graph/info", func(c fiber.Ctx) error {
		nodes, edges := state.Stats()
		return c.JSON(graphInfoResponse{NodeCount: nodes, EdgeCount: edges})
	})

	app.Post("/graph/nodes", func(c fiber.Ctx) error {
		var body nodeBulkRequest
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		state.AddNodes(body.Nodes)
		nodes, edges := state.Stats()
		return c.Status(201).JSON(graphInfoResponse{NodeCount: nodes, EdgeCount: edges})
	})

	app.Post("/graph/edges", func(c fiber.Ctx) error {
		var body edgeBulkRequest
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		state.AddEdges(body.Edges)
		nodes, edges := state.Stats()
		return c.Status(201).JSON(graphInfoResponse{NodeCount: nodes, EdgeCount: edges})
	})

	app.Get("/graph/edges/metadata", func(c fiber.Ctx) error {
		meta, err := store.ListEdgeMetadata(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(meta)
	})

	app.Post("/graph/edges/metadata", func(c fiber.Ctx) error {
		var body []routing.EdgeMetadata
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		for i := range body {
			if err := store.UpsertEdgeMetadata(c.Context(), &body[i]); err != nil {
				return c.Status(500).JSON(fiber.Map{"error": err.Error()})
			}
		}
		return c.Status(201).JSON(body)
	})

	app.Get("/graph/quality/check", func(c fiber.Ctx) error {
		report := routing.AnalyzeQuality(state.Edges(), state.Nodes(), routing.QualityOptions{})
		return c.JSON(report)
	})

	app.Post("/graph/quality/fix", func(c fiber.Ctx) error {
		report := routing.AnalyzeQuality(state.Edges(), state.Nodes(), routing.QualityOptions{})
		result, err := routing.FixQuality(c.Context(), state, store, report)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(result)
	})

	// ── Routes ────────────────────────────────────────────────────────
	app.Post("/routes", func(c fiber.Ctx) error {
		var req routing.RouteRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		resp, err := router.FindRoute(c.Context(), req)
		if errors.Is(err, routing.ErrScenarioAndProfile) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, routing.ErrScenarioNotFound) || errors.Is(err, routing.ErrProfileNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(resp)
	})

	app.Post("/routes/batch", func(c fiber.Ctx) error {
		var req routing.RouteBatchRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		items, err := router.FindRoutesBatch(c.Context(), req)
		if errors.Is(err, routing.ErrBatchOverlay) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(items)
	})

	// ── Async jobs ────────────────────────────────────────────────────
	app.Post("/routes/async/submit", func(c fiber.Ctx) error {
		var req routing.RouteBatchRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		job := jobs.Submit(req)
		return c.Status(202).JSON(job)
	})

	app.Get("/routes/async/metrics", func(c fiber.Ctx) error {
		return c.JSON(jobs.Metrics())
	})

	app.Get("/routes/async/:id", func(c fiber.Ctx) error {
		job, err := jobs.GetJob(c.Params("id"))
		if errors.Is(err, routing.ErrJobNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "job not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(job)
	})

	// ── Scenarios ─────────────────────────────────────────────────────
	app.Post("/scenarios", func(c fiber.Ctx) error {
		var sc routing.Scenario
		if err := c.Bind().JSON(&sc); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if _, err := store.CreateScenario(c.Context(), &sc); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(sc)
	})

	app.Get("/scenarios", func(c fiber.Ctx) error {
		scenarios, err := store.ListScenarios(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(scenarios)
	})

	app.Get("/scenarios/:id", func(c fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid scenario id"})
		}
		sc, err := store.GetScenario(c.Context(), id)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if sc == nil {
			return c.Status(404).JSON(fiber.Map{"error": "scenario not found"})
		}
		return c.JSON(sc)
	})

	app.Post("/scenarios/:id/modifications", func(c fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid scenario id"})
		}
		var mods []routing.ScenarioModification
		if err := c.Bind().JSON(&mods); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if err := store.AddModifications(c.Context(), id, mods); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		sc, err := store.GetScenario(c.Context(), id)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if sc == nil {
			return c.Status(404).JSON(fiber.Map{"error": "scenario not found"})
		}
		return c.Status(201).JSON(sc)
	})

	app.Delete("/scenarios/:id", func(c fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid scenario id"})
		}
		if err := store.DeactivateScenario(c.Context(), id); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	// ── Profiles ──────────────────────────────────────────────────────
	app.Post("/profiles", func(c fiber.Ctx) error {
		var p routing.OptimizationProfile
		if err := c.Bind().JSON(&p); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if _, err := store.CreateProfile(c.Context(), &p); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(p)
	})

	app.Get("/profiles", func(c fiber.Ctx) error {
		profiles, err := store.ListProfiles(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(profiles)
	})

	// ── History & stats ───────────────────────────────────────────────
	app.Get("/history/queries", func(c fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))
		records, err := store.ListQueries(c.Context(), limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(records)
	})

	app.Get("/stats/performance", func(c fiber.Ctx) error {
		stats, err := store.PerformanceStats(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(stats)
	})

	addr := ":" + os.Getenv("PORT")
	if addr == ":" {
		addr = ":3000"
	}
	log.Fatal(app.Listen(addr))
}
