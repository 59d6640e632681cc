// revcore drives one multi-agent code-review orchestration end-to-end
// against an in-memory demo SessionClient. CLI wiring, real transports, and
// report writing are external collaborators not part of the core; this
// binary exists to exercise the core, not to be the product's CLI.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
	"github.com/reviewmesh/revcore/pkg/review/breaker"
	"github.com/reviewmesh/revcore/pkg/review/orchestrator"
	"github.com/reviewmesh/revcore/pkg/review/runner"
	"github.com/reviewmesh/revcore/pkg/revconfig"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config", getEnv("REVCORE_CONFIG", ""), "Path to a revcore tuning config (YAML)")
	repository := flag.String("repository", "o/r", "Remote repository identifier to review")
	parallelism := flag.Int("parallelism", 4, "Maximum concurrent (agent, pass) tasks")
	passes := flag.Int("passes", 1, "Number of passes per agent")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := revconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		log.Fatalf("failed to resolve configuration: %v", err)
	}

	clock := review.SystemClock{}
	scheduler := newScheduler(resolved.MinCheckInterval)
	defer scheduler.Close()

	breakers := breaker.NewRegistry(resolved.Breaker, clock)

	orch := orchestrator.New(orchestrator.Config{
		SessionClient:      newDemoSessionClient(),
		TimeoutMinutes:     5,
		IdleTimeoutMinutes: 2,
		MaxRetries:         resolved.MaxRetries,
		Tuning:             resolved.Tuning,
		BreakerConfig:      resolved.Breaker,
		RetryConfig:        resolved.Retry,
		Prompts:            runner.DefaultPrompts,
		MergeThresholds:    resolved.Merge,
		Clock:              clock,
		Logger:             logger,
	}, scheduler, breakers)
	defer orch.Close()

	agents := []review.AgentConfig{
		review.NewAgentConfig(review.AgentConfig{
			Name:                "security",
			SystemPrompt:        "You are a meticulous security reviewer.",
			InstructionTemplate: "Review ${repository} for security issues.",
			OutputFormat:        "## Security Review",
			FocusAreas:          []string{"authentication", "input validation"},
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := orch.Run(ctx, orchestrator.Request{
		Agents:      agents,
		Target:      review.NewRemoteTarget(*repository),
		Parallelism: *parallelism,
		Passes:      *passes,
	})
	if err != nil {
		log.Fatalf("orchestration failed: %v", err)
	}

	for _, r := range result.Results {
		logger.Info("agent result", "agent", r.AgentConfig.Name, "success", r.Success)
	}
	logger.Info("findings summary", "content", result.FindingsSummary)
}
