package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/evaluation"
	"github.com/medtriage/backend/internal/knowledge"
	"github.com/medtriage/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	base := knowledge.Default()
	if cfg.Knowledge.Path != "" {
		base, err = knowledge.Load(cfg.Knowledge.Path)
		if err != nil {
			log.Fatalf("Failed to load knowledge base: %v", err)
		}
	}

	// Load golden cases
	goldenPath := "config/golden_cases.json"
	if _, err := os.Stat("backend/" + goldenPath); err == nil {
		goldenPath = "backend/" + goldenPath
	}
	if len(os.Args) > 1 {
		goldenPath = os.Args[1]
	}

	cases, err := evaluation.LoadGoldenCases(goldenPath)
	if err != nil {
		log.Fatalf("Failed to load golden cases: %v", err)
	}
	if err := evaluation.ValidateGoldenCases(cases); err != nil {
		log.Fatalf("Invalid golden cases: %v", err)
	}

	runner := evaluation.NewRunner(services.NewRiskService(base))
	runner.SetConditionMatcher(services.NewConditionService(base))
	summary, err := runner.Run(context.Background(), cases)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{
		MinAccuracy:        0.8,
		MaxUnderTriageRate: 0.1,
		MaxEmergencyMissed: 0,
	})
	if violations := guardrails.Check(summary); len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "guardrail violation: %s\n", v)
		}
		os.Exit(1)
	}
}
