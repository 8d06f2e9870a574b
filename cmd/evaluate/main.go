package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/alexholyk/sentiment-monitor/internal/adapters/eventlog"
	"github.com/alexholyk/sentiment-monitor/internal/evaluation"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/clients/predict"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/observability"
	"github.com/alexholyk/sentiment-monitor/pkg/config"
)

func main() {
	testSetPath := flag.String("testset", "data/test_reviews.json", "path to the labeled test set JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Env)

	items, err := evaluation.LoadTestSet(*testSetPath)
	if err != nil {
		log.Fatalf("Failed to load test set: %v", err)
	}
	log.Printf("Loaded %d test items from %s", len(items), *testSetPath)

	// Labeled evaluation events go into the shared log so the dashboard's
	// accuracy and precision pick them up on its next scan
	eventLog := eventlog.NewFileEventLog(cfg.EventLog.Path)
	defer func() {
		if err := eventLog.Close(); err != nil {
			log.Printf("Error closing event log: %v", err)
		}
	}()

	client := predict.NewClient(cfg.Predict.URL, cfg.Predict.Timeout)

	runner := evaluation.NewRunner(client, eventLog, cfg.Predict.Timeout)
	summary, err := runner.Run(context.Background(), items)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	// Output results as JSON. Per-item failures are tolerated and already
	// counted in the summary; they do not make the run itself fail.
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}
