package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/logger"
	"github.com/scrylabs/scry/internal/service"
)

var (
	analyzeDays      int
	analyzeNarrative bool
	analyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Run a one-shot analysis for a symbol",
	Long:  "Fetch quotes and history for a symbol, score the technical setup and print the result.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 0, "history depth in days (0 = configured default)")
	analyzeCmd.Flags().BoolVar(&analyzeNarrative, "narrative", false, "ask the configured LLM for a second opinion")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw JSON result")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	analyzer, _, err := buildAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := analyzer.Analyze(ctx, args[0], service.Options{
		Days:      analyzeDays,
		Narrative: analyzeNarrative,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(res)
	return nil
}

func printResult(res *core.AnalysisResult) {
	fmt.Printf("=== Scry: %s ===\n", res.Symbol)
	fmt.Printf("Score:      %d (%s)\n", res.Score, res.Grade)
	fmt.Printf("Price:      %.2f  [%s]\n", res.CurrentPrice, res.PriceSource)
	fmt.Printf("Trend:      %s (%s)\n", res.Trend.Direction, res.Trend.Strength)
	fmt.Printf("Energy:     selling pressure %s, cross %s\n", res.Energy.SellingPressure, res.Energy.Pattern)
	fmt.Printf("Pattern:    similarity %.1f, reference yield %+.2f%%\n", res.Pattern.Similarity, res.Pattern.ReferenceYield)
	fmt.Printf("OBV:        %.2f (%s)\n", res.OBVResidualRate, res.OBVStrength)
	fmt.Printf("Candle:     %s (%s)\n", res.Candle.Pattern, res.Candle.Direction)
	fmt.Printf("Signal:     %s: %s\n", res.Signal.Action, res.Signal.Description)
	fmt.Println()
	fmt.Printf("Support:    %.2f\n", res.Support)
	fmt.Printf("Resistance: %.2f\n", res.Resistance)
	fmt.Printf("Target:     %.2f (%+.1f%%)\n", res.TargetPrice, res.TargetReturn)
	fmt.Printf("Stop:       %.2f (%.1f%%)\n", res.StopLoss, res.StopLossPercent)

	if ind := res.Indicators; ind != nil {
		fmt.Println()
		if ind.RSI != nil {
			fmt.Printf("RSI(14):    %.1f\n", *ind.RSI)
		}
		if ind.MACD != nil {
			fmt.Printf("MACD:       %.3f signal %.3f hist %.3f\n", ind.MACD.MACD, ind.MACD.Signal, ind.MACD.Histogram)
		}
		if ind.SMA != nil {
			fmt.Printf("SMA:        20d %.2f / 50d %.2f\n", ind.SMA.SMA20, ind.SMA.SMA50)
		}
	}

	if n := res.Narrative; n != nil {
		fmt.Println()
		fmt.Printf("Narrative (%s, %s, confidence %.2f):\n", n.Provider, n.Sentiment, n.Confidence)
		fmt.Printf("  %s\n", n.Summary)
		for _, risk := range n.RiskFactors {
			fmt.Printf("  risk: %s\n", risk)
		}
		if n.Strategy != "" {
			fmt.Printf("  strategy: %s\n", n.Strategy)
		}
	}

	fmt.Println()
	fmt.Printf("Sources: price %s", res.PriceSource)
	if res.HistorySource != "" {
		fmt.Printf(", history %s", res.HistorySource)
	}
	fmt.Printf("; analyzed at %s\n", res.AnalyzedAt.Format(time.RFC3339))
}
