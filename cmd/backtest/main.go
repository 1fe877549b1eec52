// Command backtest is a demonstration CLI wiring the simulation core
// together: it loads bars, builds a strategy, runs the simulator, and
// prints or exports the resulting report. It is an external collaborator
// of the core, not part of its specification.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"backtestlab/internal/broker"
	"backtestlab/internal/clock"
	"backtestlab/internal/config"
	"backtestlab/internal/execution"
	"backtestlab/internal/loader"
	"backtestlab/internal/metrics"
	"backtestlab/internal/observability"
	"backtestlab/internal/recorder"
	"backtestlab/internal/simulator"
	"backtestlab/internal/strategy"
)

var (
	flagConfigFile string
	flagDataFile   string
	flagSymbol     string
	flagStrategy   string
	flagCash       float64
	flagJSON       bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "backtest",
		Short: "Run a deterministic backtest against historical bars",
	}
	root.AddCommand(runCmd())
	root.AddCommand(listStrategiesCmd())
	return root
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest and print its report",
		RunE:  runBacktest,
	}
	cmd.Flags().StringVar(&flagConfigFile, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&flagDataFile, "data", "", "path to an OHLCV CSV file")
	cmd.Flags().StringVar(&flagSymbol, "symbol", "", "symbol the data file represents")
	cmd.Flags().StringVar(&flagStrategy, "strategy", "", "registered strategy name")
	cmd.Flags().Float64Var(&flagCash, "cash", 0, "initial cash (overrides config)")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "print the full report as JSON instead of a summary")
	return cmd
}

func listStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List registered strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := strategy.Builtin()
			for name, meta := range registry.List() {
				fmt.Printf("%-28s %s\n", name, meta.Description)
			}
			return nil
		},
	}
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	if cfg.DataFile == "" {
		return fmt.Errorf("backtest run: --data or config data_file is required")
	}

	dataset, err := loader.LoadCSV(cfg.DataFile, cfg.Symbol)
	if err != nil {
		return fmt.Errorf("backtest run: loading data: %w", err)
	}

	resolver, err := buildResolver(cfg.Execution)
	if err != nil {
		return fmt.Errorf("backtest run: %w", err)
	}
	br, err := broker.New(resolver)
	if err != nil {
		return fmt.Errorf("backtest run: %w", err)
	}

	strat, err := strategy.Builtin().Create(cfg.Strategy, cfg.Params)
	if err != nil {
		return fmt.Errorf("backtest run: %w", err)
	}

	rec, err := buildRecorder(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("backtest run: %w", err)
	}

	src := clock.NewHistorical(dataset.Bars)
	sim, err := simulator.New(strat, br, src, cfg.InitialCash, rec)
	if err != nil {
		return fmt.Errorf("backtest run: %w", err)
	}

	reg := observability.NewRegistry()
	sim.SetMetrics(observability.NewBacktestMetrics(reg))

	ctx := observability.WithRunInfo(context.Background(), observability.RunInfo{Symbol: dataset.Symbol})
	result, err := sim.Run(ctx, []string{dataset.Symbol}, cfg.Params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backtest run: %v (partial results follow)\n", err)
	}

	if cfg.OutputDir != "" {
		if err := writeMetrics(reg, cfg.OutputDir); err != nil {
			fmt.Fprintf(os.Stderr, "backtest run: writing metrics: %v\n", err)
		}
	}

	report := metrics.BuildReport(ctx, result, cfg.Strategy, cfg.Params, metrics.DatasetInfo{
		ID:          dataset.ID,
		Symbol:      dataset.Symbol,
		FilePath:    dataset.FilePath,
		Fingerprint: dataset.Fingerprint,
		BarCount:    len(dataset.Bars),
	}, cfg.RiskFree)

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Println(report.SummaryText)
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if flagDataFile != "" {
		cfg.DataFile = flagDataFile
	}
	if flagSymbol != "" {
		cfg.Symbol = flagSymbol
	}
	if flagStrategy != "" {
		cfg.Strategy = flagStrategy
	}
	if flagCash > 0 {
		cfg.InitialCash = flagCash
	}
}

func buildResolver(execCfg config.ExecutionConfig) (execution.Resolver, error) {
	var slippage execution.SlippageModel = execution.NoSlippage{}
	if execCfg.SlippageBps > 0 {
		s, err := execution.NewFixedSlippage(execCfg.SlippageBps)
		if err != nil {
			return nil, err
		}
		slippage = s
	}

	var fee execution.FeeModel = execution.NoFee{}
	if execCfg.FeePct > 0 {
		f, err := execution.NewPercentageFee(execCfg.FeePct)
		if err != nil {
			return nil, err
		}
		fee = f
	}

	return execution.NewStandardResolver(slippage, fee)
}

// writeMetrics writes the Prometheus text exposition of reg to
// <dir>/metrics.prom, alongside whatever the recorder wrote.
func writeMetrics(reg *observability.Registry, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(dir + "/metrics.prom")
	if err != nil {
		return err
	}
	defer f.Close()
	reg.WriteText(f)
	return nil
}

func buildRecorder(ctx context.Context, cfg *config.Config) (recorder.Recorder, error) {
	if cfg.OutputDir == "" {
		return recorder.NewMinimal(), nil
	}
	sink, err := recorder.NewJSONLFileSink(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	return recorder.NewStreaming(ctx, sink, cfg.RecordBars), nil
}
