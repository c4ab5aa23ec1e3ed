package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zen-systems/helmsman/pkg/adapter"
	"github.com/zen-systems/helmsman/pkg/config"
	"github.com/zen-systems/helmsman/pkg/discovery"
	"github.com/zen-systems/helmsman/pkg/logging"
	"github.com/zen-systems/helmsman/pkg/metrics"
	"github.com/zen-systems/helmsman/pkg/router"
	"github.com/zen-systems/helmsman/pkg/server"
	"github.com/zen-systems/helmsman/pkg/task"
	"github.com/zen-systems/helmsman/pkg/weights"
)

var logLevel string

func main() {
	rootCmd := &cobra.Command{
		Use:   "helmsman",
		Short: "Adaptive request router for LLM backends",
		Long: `Helmsman analyzes incoming tasks, scores the registered backend models
	on capability, cost, and latency fit, and picks the best one. Recorded
	outcomes periodically retune the routing weights.`,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(backendsCmd())
	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(retuneCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildRouter assembles the full routing stack from configuration.
func buildRouter(cfg *config.Config, logger *slog.Logger) *router.Router {
	registry := cfg.BuildRegistry(logger)
	store := weights.NewStore(cfg.DataDir, logger)
	recorder := metrics.NewRecorder(cfg.DataDir, cfg.Router.BatchSize, logger)

	disco := discovery.New(registry, createCatalogs(cfg, logger), cfg.Router.DiscoveryPrefixes, logger)

	return router.New(registry, store, recorder,
		router.WithDiscoverer(disco),
		router.WithLogger(logger),
		router.WithMinRetuneSamples(cfg.Router.MinRetuneSamples))
}

// createCatalogs builds a catalog client per configured provider key.
func createCatalogs(cfg *config.Config, logger *slog.Logger) []adapter.Catalog {
	var catalogs []adapter.Catalog

	if cfg.AnthropicAPIKey != "" {
		c, err := adapter.NewAnthropicCatalog(cfg.AnthropicAPIKey)
		if err != nil {
			logger.Warn("skipping anthropic catalog", "error", err)
		} else {
			catalogs = append(catalogs, c)
		}
	}

	if cfg.OpenAIAPIKey != "" {
		c, err := adapter.NewOpenAICatalog(cfg.OpenAIAPIKey)
		if err != nil {
			logger.Warn("skipping openai catalog", "error", err)
		} else {
			catalogs = append(catalogs, c)
		}
	}

	if cfg.GoogleAPIKey != "" {
		c, err := adapter.NewGoogleCatalog(cfg.GoogleAPIKey)
		if err != nil {
			logger.Warn("skipping google catalog", "error", err)
		} else {
			catalogs = append(catalogs, c)
		}
	}

	if cfg.DeepSeekAPIKey != "" {
		c, err := adapter.NewDeepSeekCatalog(cfg.DeepSeekAPIKey)
		if err != nil {
			logger.Warn("skipping deepseek catalog", "error", err)
		} else {
			catalogs = append(catalogs, c)
		}
	}

	return catalogs
}

func routeCmd() *cobra.Command {
	var latencyFlag string
	var costFlag string
	var historyFile string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "route [message]",
		Short: "Pick the best backend for a message",
		Long: `Analyzes the message, scores every registered backend, and prints the
	selected backend id along with the derived task profile.

	The decision is deterministic: the same message, history, and weights
	always select the same backend.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup("")
			if err != nil {
				return err
			}
			defer cleanup()

			history, err := loadHistory(historyFile)
			if err != nil {
				return err
			}

			r := buildRouter(cfg, logger)
			profile, id, err := r.Decide(args[0], history, task.Preferences{
				LatencyTarget:   latencyFlag,
				CostSensitivity: costFlag,
			})
			if err != nil {
				return err
			}

			if jsonFlag {
				return json.NewEncoder(os.Stdout).Encode(server.RouteResponse{BackendID: id, Profile: profile})
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "BACKEND\t%s\n", id)
			fmt.Fprintf(w, "TASK TYPE\t%s\n", profile.TaskType)
			fmt.Fprintf(w, "DOMAIN\t%s\n", profile.Domain)
			fmt.Fprintf(w, "COMPLEXITY\t%.1f\n", profile.Complexity)
			fmt.Fprintf(w, "CONTEXT UNITS\t%d\n", profile.ContextUnits)
			fmt.Fprintf(w, "LATENCY TARGET\t%s\n", profile.LatencyTarget)
			fmt.Fprintf(w, "STRUCTURED OUTPUT\t%t\n", profile.NeedsStructuredOutput)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&latencyFlag, "latency", "", "latency preference (fast, balanced, thorough)")
	cmd.Flags().StringVar(&costFlag, "cost-sensitivity", "", "cost sensitivity (low, medium, high)")
	cmd.Flags().StringVar(&historyFile, "history", "", "JSON file with prior turns [{role, content}]")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the decision as JSON")

	return cmd
}

func recordCmd() *cobra.Command {
	var backendID string
	var taskType string
	var domain string
	var latencyMs int64
	var promptUnits, completionUnits int
	var cost float64
	var failed bool
	var quality float64

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the outcome of a completed request",
		Long: `Appends one outcome record to the durable log. Every hundredth record
	triggers a background retune of the routing weights.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backendID == "" {
				return fmt.Errorf("--backend is required")
			}

			cfg, logger, cleanup, err := setup("")
			if err != nil {
				return err
			}
			defer cleanup()

			aliases := config.LoadAliasesWithFallback(cfg.ConfigDir)

			o := metrics.Outcome{
				BackendID:       aliases.Resolve(backendID),
				TaskType:        taskType,
				Domain:          domain,
				LatencyMs:       latencyMs,
				PromptUnits:     promptUnits,
				CompletionUnits: completionUnits,
				Cost:            cost,
				Timestamp:       time.Now().UTC(),
				Success:         !failed,
			}
			if cmd.Flags().Changed("quality") {
				o.QualityScore = &quality
			}

			buildRouter(cfg, logger).RecordOutcome(o)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendID, "backend", "", "backend id or alias that served the request (required)")
	cmd.Flags().StringVar(&taskType, "task-type", "", "task type of the request")
	cmd.Flags().StringVar(&domain, "domain", "", "domain classification of the request")
	cmd.Flags().Int64Var(&latencyMs, "latency-ms", 0, "observed latency in milliseconds")
	cmd.Flags().IntVar(&promptUnits, "prompt-units", 0, "prompt size in context units")
	cmd.Flags().IntVar(&completionUnits, "completion-units", 0, "completion size in context units")
	cmd.Flags().Float64Var(&cost, "cost", 0, "observed cost in USD")
	cmd.Flags().BoolVar(&failed, "failed", false, "mark the request as failed")
	cmd.Flags().Float64Var(&quality, "quality", 0, "quality score in [0,1], omit when unmeasured")

	return cmd
}

func statsCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show routing statistics and current weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup("")
			if err != nil {
				return err
			}
			defer cleanup()

			report := buildRouter(cfg, logger).Stats()

			if jsonFlag {
				return json.NewEncoder(os.Stdout).Encode(report)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "TOTAL REQUESTS\t%d\n", report.TotalRequests)
			fmt.Fprintf(w, "AVERAGE COST\t$%.4f\n", report.AverageCost)
			fmt.Fprintf(w, "AVERAGE LATENCY\t%.0fms\n", report.AverageLatencyMs)
			fmt.Fprintf(w, "SUCCESS RATE\t%.1f%%\n", report.SuccessRate*100)
			fmt.Fprintln(w)

			var ids []string
			for id := range report.UsageByBackend {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			fmt.Fprintln(w, "BACKEND\tREQUESTS")
			for _, id := range ids {
				fmt.Fprintf(w, "%s\t%d\n", id, report.UsageByBackend[id])
			}
			fmt.Fprintln(w)

			cw := report.CurrentWeights
			fmt.Fprintln(w, "WEIGHTS\t")
			fmt.Fprintf(w, "high complexity threshold\t%.0f\n", cw.HighComplexityThreshold)
			fmt.Fprintf(w, "mid complexity threshold\t%.0f\n", cw.MidComplexityThreshold)
			fmt.Fprintf(w, "cost\t%.2f\n", cw.CostWeight)
			fmt.Fprintf(w, "latency\t%.2f\n", cw.LatencyWeight)
			fmt.Fprintf(w, "quality\t%.2f\n", cw.QualityWeight)
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print stats as JSON")
	return cmd
}

func backendsCmd() *cobra.Command {
	var aliasesFlag bool

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List registered backends",
		Long: `Lists the capability registry: builtin backends plus anything discovery
	has added.

	Use --aliases to show backend-id aliases and what they resolve to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup("")
			if err != nil {
				return err
			}
			defer cleanup()

			registry := cfg.BuildRegistry(logger)

			if aliasesFlag {
				aliases := config.LoadAliasesWithFallback(cfg.ConfigDir)
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ALIAS\tBACKEND")
				for _, name := range aliases.List() {
					fmt.Fprintf(w, "%s\t%s\n", name, aliases.Resolve(name))
				}
				return w.Flush()
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tORIGIN\tSCORE\tLATENCY\tTAGS")
			for _, b := range registry.Snapshot() {
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%dms\t%s\n",
					b.ID, b.Origin, b.PerformanceScore, b.ExpectedLatencyMs,
					strings.Join(b.CapabilityTags, ", "))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&aliasesFlag, "aliases", false, "show backend-id aliases")
	return cmd
}

func discoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Refresh the registry from provider model catalogs",
		Long: `Queries every configured provider's model catalog and registers unseen
	models with conservative defaults. Existing entries are never modified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup("")
			if err != nil {
				return err
			}
			defer cleanup()

			r := buildRouter(cfg, logger)
			before := r.Registry().Len()
			if err := r.Discover(cmd.Context()); err != nil {
				logger.Warn("discovery finished with errors", "error", err)
			}
			fmt.Printf("Registry: %d backends (%d added)\n", r.Registry().Len(), r.Registry().Len()-before)
			return nil
		},
	}
}

func retuneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retune",
		Short: "Recompute routing weights from the outcome log",
		Long: `Runs the weight tuner immediately instead of waiting for the next batch
	boundary. A no-op when fewer than fifty outcomes have been recorded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup("")
			if err != nil {
				return err
			}
			defer cleanup()

			r := buildRouter(cfg, logger)
			if err := r.Retune(); err != nil {
				return err
			}

			w := r.Weights()
			fmt.Printf("high=%.0f mid=%.0f cost=%.2f latency=%.2f quality=%.2f\n",
				w.HighComplexityThreshold, w.MidComplexityThreshold,
				w.CostWeight, w.LatencyWeight, w.QualityWeight)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the routing HTTP API",
		Long: `Serves the JSON API consumed by the conversational layer:
	POST /v1/route, POST /v1/outcomes, GET /v1/stats, POST /v1/discover.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup(logFilePath())
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = cfg.Router.ListenAddr
			}

			r := buildRouter(cfg, logger)
			if r.Registry().Len() == 0 {
				return fmt.Errorf("refusing to serve with an empty registry")
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(r, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("helmsman listening", "addr", addr, "backends", r.Registry().Len())
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config)")
	return cmd
}

// setup loads config and builds the logger. logFile is empty for one-shot
// commands and a path in serve mode.
func setup(logFile string) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logFile == "" {
		logFile = cfg.Router.LogFile
	}

	logger, cleanup := logging.New(logging.Config{Level: logLevel, File: logFile})
	return cfg, logger, cleanup, nil
}

func logFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.helmsman/helmsman.log"
}

func loadHistory(path string) ([]task.Turn, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var turns []task.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return turns, nil
}
