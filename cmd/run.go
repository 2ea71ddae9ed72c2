package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/rfp-responder/internal/logger"
	"github.com/spigell/rfp-responder/internal/metrics"
	"github.com/spigell/rfp-responder/internal/pipeline"
	"github.com/spigell/rfp-responder/internal/report"
	"github.com/spigell/rfp-responder/internal/rfp"
)

const (
	PromptDumpToFile = "Dump run to file"
	PromptExit       = "Exit"

	dateLayout        = "2006-01-02"
	maxLogValueLength = 120
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline and browse its views",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("capacity", "c", defaultCapacity, "number of bids to pursue")
	runCmd.Flags().StringP("reference-date", "r", "", "date to score due dates against, YYYY-MM-DD. Default is today.")
	runCmd.Flags().StringP("data-file", "f", "", "yaml file with rfps and reference tables. Default is the built-in sample.")
	runCmd.Flags().StringP("view", "v", "", "render a single view and exit: main, sales, technical, pricing or final")
	runCmd.Flags().BoolP("auto", "y", false, "do not prompt, render the final recommendation and exit")
	runCmd.Flags().String("metrics-textfile", "", "write run metrics in prometheus text format to this file")

	viper.BindPFlag("capacity", runCmd.Flags().Lookup("capacity"))
	viper.BindPFlag("reference-date", runCmd.Flags().Lookup("reference-date"))
	viper.BindPFlag("data-file", runCmd.Flags().Lookup("data-file"))
	viper.BindPFlag("metrics-textfile", runCmd.Flags().Lookup("metrics-textfile"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the rfp-responder", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	ref, err := referenceDate(config.ReferenceDate, time.Now())
	if err != nil {
		logger.Fatal("parsing reference date", zap.Error(err), zap.String("hint", "use YYYY-MM-DD"))
	}

	dataset, err := loadDataset(config.DataFile, ref, logger)
	if err != nil {
		logger.Fatal("loading dataset", zap.Error(err))
	}

	p, err := pipeline.New(config.Pipeline(), dataset, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	state, err := p.Run(config.Capacity, ref)
	if err != nil {
		logger.Fatal("running the pipeline", zap.Error(err))
	}
	logger.Info("run completed", runFields(state)...)

	if config.MetricsTextfile != "" {
		m := metrics.New()
		m.Observe(state)
		if err := m.WriteTextfile(config.MetricsTextfile); err != nil {
			logger.Warn("skipping metrics", zap.Error(err))
		} else {
			logger.Info("metrics written", zap.String("filename", config.MetricsTextfile))
		}
	}

	if len(state.Selected) == 0 {
		logger.Info("exiting", zap.String("reason", "no rfps qualify for bidding"))
		return
	}

	out := cmd.OutOrStdout()

	if name := cmd.Flag("view").Value.String(); name != "" {
		view, err := report.ParseView(name)
		if err != nil {
			logger.Fatal("selecting a view", zap.Error(err))
		}
		if err := report.Render(out, view, state, p); err != nil {
			logger.Fatal("rendering view", zap.Error(err))
		}
		return
	}

	if cmd.Flag("auto").Value.String() == "true" {
		if err := report.Render(out, report.ViewFinal, state, p); err != nil {
			logger.Fatal("rendering view", zap.Error(err))
		}
		return
	}

	prompt := promptui.Select{
		Label: "Select a view",
		Items: promptItems(),
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, out, logger, state, p); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func promptItems() []string {
	items := make([]string, 0, len(report.Views())+2)
	for _, v := range report.Views() {
		items = append(items, string(v))
	}
	return append(items, PromptDumpToFile, PromptExit)
}

func handleAction(action string, out io.Writer, logger *zap.Logger, state *pipeline.State, stages report.Stages) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptDumpToFile:
		filename, err := state.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump run to file: %w", err)
		}
		logger.Info("dumping run to file", zap.String("filename", filename))
		return nil
	default:
		view, err := report.ParseView(action)
		if err != nil {
			return fmt.Errorf("invalid action: %s", action)
		}
		return report.Render(out, view, state, stages)
	}
}

// referenceDate parses the configured date, defaulting to the day of now.
func runFields(state *pipeline.State) []zap.Field {
	return []zap.Field{
		zap.String("run_id", state.RunID),
		zap.Int("rfps", len(state.Scored)),
		zap.Int("selected", len(state.Selected)),
		zap.Int("bids", pipeline.CountDecision(state.Recommendations, pipeline.DecisionBid)),
	}
}

func referenceDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return rfp.Day(now), nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("reference date %q: %w", value, err)
	}
	return t, nil
}

func loadDataset(path string, ref time.Time, lg *zap.Logger) (*rfp.Dataset, error) {
	path = strings.TrimSpace(path)

	var dataset *rfp.Dataset
	if path == "" {
		dataset = rfp.SampleDataset(ref)
		lg.Info("using the built-in sample dataset")
	} else {
		var err error
		dataset, err = rfp.LoadDataset(path, ref)
		if err != nil {
			return nil, err
		}
		lg.Info("loaded dataset", zap.String("path", path))
	}

	lg.Debug("dataset",
		zap.Int("rfps", dataset.Len()),
		zap.Int("catalog_items", len(dataset.Catalog)),
		zap.String("portfolio", logger.TruncateForLog(strings.Join(dataset.Portfolio.Products(), ", "), maxLogValueLength)),
	)

	return dataset, nil
}
