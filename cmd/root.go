package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/rfp-responder/internal/pipeline"
	"github.com/spigell/rfp-responder/internal/pricing"
)

const (
	app = "rfp-responder"

	envPrefix       = "RFP_RESPONDER"
	defaultCapacity = 5
)

type Config struct {
	Capacity        int            `mapstructure:"capacity"`
	ReferenceDate   string         `mapstructure:"reference-date"`
	DataFile        string         `mapstructure:"data-file"`
	BidThreshold    float64        `mapstructure:"bid-threshold"`
	Pricing         pricing.Config `mapstructure:"pricing"`
	MetricsTextfile string         `mapstructure:"metrics-textfile"`
}

// Pipeline returns the pipeline parameters of the config.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		BidThreshold: c.BidThreshold,
		Pricing:      c.Pricing,
	}
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "rfp-responder scores incoming RFPs, matches them against the catalog and recommends which to bid on",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is rfp-responder.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	defaults := pipeline.DefaultConfig()
	viper.SetDefault("capacity", defaultCapacity)
	viper.SetDefault("bid-threshold", defaults.BidThreshold)
	viper.SetDefault("pricing.quantity", defaults.Pricing.Quantity)
	viper.SetDefault("pricing.uplift-percent", defaults.Pricing.UpliftPercent)
	viper.SetDefault("pricing.full-match-pct", defaults.Pricing.FullMatchPct)
}

func initConfig() {
	// Config needed only for run command now.
	if runCmd.CalledAs() == "" {
		return
	}

	// A missing .env file is fine, the environment may be set by other means.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The default config file is optional, an explicit one is not.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
