package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"jobmate/internal/config"
	"jobmate/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "jobmate"

var (
	cfgFile string

	// results are printed to stdout, so logs must stay off it
	logOutput = "stderr"

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "jobmate scrapes job postings, parses resumes and scores how well they match",
		SilenceUsage: true,
	}
)

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file with the same keys as the environment")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("LOG_DEBUG", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("LOG_JSON", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}

	// the CLI never listens, so the server-only keys get placeholders
	viper.SetDefault("APP_NAME", app)
	viper.SetDefault("APP_ENV", "cli")
	viper.SetDefault("HTTP_PORT", "0")
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

// setup loads the configuration and the logger shared by every subcommand.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, nil, err
	}
	l, err := logger.NewTo(logOutput, cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, l, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
