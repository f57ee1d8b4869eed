package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rushteam/contentrec/config"
	"github.com/rushteam/contentrec/pkg/logging"
)

// app 保存子命令共享的配置与日志。
type app struct {
	cfgFile  string
	corpus   string
	logLevel string
	jsonLog  bool
	envFile  string
	cfg      *config.AppConfig
	logger   zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "contentrec",
		Short:         "Content-based TV series recommender",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file path (.yaml or .toml)")
	flags.StringVar(&a.corpus, "corpus", "", "corpus path, overrides corpus.path")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&a.jsonLog, "json", false, "emit logs as JSON")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	root.AddCommand(
		newServeCmd(a),
		newRecommendCmd(a),
		newCategoriesCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if a.envFile != "" {
		// 默认的 .env 不存在时忽略
		if err := godotenv.Load(a.envFile); err != nil && (cmd.Flags().Changed("env-file") || !os.IsNotExist(err)) {
			return fmt.Errorf("load env file %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return err
	}
	if a.corpus != "" {
		cfg.Corpus.Path = a.corpus
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.jsonLog {
		cfg.Log.Format = "json"
	}
	if err := config.ValidateNodes(cfg.Recommend.Nodes); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		Service: "contentrec",
	})
	return nil
}
