package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/restful-blog/config"
	"github.com/d60-Lab/restful-blog/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "Server-rendered blog with a pluggable post store",
	Long: `blog serves a small RESTful blog: list, create, show, edit and delete
posts, stored in MongoDB, PostgreSQL, SQLite or Redis.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.LoadFile(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "blog %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ./config.yaml or ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func SetVersion(v string) {
	version = v
}

func Execute() error {
	return rootCmd.Execute()
}

func Root() *cobra.Command {
	return rootCmd
}
