package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/graphconsole/internal/config"
	"github.com/agenthands/graphconsole/internal/console"
	"github.com/agenthands/graphconsole/internal/datasource"
)

var (
	configPath     string
	dataSourceName string
	paramFlags     []string

	manager *datasource.Manager
)

var rootCmd = &cobra.Command{
	Use:   "cypher",
	Short: "Run Cypher queries against configured graph data sources",
	Long: `cypher runs queries against Neo4j data sources defined in a config file
or through the NEO4J_HOST, NEO4J_PORT, NEO4J_USER, NEO4J_PASSWORD and
NEO4J_SECURE environment variables (data source "default").`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.toml", "config file (TOML or YAML)")
	rootCmd.PersistentFlags().StringVarP(&dataSourceName, "datasource", "d", config.DefaultDataSource, "data source name")

	runCmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "query parameter as name=value (value is parsed as JSON when possible)")

	rootCmd.AddCommand(runCmd, dataSourcesCmd, metadataCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	logger := cfg.Log.Logger(os.Stderr)
	manager, err = datasource.New(cfg.DataSourceSpecs(), nil, logger)
	if err != nil {
		return err
	}

	log := console.NewLog(cmd.OutOrStdout())
	manager.Bus().SubscribeQuery(log)
	manager.Bus().SubscribeMetadata(log)
	return nil
}

var dataSourcesCmd = &cobra.Command{
	Use:   "datasources",
	Short: "List configured data sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range manager.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Refresh the metadata of a data source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := manager.RefreshMetadata(cmd.Context(), dataSourceName)
		return err
	},
}
