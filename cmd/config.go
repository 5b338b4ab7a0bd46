package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pagelens/pagelens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pagelens configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure pagelens with an interactive wizard",
	Long:  `Runs an interactive wizard to pick the mode, provider, and model, and writes the result to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		if err := cfg.Save(cfgFile); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Configuration written to %s\n", cfgFile)
		if cfg.APIKey == "" && cfg.Provider != config.ProviderOllama {
			fmt.Printf("Set your API key via the %s environment variable.\n", config.APIKeyEnvVar(cfg.Provider))
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		// Never echo credentials.
		if cfg.APIKey != "" {
			cfg.APIKey = "********"
		}
		if cfg.WebSearchAPIKey != "" {
			cfg.WebSearchAPIKey = "********"
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("rendering config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
