package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pagelens",
	Short: "Chat with the page you are reading",
	Long: `Pagelens is the retrieval and answering core behind a "chat with the
current page" sidebar. It ingests page snapshots into a semantic chunk
index, answers questions over them with inline source citations, and
keeps long conversations bounded by summarizing older turns.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".pagelens.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
