package cli

import (
	"fmt"
	"os"

	"github.com/joannescode/etllm-pagbank/internal/api/middleware"
	"github.com/joannescode/etllm-pagbank/internal/config"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	cfg           *config.Config
	apiKeyManager *middleware.APIKeyManager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "etllm-pagbank",
	Short: "PagBank transaction-email extractor",
	Long: `etllm-pagbank logs into a mailbox, fetches PagBank transaction
notification emails, extracts payer, bank and net amount with a language
model and assembles the values into a result table.

Examples:
  etllm-pagbank fetch              # run the pipeline once and print the table
  etllm-pagbank fetch --csv out.csv
  etllm-pagbank export out.csv     # export all stored transactions
  etllm-pagbank key show           # show the API key for the HTTP server`,
}

// Execute runs the CLI with the provided database and config
func Execute(database *gorm.DB, config *config.Config) {
	db = database
	cfg = config

	var err error
	apiKeyManager, err = middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize API key manager: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(keyCmd)
}
