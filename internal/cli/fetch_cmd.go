package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joannescode/etllm-pagbank/internal/report"
	"github.com/joannescode/etllm-pagbank/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var fetchCSVPath string

// fetchCmd runs the pipeline once and prints the assembled table
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch PagBank emails and extract transactions",
	Long: `Connects to the mailbox, fetches notification emails from the
configured sender, extracts payer, bank and net amount from each one and
prints the assembled result table. New rows are also stored in the
database.`,
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.MailPassword == "" && !cfg.UseOAuth() {
			password, err := promptPassword(fmt.Sprintf("Password for %s: ", cfg.MailUser))
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: failed to read password: %v\n", err)
				os.Exit(1)
			}
			cfg.MailPassword = password
		}

		service := services.NewStatementService(db, cfg)

		run, table, err := service.Run(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: extraction run failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Run %s: %d emails fetched, %d new, %d rows\n\n",
			run.ID, run.EmailsFetched, run.EmailsNew, run.Rows)
		report.Render(os.Stdout, table)

		if fetchCSVPath != "" {
			w := &report.CSVWriter{}
			if err := w.WriteToFile(fetchCSVPath, table); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("\nCSV written to %s\n", fetchCSVPath)
		}
	},
}

// promptPassword reads a password without echoing it
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchCSVPath, "csv", "", "also write the result table to a CSV file")
}
