package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// keyCmd represents the key command group
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "API key management",
	Long:  `Show or reset the API key protecting the HTTP server.`,
}

// keyShowCmd shows the current API key
var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current API key",
	Run: func(cmd *cobra.Command, args []string) {
		currentKey := apiKeyManager.GetCurrentKey()
		if currentKey == "" {
			fmt.Fprintln(os.Stderr, "error: no API key available")
			os.Exit(1)
		}

		fmt.Println("Current API key:")
		fmt.Println(currentKey)
	},
}

// keyResetCmd resets the API key
var keyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the API key",
	Long:  `Generate a new API key. The old key stops working immediately.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Current API key:")
		fmt.Println(apiKeyManager.GetCurrentKey())
		fmt.Println()
		fmt.Print("Clients using the old key will lose access. Reset? (yes/no): ")

		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil || strings.TrimSpace(strings.ToLower(answer)) != "yes" {
			fmt.Println("Aborted.")
			return
		}

		newKey, err := apiKeyManager.ResetKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to reset API key: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("New API key:")
		fmt.Println(newKey)
	},
}

func init() {
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyResetCmd)
}
