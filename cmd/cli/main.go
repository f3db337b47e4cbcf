package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "double-entry-cli",
		Short: "Double-entry ledger CLI tool",
		Long:  `A command line interface for interacting with the double-entry ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Transfer commands
	var (
		transferCode      string
		transferDetail    string
		transferFromScope string
		transferToScope   string
	)
	transferCmd := &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Transfer money between accounts",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			createTransfer(args[0], transferFromScope, args[1], transferToScope, args[2], transferCode, transferDetail)
		},
	}
	transferCmd.Flags().StringVar(&transferCode, "code", "", "Transfer code (required)")
	transferCmd.Flags().StringVar(&transferDetail, "detail", "", "Free-form detail")
	transferCmd.Flags().StringVar(&transferFromScope, "from-scope", "", "Scope of the source account")
	transferCmd.Flags().StringVar(&transferToScope, "to-scope", "", "Scope of the destination account")
	transferCmd.MarkFlagRequired("code")
	rootCmd.AddCommand(transferCmd)

	// Balance command
	var balanceScope string
	balanceCmd := &cobra.Command{
		Use:   "balance <account>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getBalance(args[0], balanceScope)
		},
	}
	balanceCmd.Flags().StringVar(&balanceScope, "scope", "", "Scope of the account")
	rootCmd.AddCommand(balanceCmd)

	// Lines commands
	var (
		linesScope  string
		linesLimit  int
		linesOffset int
	)
	linesCmd := &cobra.Command{
		Use:   "lines <account>",
		Short: "List ledger lines for an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			listLines(args[0], linesScope, linesLimit, linesOffset)
		},
	}
	linesCmd.Flags().StringVar(&linesScope, "scope", "", "Scope of the account")
	linesCmd.Flags().IntVar(&linesLimit, "limit", 20, "Maximum number of lines")
	linesCmd.Flags().IntVar(&linesOffset, "offset", 0, "Offset into the result set")
	rootCmd.AddCommand(linesCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}
	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createTransfer(from, fromScope, to, toScope, amount, code, detail string) {
	payload := map[string]any{
		"from":   map[string]string{"identifier": from, "scope": fromScope},
		"to":     map[string]string{"identifier": to, "scope": toScope},
		"amount": amount,
		"code":   code,
	}
	if detail != "" {
		payload["detail"] = detail
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/transfers", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		fmt.Printf("Transfer FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	fmt.Println("Transfer created")
	printRawJSON(respBody)
}

func getBalance(account, scope string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/balance?account=" + account + "&scope=" + scope)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Balance lookup FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	printRawJSON(body)
}

func listLines(account, scope string, limit, offset int) {
	url := fmt.Sprintf("%s/api/v1/lines?account=%s&scope=%s&limit=%d&offset=%d", baseURL, account, scope, limit, offset)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Line listing FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	printRawJSON(body)
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	printRawJSON(body)
}

// printRawJSON re-indents a JSON response for display. Bodies that do
// not parse are printed verbatim.
func printRawJSON(body []byte) {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println(string(body))
		return
	}
	printJSON(parsed)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
