package main

import (
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
	period  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerdash-cli",
		Short: "LedgerDash CLI tool",
		Long:  `A command line interface for interacting with the LedgerDash API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LedgerDash API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard summary",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/dashboard/summary?period=" + period)
		},
	}
	summaryCmd.Flags().StringVar(&period, "period", "current_month", "Reporting period")

	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show current alerts",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/dashboard/alerts")
		},
	}

	kpisCmd := &cobra.Command{
		Use:   "kpis",
		Short: "Show headline indicators",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/dashboard/kpis?period=" + period)
		},
	}
	kpisCmd.Flags().StringVar(&period, "period", "current_month", "Reporting period")

	clearCacheCmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop every cached dashboard aggregate",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/dashboard/clear-cache")
		},
	}

	rootCmd.AddCommand(summaryCmd, alertsCmd, kpisCmd, clearCacheCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func postJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}
