package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag  string
	userFlag string
	rootCmd  = &cobra.Command{
		Use:   "moodctl",
		Short: "CLI client for the mood analysis REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Mood analysis service base URL")

	// daily subcommand
	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the daily insight report for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runDaily(apiFlag, userFlag, date, os.Stdout)
		},
	}
	dailyCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	dailyCmd.Flags().StringP("date", "d", "", "Local date YYYY-MM-DD (defaults to today)")
	rootCmd.AddCommand(dailyCmd)

	// weekly subcommand
	weeklyCmd := &cobra.Command{
		Use:   "weekly",
		Short: "Print the weekly insight report for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runWeekly(apiFlag, userFlag, start, os.Stdout)
		},
	}
	weeklyCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	weeklyCmd.Flags().StringP("start", "s", "", "Week start date YYYY-MM-DD (defaults to the last seven days)")
	rootCmd.AddCommand(weeklyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
