package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/export"
	"github.com/yourusername/tutorconnect-api/internal/service"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect and export quiz results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List a user's quiz results in completion order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := loadResults(cmd, args[0])
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Printf("%-36s  %-44s  %5s  %9s  %6s  %-8s  %-7s  %s\n",
			"ID", "Quiz", "Score", "Questions", "Sec", "Eligible", "Claimed", "Completed")
		fmt.Println(strings.Repeat("─", 145))

		for _, r := range results {
			fmt.Printf("%-36s  %-44s  %5d  %9d  %6d  %-8s  %-7s  %s\n",
				r.ID, r.QuizID, r.Score, r.TotalQuestions, r.TimeTaken,
				mark(r.IsEligibleForReward()), mark(r.RewardClaimed),
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		}

		fmt.Printf("\n%d results\n", len(results))
		return nil
	},
}

var resultsExportCmd = &cobra.Command{
	Use:   "export <user-id>",
	Short: "Export a user's quiz results to CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format = strings.ToLower(format)
		if !export.IsSupported(format) {
			return fmt.Errorf("unsupported format %q, use csv or xlsx", format)
		}

		results, err := loadResults(cmd, args[0])
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		titles := export.QuizTitles{}
		for _, q := range service.DefaultQuizzes() {
			titles[q.ID] = q.Title
		}
		if err := export.Write(w, format, results, titles); err != nil {
			return fmt.Errorf("export results: %w", err)
		}
		if output != "" {
			fmt.Fprintf(os.Stderr, "Exported %d results to %s\n", len(results), output)
		}
		return nil
	},
}

func loadResults(cmd *cobra.Command, userID string) ([]entity.QuizResult, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, client, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	results, err := service.NewResultLog(store).ListResultsForUser(context.Background(), userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

func mark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}

func init() {
	resultsExportCmd.Flags().String("format", export.FormatCSV, "Export format: csv or xlsx")
	resultsExportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsExportCmd)
}
