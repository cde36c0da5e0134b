package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/service"
)

var quizzesCmd = &cobra.Command{
	Use:   "quizzes",
	Short: "Browse the quiz catalog",
}

var quizzesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog quizzes (optionally filtered by subject)",
	RunE: func(cmd *cobra.Command, args []string) error {
		subjects, _ := cmd.Flags().GetStringSlice("subject")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		store, closeStore, err := openCatalogStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		catalog := service.NewQuizCatalog(service.DefaultQuizzes(), store)
		var quizzes []entity.Quiz
		if len(subjects) > 0 {
			quizzes = catalog.ListQuizzesForUser(&entity.UserProfile{Subjects: subjects})
		} else {
			quizzes = catalog.All()
		}

		printQuizzes(quizzes)
		return nil
	},
}

func printQuizzes(quizzes []entity.Quiz) {
	fmt.Printf("%-44s  %-36s  %-18s  %-6s  %9s  %s\n",
		"ID", "Title", "Subject", "Level", "Questions", "Minutes")
	fmt.Println(strings.Repeat("─", 130))

	for _, q := range quizzes {
		title := q.Title
		if len([]rune(title)) > 36 {
			title = string([]rune(title)[:33]) + "..."
		}
		fmt.Printf("%-44s  %-36s  %-18s  %-6s  %9d  %d\n",
			q.ID, title, q.Subject, q.Difficulty, q.QuestionCount(), q.TimeLimit)
	}

	fmt.Printf("\n%d quizzes\n", len(quizzes))
}

func init() {
	quizzesListCmd.Flags().StringSlice("subject", nil, "Filter by subject (repeatable, falls back to the whole catalog on no match)")

	quizzesCmd.AddCommand(quizzesListCmd)
}
