package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/syntaxiz/internal/problemgen"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accuracy by category and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()

		cats, err := repo.CategoryAccuracy(ctx)
		if err != nil {
			return fmt.Errorf("query accuracy: %w", err)
		}
		sessions, err := repo.RecentSessions(ctx, limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		if len(cats) == 0 && len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Println("Accuracy by Category")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-16s  %8s  %8s  %8s\n", "Category", "Judged", "Correct", "Acc")
		fmt.Println(strings.Repeat("─", 48))
		var judged, correct int
		for _, c := range cats {
			label := c.Category
			if cat, err := problemgen.ParseCategory(c.Category); err == nil {
				label = cat.Label()
			}
			fmt.Printf("%-16s  %8d  %8d  %7.0f%%\n", label, c.Attempted, c.Correct, c.Accuracy()*100)
			judged += c.Attempted
			correct += c.Correct
		}
		fmt.Println(strings.Repeat("─", 48))
		var overall float64
		if judged > 0 {
			overall = float64(correct) / float64(judged) * 100
		}
		fmt.Printf("%-16s  %8d  %8d  %7.0f%%\n", "TOTAL", judged, correct, overall)

		if len(sessions) > 0 {
			fmt.Println()
			fmt.Println("Recent Sessions")
			fmt.Println(strings.Repeat("─", 64))
			fmt.Printf("%-16s  %8s  %8s  %8s  %7s  %7s\n", "Ended", "Duration", "Judged", "Correct", "Acc", "Fixed")
			fmt.Println(strings.Repeat("─", 64))
			for _, ss := range sessions {
				var acc float64
				if ss.Judgments > 0 {
					acc = float64(ss.CorrectJudgments) / float64(ss.Judgments) * 100
				}
				fmt.Printf("%-16s  %5d:%02d  %8d  %8d  %6.0f%%  %7d\n",
					ss.Timestamp.Local().Format("2006-01-02 15:04"),
					ss.DurationSecs/60, ss.DurationSecs%60,
					ss.Judgments, ss.CorrectJudgments, acc, ss.CorrectionsAccepted)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of recent sessions to show")
}
