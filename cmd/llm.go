package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/syntaxiz/internal/llm"
	"github.com/abhisek/syntaxiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the logged LLM calls behind explanations",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE:  runLLMList,
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print the full prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMView,
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE:  runLLMStats,
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls with this purpose (e.g. explain)")
	llmListCmd.Flags().Duration("since", 0, "Only calls newer than this (e.g. 24h)")
	llmListCmd.Flags().Bool("failed", false, "Only failed calls")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

func rule(w io.Writer, width int) {
	fmt.Fprintln(w, strings.Repeat("─", width))
}

func runLLMList(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	opts := store.QueryOpts{}
	opts.Limit, _ = flags.GetInt("limit")
	opts.Purpose, _ = flags.GetString("purpose")
	if since, _ := flags.GetDuration("since"); since > 0 {
		opts.From = time.Now().Add(-since)
	}
	failedOnly, _ := flags.GetBool("failed")

	s, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	shown := 0
	for _, e := range events {
		if failedOnly && e.Success {
			continue
		}
		if shown == 0 {
			fmt.Fprintf(w, "%-5s  %-16s  %-10s  %-28s  %6s  %6s  %6s  %s\n",
				"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
			rule(w, 96)
		}
		mark := "✓"
		if !e.Success {
			mark = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-16s  %-10s  %-28s  %6d  %6d  %6d  %s\n",
			e.ID, e.Timestamp.Local().Format("2006-01-02 15:04"), e.Purpose,
			clip(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, mark)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(w, "No LLM calls logged.")
	}
	return nil
}

func runLLMView(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid ID %q", args[0])
	}

	s, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("no LLM call with ID %d", id)
	}

	w := cmd.OutOrStdout()
	status := "ok"
	if !e.Success {
		status = "failed: " + e.ErrorMessage
	}
	fmt.Fprintf(w, "#%d  %s  %s/%s  purpose=%s\n", e.ID, e.Timestamp.Local().Format(time.DateTime), e.Provider, e.Model, e.Purpose)
	fmt.Fprintf(w, "tokens %d in, %d out  latency %dms  %s\n", e.InputTokens, e.OutputTokens, e.LatencyMs, status)

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, part.title)
		rule(w, 60)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, strings.TrimRight(part.body, "\n"))
	}
	return nil
}

func runLLMStats(cmd *cobra.Command, _ []string) error {
	s, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	repo := s.EventRepo()
	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		return err
	}
	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return nil
	}

	fmt.Fprintf(w, "%-12s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg Ms")
	rule(w, 54)
	var calls, in, out int
	for _, u := range byPurpose {
		fmt.Fprintf(w, "%-12s  %6d  %10d  %10d  %8d\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	rule(w, 54)
	fmt.Fprintf(w, "%-12s  %6d  %10d  %10d\n\n", "TOTAL", calls, in, out)

	fmt.Fprintf(w, "%-32s  %6s  %10s\n", "Model", "Calls", "Est. cost")
	rule(w, 52)
	var total float64
	var unpriced []string
	for _, u := range byModel {
		price := llm.LookupCost(u.Model)
		if price == nil {
			unpriced = append(unpriced, u.Model)
			fmt.Fprintf(w, "%-32s  %6d  %10s\n", clip(u.Model, 32), u.Calls, "?")
			continue
		}
		c := price.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Fprintf(w, "%-32s  %6d  %10s\n", clip(u.Model, 32), u.Calls, usd(c))
	}
	rule(w, 52)
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (priced models only)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s\n", label, "", usd(total))
	return nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func usd(v float64) string {
	if v < 0.01 {
		return fmt.Sprintf("$%.4f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}
