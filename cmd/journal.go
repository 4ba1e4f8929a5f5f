package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnlink/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the local journal of multi-store writes",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent write outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		operation, _ := cmd.Flags().GetString("operation")
		partial, _ := cmd.Flags().GetBool("partial")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openJournal(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.OutcomeRepo().QueryOutcomes(cmd.Context(), store.QueryOpts{
			Limit:       limit,
			Operation:   operation,
			PartialOnly: partial,
		})
		if err != nil {
			return fmt.Errorf("query outcomes: %w", err)
		}

		if len(recs) == 0 {
			fmt.Println("No outcomes found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-8s  %-40s  %s\n", "ID", "Timestamp", "Op", "Subject", "Mirrors")
		fmt.Println(strings.Repeat("─", 96))
		for _, r := range recs {
			subject := r.Subject
			if len(subject) > 40 {
				subject = subject[:40]
			}
			fmt.Printf("%-5d  %-19s  %-8s  %-40s  %s\n",
				r.ID,
				r.Timestamp.Local().Format(timeLayout),
				r.Operation,
				subject,
				mirrorSummary(r.Mirrors),
			)
		}
		return nil
	},
}

var journalViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View every step of a write outcome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openJournal(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.OutcomeRepo().GetOutcome(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get outcome: %w", err)
		}
		if r == nil {
			return fmt.Errorf("outcome %d not found", id)
		}
		fmt.Print(formatOutcome(*r))
		return nil
	},
}

func init() {
	journalListCmd.Flags().Int("limit", 20, "Maximum number of outcomes")
	journalListCmd.Flags().String("operation", "", "Only this operation (enroll, review, log_in, ...)")
	journalListCmd.Flags().Bool("partial", false, "Only outcomes with a failed or skipped mirror")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalViewCmd)
}

// mirrorSummary renders "3/3 ok" or "1/2 ok" for a list of mirrors.
func mirrorSummary(mirrors []store.MirrorRecord) string {
	ok := 0
	for _, m := range mirrors {
		if m.OK() {
			ok++
		}
	}
	mark := "✓"
	if ok < len(mirrors) {
		mark = "✗"
	}
	return fmt.Sprintf("%s %d/%d ok", mark, ok, len(mirrors))
}

func formatOutcome(r store.OutcomeRecord) string {
	var b strings.Builder
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(&b, "ID:        %d\n", r.ID)
	fmt.Fprintf(&b, "Time:      %s\n", r.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(&b, "Operation: %s\n", r.Operation)
	fmt.Fprintf(&b, "Subject:   %s\n", r.Subject)
	fmt.Fprintf(&b, "Primary:   %s/%s\n", r.PrimaryStore, r.PrimaryStep)
	fmt.Fprintf(&b, "Partial:   %v\n", r.Partial)
	b.WriteString(sep + "\n")
	for _, m := range r.Mirrors {
		switch {
		case m.Skipped:
			fmt.Fprintf(&b, "  - %s/%s skipped: %s\n", m.Store, m.Step, m.Error)
		case m.Error != "":
			fmt.Fprintf(&b, "  ✗ %s/%s: %s\n", m.Store, m.Step, m.Error)
		default:
			fmt.Fprintf(&b, "  ✓ %s/%s\n", m.Store, m.Step)
		}
	}
	return b.String()
}
