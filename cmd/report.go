package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnlink/internal/graphstore"
	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/reports"
	"github.com/abhisek/learnlink/internal/ui/components"
)

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Run a graph report",
	Long:  "Runs one of the graph reports against Dgraph and prints its tables. Run without a name to list the reports.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		email, _ := cmd.Flags().GetString("email")

		if len(args) == 0 {
			for _, line := range reportNames() {
				fmt.Println(line)
			}
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		graph, err := graphstore.Open(cfg.Dgraph)
		if err != nil {
			return err
		}
		defer graph.Close()

		action, ok := findReport(menu.Reports(menu.Deps{Reports: reports.NewEngine(graph)}, nil), args[0])
		if !ok {
			return fmt.Errorf("unknown report %q (run 'learnlink report' for the list)", args[0])
		}
		res, err := action.Run(ctx, menu.EmailInput(email))
		if err != nil {
			return fmt.Errorf("%s: %s", action.ID, menu.Message(err))
		}
		fmt.Print(renderResult(res))
		return nil
	},
}

func init() {
	reportCmd.Flags().String("email", "", "Student or instructor email for per-user reports")
}

func findReport(actions []menu.Action, id string) (menu.Action, bool) {
	for _, a := range actions {
		if a.ID == id {
			return a, true
		}
	}
	return menu.Action{}, false
}

func reportNames() []string {
	actions := menu.Reports(menu.Deps{}, nil)
	lines := make([]string, 0, len(actions))
	for _, a := range actions {
		flag := ""
		if len(a.Fields) > 0 {
			flag = " --email"
		}
		lines = append(lines, fmt.Sprintf("%-22s %s%s", a.ID, a.Label, flag))
	}
	sort.Strings(lines)
	return lines
}

// renderResult formats res the way the console shows it.
func renderResult(res *menu.Result) string {
	var b strings.Builder
	for _, t := range res.Tables {
		if t.Title != "" {
			b.WriteString(t.Title + "\n")
		}
		b.WriteString(components.RenderTable(t.Headers, t.Rows, 0))
		b.WriteString("\n\n")
	}
	for _, m := range res.Messages {
		b.WriteString(m + "\n")
	}
	for _, w := range res.Warnings {
		b.WriteString(w + "\n")
	}
	return b.String()
}
