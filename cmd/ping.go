package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnlink/internal/health"
)

var errUnhealthy = errors.New("at least one store is unreachable")

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to every store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		b, checks := dialAll(ctx, cfg)
		defer b.Close()

		statuses := health.Run(ctx, checks...)
		fmt.Printf("%-10s  %-6s  %8s  %s\n", "Store", "Status", "Ms", "Detail")
		fmt.Println(strings.Repeat("─", 60))
		for _, s := range statuses {
			status, detail := "OK", s.Detail
			if !s.OK {
				status = "ERROR"
				if s.Err != nil {
					detail = s.Err.Error()
				}
			}
			fmt.Printf("%-10s  %-6s  %8d  %s\n", s.Store, status, s.Elapsed/time.Millisecond, detail)
		}
		if !health.Healthy(statuses) {
			return errUnhealthy
		}
		return nil
	},
}
