package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnlink/internal/catalog"
	"github.com/abhisek/learnlink/internal/menu"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts without logging in",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a user, e.g. the first administrator",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		in := catalog.NewUser{}
		in.Name, _ = cmd.Flags().GetString("name")
		in.Email, _ = cmd.Flags().GetString("email")
		in.Password, _ = cmd.Flags().GetString("password")
		in.Role, _ = cmd.Flags().GetString("role")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()
		st, err := openJournal(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		b, err := openBackends(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		svc := newServices(b, cfg, st.OutcomeRepo(), log)
		res, err := svc.deps.Catalog.RegisterUser(ctx, in)
		if err != nil {
			return errors.New(menu.Message(err))
		}
		fmt.Printf("✓ %s <%s> registered as %s\n", res.User.Name, res.User.Email, res.User.Role)
		for _, w := range menu.Warnings(res.WriteOutcome) {
			fmt.Println(w)
		}
		return nil
	},
}

func init() {
	userAddCmd.Flags().String("name", "", "Full name")
	userAddCmd.Flags().String("email", "", "Login email")
	userAddCmd.Flags().String("password", "", "Initial password")
	userAddCmd.Flags().String("role", "admin", "Role: admin, instructor or student")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
}
