package command

import (
	"fmt"

	"cafelist/database"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or reset its password",
	Example: `  cafelist create-admin --username root --password 'correct horse'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer database.Close(db)

		if err := database.SeedAdmin(db, adminUsername, adminPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %q ready\n", adminUsername)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "Admin username")
	createAdminCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "Admin password")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}
