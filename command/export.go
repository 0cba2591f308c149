package command

import (
	"fmt"
	"os"

	"cafelist/database"
	"cafelist/repository"
	"cafelist/spreadsheet"

	"github.com/spf13/cobra"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every cafe to an .xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer database.Close(db)

		cafes, err := repository.NewCafeRepo(db).List(cmd.Context())
		if err != nil {
			return err
		}

		f, err := os.Create(exportPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportPath, err)
		}
		if err := spreadsheet.Export(f, cafes); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d cafes to %s\n", len(cafes), exportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "cafes.xlsx", "Output file")
}
