package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sijil-crm/internal/client"
)

func newSheetCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{Use: "sheet", Short: "Spreadsheet import and export"}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Bulk-insert the rows of a spreadsheet as new records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*serverURL)
			imported, err := c.UploadExcel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d record(s)\n", imported)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the current record set to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*serverURL)
			if err := c.Fetch(cmd.Context()); err != nil {
				return err
			}
			if err := c.Export(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", len(c.Records()), args[0])
			return nil
		},
	})

	return cmd
}
