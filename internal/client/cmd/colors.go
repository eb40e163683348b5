package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sijil-crm/internal/client"
)

func newColorCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{Use: "color", Short: "Broadcast display colors"}

	cmd.AddCommand(&cobra.Command{
		Use:   "column <field> <color>",
		Short: "Set the display color of one column on all records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*serverURL)
			if err := c.SetColumnColor(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Column color updated")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rows <color> <id> [id...]",
		Short: "Set the row color of the listed records",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uint, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid record id %q", arg)
				}
				ids = append(ids, uint(id))
			}
			c := client.New(*serverURL)
			if err := c.SetRowColors(cmd.Context(), ids, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Row color updated for %d record(s)\n", len(ids))
			return nil
		},
	})

	return cmd
}
