package cmd

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version, buildDate string) *cobra.Command {
	var serverURL string
	root := &cobra.Command{
		Use:   "sijilctl",
		Short: "Student records CLI",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server base URL")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newRecordsCmd(&serverURL))
	root.AddCommand(newColorCmd(&serverURL))
	root.AddCommand(newSheetCmd(&serverURL))
	return root
}
