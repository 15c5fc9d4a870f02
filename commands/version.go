package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// VersionCmd displays the CLI version information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Displays the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", VERSION)
	},
}
