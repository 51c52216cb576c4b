package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eleven-am/dayplan/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display dayplan version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.FullVersionInfo())
	},
}
