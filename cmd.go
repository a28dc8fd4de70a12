package feedgen

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feedgen",
	Short: "feedgen is a streaming product feed generator based on golang",
}

// ExecuteCmd adds all child commands to the root command and sets flags appropriately.
// This is called by engine.Execute(). It only needs to happen once to the rootCmd.
func ExecuteCmd(engine *FeedEngine) {
	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Start feed export by name",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			engineLog.Infof("ready to export feed %s", args[0])
			err := engine.Start(args[0])
			if err != nil {
				engineLog.Errorf("export feed %s error %s", args[0], err.Error())
			}
		},
	}
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print feedgen version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(Version)
		},
	}
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Execute()
}
