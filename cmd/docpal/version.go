package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/docpal/pkg/presenter"
	"github.com/jingkaihe/docpal/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information of docpal in JSON format.`,
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		json, err := version.Get().JSON()
		if err != nil {
			presenter.Error(err, "Failed to format version info")
			os.Exit(1)
		}
		fmt.Println(json)
	},
}
