package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notely",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notely version %s\n", notely.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
