package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/pkg/tagging"
)

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "List the tags used in a serialized graph",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := decodeFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		for tag := range tagging.ListTags(root) {
			fmt.Printf("%s\t%s\n", tag, tag.Description())
		}
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
