package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/pkg/diff"
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Show the structural differences between two serialized graphs",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		oldRoot, err := decodeFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		newRoot, err := decodeFile(args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		changes := diff.Graphs(oldRoot, newRoot)
		if len(changes) == 0 {
			fmt.Println("No differences.")
			return
		}
		for _, c := range changes {
			fmt.Println(c)
		}
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
