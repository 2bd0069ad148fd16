package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the graph visualization",
	Long:  `Loads a serialized graph document and outputs a Mermaid diagram (graph TD) of its nodes and argument edges.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := decodeFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.Mermaid(root))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
