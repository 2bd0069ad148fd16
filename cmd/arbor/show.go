package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/printing"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a serialized graph as a flattened listing",
	Long: `Loads a serialized graph document (YAML or JSON) and prints every
path = value line, with back-references for shared nodes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := decodeFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty && term.IsTerminal(int(os.Stdout.Fd())) {
			render := tui.NewRenderer()
			out, err := render(printing.Markdown(root))
			if err == nil {
				fmt.Print(out)
				return
			}
		}
		fmt.Println(printing.Text(root))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("pretty", false, "Render as styled markdown (TTY only)")
}
