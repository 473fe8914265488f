// Command tokenfsmctl is a development aid for exercising the compiler,
// index builder, and guide from the shell: compile a regex and a toy
// vocabulary into an Index, print its stats, or walk a token sequence
// through a Guide. Nothing in the core packages depends on it.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:   "tokenfsmctl",
		Short: "Inspect token-constrained decoding indexes from the shell",
	}
	root.AddCommand(newCompileCmd())
	root.AddCommand(newWalkCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
