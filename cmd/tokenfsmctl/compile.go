package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tokenfsm/tokenfsm"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func newCompileCmd() *cobra.Command {
	var vocabPath string
	cmd := &cobra.Command{
		Use:   "compile <regex>",
		Short: "Compile a regex and vocabulary into an Index and print its stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			v, err := loadToyVocab(vocabPath)
			if err != nil {
				return err
			}

			slog.Info("compiling pattern", "pattern", pattern, "vocab_len", v.Len())
			d, err := tokenfsm.CompileRegex(pattern)
			if err != nil {
				return fmt.Errorf("compile regex: %w", err)
			}
			idx, err := tokenfsm.BuildIndex(d, v)
			if err != nil {
				return fmt.Errorf("build index: %w", err)
			}

			fmt.Println(headingStyle.Render("Index"))
			fmt.Printf("%s %d\n", labelStyle.Render("states:"), len(idx.Rows()))
			fmt.Printf("%s %d\n", labelStyle.Render("initial:"), idx.InitialState())
			fmt.Printf("%s %d\n", labelStyle.Render("finals:"), len(idx.FinalStates()))
			fmt.Printf("%s %v\n", labelStyle.Render("allowed@initial:"), idx.AllowedTokens(idx.InitialState()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&vocabPath, "vocab", "v", "", "path to a toy vocabulary JSON file")
	cmd.MarkFlagRequired("vocab")
	return cmd
}
