package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tokenfsm/tokenfsm"
	"github.com/tokenfsm/tokenfsm/vocab"
)

func newWalkCmd() *cobra.Command {
	var vocabPath string
	cmd := &cobra.Command{
		Use:   "walk <regex> <token-id>...",
		Short: "Walk a token sequence through a Guide, printing allowed tokens at each step",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			v, err := loadToyVocab(vocabPath)
			if err != nil {
				return err
			}
			g, err := tokenfsm.Guided(pattern, v)
			if err != nil {
				return fmt.Errorf("build guide: %w", err)
			}

			fmt.Println(headingStyle.Render("step 0"))
			fmt.Printf("%s %v\n", labelStyle.Render("allowed:"), g.CurrentTokens())

			for i, raw := range args[1:] {
				id, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("token id %q: %w", raw, err)
				}
				allowed, err := g.Advance(vocab.TokenID(id))
				if err != nil {
					return fmt.Errorf("advance(%d): %w", id, err)
				}
				fmt.Println(headingStyle.Render(fmt.Sprintf("step %d", i+1)))
				fmt.Printf("%s %v\n", labelStyle.Render("allowed:"), allowed)
				if g.IsFinished() {
					fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("finished"))
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&vocabPath, "vocab", "v", "", "path to a toy vocabulary JSON file")
	cmd.MarkFlagRequired("vocab")
	return cmd
}
