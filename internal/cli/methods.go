package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ramadan-taqwim/internal/api"
	"ramadan-taqwim/internal/display"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List available calculation methods",
		RunE:  runMethods,
	}
}

func runMethods(cmd *cobra.Command, args []string) error {
	client := api.NewClient()

	methods, err := client.FetchMethods()
	if err != nil {
		return fmt.Errorf("failed to fetch methods: %w", err)
	}

	if FlagJSON {
		data, err := json.MarshalIndent(methods, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Calculation Methods"))
	fmt.Println()

	tbl := display.NewTable([]string{"ID", "Name"})
	cfg := effectiveConfig(cmd)
	for i, m := range methods {
		tbl.AddRow([]string{strconv.Itoa(m.ID), m.Name})
		if m.ID == cfg.MethodOrDefault(-1) {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Print(tbl.Render())
	fmt.Println()
	return nil
}
