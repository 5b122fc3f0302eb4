package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Karthik-beta/data-app/internal/analytics"
	"github.com/Karthik-beta/data-app/internal/store"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the analytics summary for the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		summary, err := analytics.New(st).Summarize(ctx)
		if err != nil {
			return err
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		fmt.Printf("total companies: %d\n", summary.Total)
		fmt.Println("by status:")
		for _, sc := range summary.ByStatus {
			fmt.Printf("  %-24s %d\n", sc.Status, sc.Count)
		}
		fmt.Println("by class:")
		for _, cc := range summary.ByClass {
			fmt.Printf("  %-24s %d\n", cc.Class, cc.Count)
		}
		fmt.Println("top industries:")
		for _, ic := range summary.TopIndustries {
			fmt.Printf("  %-40s %d\n", ic.Industry, ic.Count)
		}
		if summary.Capital != nil {
			fmt.Printf("capital: avg authorized %.2f, max %.2f, total %.2f; avg paid-up %.2f, max %.2f, total %.2f\n",
				summary.Capital.AvgAuthorized, summary.Capital.MaxAuthorized, summary.Capital.TotalAuthorized,
				summary.Capital.AvgPaidup, summary.Capital.MaxPaidup, summary.Capital.TotalPaidup)
		}
		fmt.Println("registrations by year:")
		for _, yc := range summary.RegistrationTrends {
			fmt.Printf("  %d  %d\n", yc.Year, yc.Count)
		}
		fmt.Println("by listing status:")
		for _, sc := range summary.ByListing {
			fmt.Printf("  %-24s %d\n", sc.Status, sc.Count)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "emit JSON instead of text")
	rootCmd.AddCommand(statsCmd)
}
