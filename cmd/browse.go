package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Karthik-beta/data-app/internal/model"
	"github.com/Karthik-beta/data-app/pkg/dashclient"
)

var browseFlags struct {
	username   string
	password   string
	statuses   []string
	classes    []string
	years      []int
	industries []string
	stateCodes []string
	search     string
	pages      int
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through records from a running server",
	Long:  "Logs in, fetches pages with the infinite-fetch pager until the dataset (or --pages) is exhausted, and prints rows to stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		client := dashclient.New(cfg.Client.BaseURL)
		if _, err := client.Login(ctx, browseFlags.username, browseFlags.password); err != nil {
			return err
		}
		defer client.Logout(ctx)

		done := make(chan struct{}, 1)
		pager := dashclient.NewPager(client.Records,
			dashclient.WithLimit(cfg.Client.PageSize),
			dashclient.WithDebounce(time.Duration(cfg.Client.DebounceMS)*time.Millisecond),
			dashclient.WithOnChange(func() {
				select {
				case done <- struct{}{}:
				default:
				}
			}),
		)

		pager.SetFilters(model.FilterSelection{
			Statuses:   browseFlags.statuses,
			Classes:    browseFlags.classes,
			Years:      browseFlags.years,
			Industries: browseFlags.industries,
			StateCodes: browseFlags.stateCodes,
		})
		if browseFlags.search != "" {
			// A flag value is not a keystroke stream; commit it before the
			// first fetch so no unfiltered page is ever requested.
			pager.SetSearchNow(browseFlags.search)
		}
		pager.Start(ctx)

		printed := 0
		fetched := 1
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-done:
			}

			snap := pager.Snapshot()
			switch snap.State {
			case dashclient.StateError:
				return eris.Wrap(snap.Err, "browse: fetch failed")
			case dashclient.StateFetchingFirst, dashclient.StateFetchingNext:
				continue
			}

			if len(snap.Records) < printed {
				// The accumulated sequence was restarted under us.
				printed = 0
			}
			for ; printed < len(snap.Records); printed++ {
				c := snap.Records[printed]
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.CIN, c.Name, c.Class, c.Status)
			}

			if !snap.HasMore || (browseFlags.pages > 0 && fetched >= browseFlags.pages) {
				fmt.Fprintf(out, "# %d rows (filtered total %d of %d)\n", printed, snap.FilteredTotal, snap.Total)
				return nil
			}
			if pager.FetchNext() {
				fetched++
			}
		}
	},
}

func init() {
	browseCmd.Flags().StringVarP(&browseFlags.username, "username", "u", "admin", "login username or email")
	browseCmd.Flags().StringVarP(&browseFlags.password, "password", "p", "", "login password")
	browseCmd.Flags().StringSliceVar(&browseFlags.statuses, "status", nil, "filter by operational status")
	browseCmd.Flags().StringSliceVar(&browseFlags.classes, "class", nil, "filter by company class")
	browseCmd.Flags().IntSliceVar(&browseFlags.years, "year", nil, "filter by registration year")
	browseCmd.Flags().StringSliceVar(&browseFlags.industries, "industry", nil, "filter by industry classification")
	browseCmd.Flags().StringSliceVar(&browseFlags.stateCodes, "state", nil, "filter by state code")
	browseCmd.Flags().StringVar(&browseFlags.search, "search", "", "free-text search on name or CIN")
	browseCmd.Flags().IntVar(&browseFlags.pages, "pages", 0, "maximum pages to fetch (0 = until exhausted)")
	rootCmd.AddCommand(browseCmd)
}
