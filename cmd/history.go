package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/King-RAM/kno-url/pkg/storage"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints recent scrape runs from the history database.",
	Long:  "Prints recent scrape runs from the history database. Night-ops removes the database together with the rest of the cache.",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		_, cacheDirs := cachePaths()
		if len(cacheDirs) == 0 {
			return fmt.Errorf("could not resolve the cache directory")
		}
		dbPath := filepath.Join(cacheDirs[0], historyDBName)
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("no history database at %s", dbPath)
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.RecentRuns(context.Background(), limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No scrape runs recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "FETCHED\tURL\tBYTES\tEXTRACTED\tMATCHED\t")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t\n",
				r.FetchedAt.Format("2006-01-02 15:04:05"), r.URL, r.BodyBytes, r.Extracted, r.Matched)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "", 20, "Maximum number of runs to print")
}
