package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd prints the cache aggregate
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cached country count and last refresh time",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		st, err := rt.store.Status(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("\n--- Country Cache Status ---")
		fmt.Printf("Total countries:   %d\n", st.TotalCountries)
		if st.LastRefreshedAt != nil {
			fmt.Printf("Last refreshed at: %s\n", st.LastRefreshedAt.Format("2006-01-02T15:04:05Z07:00"))
		} else {
			fmt.Println("Last refreshed at: never")
		}
		fmt.Println("----------------------------")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
}
