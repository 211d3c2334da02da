package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type refreshOutput struct {
	State              string    `json:"state"`
	TotalCountries     int64     `json:"total_countries"`
	CountriesProcessed int       `json:"countries_processed"`
	Rejected           int       `json:"rejected"`
	LastRefreshedAt    time.Time `json:"last_refreshed_at"`
}

// refreshCmd runs the pipeline once without starting the server
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one refresh and print the result",
	Long:  `Fetches both external sources, persists the normalized rows and publishes the summary artifacts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		res, err := rt.sync.Run(cmd.Context())
		if err != nil {
			rt.logger.Error("Refresh failed", zap.String("state", string(res.State)))
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(refreshOutput{
			State:              string(res.State),
			TotalCountries:     res.Total,
			CountriesProcessed: res.Accepted,
			Rejected:           res.Rejected,
			LastRefreshedAt:    res.RunAt,
		})
	},
}

func init() {
	RootCmd.AddCommand(refreshCmd)
}
