package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/longkey1/weatherbot/internal/weather"
	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	"github.com/spf13/cobra"
)

// weatherCmd represents the weather command
var weatherCmd = &cobra.Command{
	Use:   "weather <city>",
	Short: "Print the current weather for a city",
	Long: `Fetch the current weather for a city from OpenWeatherMap and print it,
without involving the language model. Only OPENWEATHERMAP_API_KEY is needed.

Examples:
  weatherbot weather Berlin
  weatherbot weather "Buenos Aires" --units imperial`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("units") {
			cfg.Units, _ = cmd.Flags().GetString("units")
		}
		unitSetting, err := cfg.GetUnits()
		if err != nil {
			return err
		}

		fetcher, err := newFetcher(cfg, newLogger())
		if err != nil {
			return err
		}

		city := strings.Join(args, " ")
		report, err := fetcher.Current(cmd.Context(), city)
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				return fmt.Errorf("no weather found for %q: %w", city, err)
			}
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), report.Format(unitSetting))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weatherCmd)
	weatherCmd.Flags().StringP("units", "u", "", "Temperature units: metric or imperial")
}
