// Package cli builds the routegraph command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"routegraph/internal/domain"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "routegraph",
		Short: "Turn map markers into a weighted graph and drawable routes",
		Long: `routegraph keeps an ordered list of map markers per session. Every new
marker is joined to all earlier ones by an edge weighted with the
great-circle distance in meters. Optimizers return a path of marker
indices, which routegraph resolves back to coordinates for drawing.

Run "routegraph serve" for the HTTP API, or use the offline commands on a
marker file (JSON or YAML wire snapshot).`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("metric", domain.MetricHaversine, "Distance metric: haversine|equirectangular")

	// Server
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and event stream",
		Args:  cobra.NoArgs,
		RunE:  RunServe,
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	serveCmd.Flags().String("db", "", "Database DSN, a file path for sqlite (overrides config)")
	serveCmd.Flags().String("driver", "", "Database driver: sqlite|mysql (overrides config)")
	serveCmd.Flags().String("config", "", "Config file path (default: search standard locations)")

	// Offline commands
	insertCmd := &cobra.Command{
		Use:   "insert",
		Short: "Print the star edges a new point would get",
		Args:  cobra.NoArgs,
		RunE:  RunInsert,
	}
	insertCmd.Flags().String("markers", "", "Marker file (.json, .yaml or .yml)")
	insertCmd.Flags().Float64("lat", 0, "Latitude of the new point")
	insertCmd.Flags().Float64("lng", 0, "Longitude of the new point")
	insertCmd.Flags().Bool("save", false, "Write the new marker and its edges back to the marker file")
	insertCmd.Flags().Bool("json", false, "Print machine-readable output")
	insertCmd.MarkFlagRequired("lat")
	insertCmd.MarkFlagRequired("lng")

	resolveCmd := &cobra.Command{
		Use:   "resolve <index>...",
		Short: "Resolve a path of marker indices to coordinates",
		Args:  cobra.ArbitraryArgs,
		RunE:  RunResolve,
	}
	resolveCmd.Flags().String("markers", "", "Marker file (.json, .yaml or .yml)")
	resolveCmd.Flags().Bool("json", false, "Print machine-readable output")
	resolveCmd.MarkFlagRequired("markers")

	matrixCmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print the pairwise distance matrix in meters",
		Args:  cobra.NoArgs,
		RunE:  RunMatrix,
	}
	matrixCmd.Flags().String("markers", "", "Marker file (.json, .yaml or .yml)")
	matrixCmd.Flags().Bool("json", false, "Print machine-readable output")
	matrixCmd.MarkFlagRequired("markers")

	// Config
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE:  RunConfigInit,
	}
	configInitCmd.Flags().String("path", "", "Config file to write (default: user config dir)")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "routegraph %s\n", version)
		},
	}

	rootCmd.AddCommand(
		serveCmd,
		insertCmd,
		resolveCmd,
		matrixCmd,
		configCmd,
		versionCmd,
	)

	return rootCmd
}
