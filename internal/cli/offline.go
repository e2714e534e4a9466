package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"routegraph/internal/codec"
	"routegraph/internal/domain"
)

func RunInsert(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("markers")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	save, _ := cmd.Flags().GetBool("save")
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	if save && path == "" {
		return fmt.Errorf("--save requires --markers")
	}

	metric, err := metricFlag(cmd)
	if err != nil {
		return err
	}

	snapshot := domain.NewGraphSnapshot()
	if path != "" {
		// A missing file is an empty graph so --save can start one
		snapshot, err = loadMarkers(path)
		if errors.Is(err, fs.ErrNotExist) {
			snapshot, err = domain.NewGraphSnapshot(), nil
		}
		if err != nil {
			return err
		}
	}

	p := domain.Coordinate{Lat: lat, Lng: lng}
	graph := snapshot.Graph()
	edges, index, err := graph.Insert(domain.NewGraphBuilder(metric), p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if save {
		updated := graph.Snapshot()
		updated.Session = snapshot.Session
		if err := saveMarkers(path, updated); err != nil {
			return err
		}
	}

	if asJSON {
		return writeJSON(out, map[string]interface{}{
			"index": index,
			"edges": edges,
		})
	}

	fmt.Fprintf(out, "new marker %d at %s\n", index, p)
	for _, e := range edges {
		fmt.Fprintf(out, "  %s\n", e)
	}
	if save {
		fmt.Fprintf(out, "saved %d markers to %s\n", graph.Len(), path)
	}
	return nil
}

func RunResolve(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("markers")
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	metric, err := metricFlag(cmd)
	if err != nil {
		return err
	}

	route := make(domain.Path, len(args))
	for i, arg := range args {
		idx, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("path element %d: %q is not an index", i, arg)
		}
		route[i] = idx
	}

	snapshot, err := loadMarkers(path)
	if err != nil {
		return err
	}

	resolved, err := domain.NewRoute(route, snapshot.Coordinates(), metric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, resolved)
	}

	if resolved.Empty() {
		fmt.Fprintln(out, "empty path")
		return nil
	}
	for k, c := range resolved.Coordinates {
		fmt.Fprintf(out, "%d\t%d\t%s\n", k, resolved.Path[k], c)
	}
	fmt.Fprintf(out, "total %.1f m\n", resolved.DistanceMeters)
	return nil
}

func RunMatrix(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("markers")
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	metric, err := metricFlag(cmd)
	if err != nil {
		return err
	}

	snapshot, err := loadMarkers(path)
	if err != nil {
		return err
	}

	matrix, err := domain.DistanceMatrix(snapshot.Coordinates(), metric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, map[string]interface{}{"matrix": matrix})
	}

	for _, row := range matrix {
		for j, d := range row {
			if j > 0 {
				fmt.Fprint(out, "\t")
			}
			fmt.Fprintf(out, "%.1f", d)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func metricFlag(cmd *cobra.Command) (domain.DistanceMetric, error) {
	name, err := cmd.Flags().GetString("metric")
	if err != nil || name == "" {
		name = domain.MetricHaversine
	}
	return domain.MetricByName(name, 0)
}

func loadMarkers(path string) (*domain.GraphSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open marker file: %w", err)
	}
	defer f.Close()

	snapshot, err := codec.ForPath(path).Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

func saveMarkers(path string, snapshot *domain.GraphSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}
	if err := codec.ForPath(path).Export(snapshot, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
