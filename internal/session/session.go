// Package session wires the user settings, the segment table and the
// mutation files to a diagram renderer. Both front ends start here.
package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ha1tch/chanmap/internal/config"
	"github.com/ha1tch/chanmap/internal/logging"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/channelfile"
	"github.com/ha1tch/chanmap/pkg/diagram"
	"github.com/ha1tch/chanmap/pkg/legend"
)

// NewRenderer loads the configured segment table and returns a renderer
// for the configured variant with the settings applied.
func NewRenderer(cfg *config.Config, options ...diagram.RendererOption) (*diagram.Renderer, error) {
	v, err := channel.ParseVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}
	table, err := channelfile.LoadSegmentTable(cfg.TablePath)
	if err != nil {
		return nil, fmt.Errorf("load segment table: %w", err)
	}
	options = append([]diagram.RendererOption{diagram.WithVariant(v)}, options...)
	r := diagram.NewRenderer(table, diagram.OptionsForViewport(cfg.ViewportWidth), options...)
	if err := Apply(r, cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Apply dispatches the display settings of cfg to r.
func Apply(r *diagram.Renderer, cfg *config.Config) error {
	events := []diagram.Event{
		diagram.SetMutationSize{Size: cfg.MutationSize},
		diagram.SetLegendPosition{X: cfg.LegendX, Y: cfg.LegendY},
	}
	if r.Enabled(legend.ToggleLegend) != cfg.Legend() {
		events = append(events, diagram.ToggleVisibility{Toggle: legend.ToggleLegend})
	}
	if r.Enabled(legend.ToggleLabels) != cfg.Labels() {
		events = append(events, diagram.ToggleVisibility{Toggle: legend.ToggleLabels})
	}

	// Phenotype colours set here win over the automatic assignment.
	keys := make([]string, 0, len(cfg.Colours))
	for k := range cfg.Colours {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		events = append(events, diagram.SetColour{Key: k, Hex: cfg.Colours[k]})
	}

	for _, ev := range events {
		if _, err := r.Dispatch(ev); err != nil {
			return fmt.Errorf("apply settings: %w", err)
		}
	}
	return nil
}

// ImportFile merges the mutations in path into r.
func ImportFile(r *diagram.Renderer, path string) (channel.ImportReport, error) {
	recs, err := channelfile.ReadMutationsFile(path)
	if err != nil {
		return channel.ImportReport{}, err
	}
	if _, err := r.Dispatch(diagram.ImportMutations{Records: recs}); err != nil {
		return channel.ImportReport{}, err
	}
	return r.LastImport(), nil
}

// FormatFor returns "png" or "svg" from the extension of path, or fallback
// when the extension is neither.
func FormatFor(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".svg":
		return "svg"
	}
	return fallback
}

// Export writes sc in format ("svg" or "png"). PNG output is scaled.
func Export(w io.Writer, sc *diagram.Scene, format string, scale int) error {
	switch format {
	case "png":
		return diagram.WritePNG(w, sc, diagram.PNGOptions{Scale: scale})
	case "svg":
		return diagram.WriteSVG(w, sc)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// ExportFile writes sc to path in the format implied by its extension.
func ExportFile(path string, sc *diagram.Scene, fallback string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Export(f, sc, FormatFor(path, fallback), scale)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	logging.Infof("exported %s", path)
	return nil
}

// ExportName is the default file name for a variant's diagram.
func ExportName(v channel.Variant, format string) string {
	return fmt.Sprintf("%s-variant-map.%s", v, format)
}

// Summary is a one-line description of an import report.
func Summary(rep channel.ImportReport) string {
	s := fmt.Sprintf("%d added, %d skipped", len(rep.Added), len(rep.Skipped))
	if len(rep.Rejected) > 0 {
		s += fmt.Sprintf(", %d rejected", len(rep.Rejected))
	}
	return s
}
