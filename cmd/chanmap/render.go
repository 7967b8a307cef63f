package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ha1tch/chanmap/internal/config"
	"github.com/ha1tch/chanmap/internal/logging"
	"github.com/ha1tch/chanmap/internal/session"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/diagram"
)

type renderOptions struct {
	mutations string
	output    string
	noLegend  bool
	noLabels  bool
	typ       string
	phenotype string
	size      int
	legendX   int
	legendY   int
	table     string
	scale     int
	viewport  int
	watch     bool
}

func newRenderCommand() *cobra.Command {
	var o renderOptions

	cmd := &cobra.Command{
		Use:   "render <variant>",
		Short: "Render a variant map to SVG or PNG",
		Long: `Render the channel diagram of a variant with the mutations of a CSV,
JSON or XLSX file. The output format follows the extension of --output.`,
		Example: `  chanmap render scn1a -m mutations.csv -o scn1a.svg
  chanmap render kcnq2 -m patients.xlsx -o kcnq2.png --phenotype DEE
  chanmap render scn2a -m mutations.csv --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := o.override(cmd, cfg, args[0]); err != nil {
				return err
			}
			return runRender(cfg, o)
		},
	}

	cmd.Flags().StringVarP(&o.mutations, "mutations", "m", "", "mutation file (.csv, .json or .xlsx)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default <variant>-variant-map.<format>)")
	cmd.Flags().BoolVar(&o.noLegend, "no-legend", false, "hide the legend")
	cmd.Flags().BoolVar(&o.noLabels, "no-labels", false, "hide the marker labels")
	cmd.Flags().StringVar(&o.typ, "type", "", "show only mutations of this type")
	cmd.Flags().StringVar(&o.phenotype, "phenotype", "", "show only mutations with this phenotype")
	cmd.Flags().IntVar(&o.size, "size", 0, "marker size (70-200)")
	cmd.Flags().IntVar(&o.legendX, "legend-x", 0, "legend x position")
	cmd.Flags().IntVar(&o.legendY, "legend-y", 0, "legend y position (10-320)")
	cmd.Flags().StringVar(&o.table, "table", "", "segment table CSV (default built-in)")
	cmd.Flags().IntVar(&o.scale, "scale", diagram.ExportScale, "PNG scale factor")
	cmd.Flags().IntVar(&o.viewport, "viewport", 0, "viewport width; below 1300 the narrow layout is used")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "re-render whenever the mutation file changes")
	cmd.MarkFlagsMutuallyExclusive("type", "phenotype")

	return cmd
}

// override copies the flags that were set onto the settings.
func (o *renderOptions) override(cmd *cobra.Command, cfg *config.Config, variant string) error {
	v, err := channel.ParseVariant(variant)
	if err != nil {
		return err
	}
	cfg.Variant = string(v)

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.MutationSize = o.size
	}
	if flags.Changed("legend-x") {
		cfg.LegendX = o.legendX
	}
	if flags.Changed("legend-y") {
		cfg.LegendY = o.legendY
	}
	if flags.Changed("table") {
		cfg.TablePath = o.table
	}
	if flags.Changed("scale") {
		cfg.PNGScale = o.scale
	}
	if flags.Changed("viewport") {
		cfg.ViewportWidth = o.viewport
	}
	if o.noLegend {
		off := false
		cfg.ShowLegend = &off
	}
	if o.noLabels {
		off := false
		cfg.ShowLabels = &off
	}
	if o.output == "" {
		o.output = session.ExportName(v, cfg.ExportFormat)
	}
	if o.watch && o.mutations == "" {
		return fmt.Errorf("--watch needs a mutation file (-m)")
	}
	return nil
}

func runRender(cfg *config.Config, o renderOptions) error {
	if err := renderOnce(cfg, o); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Infof("watching %s (Ctrl-C to stop)", o.mutations)
	return session.Watch(ctx, o.mutations, session.DefaultDebounce, func() {
		logging.Infof("%s changed, re-rendering", o.mutations)
		if err := renderOnce(cfg, o); err != nil {
			logging.Errorf("%v", err)
		}
	})
}

// renderOnce builds a fresh renderer so every run starts from the file
// alone.
func renderOnce(cfg *config.Config, o renderOptions) error {
	r, err := session.NewRenderer(cfg)
	if err != nil {
		return err
	}
	if reason := r.Scene().Unavailable; reason != "" {
		logging.Warnf("diagram unavailable: %s", reason)
	}

	if o.mutations != "" {
		rep, err := session.ImportFile(r, o.mutations)
		if err != nil {
			return err
		}
		logging.Infof("%s: %s", o.mutations, session.Summary(rep))
	}

	var filter diagram.Event
	switch {
	case o.typ != "":
		filter = diagram.FilterByType{Type: o.typ}
	case o.phenotype != "":
		filter = diagram.FilterByPhenotype{Phenotype: o.phenotype}
	}
	if filter != nil {
		if _, err := r.Dispatch(filter); err != nil {
			return err
		}
	}

	sc := r.Final()
	for _, err := range sc.Skipped {
		logging.Warnf("marker skipped: %v", err)
	}
	if err := session.ExportFile(o.output, sc, cfg.ExportFormat, cfg.PNGScale); err != nil {
		return err
	}
	fmt.Printf("%s: %s, %d markers\n", o.output, r.Variant().Gene(), sc.Count("marker"))
	return nil
}
