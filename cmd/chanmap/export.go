package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/chanmap/internal/session"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/channelfile"
)

func newExportTableCommand() *cobra.Command {
	var mutations, output string

	cmd := &cobra.Command{
		Use:   "export-table <variant>",
		Short: "Normalise a mutation file into a CSV, JSON or XLSX table",
		Long: `Read a mutation file, drop duplicate and unparsable rows, and write the
remaining mutations in entry order. The format follows the extension of
--output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			v, err := channel.ParseVariant(args[0])
			if err != nil {
				return err
			}
			cfg.Variant = string(v)
			if output == "" {
				output = channelfile.TableFileName(v)
			}

			r, err := session.NewRenderer(cfg)
			if err != nil {
				return err
			}
			rep, err := session.ImportFile(r, mutations)
			if err != nil {
				return err
			}
			for _, re := range rep.Rejected {
				fmt.Printf("%s %v\n", errorStyle.Render("rejected"), re)
			}
			if err := channelfile.WriteMutationsFile(output, r.Mutations()); err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", output, session.Summary(rep))
			return nil
		},
	}
	cmd.Flags().StringVarP(&mutations, "mutations", "m", "", "mutation file (.csv, .json or .xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <variant>-variant-map.xlsx)")
	_ = cmd.MarkFlagRequired("mutations")
	return cmd
}
