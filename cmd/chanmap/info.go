package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/channelfile"
)

func newInfoCommand() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "info <variant>",
		Short: "Show a variant's names and segment ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if table == "" {
				table = cfg.TablePath
			}
			v, err := channel.ParseVariant(args[0])
			if err != nil {
				return err
			}
			t, err := channelfile.LoadSegmentTable(table)
			if err != nil {
				return err
			}
			recs, err := t.Records(v)
			if err != nil {
				return err
			}
			fmt.Print(formatInfo(v, recs))
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "segment table CSV (default built-in)")
	return cmd
}

func formatInfo(v channel.Variant, recs []channel.SegmentRecord) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(v.Title()) + "\n")
	sb.WriteString(subtitleStyle.Render(fmt.Sprintf("%s (%s), %s channel, %d residues",
		v.Protein(), v.Gene(), v.Family(), channel.LastResidue(recs))) + "\n")

	sb.WriteString(column(headerStyle, "Region", 16) + column(headerStyle, "Domain", 8) +
		column(headerStyle, "Residues", 12) + headerStyle.Render("Length") + "\n")
	for _, rec := range recs {
		style := mutedStyle
		if !rec.IsLoop() {
			style = titleStyle
		}
		sb.WriteString(column(style, rec.Region, 16) + column(mutedStyle, rec.DomainLabel, 8) +
			column(mutedStyle, rec.Range.String(), 12) + fmt.Sprintf("%d", rec.Range.Len()+1) + "\n")
	}
	return sb.String()
}

func newVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the supported variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			t, err := channelfile.LoadSegmentTable(cfg.TablePath)
			if err != nil {
				return err
			}
			var sb strings.Builder
			for _, v := range channel.Variants() {
				residues := mutedStyle.Render("unavailable")
				if recs, err := t.Records(v); err == nil {
					residues = fmt.Sprintf("%d residues", channel.LastResidue(recs))
				}
				sb.WriteString(column(titleStyle, v.Gene(), 9) + column(mutedStyle, v.Protein(), 9) + residues + "\n")
			}
			fmt.Print(boxStyle.Render(strings.TrimRight(sb.String(), "\n")) + "\n")
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a segment table against every variant's topology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if table == "" {
				table = cfg.TablePath
			}
			t, err := channelfile.LoadSegmentTable(table)
			if err != nil {
				return err
			}
			failed := 0
			for _, v := range channel.Variants() {
				if _, err := t.Records(v); err != nil {
					failed++
					fmt.Printf("%s %s: %v\n", errorStyle.Render("FAIL"), v.Gene(), err)
					continue
				}
				fmt.Printf("%s %s\n", successStyle.Render("ok  "), v.Gene())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d variants failed validation", failed, len(channel.Variants()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "segment table CSV (default built-in)")
	return cmd
}
