package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ha1tch/chanmap/internal/config"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/channelfile"
)

func TestFormatInfo(t *testing.T) {
	table, err := channelfile.DefaultSegmentTable()
	if err != nil {
		t.Fatal(err)
	}
	recs, err := table.Records(channel.SCN1A)
	if err != nil {
		t.Fatal(err)
	}
	out := formatInfo(channel.SCN1A, recs)
	for _, want := range []string{"Sodium Voltage-Gated Channel Alpha Subunit 1", "Nav1.1 (SCN1A)", "2009 residues", "1788-2009"} {
		if !strings.Contains(out, want) {
			t.Errorf("info lacks %q", want)
		}
	}
	if got := strings.Count(out, "Cytoplasmic"); got != 13 {
		t.Errorf("%d cytoplasmic rows", got)
	}
}

func TestRenderOverride(t *testing.T) {
	cmd := newRenderCommand()
	if err := cmd.Flags().Set("size", "150"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("no-labels", "true"); err != nil {
		t.Fatal(err)
	}

	o := renderOptions{size: 150, noLabels: true}
	cfg := config.Default()
	if err := o.override(cmd, cfg, "KCNQ3"); err != nil {
		t.Fatal(err)
	}
	if cfg.Variant != "kcnq3" || cfg.MutationSize != 150 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LegendX != 530 {
		t.Error("unset flag overrode the legend position")
	}
	if cfg.Labels() || !cfg.Legend() {
		t.Error("toggles")
	}
	if o.output != "kcnq3-variant-map.svg" {
		t.Errorf("output = %q", o.output)
	}

	if err := (&renderOptions{watch: true}).override(newRenderCommand(), config.Default(), "scn1a"); err == nil {
		t.Error("--watch without a file accepted")
	}
	if err := (&renderOptions{}).override(newRenderCommand(), config.Default(), "scn7a"); err == nil {
		t.Error("unknown variant accepted")
	}
}

func TestRenderOnce(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map.svg")
	cfg := config.Default()
	if err := renderOnce(cfg, renderOptions{output: out}); err != nil {
		t.Fatal(err)
	}
}
