package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

var (
	tipProfiles string
	tipID       string
	tipTrace    bool
	tipNoFull   bool
)

var tipCmd = &cobra.Command{
	Use:   "tip",
	Short: "Run the pipeline once for a profile and print the result as JSON",
	Example: `  stridecoach tip --id alice
  stridecoach tip --profiles configs/profiles.yaml --id bob --trace`,
	RunE: runTip,
}

func init() {
	tipCmd.Flags().StringVar(&tipProfiles, "profiles", "", "Profiles file (overrides profiles.file and profiles.base_url)")
	tipCmd.Flags().StringVar(&tipID, "id", "", "Profile id (default: first profile)")
	tipCmd.Flags().BoolVar(&tipTrace, "trace", false, "Include the emitted spans in the output")
	tipCmd.Flags().BoolVar(&tipNoFull, "no-full", false, "Disable the full pipeline for this run")
}

type tipResult struct {
	Output model.OrchestratorOutput `json:"output"`
	Spans  []tracing.Span           `json:"spans,omitempty"`
}

func runTip(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateCore(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if tipProfiles != "" {
		cfg.Profiles.File = tipProfiles
		cfg.Profiles.BaseURL = ""
	}

	ctx := cmd.Context()
	var mem *tracing.Memory
	var extra tracing.Sink
	if tipTrace {
		mem = &tracing.Memory{}
		extra = mem
	}
	a := newApp(ctx, cfg, logger, extra)
	defer a.Close()

	var in *model.OrchestratorInput
	if tipID != "" {
		found, err := a.collector.Find(ctx, tipID)
		if err != nil {
			return err
		}
		in = found
	} else {
		profiles, err := a.collector.Collect(ctx)
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			return fmt.Errorf("no profiles found")
		}
		in = &profiles[0]
	}
	if tipNoFull {
		in.Options.EnableFull = model.Bool(false)
	}

	res := tipResult{Output: a.orch.Run(ctx, in)}
	if mem != nil {
		res.Spans = mem.Spans()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

