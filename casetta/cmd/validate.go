package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/casetta/facility"
	"github.com/sarchlab/casetta/modules"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a facility configuration.",
	Long: "`validate` loads the configuration, builds every module, and " +
		"checks the exchange graph without running a tick.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := buildFacility()
		if err != nil {
			return err
		}

		s := f.Schema()
		printf(cmd, "ok: %d modules, %d observation fields, %d actions\n",
			len(f.Modules()), len(s.Observation), len(s.Action))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func buildFacility() (*facility.Facility, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	ms, err := modules.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	kinds, err := cfg.Kinds()
	if err != nil {
		return nil, err
	}

	return facility.MakeBuilder().
		WithModules(ms...).
		WithRoutingOrder(kinds...).
		WithLogger(logger).
		Build()
}
