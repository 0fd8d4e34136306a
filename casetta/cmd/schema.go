package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/casetta/sim"
)

var schemaJSON bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the observation and action schema of a facility.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := buildFacility()
		if err != nil {
			return err
		}

		s := f.Schema()

		if schemaJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(map[string][]schemaField{
				"observation": toSchemaFields(s.Observation),
				"action":      toSchemaFields(s.Action),
			})
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		writeFields(w, "OBSERVATION", s.Observation)
		fmt.Fprintln(w)
		writeFields(w, "ACTION", s.Action)

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "print as JSON")
}

type schemaField struct {
	Name string `json:"name"`
	Low  string `json:"low"`
	High string `json:"high"`
}

func toSchemaFields(fields []sim.FieldSpec) []schemaField {
	out := make([]schemaField, len(fields))
	for i, f := range fields {
		out[i] = schemaField{
			Name: f.Name,
			Low:  formatBound(f.Low),
			High: formatBound(f.High),
		}
	}

	return out
}

func writeFields(w *tabwriter.Writer, title string, fields []sim.FieldSpec) {
	fmt.Fprintf(w, "%s\tLOW\tHIGH\n", title)

	for _, f := range fields {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			f.Name, formatBound(f.Low), formatBound(f.High))
	}
}

func formatBound(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%g", v)
	}
}
