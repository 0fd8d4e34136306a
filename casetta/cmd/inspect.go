package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/casetta/datarecording"
	"github.com/sarchlab/casetta/tracing"
)

var inspectFlags struct {
	episode string
	field   string
	limit   int
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Summarize a recorded episode file.",
	Long: "`inspect FILE` lists the recorded episodes and the run " +
		"properties. With --field, it prints the value of one observation " +
		"field for every recorded tick.",
	Args: cobra.ExactArgs(1),
	RunE: inspectRecording,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	f := inspectCmd.Flags()
	f.StringVar(&inspectFlags.episode, "episode", "",
		"episode ID (default: every episode)")
	f.StringVar(&inspectFlags.field, "field", "",
		"qualified observation field to print, e.g. battery_soc")
	f.IntVar(&inspectFlags.limit, "limit", 0, "maximum number of rows, 0 for all")
}

func inspectRecording(cmd *cobra.Command, args []string) error {
	if !exists(args[0]) {
		return fmt.Errorf("no recording at %s", args[0])
	}

	reader := datarecording.NewReader(args[0])
	defer reader.Close()

	reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})
	reader.MapTable(tracing.EpisodeTable, tracing.EpisodeEntry{})
	reader.MapTable(tracing.TickTable, tracing.TickEntry{})

	ctx := contextOrBackground(cmd.Context())

	if inspectFlags.field != "" {
		return printSeries(cmd, reader)
	}

	info, _, err := reader.Query(ctx, datarecording.ExecInfoTable,
		datarecording.QueryParams{})
	if err != nil {
		return err
	}

	for _, row := range info {
		e := row.(*datarecording.ExecInfo)
		printf(cmd, "%-18s %s\n", e.Property, e.Value)
	}

	episodes, _, err := reader.Query(ctx, tracing.EpisodeTable,
		datarecording.QueryParams{})
	if err != nil {
		return err
	}

	for _, row := range episodes {
		e := row.(*tracing.EpisodeEntry)

		_, rows, err := reader.Query(ctx, tracing.TickTable,
			datarecording.QueryParams{
				Where: "Episode = ? AND Field = ?",
				Args:  []any{e.ID, firstFieldOf(cmd, reader, e.ID)},
			})
		if err != nil {
			return err
		}

		printf(cmd, "episode %s: %d fields, %d ticks recorded\n",
			e.ID, e.Fields, rows)
	}

	return nil
}

func firstFieldOf(
	cmd *cobra.Command,
	reader datarecording.DataReader,
	episode string,
) string {
	rows, _, err := reader.Query(contextOrBackground(cmd.Context()),
		tracing.TickTable,
		datarecording.QueryParams{
			Where:   "Episode = ?",
			Args:    []any{episode},
			OrderBy: "Tick",
			Limit:   1,
		})
	if err != nil || len(rows) == 0 {
		return ""
	}

	return rows[0].(*tracing.TickEntry).Field
}

func printSeries(cmd *cobra.Command, reader datarecording.DataReader) error {
	where := "Field = ?"
	queryArgs := []any{inspectFlags.field}

	if inspectFlags.episode != "" {
		where += " AND Episode = ?"
		queryArgs = append(queryArgs, inspectFlags.episode)
	}

	rows, total, err := reader.Query(contextOrBackground(cmd.Context()),
		tracing.TickTable,
		datarecording.QueryParams{
			Where:   where,
			Args:    queryArgs,
			OrderBy: "Episode, Tick",
			Limit:   inspectFlags.limit,
		})
	if err != nil {
		return err
	}

	if total == 0 {
		return fmt.Errorf("no recorded values for field %s", inspectFlags.field)
	}

	for _, row := range rows {
		t := row.(*tracing.TickEntry)
		printf(cmd, "%s\t%d\t%g\n", t.Episode, t.Tick, t.Value)
	}

	return nil
}
