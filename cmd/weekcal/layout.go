package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"weekcal/internal/config"
	"weekcal/internal/ics"
	"weekcal/internal/layout"
	"weekcal/internal/model"
	"weekcal/internal/sample"
)

type layoutOptions struct {
	date    string
	days    int
	icsFile string
	asJSON  bool
}

type layoutDay struct {
	Day    model.Day               `json:"day"`
	Events []model.PositionedEvent `json:"events"`
}

type layoutOutput struct {
	Days   []layoutDay       `json:"days"`
	AllDay []model.AllDayRow `json:"all_day"`
}

func newLayoutCmd(root *rootOptions) *cobra.Command {
	opts := &layoutOptions{}
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the column and row layout for a range of days",
		Long: "Lays out events from an ICS file (or the demo data) for the given days\n" +
			"and prints each event's column and percentage geometry.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := root.loadConfig()
			if err != nil {
				return err
			}
			return runLayout(cmd.OutOrStdout(), conf, opts, time.Now())
		},
	}
	cmd.Flags().StringVar(&opts.date, "date", "", "First day (YYYY-MM-DD); default is the current week start")
	cmd.Flags().IntVar(&opts.days, "days", 0, "Number of days; default is the configured view")
	cmd.Flags().StringVar(&opts.icsFile, "ics", "", "Read events from this ICS file instead of the demo data")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Output JSON")
	return cmd
}

func runLayout(w io.Writer, conf *config.Config, opts *layoutOptions, now time.Time) error {
	loc := conf.Location()
	now = now.In(loc)

	from := model.StartOfWeek(now, conf.Weekday())
	if conf.ViewMode().VisibleDays() == 1 {
		from = model.StartOfDay(now)
	}
	if opts.date != "" {
		d, err := time.ParseInLocation(time.DateOnly, opts.date, loc)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		from = d
	}
	n := opts.days
	if n <= 0 {
		n = conf.ViewMode().VisibleDays()
	}

	var events []model.Event
	if opts.icsFile != "" {
		body, err := os.ReadFile(opts.icsFile)
		if err != nil {
			return err
		}
		events, err = ics.ParseIn("file", body, loc)
		if err != nil {
			return err
		}
	} else {
		events = sample.Around(from, conf.Weekday())
	}

	days := model.DaysFrom(from, n, now)
	out := layoutOutput{AllDay: layout.PositionAllDayRows(events, days)}
	for _, d := range days {
		out.Days = append(out.Days, layoutDay{Day: d, Events: layout.PositionEvents(events, d)})
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printLayout(w, out)
}

func printLayout(w io.Writer, out layoutOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(out.AllDay) > 0 {
		fmt.Fprintln(tw, "ALL-DAY\tROW\tCOLUMNS\tTITLE")
		for _, r := range out.AllDay {
			fmt.Fprintf(tw, "\t%d\t%d-%d\t%s\n", r.Row, r.StartColumn, r.EndColumn, r.Event.Title)
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintln(tw, "DAY\tTIME\tCOL\tLEFT\tWIDTH\tTITLE")
	for _, d := range out.Days {
		label := d.Day.Date.Format("Mon 01-02")
		if len(d.Events) == 0 {
			fmt.Fprintf(tw, "%s\t-\t\t\t\t\n", label)
			continue
		}
		for _, pe := range d.Events {
			fmt.Fprintf(tw, "%s\t%s-%s\t%d/%d\t%.1f%%\t%.1f%%\t%s\n",
				label,
				pe.Event.Start.Format("15:04"), pe.Event.End.Format("15:04"),
				pe.Column+1, pe.TotalColumns,
				pe.Left, pe.Width,
				pe.Event.Title)
			label = ""
		}
	}
	return tw.Flush()
}
