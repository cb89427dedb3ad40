package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/birdhunt/internal/domain/catalog"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/internal/simulate"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
	okColor    = color.New(color.FgGreen, color.Bold)

	tierColors = map[catalog.Tier]*color.Color{
		catalog.Abundant:   color.New(color.FgYellow),
		catalog.Common:     color.New(color.FgHiYellow),
		catalog.Uncommon:   color.New(color.FgGreen),
		catalog.Occasional: color.New(color.FgBlue),
		catalog.Rare:       color.New(color.FgMagenta, color.Bold),
	}
)

func tierLabel(t catalog.Tier) string {
	if c, ok := tierColors[t]; ok {
		return c.Sprint(string(t))
	}
	return string(t)
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func printLeaderboard(w io.Writer, entries []types.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.Itoa(e.Rank), e.Medal, e.User, strconv.Itoa(e.Points)})
	}
	return renderTable(w, []string{"Rank", "Medal", "Player", "Points"}, rows)
}

func printUserStats(w io.Writer, st types.UserStats) error {
	fmt.Fprintln(w, titleColor.Sprint(st.User))
	summary := [][]string{
		{"This week", strconv.Itoa(st.WeeklyPoints), rankLabel(st.WeeklyRank), strconv.Itoa(st.SpeciesThisWeek) + " species"},
		{"All time", strconv.Itoa(st.LifetimePoints), rankLabel(st.LifetimeRank), strconv.Itoa(st.SpeciesTotal) + " species"},
	}
	if err := renderTable(w, []string{"Period", "Points", "Rank", "Species"}, summary); err != nil {
		return err
	}
	fmt.Fprintf(w, "Medals: %s %d  %s %d  %s %d\n",
		types.GoldMedal, st.Medals.Gold, types.SilverMedal, st.Medals.Silver, types.BronzeMedal, st.Medals.Bronze)

	rows := make([][]string, 0, len(st.Collection))
	for _, tc := range st.Collection {
		rows = append(rows, []string{tierLabel(catalog.Tier(tc.Tier)), strconv.Itoa(tc.Points), strconv.Itoa(len(tc.Species)), strings.Join(tc.Species, ", ")})
	}
	return renderTable(w, []string{"Tier", "Points", "Found", "Species"}, rows)
}

func rankLabel(rank int) string {
	if rank == 0 {
		return "-"
	}
	return "#" + strconv.Itoa(rank)
}

func printMedalHistory(w io.Writer, history []types.WeekPodium) error {
	rows := make([][]string, 0, len(history))
	for _, wp := range history {
		row := []string{fmt.Sprintf("%d-W%02d", wp.Year, wp.Week), "", "", ""}
		for i, e := range wp.Podium {
			if i < 3 {
				row[i+1] = fmt.Sprintf("%s %s (%d)", e.Medal, e.User, e.Points)
			}
		}
		rows = append(rows, row)
	}
	return renderTable(w, []string{"Week", "Gold", "Silver", "Bronze"}, rows)
}

func printCatalog(w io.Writer, species []catalog.Species) error {
	rows := make([][]string, 0, len(species))
	for _, sp := range species {
		rows = append(rows, []string{sp.Name, tierLabel(sp.Tier), strconv.Itoa(sp.Points), sp.Family})
	}
	return renderTable(w, []string{"Species", "Tier", "Points", "Family"}, rows)
}

func printReport(w io.Writer, r *simulate.Report) error {
	st := r.Stats
	fmt.Fprintf(w, "Submitted %d sightings in %s: %d accepted (+%d points), %d duplicate, %d failed\n",
		st.Submitted, st.Duration.Round(time.Millisecond), st.Accepted, st.Points, st.Duplicate, st.Failed)

	rows := make([][]string, 0, len(r.Players))
	for _, p := range r.Players {
		rows = append(rows, []string{p.User, strconv.Itoa(p.Before), "+" + strconv.Itoa(p.Awarded), strconv.Itoa(p.After)})
	}
	if err := renderTable(w, []string{"Player", "Before", "Awarded", "After"}, rows); err != nil {
		return err
	}

	if r.OK() {
		fmt.Fprintln(w, okColor.Sprint("Weekly totals verified."))
		return nil
	}
	for _, m := range r.Mismatches {
		fmt.Fprintln(w, errorColor.Sprintf("%s: expected %d, server has %d", m.User, m.Expected, m.Actual))
	}
	if !r.Sorted {
		fmt.Fprintln(w, errorColor.Sprint("Weekly leaderboard is out of order."))
	}
	return nil
}
