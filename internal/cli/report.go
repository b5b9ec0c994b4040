package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/utils"
)

const barWidth = 20

func bar(pct float64) string {
	n := int(math.Round(pct / 100 * barWidth))
	n = max(0, min(n, barWidth))
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	if err := ctx.refresh(); err != nil {
		return err
	}
	ctx.printf("%s\n", ctx.App.TodayLabel())
	ctx.printf("🔥 %d day streak\n\n", ctx.App.Streak())

	rows := ctx.App.Rows()
	if len(rows) == 0 {
		ctx.printf("No habits yet.\n")
		return nil
	}
	for _, r := range rows {
		mark := " "
		if r.Full {
			mark = "✓"
		}
		ctx.printf("%s %s %-20s %d/%d  %s %d/%d\n",
			mark, r.Habit.Emoji, r.Habit.Name,
			r.Today, r.Habit.DailyTarget,
			bar(r.Progress), r.Week, r.Habit.WeeklyTarget)
	}
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.refresh(); err != nil {
		return err
	}

	trend := ctx.App.Trend()
	scale := metrics.TrendScale(trend)
	ctx.printf("Last 7 days\n")
	for _, d := range trend {
		marker := " "
		if d.IsToday {
			marker = "*"
		}
		ctx.printf("%s %-4s %s %d\n", marker, d.Label, bar(metrics.BarHeight(d.Count, scale)), d.Count)
	}

	ctx.printf("\nMost frequent\n")
	freq := ctx.App.Frequency()
	if len(freq) == 0 {
		ctx.printf("No habits yet.\n")
		return nil
	}
	for i, f := range freq {
		ctx.printf("%d. %s %-20s %s %d\n", i+1, f.Habit.Emoji, f.Habit.Name, bar(f.Width), f.Count)
	}
	return nil
}

type CalendarCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM), defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	month := ctx.App.Now()
	if c.Month != "" {
		t, err := utils.ParseMonth(c.Month, ctx.App.Location())
		if err != nil {
			return err
		}
		month = t
	}
	if err := ctx.refresh(); err != nil {
		return err
	}

	grid := ctx.App.Month(month)
	ctx.printf("%s\n", grid.Label)

	first := utils.StartOfMonth(month)
	for i := 0; i < 7; i++ {
		// grid.Leading days back from the 1st is always a Monday
		ctx.printf("%-6s", metrics.ShortWeekday(utils.AddDays(first, i-grid.Leading), ctx.App.Locale()))
	}
	ctx.printf("\n")

	col := 0
	for ; col < grid.Leading; col++ {
		ctx.printf("%-6s", "")
	}
	for _, d := range grid.Days {
		cell := fmt.Sprintf("%2d", d.Day)
		switch {
		case d.IsToday && d.Intensity > 0:
			cell = fmt.Sprintf("[%d]%d", d.Day, d.Intensity)
		case d.IsToday:
			cell = fmt.Sprintf("[%d]", d.Day)
		case d.Intensity > 0:
			cell = fmt.Sprintf("%2d·%d", d.Day, d.Intensity)
		}
		ctx.printf("%-6s", cell)
		col++
		if col%7 == 0 {
			ctx.printf("\n")
		}
	}
	if col%7 != 0 {
		ctx.printf("\n")
	}
	return nil
}

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *DayCmd) Run(ctx *Context) error {
	date := ctx.App.Today()
	if c.Date != "" && c.Date != "today" {
		d, err := utils.ParseDateKey(c.Date, ctx.App.Location())
		if err != nil {
			return err
		}
		date = d
	}
	if err := ctx.refresh(); err != nil {
		return err
	}

	label := date
	if t, err := utils.KeyTime(date, ctx.App.Location()); err == nil {
		label = metrics.LongWeekday(t, ctx.App.Locale()) + ", " + metrics.LongDateLabel(t, ctx.App.Locale())
	}
	ctx.printf("%s\n\n", label)

	detail := ctx.App.DayDetail(date)
	if len(detail) == 0 {
		ctx.printf("  Nothing recorded.\n")
		return nil
	}
	for _, d := range detail {
		ctx.printf("  %s %s  done %d times\n", d.Habit.Emoji, d.Habit.Name, d.Count)
	}
	return nil
}
