package ui

import (
	"fmt"
	"strings"
	"time"

	"galleryscraper/pkg/scraper"
)

// PrintSummary renders the end-of-run report in a bordered panel. rate is
// downloads per minute; zero leaves the row out.
func (p *Printer) PrintSummary(s *scraper.Summary, rate float64) {
	if p.quiet || s == nil {
		return
	}

	rows := [][2]string{
		{"Pages", fmt.Sprintf("%d fetched, %d failed", s.PagesFetched, s.PagesFailed)},
		{"Posts", fmt.Sprintf("%d", s.Posts)},
		{"Downloaded", fmt.Sprintf("%d", s.Downloaded)},
		{"Skipped", fmt.Sprintf("%d (already on disk)", s.Skipped)},
		{"Errors", fmt.Sprintf("%d", s.Errors())},
	}
	if s.Placeholders > 0 {
		rows = append(rows, [2]string{"Placeholders", fmt.Sprintf("%d", s.Placeholders)})
	}
	if s.Resumed {
		rows = append(rows, [2]string{"Resumed at", fmt.Sprintf("page %d", s.ResumedFrom)})
	}
	rows = append(rows, [2]string{"Elapsed", s.Duration.Round(time.Millisecond).String()})
	if rate > 0 {
		rows = append(rows, [2]string{"Rate", fmt.Sprintf("%.1f/min", rate)})
	}

	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}

	var b strings.Builder
	b.WriteString(p.styles.title.Render("RUN SUMMARY"))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(p.styles.label.Render(fmt.Sprintf("%-*s", width, r[0])))
		b.WriteString("  ")
		b.WriteString(p.styles.value.Render(r[1]))
	}

	fmt.Fprintln(p.out, p.styles.panel.Render(b.String()))
}
