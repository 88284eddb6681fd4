package gateway

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/warriorsbball/painttouch/internal/painttouch"
)

const (
	reportBarWidth = 90.0
	reportRowH     = 7.0
)

// Report renders a one-page PDF snapshot of a game: totals, possession
// shares and outcome counts.
func Report(w io.Writer, game painttouch.Game, summary painttouch.Summary) error {
	p := gofpdf.New("P", "mm", "A4", "")
	tr := p.UnicodeTranslatorFromDescriptor("")
	p.SetTitle(tr(game.Name), false)
	p.AddPage()

	p.SetFont("Helvetica", "", 9)
	p.SetTextColor(0x5d, 0x49, 0x36)
	p.CellFormat(0, 5, "PAINT TOUCH REPORT", "", 1, "L", false, 0, "")

	p.SetTextColor(0x2f, 0x24, 0x1b)
	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 10, tr(game.Name), "", 1, "L", false, 0, "")

	opponent := game.Opponent
	if opponent == "" {
		opponent = "Opponent TBD"
	}
	p.SetFont("Helvetica", "", 11)
	p.CellFormat(0, 6, tr(fmt.Sprintf("%s - %s", opponent, game.Date)), "", 1, "L", false, 0, "")
	p.Ln(4)

	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 7, fmt.Sprintf("Touches logged: %d", summary.Total), "", 1, "L", false, 0, "")
	p.Ln(2)

	section(p, "Possession share")
	for _, s := range summary.ByPossession {
		bar(p, tr(s.Possession), fmt.Sprintf("%d (%.1f%%)", s.Count, s.Percent), s.Percent/100)
	}
	if len(summary.ByPossession) == 0 {
		empty(p)
	}

	section(p, "Outcomes")
	for _, c := range summary.ByType {
		bar(p, tr(c.Label), fmt.Sprintf("%d", c.Count), ratio(c.Count, summary.Total))
	}
	if len(summary.ByType) == 0 {
		empty(p)
	}

	section(p, "Key outcomes")
	for _, c := range summary.KeyOutcomes {
		bar(p, tr(c.Label), fmt.Sprintf("%d", c.Count), ratio(c.Count, summary.Total))
	}

	return p.Output(w)
}

func section(p *gofpdf.Fpdf, title string) {
	p.Ln(3)
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	p.Ln(1)
	p.SetFont("Helvetica", "", 10)
}

func bar(p *gofpdf.Fpdf, label, value string, frac float64) {
	x, y := p.GetXY()
	p.CellFormat(55, reportRowH, label, "", 0, "L", false, 0, "")

	p.SetFillColor(0xf3, 0xea, 0xd6)
	p.Rect(x+55, y+1.5, reportBarWidth, reportRowH-3, "F")
	if frac > 0 {
		p.SetFillColor(0xea, 0xab, 0x00)
		p.Rect(x+55, y+1.5, reportBarWidth*frac, reportRowH-3, "F")
	}

	p.SetXY(x+55+reportBarWidth+3, y)
	p.CellFormat(0, reportRowH, value, "", 1, "L", false, 0, "")
}

func empty(p *gofpdf.Fpdf) {
	p.SetFont("Helvetica", "I", 10)
	p.CellFormat(0, reportRowH, "No touches logged.", "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
