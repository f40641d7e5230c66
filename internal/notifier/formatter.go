package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"IDXScreener/internal/model"
	"IDXScreener/internal/report"
	"IDXScreener/internal/universe"
)

// MaxReportRows caps the rows listed in one scan report.
const MaxReportRows = 30

var wib = time.FixedZone("WIB", 7*60*60)

// FormatScanReport formats a scan outcome into a Telegram HTML message.
func FormatScanReport(out *model.ScanOutcome) string {
	var b strings.Builder
	c := out.Criteria

	fmt.Fprintf(&b, "📈 <b>IDX Screener</b> | %s WIB\n", out.FinishedAt.In(wib).Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Kriteria: %d hari ≥ %.2f%%, nilai transaksi ≥ %s\n\n",
		c.ConsecutiveDays, c.GainThresholdPct, report.FormatIDR(c.MinTurnover))

	if len(out.Rows) == 0 {
		b.WriteString("Tidak ada saham yang memenuhi kriteria.\n")
	} else {
		fmt.Fprintf(&b, "✅ <b>%d saham</b> memenuhi kriteria:\n", len(out.Rows))
		for i, row := range out.Rows {
			if i == MaxReportRows {
				fmt.Fprintf(&b, "… dan %d lainnya\n", len(out.Rows)-MaxReportRows)
				break
			}
			b.WriteString(formatRow(row))
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Dipindai: %d/%d | Gagal: %d | %s\n",
		out.Scanned, out.Total, len(out.Failures), out.Duration().Round(time.Second))
	if out.Scanned < out.Total {
		b.WriteString("⚠️ Scan tidak selesai.\n")
	}
	return b.String()
}

func formatRow(row model.ScanResultRow) string {
	gains := make([]string, 0, len(row.Gains))
	for _, g := range row.Gains {
		gains = append(gains, report.FormatPercent(g.Pct))
	}
	line := fmt.Sprintf("• <b>%s</b> %s\n   %.0f | %s | %s\n",
		html.EscapeString(row.Code), html.EscapeString(row.Name),
		row.LastClose, strings.Join(gains, " "), report.FormatIDR(row.Turnover))
	if ind := row.Indicators; ind != nil && ind.RSI14 != nil {
		line += fmt.Sprintf("   RSI %.1f\n", *ind.RSI14)
	}
	return line
}

// FormatUniverse summarizes a resolved universe.
func FormatUniverse(u universe.Universe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Daftar emiten</b>: %d saham dari %s\n", len(u.Tickers), html.EscapeString(u.Source))
	for _, d := range u.Diagnostics {
		fmt.Fprintf(&b, "• %s\n", html.EscapeString(d))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "🤖 <b>Perintah</b>\n" +
		"/scan - jalankan scan sekarang\n" +
		"/last - hasil scan terakhir\n" +
		"/refresh - muat ulang daftar emiten\n" +
		"/help - bantuan"
}

// SplitMessage breaks text into parts no longer than limit, preferring line boundaries.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var (
		parts []string
		cur   strings.Builder
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			cut := limit
			for cut > 0 && !utf8Start(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }
