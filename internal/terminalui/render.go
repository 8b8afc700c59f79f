package terminalui

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/width"

	"promptlab/model"
)

type Snapshot struct {
	Evaluation *model.Evaluation
	Comparison *model.Comparison

	// If true, print the original/improved answers when present.
	ShowAnswers bool
}

const innerWidth = 74

// Render prints an evaluation report to stdout.
func Render(s Snapshot) {
	ev := s.Evaluation
	if ev == nil {
		fmt.Println("no evaluation to display")
		return
	}

	created := ev.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	printTop()
	printLine(fmt.Sprintf("  Prompt Evaluation    %s", created.Format("2006-01-02 15:04:05")))
	printRule()

	printColored(fmt.Sprintf("  Total score: %3d/100  %s", ev.TotalScore, scoreBar(ev.TotalScore, 100, 30)),
		scoreColor(ev.TotalScore, 100))
	if ev.ShortExplanation != "" {
		printLine("")
		for _, l := range wrapText(ev.ShortExplanation, innerWidth-4) {
			printLine("  " + l)
		}
	}

	printRule()
	printLine("  Dimension     Score")
	printSoftRule()
	for _, dim := range model.Dimensions {
		max := model.DimensionMax[dim]
		score := ev.Score(dim)
		diag := truncateDisplay(ev.Diagnosis[dim], innerWidth-38)
		row := fmt.Sprintf("  %s %2d/%-2d  %s  %s",
			padRight(dim, 12), score, max, scoreBar(score, max, 10), diag)
		printColored(row, scoreColor(score, max))
	}

	if len(ev.Improvements) > 0 {
		printRule()
		printLine("  Improvements")
		printSoftRule()
		for i, imp := range ev.Improvements {
			lines := wrapText(imp, innerWidth-8)
			for j, l := range lines {
				if j == 0 {
					printLine(fmt.Sprintf("  %d. %s", i+1, l))
				} else {
					printLine("     " + l)
				}
			}
		}
	}

	if ev.HasImprovedPrompt() {
		printRule()
		printLine("  Improved prompt")
		printSoftRule()
		for _, l := range wrapText(ev.ImprovedPrompt, innerWidth-4) {
			printLine("  " + l)
		}
	}

	if s.ShowAnswers && s.Comparison != nil {
		printRule()
		printLine("  Answer to original prompt")
		printSoftRule()
		for _, l := range wrapText(s.Comparison.OriginalAnswer, innerWidth-4) {
			printLine("  " + l)
		}
		printRule()
		printLine("  Answer to improved prompt")
		printSoftRule()
		for _, l := range wrapText(s.Comparison.ImprovedAnswer, innerWidth-4) {
			printLine("  " + l)
		}
	}

	printBottom()
}

func printTop() {
	fmt.Println("╔" + strings.Repeat("═", innerWidth) + "╗")
}

func printRule() {
	fmt.Println("╠" + strings.Repeat("═", innerWidth) + "╣")
}

func printSoftRule() {
	fmt.Println("╟" + strings.Repeat("─", innerWidth) + "╢")
}

func printBottom() {
	fmt.Println("╚" + strings.Repeat("═", innerWidth) + "╝")
}

func printLine(s string) {
	fmt.Println("║" + padRight(s, innerWidth) + "║")
}

func printColored(s, color string) {
	fmt.Println("║" + color + padRight(s, innerWidth) + "\033[0m║")
}

func scoreColor(score, max int) string {
	if max <= 0 {
		return "\033[37m"
	}
	pct := float64(score) / float64(max)
	if pct >= 0.8 {
		return "\033[32m"
	}
	if pct >= 0.5 {
		return "\033[33m"
	}
	return "\033[31m"
}

func scoreBar(score, max, barWidth int) string {
	if max <= 0 {
		max = 1
	}
	filled := score * barWidth / max
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// displayWidth counts terminal columns, with East Asian wide and
// fullwidth runes taking two.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func padRight(s string, total int) string {
	if total <= 0 {
		return ""
	}
	w := displayWidth(s)
	if w > total {
		// A wide rune straddling the cut leaves the truncation a column short.
		s = truncateDisplay(s, total)
		w = displayWidth(s)
	}
	return s + strings.Repeat(" ", total-w)
}

func truncateDisplay(s string, max int) string {
	if max <= 0 {
		return ""
	}
	w := 0
	for i, r := range s {
		rw := 1
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			rw = 2
		}
		if w+rw > max {
			return s[:i]
		}
		w += rw
	}
	return s
}

func wrapText(text string, lineWidth int) []string {
	if lineWidth <= 0 {
		lineWidth = 1
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		current := ""
		for _, word := range strings.Fields(line) {
			if displayWidth(word) > lineWidth {
				if current != "" {
					out = append(out, current)
					current = ""
				}
				out = append(out, hardWrap(word, lineWidth)...)
				continue
			}
			if current == "" {
				current = word
			} else if displayWidth(current)+1+displayWidth(word) <= lineWidth {
				current += " " + word
			} else {
				out = append(out, current)
				current = word
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return out
}

func hardWrap(s string, lineWidth int) []string {
	var out []string
	for s != "" {
		cut := truncateDisplay(s, lineWidth)
		if cut == "" {
			break
		}
		out = append(out, cut)
		s = s[len(cut):]
	}
	return out
}
