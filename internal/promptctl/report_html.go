package promptctl

import (
	"bytes"
	"fmt"
	"html"
	"os"

	"github.com/yuin/goldmark"

	"promptlab/model"
)

func writeEvaluationHTML(path string, ev *model.Evaluation, cmp *model.Comparison) error {
	var b bytes.Buffer
	b.WriteString("<!doctype html>\n")
	b.WriteString("<html lang=\"en\">\n<head>\n")
	b.WriteString("  <meta charset=\"utf-8\" />\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	b.WriteString("  <title>Prompt Evaluation Report</title>\n")
	b.WriteString("  <style>\n")
	b.WriteString(cssEvaluationReport())
	b.WriteString("  </style>\n")
	b.WriteString("</head>\n<body>\n")

	b.WriteString("  <header class=\"hdr\">\n")
	b.WriteString("    <div class=\"title\">Prompt Evaluation Report</div>\n")
	fmt.Fprintf(&b, "    <div class=\"meta\">%s</div>\n", html.EscapeString(ev.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString("  </header>\n")

	b.WriteString("  <main class=\"grid\">\n")

	// total score
	b.WriteString("    <section class=\"card\">\n")
	b.WriteString("      <div class=\"card-hd\">Total score</div>\n")
	b.WriteString("      <div class=\"body\">\n")
	fmt.Fprintf(&b, "        <div class=\"total %s\">%d<span class=\"of\">/100</span></div>\n", scoreClass(ev.TotalScore, 100), ev.TotalScore)
	fmt.Fprintf(&b, "        <div class=\"bar\"><div class=\"bar-fill %s\" style=\"width:%d%%\"></div></div>\n", scoreClass(ev.TotalScore, 100), clampPct(ev.TotalScore, 100))
	if ev.ShortExplanation != "" {
		b.WriteString("        <div class=\"md\">\n")
		b.WriteString(renderMarkdown(ev.ShortExplanation))
		b.WriteString("        </div>\n")
	}
	b.WriteString("      </div>\n")
	b.WriteString("    </section>\n")

	// dimensions
	b.WriteString("    <section class=\"card\">\n")
	b.WriteString("      <div class=\"card-hd\">Dimensions</div>\n")
	b.WriteString("      <table class=\"tbl\">\n")
	b.WriteString("        <thead><tr><th>Dimension</th><th>Score</th><th></th><th>Diagnosis</th></tr></thead>\n")
	b.WriteString("        <tbody>\n")
	for _, dim := range model.Dimensions {
		max := model.DimensionMax[dim]
		score := ev.Score(dim)
		fmt.Fprintf(&b, "          <tr><td>%s</td><td class=\"num %s\">%d/%d</td>", html.EscapeString(dim), scoreClass(score, max), score, max)
		fmt.Fprintf(&b, "<td class=\"barcell\"><div class=\"bar\"><div class=\"bar-fill %s\" style=\"width:%d%%\"></div></div></td>", scoreClass(score, max), clampPct(score, max))
		fmt.Fprintf(&b, "<td class=\"diag\">%s</td></tr>\n", html.EscapeString(ev.Diagnosis[dim]))
	}
	b.WriteString("        </tbody>\n")
	b.WriteString("      </table>\n")
	b.WriteString("    </section>\n")

	// original prompt
	b.WriteString("    <section class=\"card\">\n")
	b.WriteString("      <div class=\"card-hd\">Prompt</div>\n")
	fmt.Fprintf(&b, "      <pre class=\"prompt\">%s</pre>\n", html.EscapeString(ev.Prompt))
	b.WriteString("    </section>\n")

	if len(ev.Improvements) > 0 {
		b.WriteString("    <section class=\"card\">\n")
		b.WriteString("      <div class=\"card-hd\">Improvements</div>\n")
		b.WriteString("      <ol class=\"imps\">\n")
		for _, imp := range ev.Improvements {
			b.WriteString("        <li class=\"md\">")
			b.WriteString(renderMarkdown(imp))
			b.WriteString("</li>\n")
		}
		b.WriteString("      </ol>\n")
		b.WriteString("    </section>\n")
	}

	if ev.HasImprovedPrompt() {
		b.WriteString("    <section class=\"card\">\n")
		b.WriteString("      <div class=\"card-hd\">Improved prompt</div>\n")
		fmt.Fprintf(&b, "      <pre class=\"prompt\">%s</pre>\n", html.EscapeString(ev.ImprovedPrompt))
		b.WriteString("    </section>\n")
	}

	if cmp != nil {
		b.WriteString("    <section class=\"card\">\n")
		b.WriteString("      <div class=\"card-hd\">Answer to original prompt</div>\n")
		b.WriteString("      <div class=\"body md\">\n")
		b.WriteString(renderMarkdown(cmp.OriginalAnswer))
		b.WriteString("      </div>\n")
		b.WriteString("    </section>\n")

		b.WriteString("    <section class=\"card\">\n")
		b.WriteString("      <div class=\"card-hd\">Answer to improved prompt</div>\n")
		b.WriteString("      <div class=\"body md\">\n")
		b.WriteString(renderMarkdown(cmp.ImprovedAnswer))
		b.WriteString("      </div>\n")
		b.WriteString("    </section>\n")
	}

	b.WriteString("  </main>\n")
	b.WriteString("</body>\n</html>\n")

	if err := ensureParentDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, b.Bytes(), 0o644)
}

// renderMarkdown converts model text to HTML. Raw HTML in the input is
// dropped by the renderer; on conversion failure the text is emitted
// escaped.
func renderMarkdown(text string) string {
	var out bytes.Buffer
	if err := goldmark.Convert([]byte(text), &out); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return out.String()
}

func scoreClass(score, max int) string {
	if max <= 0 {
		return "muted"
	}
	pct := float64(score) / float64(max)
	if pct >= 0.8 {
		return "good"
	}
	if pct >= 0.5 {
		return "warn"
	}
	return "bad"
}

func clampPct(score, max int) int {
	if max <= 0 {
		return 0
	}
	pct := score * 100 / max
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func cssEvaluationReport() string {
	return `
:root {
  --bg: #0e1117;
  --panel: #161a23;
  --grid: #262b3a;
  --accent: #1f3b5b;
  --txt: rgba(255,255,255,0.88);
  --muted: rgba(255,255,255,0.62);
  --good: #22c55e;
  --bad: #ef4444;
  --warn: #f59e0b;
  --mono: ui-monospace, Menlo, Monaco, Consolas, "Liberation Mono", monospace;
  --sans: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, "Noto Sans", "Helvetica Neue", Arial;
}
* { box-sizing: border-box; }
body { margin:0; background: var(--bg); color: var(--txt); font-family: var(--sans); }
.hdr { padding: 18px 18px 10px 18px; border-bottom: 1px solid var(--grid); display:flex; align-items: baseline; gap: 12px; }
.title { font-size: 18px; font-weight: 700; letter-spacing: .2px; }
.meta { font-family: var(--mono); color: var(--muted); font-size: 12px; }
.grid { padding: 14px 18px 20px 18px; display:grid; grid-template-columns: 1fr 1fr; gap: 14px; }
@media (max-width: 900px) { .grid { grid-template-columns: 1fr; } }
.card { background: var(--panel); border: 1px solid var(--grid); border-radius: 14px; overflow: hidden; }
.card-hd { padding: 10px 12px; font-size: 13px; font-weight: 700; color: var(--muted); border-bottom: 1px solid var(--grid); }
.body { padding: 12px; }
.total { font-size: 42px; font-weight: 800; font-family: var(--mono); }
.total .of { font-size: 16px; color: var(--muted); font-weight: 400; }
.bar { height: 8px; border-radius: 999px; background: rgba(255,255,255,0.08); overflow: hidden; margin: 10px 0; }
.bar-fill { height: 100%; border-radius: 999px; background: var(--accent); }
.bar-fill.good { background: var(--good); }
.bar-fill.warn { background: var(--warn); }
.bar-fill.bad { background: var(--bad); }
.tbl { width: 100%; border-collapse: collapse; font-size: 13px; }
.tbl thead th { border-bottom: 1px solid var(--grid); color: var(--muted); text-align: left; padding: 8px 12px; }
.tbl tbody td { border-bottom: 1px solid rgba(255,255,255,0.06); padding: 8px 12px; vertical-align: middle; }
.num { font-family: var(--mono); white-space: nowrap; }
.num.good { color: var(--good); }
.num.warn { color: var(--warn); }
.num.bad { color: var(--bad); }
.barcell { width: 120px; }
.diag { color: var(--muted); }
.prompt { margin: 12px; padding: 10px 12px; background: rgba(255,255,255,0.04); border: 1px solid var(--grid); border-radius: 10px; font-family: var(--mono); font-size: 12px; white-space: pre-wrap; overflow-wrap: anywhere; }
.imps { margin: 12px 12px 12px 28px; padding: 0; }
.imps li { margin-bottom: 6px; }
.md p { margin: 6px 0; }
.md code { font-family: var(--mono); background: rgba(255,255,255,0.06); padding: 1px 4px; border-radius: 4px; }
.md pre { background: rgba(255,255,255,0.04); border: 1px solid var(--grid); border-radius: 10px; padding: 10px 12px; overflow: auto; }
`
}
