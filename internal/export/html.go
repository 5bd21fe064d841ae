package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/san-kum/episweep/internal/chart"
)

const (
	chartWidth  = 900
	chartHeight = 480
)

// WriteHTML serializes the figure to a standalone interactive document at
// path, overwriting any existing file.
func WriteHTML(f *chart.Figure, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return RenderHTML(f, file)
}

// RenderHTML writes the full document: one inline SVG chart per beta group
// plus a range slider that shows exactly one group at a time and swaps the
// title to that step's title.
func RenderHTML(f *chart.Figure, w io.Writer) error {
	steps := f.Steps()
	if len(steps) != len(f.Betas) {
		return fmt.Errorf("%w: %d steps for %d beta values", chart.ErrStructure, len(steps), len(f.Betas))
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s parameter sweep</title>\n", strings.ToUpper(f.Model))
	sb.WriteString(`<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 960px; }
.beta-group { display: none; }
.beta-group.active { display: block; }
.controls { margin-top: 1em; }
.controls input[type=range] { width: 100%; }
#step-label { font-variant-numeric: tabular-nums; }
</style>
`)
	sb.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&sb, "<h2 id=\"chart-title\">%s</h2>\n", htmlEscape(steps[f.DefaultStep].Title))

	sb.WriteString("<div id=\"groups\">\n")
	for i := range f.Betas {
		class := "beta-group"
		if i == f.DefaultStep {
			class = "beta-group active"
		}
		fmt.Fprintf(&sb, "<div class=\"%s\" id=\"group-%d\">\n", class, i)
		svg, err := renderGroupSVG(f, i)
		if err != nil {
			return fmt.Errorf("render beta group %d: %w", i, err)
		}
		sb.Write(svg)
		sb.WriteString("\n</div>\n")
	}
	sb.WriteString("</div>\n")

	labels := make([]string, len(steps))
	titles := make([]string, len(steps))
	for i, s := range steps {
		labels[i] = s.Label
		titles[i] = s.Title
	}
	labelsJSON, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	titlesJSON, err := json.Marshal(titles)
	if err != nil {
		return err
	}

	fmt.Fprintf(&sb, `<div class="controls">
<input type="range" id="beta-slider" min="0" max="%d" step="1" value="%d">
<div>transmission rate &beta; = <span id="step-label"></span></div>
</div>
<script>
var labels = %s;
var titles = %s;
var slider = document.getElementById("beta-slider");
function select(i) {
  var groups = document.querySelectorAll(".beta-group");
  for (var g = 0; g < groups.length; g++) {
    groups[g].classList.toggle("active", g === i);
  }
  document.getElementById("chart-title").textContent = titles[i];
  document.getElementById("step-label").textContent = labels[i];
}
slider.addEventListener("input", function () { select(parseInt(slider.value, 10)); });
select(parseInt(slider.value, 10));
</script>
</body>
</html>
`, len(steps)-1, f.DefaultStep, labelsJSON, titlesJSON)

	_, err = io.WriteString(w, sb.String())
	return err
}

// renderGroupSVG draws the compartment curves of one beta group. The y-range
// is pinned across groups so stepping the slider compares like with like.
func renderGroupSVG(f *chart.Figure, step int) ([]byte, error) {
	group := f.GroupTraces(step)

	series := make([]gochart.Series, 0, len(group))
	for _, tr := range group {
		series = append(series, gochart.ContinuousSeries{
			Name:    tr.Compartment,
			XValues: f.Times,
			YValues: tr.Y,
			Style:   gochart.Style{StrokeColor: tr.Color, StrokeWidth: 2.0},
		})
	}

	yMax := 0.0
	for _, tr := range f.Traces {
		for _, v := range tr.Y {
			if v > yMax {
				yMax = v
			}
		}
	}

	graph := gochart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 16, Left: 16, Right: 16, Bottom: 24},
		},
		XAxis: gochart.XAxis{
			Name: "Days",
		},
		YAxis: gochart.YAxis{
			Name:  "People",
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}
