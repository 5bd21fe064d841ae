package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/episweep/internal/chart"
	"github.com/san-kum/episweep/internal/dynamo"
	"github.com/san-kum/episweep/internal/sweep"
)

func testFigure(t *testing.T, betas []float64) *chart.Figure {
	t.Helper()
	comps := []string{"Susceptible", "Infected", "Recovered"}
	times := []float64{0, 1, 2, 3, 4}

	table := sweep.NewTable("sird", comps, betas, times)
	for g := range betas {
		traj := make([]dynamo.State, len(times))
		for i, tm := range times {
			traj[i] = dynamo.State{
				100 - betas[g]*10*tm,
				betas[g] * 10 * tm * math.Exp(-0.3*tm),
				betas[g] * 3 * tm,
			}
		}
		table.States[g] = traj
	}

	f, err := chart.NewFigure(table, "gamma=0.10, alpha=0.03")
	require.NoError(t, err)
	return f
}

func TestRenderHTMLStructure(t *testing.T) {
	betas := []float64{0.1, 0.3, 0.5}
	f := testFigure(t, betas)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(f, &buf))
	doc := buf.String()

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))

	// One hidden chart div per beta value.
	for i := range betas {
		assert.Contains(t, doc, fmt.Sprintf(`id="group-%d"`, i))
	}
	assert.NotContains(t, doc, fmt.Sprintf(`id="group-%d"`, len(betas)))
	assert.Equal(t, len(betas), strings.Count(doc, "<svg"))

	// Exactly the default group starts active.
	assert.Equal(t, 1, strings.Count(doc, `class="beta-group active"`))
	assert.Contains(t, doc, fmt.Sprintf(`class="beta-group active" id="group-%d"`, f.DefaultStep))

	// Slider spans the beta indices and starts at the default step.
	assert.Contains(t, doc, fmt.Sprintf(`<input type="range" id="beta-slider" min="0" max="%d" step="1" value="%d">`,
		len(betas)-1, f.DefaultStep))

	// Step labels and titles are embedded for the slider script.
	assert.Contains(t, doc, `"0.10"`)
	assert.Contains(t, doc, `"0.50"`)
	assert.Contains(t, doc, "SIRD outbreak over one year")
	assert.Contains(t, doc, "gamma=0.10, alpha=0.03")
}

func TestRenderHTMLSingleBeta(t *testing.T) {
	f := testFigure(t, []float64{0.2})

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(f, &buf))
	doc := buf.String()

	assert.Contains(t, doc, `max="0"`)
	assert.Equal(t, 1, strings.Count(doc, "<svg"))
}

func TestWriteHTMLOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sird-graph.html")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0o644))

	f := testFigure(t, []float64{0.1, 0.5})
	require.NoError(t, WriteHTML(f, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale content")
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}

func TestHTMLEscape(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp;c &quot;d&quot;", htmlEscape(`a <b> &c "d"`))
}
