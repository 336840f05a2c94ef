package report

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/dataprep"
)

const (
	ageColumn     = "Customer_Age"
	maritalColumn = "Marital_Status"
	transColumn   = "Total_Trans_Ct"
)

// WriteEDA writes the five exploratory charts into dir. It reads the label,
// age, marital status and transaction count columns plus every numeric
// schema column for the correlation heatmap.
func WriteEDA(dir string, ds *data.Dataset, schema data.Schema) error {
	labels, err := ds.Labels(schema.Label)
	if err != nil {
		return err
	}
	churn := make(plotter.Values, len(labels))
	for i, l := range labels {
		churn[i] = float64(l)
	}
	if err := writeHist(filepath.Join(dir, ChurnDistribution), "Churn", churn, false); err != nil {
		return err
	}

	age, err := ds.Floats(ageColumn)
	if err != nil {
		return err
	}
	if err := writeHist(filepath.Join(dir, CustomerAgeDistribution), ageColumn, age, false); err != nil {
		return err
	}

	marital, err := ds.Strings(maritalColumn)
	if err != nil {
		return err
	}
	if err := writeFrequencyBars(filepath.Join(dir, MaritalStatus), maritalColumn, marital); err != nil {
		return err
	}

	trans, err := ds.Floats(transColumn)
	if err != nil {
		return err
	}
	if err := writeHist(filepath.Join(dir, TotalTransDistribution), transColumn, trans, true); err != nil {
		return err
	}

	cols := append(append([]string(nil), schema.Numeric...), schema.Label)
	fm, err := dataprep.Project(ds, cols)
	if err != nil {
		return err
	}
	return writeHeatmap(filepath.Join(dir, Heatmap), fm)
}

// writeHist draws a 10-bin histogram. With density set the bars are
// normalized to unit area and a Gaussian kernel density estimate is
// overlaid.
func writeHist(path, name string, vals plotter.Values, density bool) error {
	vals = finite(vals)
	if len(vals) == 0 {
		return fmt.Errorf("report: %s has no finite values", name)
	}

	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = name
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(vals, 10)
	if err != nil {
		return fmt.Errorf("report: %s: %w", name, err)
	}
	h.FillColor = barColor
	if density {
		h.Normalize(1)
		p.Y.Label.Text = "Density"
	}
	p.Add(h)

	if density {
		if kde := kdeLine(vals, 200); kde != nil {
			p.Add(kde)
		}
	}
	return save(p, 20*vg.Centimeter, 10*vg.Centimeter, path)
}

// kdeLine returns a Gaussian KDE with Scott's bandwidth, or nil when the
// values have no spread.
func kdeLine(vals []float64, points int) *plotter.Line {
	std := stat.StdDev(vals, nil)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	bw := std * math.Pow(float64(len(vals)), -0.2)
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	lo, hi = lo-3*bw, hi+3*bw

	xys := make(plotter.XYs, points)
	n := float64(len(vals))
	for i := range xys {
		x := lo + (hi-lo)*float64(i)/float64(points-1)
		sum := 0.0
		for _, v := range vals {
			sum += distuv.Normal{Mu: v, Sigma: bw}.Prob(x)
		}
		xys[i] = plotter.XY{X: x, Y: sum / n}
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil
	}
	l.Color = lineColor
	l.LineStyle.Width = vg.Points(2)
	return l
}

// writeFrequencyBars plots the normalized value counts of a categorical
// column, most frequent first.
func writeFrequencyBars(path, name string, values []string) error {
	order, freq := dataprep.FrequencyEncode(values)
	if len(order) == 0 {
		return fmt.Errorf("report: %s is empty", name)
	}
	bars := make(plotter.Values, len(order))
	for i, v := range order {
		bars[i] = freq[v]
	}

	p := plot.New()
	p.Title.Text = name
	p.Y.Label.Text = "Share"

	b, err := plotter.NewBarChart(bars, vg.Points(30))
	if err != nil {
		return fmt.Errorf("report: %s: %w", name, err)
	}
	b.Color = barColor
	p.Add(b)
	p.NominalX(order...)
	return save(p, 20*vg.Centimeter, 10*vg.Centimeter, path)
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 is drawn
// at the top like a table.
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}
func (g corrGrid) Z(c, r int) float64 { return g.m.At(g.flip(r), c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) flip(r int) int     { return g.m.SymmetricDim() - 1 - r }

// writeHeatmap draws the Pearson correlation of every column of fm with
// the coefficients annotated in each cell.
func writeHeatmap(path string, fm *dataprep.FeatureMatrix) error {
	rows, cols := fm.Dims()
	if rows < 2 {
		return fmt.Errorf("report: heatmap needs at least 2 rows, got %d", rows)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, fm.Dense(), nil)
	grid := corrGrid{m: &corr}

	p := plot.New()
	p.Title.Text = "Correlation"

	hm := plotter.NewHeatMap(grid, palette.Heat(64, 1))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	xy := make(plotter.XYs, 0, cols*cols)
	text := make([]string, 0, cols*cols)
	for c := 0; c < cols; c++ {
		for r := 0; r < cols; r++ {
			xy = append(xy, plotter.XY{X: float64(c), Y: float64(r)})
			text = append(text, fmt.Sprintf("%.2f", grid.Z(c, r)))
		}
	}
	ann, err := plotter.NewLabels(plotter.XYLabels{XYs: xy, Labels: text})
	if err != nil {
		return fmt.Errorf("report: heatmap labels: %w", err)
	}
	for i := range ann.TextStyle {
		ann.TextStyle[i].XAlign = draw.XCenter
		ann.TextStyle[i].YAlign = draw.YCenter
		ann.TextStyle[i].Font.Size = vg.Points(7)
	}
	p.Add(ann)

	xt := make([]plot.Tick, cols)
	yt := make([]plot.Tick, cols)
	for i, name := range fm.Columns {
		xt[i] = plot.Tick{Value: float64(i), Label: name}
		yt[cols-1-i] = plot.Tick{Value: float64(cols - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return save(p, 20*vg.Inch, 10*vg.Inch, path)
}

func finite(vals plotter.Values) plotter.Values {
	out := make(plotter.Values, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
