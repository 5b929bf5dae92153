package indicator

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// Bars is the columnar view of a PriceBar sequence. A missing volume is NaN.
type Bars struct {
	Dates  []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// NewBars converts bars into columns. The input is not validated.
func NewBars(bars []types.PriceBar) *Bars {
	n := len(bars)
	b := &Bars{
		Dates:  make([]time.Time, n),
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]float64, n),
	}

	for i, bar := range bars {
		b.Dates[i] = bar.Date
		b.Open[i] = bar.Open
		b.High[i] = bar.High
		b.Low[i] = bar.Low
		b.Close[i] = bar.Close
		b.Volume[i] = bar.Volume.TakeOr(math.NaN())
	}

	return b
}

// Len returns the number of bars.
func (b *Bars) Len() int {
	return len(b.Dates)
}

// Slice returns the bars in [from, to). The columns share memory with b.
func (b *Bars) Slice(from, to int) *Bars {
	return &Bars{
		Dates:  b.Dates[from:to],
		Open:   b.Open[from:to],
		High:   b.High[from:to],
		Low:    b.Low[from:to],
		Close:  b.Close[from:to],
		Volume: b.Volume[from:to],
	}
}

// Series is one named indicator column aligned with the bars it was computed
// from. Undefined values are NaN, never zero.
type Series struct {
	Name   string
	Values []float64
	// Warmup is the number of leading rows the formula leaves undefined.
	Warmup int
}

// Len returns the number of rows.
func (s Series) Len() int {
	return len(s.Values)
}

// At returns the value at row i, or None when it is undefined.
func (s Series) At(i int) optional.Option[float64] {
	if i < 0 || i >= len(s.Values) {
		return optional.None[float64]()
	}

	v := s.Values[i]
	if math.IsNaN(v) {
		return optional.None[float64]()
	}

	return optional.Some(v)
}

// FeatureTable is the output of the Indicator Engine: one row per bar and one
// column per produced series, in request order.
type FeatureTable struct {
	Bars   *Bars
	Specs  []Spec
	series []Series
	index  map[string]int
}

// NewFeatureTable assembles a table from precomputed series. Every series must
// have one value per bar.
func NewFeatureTable(bars *Bars, specs []Spec, series []Series) *FeatureTable {
	index := make(map[string]int, len(series))
	for i, s := range series {
		index[s.Name] = i
	}

	return &FeatureTable{
		Bars:   bars,
		Specs:  specs,
		series: series,
		index:  index,
	}
}

// Len returns the number of rows.
func (t *FeatureTable) Len() int {
	return t.Bars.Len()
}

// Names returns the column names in order.
func (t *FeatureTable) Names() []string {
	names := make([]string, len(t.series))
	for i, s := range t.series {
		names[i] = s.Name
	}

	return names
}

// Series looks up a column by name.
func (t *FeatureTable) Series(name string) (Series, bool) {
	i, ok := t.index[name]
	if !ok {
		return Series{}, false
	}

	return t.series[i], true
}

// All returns every column in order.
func (t *FeatureTable) All() []Series {
	out := make([]Series, len(t.series))
	copy(out, t.series)

	return out
}

// Value returns a single cell, None when the column is absent or undefined.
func (t *FeatureTable) Value(name string, i int) optional.Option[float64] {
	s, ok := t.Series(name)
	if !ok {
		return optional.None[float64]()
	}

	return s.At(i)
}

// Warmup returns the longest warm-up among the columns.
func (t *FeatureTable) Warmup() int {
	w := 0
	for _, s := range t.series {
		if s.Warmup > w {
			w = s.Warmup
		}
	}

	return w
}
