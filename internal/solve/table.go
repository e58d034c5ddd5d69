package solve

import (
	"gonum.org/v1/gonum/mat"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// Table holds a sampled solution: column j is the state vector at sample
// coordinate Xs()[j].
type Table struct {
	xs   []float64
	data *mat.Dense
}

func NewTable(dim int, xs []float64) *Table {
	return &Table{
		xs:   append([]float64(nil), xs...),
		data: mat.NewDense(dim, len(xs), nil),
	}
}

// Dims returns the state dimension and the number of samples.
func (t *Table) Dims() (dim, samples int) { return t.data.Dims() }

// At returns component i of the state at sample j.
func (t *Table) At(i, j int) float64 { return t.data.At(i, j) }

func (t *Table) SetCol(j int, y ivp.State) { t.data.SetCol(j, y) }

// Col returns a copy of the state at sample j.
func (t *Table) Col(j int) ivp.State {
	return ivp.State(mat.Col(nil, j, t.data))
}

// Row returns a copy of component i across all samples.
func (t *Table) Row(i int) []float64 {
	return mat.Row(nil, i, t.data)
}

func (t *Table) Xs() []float64 { return t.xs }

// Dense exposes the backing matrix for callers doing their own linear
// algebra on the result.
func (t *Table) Dense() *mat.Dense { return t.data }
