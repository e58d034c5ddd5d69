package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/joehahn/int-sys-eqns/internal/solve"
)

type ExportData struct {
	System   string      `json:"system"`
	Method   string      `json:"method"`
	Eps      float64     `json:"eps"`
	Steps    int         `json:"steps"`
	Rejected int         `json:"rejected"`
	Xs       []float64   `json:"xs"`
	States   [][]float64 `json:"states"`
}

// WriteJSON emits a run as one indented JSON document, states listed
// per sample point.
func WriteJSON(w io.Writer, meta *RunMetadata, table *solve.Table) error {
	_, samples := table.Dims()

	data := ExportData{
		System:   meta.System,
		Method:   meta.Method,
		Eps:      meta.Eps,
		Steps:    meta.Steps,
		Rejected: meta.Rejected,
		Xs:       table.Xs(),
		States:   make([][]float64, samples),
	}
	for j := 0; j < samples; j++ {
		data.States[j] = table.Col(j)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV emits a table with header x,y0..yN. Values use the shortest
// representation that parses back to the same float64.
func WriteCSV(w io.Writer, table *solve.Table) error {
	cw := csv.NewWriter(w)

	dim, samples := table.Dims()
	header := make([]string, 0, dim+1)
	header = append(header, "x")
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	xs := table.Xs()
	for j := 0; j < samples; j++ {
		row := make([]string, 0, dim+1)
		row = append(row, strconv.FormatFloat(xs[j], 'g', -1, 64))
		for i := 0; i < dim; i++ {
			row = append(row, strconv.FormatFloat(table.At(i, j), 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
