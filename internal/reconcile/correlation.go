package reconcile

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// Correlate computes the pairwise Pearson correlation matrix over the
// table's metric columns, using for each pair only the rows where both
// values are present. Cells backed by fewer than two such rows are NaN. A
// table with fewer than two metric columns has no matrix to speak of and
// yields nil.
func Correlate(table *model.MergedTable) *model.CorrelationMatrix {
	var cols []string
	for _, col := range table.Columns {
		if col != model.ColCounty {
			cols = append(cols, col)
		}
	}
	if len(cols) < 2 {
		return nil
	}

	matrix := &model.CorrelationMatrix{
		Columns: cols,
		Values:  make([][]float64, len(cols)),
	}
	for i := range cols {
		matrix.Values[i] = make([]float64, len(cols))
		for j := range cols {
			switch {
			case i == j:
				matrix.Values[i][j] = 1
			case j < i:
				matrix.Values[i][j] = matrix.Values[j][i]
			default:
				matrix.Values[i][j] = pairwise(table.Rows, cols[i], cols[j])
			}
		}
	}
	return matrix
}

func pairwise(rows []model.MergedRow, colX, colY string) float64 {
	var x, y []float64
	for _, row := range rows {
		vx, okX := row.Value(colX)
		vy, okY := row.Value(colY)
		if okX && okY {
			x = append(x, vx)
			y = append(y, vy)
		}
	}
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
