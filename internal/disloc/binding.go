package disloc

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Row widths of the array layouts
const (
	PatchColumns       = 10
	ObservationColumns = 3
)

// PatchesFromMatrix reads an [n x 10] matrix of patch rows
func PatchesFromMatrix(m mat.Matrix) ([]FaultPatch, error) {
	if err := checkMatrix(m, PatchColumns, "fault patches"); err != nil {
		return nil, err
	}
	r, _ := m.Dims()
	patches := make([]FaultPatch, r)
	for i := range patches {
		var row [PatchColumns]float64
		for j := range row {
			row[j] = m.At(i, j)
		}
		patches[i] = PatchFromRow(row)
	}
	return patches, nil
}

// ObservationsFromMatrix reads an [n x 3] matrix of station coordinates
func ObservationsFromMatrix(m mat.Matrix) ([]ObservationPoint, error) {
	if err := checkMatrix(m, ObservationColumns, "observations"); err != nil {
		return nil, err
	}
	r, _ := m.Dims()
	obs := make([]ObservationPoint, r)
	for i := range obs {
		obs[i] = ObservationPoint{East: m.At(i, 0), North: m.At(i, 1), Up: m.At(i, 2)}
	}
	return obs, nil
}

func checkMatrix(m mat.Matrix, width int, what string) error {
	if d, ok := m.(*mat.Dense); m == nil || ok && d == nil {
		return fmt.Errorf("%w: %s matrix is nil", ErrEmpty, what)
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("%w: %s matrix is %dx%d", ErrEmpty, what, r, c)
	}
	if c != width {
		return fmt.Errorf("%w: %s must be an [n x %d] array, got [%d x %d]", ErrShape, what, width, r, c)
	}
	return nil
}

// PatchesFromFlat reads row-major patch data whose length is a multiple of 10
func PatchesFromFlat(data []float64) ([]FaultPatch, error) {
	if err := checkFlat(len(data), PatchColumns, "fault patches"); err != nil {
		return nil, err
	}
	patches := make([]FaultPatch, len(data)/PatchColumns)
	for i := range patches {
		patches[i] = PatchFromRow([PatchColumns]float64(data[i*PatchColumns : (i+1)*PatchColumns]))
	}
	return patches, nil
}

// ObservationsFromFlat reads row-major station data whose length is a multiple of 3
func ObservationsFromFlat(data []float64) ([]ObservationPoint, error) {
	if err := checkFlat(len(data), ObservationColumns, "observations"); err != nil {
		return nil, err
	}
	obs := make([]ObservationPoint, len(data)/ObservationColumns)
	for i := range obs {
		k := i * ObservationColumns
		obs[i] = ObservationPoint{East: data[k], North: data[k+1], Up: data[k+2]}
	}
	return obs, nil
}

func checkFlat(n, width int, what string) error {
	if n == 0 {
		return fmt.Errorf("%w: no %s", ErrEmpty, what)
	}
	if n%width != 0 {
		return fmt.Errorf("%w: %d %s values do not form rows of %d", ErrShape, n, what, width)
	}
	return nil
}

// PatchesFromRows reads ragged row data, each row holding exactly 10 values
func PatchesFromRows(rows [][]float64) ([]FaultPatch, error) {
	data, err := flatten(rows, PatchColumns, "fault patch")
	if err != nil {
		return nil, err
	}
	return PatchesFromFlat(data)
}

// ObservationsFromRows reads ragged row data, each row holding exactly 3 values
func ObservationsFromRows(rows [][]float64) ([]ObservationPoint, error) {
	data, err := flatten(rows, ObservationColumns, "observation")
	if err != nil {
		return nil, err
	}
	return ObservationsFromFlat(data)
}

func flatten(rows [][]float64, width int, what string) ([]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no %s rows", ErrEmpty, what)
	}
	data := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: %s row %d has %d values, want %d", ErrShape, what, i, len(row), width)
		}
		data = append(data, row...)
	}
	return data, nil
}

// Matrices returns U [n x 3], D [n x 9] and S [n x 9] as dense matrices
func (rs *ResultSet) Matrices() (u, d, s *mat.Dense) {
	n := len(rs.Results)
	u = mat.NewDense(n, 3, nil)
	d = mat.NewDense(n, 9, nil)
	s = mat.NewDense(n, 9, nil)
	for i, r := range rs.Results {
		u.SetRow(i, r.U[:])
		d.SetRow(i, r.D[:])
		s.SetRow(i, r.S[:])
	}
	return u, d, s
}

// EvaluateMatrix is the array entry point: patches [nmodel x 10] and
// stations [nobs x 3] in, U [nobs x 3], D [nobs x 9], S [nobs x 9] and
// flags [nobs][nmodel] out. Shape errors are reported before any work.
func EvaluateMatrix(models, obs mat.Matrix, mu, nu float64) (u, d, s *mat.Dense, flags [][]int32, err error) {
	patches, err := PatchesFromMatrix(models)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	stations, err := ObservationsFromMatrix(obs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	rs, err := Evaluate(patches, stations, mu, nu)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	u, d, s = rs.Matrices()
	return u, d, s, rs.Codes(), nil
}
