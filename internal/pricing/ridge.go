package pricing

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"stay_pricer/internal/domain"
)

// Scaler standardizes features to zero mean and unit variance using
// statistics from the train partition only.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func fitScaler(X *mat.Dense) *Scaler {
	r, c := X.Dims()
	s := &Scaler{Mean: make([]float64, c), Std: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = stat.StdDev(col, nil)
		if s.Std[j] == 0 || math.IsNaN(s.Std[j]) {
			// constant column: leave it centered, don't divide by zero
			s.Std[j] = 1
		}
	}
	return s
}

// Apply standardizes one feature row.
func (s *Scaler) Apply(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

func (s *Scaler) applyMatrix(X *mat.Dense) *mat.Dense {
	r, c := X.Dims()
	Z := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		Z.SetRow(i, s.Apply(X.RawRowView(i)))
	}
	return Z
}

// RidgeModel is an L2-regularized linear regression of log price on
// standardized features. Immutable after TrainRidge; Predict is safe for
// concurrent use.
type RidgeModel struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	Scaler    *Scaler   `json:"scaler"`
	TestMSE   float64   `json:"test_mse"`
	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
}

// TrainConfig fixes the split and the penalty. The seed makes the shuffle,
// and therefore the reported MSE, reproducible.
type TrainConfig struct {
	Alpha        float64
	TestFraction float64
	Seed         int64
}

// TrainRidge shuffles (X, y) with the configured seed, holds out the test
// fraction, standardizes on the train partition, solves the ridge normal
// equations, and evaluates MSE on the held-out partition in log-price space.
// The MSE is reported, not enforced as a gate.
func TrainRidge(X *mat.Dense, y []float64, cfg TrainConfig) (*RidgeModel, error) {
	n, p := X.Dims()
	if n < 2 {
		return nil, fmt.Errorf("train ridge: need at least 2 rows, got %d", n)
	}
	if len(y) != n {
		return nil, fmt.Errorf("train ridge: %d rows but %d targets", n, len(y))
	}

	perm := rand.New(rand.NewSource(cfg.Seed)).Perm(n)
	nTest := int(float64(n) * cfg.TestFraction)
	if nTest < 1 {
		nTest = 1
	}
	testIdx, trainIdx := perm[:nTest], perm[nTest:]

	Xtr, ytr := subset(X, y, trainIdx)
	Xte, yte := subset(X, y, testIdx)

	scaler := fitScaler(Xtr)
	Ztr := scaler.applyMatrix(Xtr)

	// Centered target: intercept is the train mean, coefficients solve
	// (ZᵀZ + αI)β = Zᵀ(y - ȳ).
	yMean := stat.Mean(ytr, nil)
	resid := make([]float64, len(ytr))
	for i, v := range ytr {
		resid[i] = v - yMean
	}

	var gram mat.Dense
	gram.Mul(Ztr.T(), Ztr)
	for j := 0; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+cfg.Alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(Ztr.T(), mat.NewVecDense(len(resid), resid))

	var beta mat.VecDense
	if err := beta.SolveVec(&gram, &rhs); err != nil {
		return nil, fmt.Errorf("train ridge: solve failed: %w", err)
	}

	m := &RidgeModel{
		Coef:      append([]float64(nil), beta.RawVector().Data...),
		Intercept: yMean,
		Scaler:    scaler,
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
	}

	// Held-out MSE in log space.
	var sse float64
	for i := 0; i < len(testIdx); i++ {
		pred := m.Intercept + floats.Dot(scaler.Apply(Xte.RawRowView(i)), m.Coef)
		d := pred - yte[i]
		sse += d * d
	}
	m.TestMSE = sse / float64(len(testIdx))

	return m, nil
}

// Predict applies the fitted scaler, runs the regression, and exponentiates
// the log-price output back to a price, rounded to 2 decimals.
func (m *RidgeModel) Predict(row []float64) (float64, error) {
	if m == nil || len(m.Coef) == 0 || m.Scaler == nil {
		return 0, domain.ErrModelNotTrained
	}
	if len(row) != len(m.Coef) {
		return 0, fmt.Errorf("predict: feature row has %d columns, model expects %d", len(row), len(m.Coef))
	}
	logPrice := m.Intercept + floats.Dot(m.Scaler.Apply(row), m.Coef)
	return round2(math.Exp(logPrice)), nil
}

func subset(X *mat.Dense, y []float64, idx []int) (*mat.Dense, []float64) {
	_, c := X.Dims()
	Xs := mat.NewDense(len(idx), c, nil)
	ys := make([]float64, len(idx))
	for i, src := range idx {
		Xs.SetRow(i, X.RawRowView(src))
		ys[i] = y[src]
	}
	return Xs, ys
}
