// Package linalg provides the small dense linear-algebra routines shared by
// the event-related analysis packages.
package linalg

import (
	"errors"
	"math"
)

// ErrSingularMatrix is returned when a system has no usable factorization
// even after regularization.
var ErrSingularMatrix = errors.New("linalg: singular matrix")

// SolveNormal solves the least-squares problem min ||A x - b|| through the
// normal equations A'A x = A'b. A is given row-major as rows x cols; b must
// have len(rows). The Gram matrix is factorized by Cholesky; if the
// factorization breaks down a small ridge proportional to the diagonal
// magnitude is added and the factorization retried once.
func SolveNormal(a [][]float64, b []float64) ([]float64, error) {
	rows := len(a)
	if rows == 0 || len(b) != rows {
		return nil, errors.New("linalg: dimension mismatch between matrix and vector")
	}

	cols := len(a[0])

	gram := make([][]float64, cols)
	for i := range gram {
		gram[i] = make([]float64, cols)
	}

	rhs := make([]float64, cols)

	for r := 0; r < rows; r++ {
		row := a[r]
		for i := 0; i < cols; i++ {
			if row[i] == 0 {
				continue
			}

			for j := i; j < cols; j++ {
				gram[i][j] += row[i] * row[j]
			}

			rhs[i] += row[i] * b[r]
		}
	}

	for i := 1; i < cols; i++ {
		for j := 0; j < i; j++ {
			gram[i][j] = gram[j][i]
		}
	}

	x, err := solveCholesky(gram, rhs)
	if err == nil {
		return x, nil
	}

	var maxDiag float64
	for i := 0; i < cols; i++ {
		if d := math.Abs(gram[i][i]); d > maxDiag {
			maxDiag = d
		}
	}

	if maxDiag == 0 {
		return nil, ErrSingularMatrix
	}

	ridge := 1e-12 * maxDiag
	for i := 0; i < cols; i++ {
		gram[i][i] += ridge
	}

	return solveCholesky(gram, rhs)
}

// solveCholesky solves m x = b for symmetric positive definite m. The input
// matrix is overwritten with its lower factor.
func solveCholesky(m [][]float64, b []float64) ([]float64, error) {
	n := len(m)

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := m[i][j]
			for k := 0; k < j; k++ {
				sum -= m[i][k] * m[j][k]
			}

			if i == j {
				if sum <= 0 {
					return nil, ErrSingularMatrix
				}

				m[i][i] = math.Sqrt(sum)
			} else {
				m[i][j] = sum / m[j][j]
			}
		}
	}

	x := make([]float64, n)

	// Forward substitution with the lower factor.
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= m[i][k] * x[k]
		}

		x[i] = sum / m[i][i]
	}

	// Back substitution with its transpose.
	for i := n - 1; i >= 0; i-- {
		sum := x[i]
		for k := i + 1; k < n; k++ {
			sum -= m[k][i] * x[k]
		}

		x[i] = sum / m[i][i]
	}

	return x, nil
}
