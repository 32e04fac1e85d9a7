package forecast

// Autoregressive integrated model: the balance series is differenced once
// to remove the level, an AR(p) with drift is fit to the differences by
// least squares, and forecasts are re-integrated from the last observed
// balance.

const arOrder = 2

type arimaModel struct {
	phi   []float64 // AR coefficients, phi[0] is lag 1
	drift float64
	tail  []float64 // most recent differences, newest last
	level float64   // last observed balance
}

// fitARIMA fits the model to a balance series. The caller guarantees the
// series meets the minimum history window.
func fitARIMA(series []float64) arimaModel {
	n := len(series)
	m := arimaModel{level: series[n-1]}

	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = series[i] - series[i-1]
	}

	p := arOrder
	// Need at least 2p+2 differences for a stable fit; degrade to drift
	// only below that.
	for p > 0 && len(diffs) < 2*p+2 {
		p--
	}

	if p > 0 {
		if coef, ok := fitAR(diffs, p); ok {
			m.drift = coef[0]
			m.phi = coef[1:]
		}
	}
	if m.phi == nil {
		m.drift = mean(diffs)
	}

	keep := len(m.phi)
	if keep > 0 {
		m.tail = append(m.tail, diffs[len(diffs)-keep:]...)
	}
	return m
}

// forecast returns h future balance levels.
func (m arimaModel) forecast(h int) []float64 {
	out := make([]float64, h)
	level := m.level
	tail := append([]float64(nil), m.tail...)

	for i := 0; i < h; i++ {
		d := m.drift
		for lag, phi := range m.phi {
			d += phi * tail[len(tail)-1-lag]
		}
		if len(m.phi) > 0 {
			tail = append(tail[1:], d)
		}
		level += d
		out[i] = level
	}
	return out
}

// fitAR solves the least-squares regression of diffs[t] on
// [1, diffs[t-1], ..., diffs[t-p]] via the normal equations. Returns
// [intercept, phi1..phip] and whether the system was solvable.
func fitAR(diffs []float64, p int) ([]float64, bool) {
	dim := p + 1
	ata := make([][]float64, dim)
	for i := range ata {
		ata[i] = make([]float64, dim)
	}
	atb := make([]float64, dim)

	row := make([]float64, dim)
	for t := p; t < len(diffs); t++ {
		row[0] = 1
		for lag := 1; lag <= p; lag++ {
			row[lag] = diffs[t-lag]
		}
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				ata[i][j] += row[i] * row[j]
			}
			atb[i] += row[i] * diffs[t]
		}
	}
	return solveLinear(ata, atb)
}

// solveLinear solves Ax = b by Gaussian elimination with partial pivoting.
func solveLinear(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(a[r][col]) > abs(a[pivot][col]) {
				pivot = r
			}
		}
		if abs(a[pivot][col]) < 1e-12 {
			return nil, false // singular, e.g. a constant difference series
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * x[j]
		}
		x[i] = sum / a[i][i]
	}
	return x, true
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
