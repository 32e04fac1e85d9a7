package forecast

import (
	"math"
	"math/rand"
)

// Sequence-learning model: a single-layer LSTM with a dense head, trained
// fresh per invocation on sliding windows of the min-max-normalized balance
// series. All randomness flows from one seeded source, so identical inputs
// and seed give identical forecasts.

const (
	lstmWindow    = 5
	lstmHidden    = 8
	lstmEpochs    = 80
	lstmLearnRate = 0.05
	lstmGradClip  = 1.0
)

type lstmNet struct {
	// One weight matrix per gate (input, forget, cell, output), each
	// hidden×(1+hidden): scalar input concatenated with previous hidden
	// state. Plus per-gate biases and the dense output head.
	wi, wf, wg, wo [][]float64
	bi, bf, bg, bo []float64
	wy             []float64
	by             float64

	window   int
	min, max float64 // normalization bounds of the training series
}

type lstmState struct {
	x          float64
	hprev, cpr []float64
	i, f, g, o []float64
	c, h       []float64
}

// trainLSTM fits the network to the series and returns it ready to
// forecast. The caller guarantees the minimum history window.
func trainLSTM(series []float64, seed int64) *lstmNet {
	rng := rand.New(rand.NewSource(seed))

	window := lstmWindow
	if len(series)-1 < window {
		window = len(series) - 1
	}
	if window < 2 {
		window = 2
	}

	net := &lstmNet{
		wi:     randMatrix(rng, lstmHidden, 1+lstmHidden),
		wf:     randMatrix(rng, lstmHidden, 1+lstmHidden),
		wg:     randMatrix(rng, lstmHidden, 1+lstmHidden),
		wo:     randMatrix(rng, lstmHidden, 1+lstmHidden),
		bi:     make([]float64, lstmHidden),
		bf:     onesVector(lstmHidden), // forget bias starts open
		bg:     make([]float64, lstmHidden),
		bo:     make([]float64, lstmHidden),
		wy:     randVector(rng, lstmHidden),
		window: window,
	}

	net.min, net.max = bounds(series)
	if net.max == net.min {
		// Flat series: nothing to learn, forecast repeats the level.
		return net
	}

	norm := make([]float64, len(series))
	for i, v := range series {
		norm[i] = (v - net.min) / (net.max - net.min)
	}

	for epoch := 0; epoch < lstmEpochs; epoch++ {
		for t := 0; t+window < len(norm); t++ {
			net.step(norm[t:t+window], norm[t+window])
		}
	}
	return net
}

// forecast rolls the network forward h steps from the end of the training
// series, feeding each prediction back as the next input.
func (n *lstmNet) forecast(series []float64, h int) []float64 {
	out := make([]float64, h)
	if n.max == n.min {
		for i := range out {
			out[i] = n.min
		}
		return out
	}

	window := make([]float64, n.window)
	for i := 0; i < n.window; i++ {
		window[i] = (series[len(series)-n.window+i] - n.min) / (n.max - n.min)
	}

	for i := 0; i < h; i++ {
		pred := n.predict(window)
		out[i] = pred*(n.max-n.min) + n.min
		window = append(window[1:], pred)
	}
	return out
}

// predict runs one forward pass over a normalized window.
func (n *lstmNet) predict(window []float64) float64 {
	h := make([]float64, lstmHidden)
	c := make([]float64, lstmHidden)
	for _, x := range window {
		_, h, c = n.cell(x, h, c)
	}
	y := n.by
	for j := 0; j < lstmHidden; j++ {
		y += n.wy[j] * h[j]
	}
	return y
}

// cell computes one LSTM timestep, returning the full state for backprop.
func (n *lstmNet) cell(x float64, hprev, cprev []float64) (*lstmState, []float64, []float64) {
	st := &lstmState{
		x: x, hprev: hprev, cpr: cprev,
		i: make([]float64, lstmHidden), f: make([]float64, lstmHidden),
		g: make([]float64, lstmHidden), o: make([]float64, lstmHidden),
		c: make([]float64, lstmHidden), h: make([]float64, lstmHidden),
	}
	for j := 0; j < lstmHidden; j++ {
		st.i[j] = sigmoid(dotGate(n.wi[j], n.bi[j], x, hprev))
		st.f[j] = sigmoid(dotGate(n.wf[j], n.bf[j], x, hprev))
		st.g[j] = math.Tanh(dotGate(n.wg[j], n.bg[j], x, hprev))
		st.o[j] = sigmoid(dotGate(n.wo[j], n.bo[j], x, hprev))
		st.c[j] = st.f[j]*cprev[j] + st.i[j]*st.g[j]
		st.h[j] = st.o[j] * math.Tanh(st.c[j])
	}
	return st, st.h, st.c
}

// step runs one forward-backward pass over a single training window and
// applies an SGD update.
func (n *lstmNet) step(window []float64, target float64) {
	states := make([]*lstmState, len(window))
	h := make([]float64, lstmHidden)
	c := make([]float64, lstmHidden)
	for t, x := range window {
		states[t], h, c = n.cell(x, h, c)
	}

	y := n.by
	for j := 0; j < lstmHidden; j++ {
		y += n.wy[j] * h[j]
	}
	dy := clip(2 * (y - target))

	// Head gradients.
	gwy := make([]float64, lstmHidden)
	dh := make([]float64, lstmHidden)
	for j := 0; j < lstmHidden; j++ {
		gwy[j] = dy * h[j]
		dh[j] = dy * n.wy[j]
	}
	gby := dy

	gwi := zeroMatrix(lstmHidden, 1+lstmHidden)
	gwf := zeroMatrix(lstmHidden, 1+lstmHidden)
	gwg := zeroMatrix(lstmHidden, 1+lstmHidden)
	gwo := zeroMatrix(lstmHidden, 1+lstmHidden)
	gbi := make([]float64, lstmHidden)
	gbf := make([]float64, lstmHidden)
	gbg := make([]float64, lstmHidden)
	gbo := make([]float64, lstmHidden)

	dc := make([]float64, lstmHidden)
	for t := len(states) - 1; t >= 0; t-- {
		st := states[t]
		dhNext := make([]float64, lstmHidden)
		dcNext := make([]float64, lstmHidden)

		for j := 0; j < lstmHidden; j++ {
			tc := math.Tanh(st.c[j])
			doj := dh[j] * tc
			dcj := dc[j] + dh[j]*st.o[j]*(1-tc*tc)

			dij := dcj * st.g[j]
			dfj := dcj * st.cpr[j]
			dgj := dcj * st.i[j]

			// Pre-activation gradients.
			pi := clip(dij * st.i[j] * (1 - st.i[j]))
			pf := clip(dfj * st.f[j] * (1 - st.f[j]))
			pg := clip(dgj * (1 - st.g[j]*st.g[j]))
			po := clip(doj * st.o[j] * (1 - st.o[j]))

			gwi[j][0] += pi * st.x
			gwf[j][0] += pf * st.x
			gwg[j][0] += pg * st.x
			gwo[j][0] += po * st.x
			for k := 0; k < lstmHidden; k++ {
				gwi[j][1+k] += pi * st.hprev[k]
				gwf[j][1+k] += pf * st.hprev[k]
				gwg[j][1+k] += pg * st.hprev[k]
				gwo[j][1+k] += po * st.hprev[k]
				dhNext[k] += pi*n.wi[j][1+k] + pf*n.wf[j][1+k] +
					pg*n.wg[j][1+k] + po*n.wo[j][1+k]
			}
			gbi[j] += pi
			gbf[j] += pf
			gbg[j] += pg
			gbo[j] += po

			dcNext[j] = dcj * st.f[j]
		}
		dh = dhNext
		dc = dcNext
	}

	lr := lstmLearnRate
	for j := 0; j < lstmHidden; j++ {
		for k := 0; k < 1+lstmHidden; k++ {
			n.wi[j][k] -= lr * gwi[j][k]
			n.wf[j][k] -= lr * gwf[j][k]
			n.wg[j][k] -= lr * gwg[j][k]
			n.wo[j][k] -= lr * gwo[j][k]
		}
		n.bi[j] -= lr * gbi[j]
		n.bf[j] -= lr * gbf[j]
		n.bg[j] -= lr * gbg[j]
		n.bo[j] -= lr * gbo[j]
		n.wy[j] -= lr * gwy[j]
	}
	n.by -= lr * gby
}

func bounds(xs []float64) (min, max float64) {
	min, max = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}

func dotGate(w []float64, b, x float64, hprev []float64) float64 {
	sum := b + w[0]*x
	for k := 0; k < lstmHidden; k++ {
		sum += w[1+k] * hprev[k]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clip(x float64) float64 {
	if x > lstmGradClip {
		return lstmGradClip
	}
	if x < -lstmGradClip {
		return -lstmGradClip
	}
	return x
}

func randMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.NormFloat64() * 0.2
		}
	}
	return m
}

func zeroMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func randVector(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64() * 0.2
	}
	return v
}

func onesVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}
