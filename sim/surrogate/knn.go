package surrogate

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NearestNeighbors predicts from the K closest training rows (Euclidean).
// With DistanceWeighted set, neighbours are weighted by inverse distance and
// any exact match takes the prediction outright. Ties in distance go to the
// lower training index.
type NearestNeighbors struct {
	K                int
	DistanceWeighted bool
}

type knnPredictor struct {
	k        int
	weighted bool
	train    [][]float64
	y        []float64
}

// Fit implements Regressor. Fitting only stores the training set.
func (r *NearestNeighbors) Fit(x mat.Matrix, y []float64) (Predictor, error) {
	n, _, err := checkFitInputs("nearest neighbors", x, y)
	if err != nil {
		return nil, err
	}
	if r.K < 1 {
		return nil, fmt.Errorf("nearest neighbors: K must be >= 1, got %d", r.K)
	}
	k := r.K
	if k > n {
		k = n
	}
	return &knnPredictor{
		k:        k,
		weighted: r.DistanceWeighted,
		train:    rowsOf(x),
		y:        append([]float64(nil), y...),
	}, nil
}

// Predict implements Predictor.
func (p *knnPredictor) Predict(x mat.Matrix) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	row := make([]float64, len(p.train[0]))
	dist := make([]float64, len(p.train))
	idx := make([]int, len(p.train))
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		for j, t := range p.train {
			dist[j] = floats.Distance(row, t, 2)
			idx[j] = j
		}
		sort.SliceStable(idx, func(a, b int) bool { return dist[idx[a]] < dist[idx[b]] })
		out[i] = p.combine(idx[:p.k], dist)
	}
	return out
}

func (p *knnPredictor) combine(neighbors []int, dist []float64) float64 {
	// A lone neighbour's weight cancels; return its target without rounding.
	if len(neighbors) == 1 {
		return p.y[neighbors[0]]
	}
	if !p.weighted {
		var sum float64
		for _, j := range neighbors {
			sum += p.y[j]
		}
		return sum / float64(len(neighbors))
	}

	var exactSum float64
	var exact int
	for _, j := range neighbors {
		if dist[j] == 0 {
			exactSum += p.y[j]
			exact++
		}
	}
	if exact > 0 {
		return exactSum / float64(exact)
	}

	var num, den float64
	for _, j := range neighbors {
		w := 1 / dist[j]
		num += w * p.y[j]
		den += w
	}
	return num / den
}
