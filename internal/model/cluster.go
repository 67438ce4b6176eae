package model

// Assignment maps every row index to a cluster id.
type Assignment []int

// Sizes counts the rows assigned to each of the k clusters.
func (a Assignment) Sizes(k int) []int {
	sizes := make([]int, k)
	for _, c := range a {
		if c >= 0 && c < k {
			sizes[c]++
		}
	}
	return sizes
}

// Centroids holds one feature vector per cluster id.
type Centroids [][]float64

// Score is the quality of a clustering for a given number of clusters.
type Score struct {
	K          int     `json:"k"`
	Inertia    float64 `json:"inertia"`
	Silhouette float64 `json:"silhouette"`
}

// ScoreCurve is the sequence of scores for increasing k.
type ScoreCurve []Score

// Best returns the score with the highest silhouette.
// Ties resolve to the smallest k.
func (c ScoreCurve) Best() (Score, bool) {
	if len(c) == 0 {
		return Score{}, false
	}
	best := c[0]
	for _, s := range c[1:] {
		if s.Silhouette > best.Silhouette || (s.Silhouette == best.Silhouette && s.K < best.K) {
			best = s
		}
	}
	return best, true
}

// Ks returns the k values of the curve.
func (c ScoreCurve) Ks() []int {
	kk := make([]int, len(c))
	for i, s := range c {
		kk[i] = s.K
	}
	return kk
}

// Silhouettes returns the silhouette values of the curve.
func (c ScoreCurve) Silhouettes() []float64 {
	ss := make([]float64, len(c))
	for i, s := range c {
		ss[i] = s.Silhouette
	}
	return ss
}

// Inertias returns the inertia values of the curve.
func (c ScoreCurve) Inertias() []float64 {
	ii := make([]float64, len(c))
	for i, s := range c {
		ii[i] = s.Inertia
	}
	return ii
}
