package mastery

// MasteryCurve returns P(mastered at step t) for t in [0, n).
// m[0] = pi, m[t] = m[t-1] + (1-m[t-1])·l.
func (t Theta) MasteryCurve(n int) []float64 {
	if n <= 0 {
		return nil
	}
	m := make([]float64, n)
	m[0] = t.Pi
	for i := 1; i < n; i++ {
		m[i] = m[i-1] + (1-m[i-1])*t.L
	}
	return m
}

// LearningCurve returns the expected success rate at each step in [0, n):
// g·(1-m[t]) + (1-s)·m[t].
func (t Theta) LearningCurve(n int) []float64 {
	m := t.MasteryCurve(n)
	for i, p := range m {
		m[i] = t.G*(1-p) + (1-t.S)*p
	}
	return m
}
