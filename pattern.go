package mastery

// PatternKey identifies learners that share a spell-end flag and an
// identical response sequence. Responses holds one raw byte (0 or 1) per
// step, which makes the key comparable and usable as a map key.
type PatternKey struct {
	Censored  bool
	Responses string
}

// NewPatternKey returns the key for a response sequence.
func NewPatternKey(censored bool, responses []uint8) PatternKey {
	return PatternKey{Censored: censored, Responses: string(responses)}
}

// Len returns the sequence length.
func (k PatternKey) Len() int {
	return len(k.Responses)
}

// Observations returns a fresh copy of the response sequence.
func (k PatternKey) Observations() []uint8 {
	return []uint8(k.Responses)
}

// Pattern is one distinct observation pattern and the number of learners
// that share it.
type Pattern struct {
	Key       PatternKey
	Responses []uint8
	Censored  bool
	Count     int
}

// Len returns the sequence length.
func (p Pattern) Len() int {
	return len(p.Responses)
}

// Patterns is the compressed view of a learner population.
type Patterns struct {
	// Patterns in order of first appearance.
	Patterns []Pattern
	// LearnerPattern[k] is the index into Patterns of learner k.
	LearnerPattern []int

	index map[PatternKey]int
}

// Compress deduplicates learners into observation patterns so that
// per-pattern work runs once per distinct pattern. Pattern order follows
// learner order, so equal inputs always produce equal outputs.
func Compress(learners []Learner) *Patterns {
	p := &Patterns{
		LearnerPattern: make([]int, len(learners)),
		index:          make(map[PatternKey]int),
	}
	for k, l := range learners {
		key := NewPatternKey(l.Censored, l.Responses)
		idx, ok := p.index[key]
		if !ok {
			idx = len(p.Patterns)
			p.index[key] = idx
			p.Patterns = append(p.Patterns, Pattern{
				Key:       key,
				Responses: key.Observations(),
				Censored:  l.Censored,
			})
		}
		p.Patterns[idx].Count++
		p.LearnerPattern[k] = idx
	}
	return p
}

// Len returns the number of distinct patterns.
func (p *Patterns) Len() int {
	return len(p.Patterns)
}

// Lookup returns the index of the pattern with the given key.
func (p *Patterns) Lookup(key PatternKey) (int, bool) {
	idx, ok := p.index[key]
	return idx, ok
}
