package itemlog

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Outcome indexes the (response, effort) combinations a Key counts. A
// correct response without effort cannot occur.
type Outcome int

const (
	WrongNoEffort Outcome = iota // response 0, effort 0
	WrongEffort                  // response 0, effort 1
	RightEffort                  // response 1, effort 1
	numOutcomes
)

// Response returns the response of o.
func (o Outcome) Response() uint8 {
	if o == RightEffort {
		return 1
	}
	return 0
}

// Effort returns the effort flag of o.
func (o Outcome) Effort() uint8 {
	if o == WrongNoEffort {
		return 0
	}
	return 1
}

func outcomeOf(response, effort uint8) (Outcome, error) {
	switch {
	case response == 0 && effort == 0:
		return WrongNoEffort, nil
	case response == 0 && effort == 1:
		return WrongEffort, nil
	case response == 1 && effort == 1:
		return RightEffort, nil
	default:
		return 0, fmt.Errorf("%w: response %d with effort %d", ErrInvalidLogFormat, response, effort)
	}
}

// Tally is the number of times one item produced one outcome.
type Tally struct {
	Item     int
	Response uint8
	Effort   uint8
	Count    int
}

// Key is the order-free summary of a learner's logs: for each item, in
// ascending item order, the counts of each Outcome. Equal logs up to
// reordering produce equal keys. Keys are comparable and usable as map keys.
type Key string

// EncodeKey builds the key of logs. Step and Learner are ignored.
func EncodeKey(logs []Log) (Key, error) {
	counts := make(map[int]*[numOutcomes]int)
	for _, l := range logs {
		o, err := outcomeOf(l.Response, l.Effort)
		if err != nil {
			return "", err
		}
		if l.Item < 0 {
			return "", fmt.Errorf("%w: negative item %d", ErrInvalidLogFormat, l.Item)
		}
		c, ok := counts[l.Item]
		if !ok {
			c = new([numOutcomes]int)
			counts[l.Item] = c
		}
		c[o]++
	}

	items := make([]int, 0, len(counts))
	for item := range counts {
		items = append(items, item)
	}
	slices.Sort(items)

	var buf []byte
	for _, item := range items {
		buf = binary.AppendUvarint(buf, uint64(item))
		for _, n := range counts[item] {
			buf = binary.AppendUvarint(buf, uint64(n))
		}
	}
	return Key(buf), nil
}

// DecodeKey returns the non-zero tallies of k, by item and then in Outcome
// order.
func DecodeKey(k Key) ([]Tally, error) {
	buf := []byte(k)
	var out []Tally
	prev := -1
	for len(buf) > 0 {
		var v [1 + numOutcomes]uint64
		for i := range v {
			x, n := binary.Uvarint(buf)
			if n <= 0 {
				return nil, fmt.Errorf("%w: truncated entry after item %d", ErrInvalidKey, prev)
			}
			v[i] = x
			buf = buf[n:]
		}
		item := int(v[0])
		if item <= prev {
			return nil, fmt.Errorf("%w: item %d out of order", ErrInvalidKey, item)
		}
		prev = item
		for o := Outcome(0); o < numOutcomes; o++ {
			if n := int(v[1+o]); n > 0 {
				out = append(out, Tally{Item: item, Response: o.Response(), Effort: o.Effort(), Count: n})
			}
		}
	}
	return out, nil
}

// String renders k as "items|wrong-no-effort|wrong-effort|right-effort",
// each field a comma-separated list aligned by item. An undecodable key
// renders as "invalid".
func (k Key) String() string {
	buf := []byte(k)
	var cols [1 + numOutcomes][]string
	for len(buf) > 0 {
		for i := range cols {
			x, n := binary.Uvarint(buf)
			if n <= 0 {
				return "invalid"
			}
			cols[i] = append(cols[i], strconv.FormatUint(x, 10))
			buf = buf[n:]
		}
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = strings.Join(c, ",")
	}
	return strings.Join(parts, "|")
}

// Collapsed groups learners that share a Key.
type Collapsed struct {
	// Keys in order of first appearance by dense learner id.
	Keys []Key
	// Counts[i] is the number of learners with Keys[i].
	Counts []int
	// Tallies[i] is DecodeKey(Keys[i]).
	Tallies [][]Tally
	// LearnerKey[l] is the index into Keys of dense learner l.
	LearnerKey []int
}

// Collapse computes the key of every learner in d and groups them.
func Collapse(d *Dense) (*Collapsed, error) {
	c := &Collapsed{LearnerKey: make([]int, len(d.Learners))}
	index := make(map[Key]int)
	for l, logs := range d.ByLearner() {
		k, err := EncodeKey(logs)
		if err != nil {
			return nil, fmt.Errorf("learner %d: %w", d.Learners[l], err)
		}
		i, ok := index[k]
		if !ok {
			tallies, err := DecodeKey(k)
			if err != nil {
				return nil, err
			}
			i = len(c.Keys)
			index[k] = i
			c.Keys = append(c.Keys, k)
			c.Counts = append(c.Counts, 0)
			c.Tallies = append(c.Tallies, tallies)
		}
		c.Counts[i]++
		c.LearnerKey[l] = i
	}
	return c, nil
}
