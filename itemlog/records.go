package itemlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Record is one raw response row.
type Record struct {
	Learner  int64
	Item     int64
	Response uint8
	// Effort is 1 when effort was exerted. Rows without an effort column
	// have Effort = 1.
	Effort    uint8
	HasEffort bool
}

// ParseRecords converts integer rows into records. The arity of the first
// row (3 or 4) fixes the format; every other row must match it.
func ParseRecords(rows [][]int64) ([]Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	arity := len(rows[0])
	if arity != 3 && arity != 4 {
		return nil, fmt.Errorf("%w: %d columns", ErrInvalidLogFormat, arity)
	}

	out := make([]Record, len(rows))
	for i, row := range rows {
		if len(row) != arity {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidLogFormat, i, len(row), arity)
		}
		r := Record{Learner: row[0], Item: row[1], Effort: 1}
		if row[2] != 0 && row[2] != 1 {
			return nil, fmt.Errorf("%w: row %d response %d", ErrInvalidLogFormat, i, row[2])
		}
		r.Response = uint8(row[2])
		if arity == 4 {
			if row[3] != 0 && row[3] != 1 {
				return nil, fmt.Errorf("%w: row %d effort %d", ErrInvalidLogFormat, i, row[3])
			}
			r.Effort = uint8(row[3])
			r.HasEffort = true
		}
		out[i] = r
	}
	return out, nil
}

// ReadRecords parses comma-separated integer rows from r.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]int64
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLogFormat, err)
		}
		row := make([]int64, len(rec))
		for i, f := range rec {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d field %d: %v", ErrInvalidLogFormat, len(rows), i+1, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return ParseRecords(rows)
}

// InvalidItems returns, in ascending order, the items whose accuracy is at
// most 1% or at least 99%.
func InvalidItems(records []Record) []int64 {
	total := make(map[int64]int)
	correct := make(map[int64]int)
	for _, r := range records {
		total[r.Item]++
		correct[r.Item] += int(r.Response)
	}

	var out []int64
	for item, n := range total {
		acc := float64(correct[item]) / float64(n)
		if acc <= 0.01 || acc >= 0.99 {
			out = append(out, item)
		}
	}
	slices.Sort(out)
	return out
}

// Log is one densified response: Learner and Item are dense ids and Step is
// the position of the row among the learner's rows.
type Log struct {
	Learner  int
	Step     int
	Item     int
	Response uint8
	Effort   uint8
}

// Dense is a log with consecutive learner and item ids.
type Dense struct {
	// Learners[i] and Items[j] are the original ids of dense learner i and
	// dense item j, in order of first appearance.
	Learners []int64
	Items    []int64
	// Logs sorted by learner then step.
	Logs []Log
}

// Densify assigns dense ids and per-learner steps. Rows for excluded items
// are dropped before numbering, so steps stay dense.
func Densify(records []Record, exclude []int64) *Dense {
	skip := make(map[int64]struct{}, len(exclude))
	for _, item := range exclude {
		skip[item] = struct{}{}
	}

	d := &Dense{}
	learnerIdx := make(map[int64]int)
	itemIdx := make(map[int64]int)
	var steps []int
	for _, r := range records {
		if _, ok := skip[r.Item]; ok {
			continue
		}
		li, ok := learnerIdx[r.Learner]
		if !ok {
			li = len(d.Learners)
			learnerIdx[r.Learner] = li
			d.Learners = append(d.Learners, r.Learner)
			steps = append(steps, 0)
		}
		ii, ok := itemIdx[r.Item]
		if !ok {
			ii = len(d.Items)
			itemIdx[r.Item] = ii
			d.Items = append(d.Items, r.Item)
		}
		d.Logs = append(d.Logs, Log{
			Learner:  li,
			Step:     steps[li],
			Item:     ii,
			Response: r.Response,
			Effort:   r.Effort,
		})
		steps[li]++
	}

	slices.SortFunc(d.Logs, func(a, b Log) int {
		if a.Learner != b.Learner {
			return a.Learner - b.Learner
		}
		return a.Step - b.Step
	})
	return d
}

// ByLearner splits the logs by dense learner id.
func (d *Dense) ByLearner() [][]Log {
	out := make([][]Log, len(d.Learners))
	for _, l := range d.Logs {
		out[l.Learner] = append(out[l.Learner], l)
	}
	return out
}
