package eventlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sky-flux/mastery"
)

const numColumns = 6

// ReadOptions configures ReadFlatFile.
type ReadOptions struct {
	// MaxLearners stops reading once this many distinct learners have been
	// seen; later rows of those learners are still kept. Zero means no cap.
	MaxLearners int
}

// ReadFlatFile parses a flat-file event log. Blank lines are skipped and
// fields may be surrounded by spaces.
func ReadFlatFile(r io.Reader, opts ReadOptions) ([]mastery.Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var events []mastery.Event
	seen := make(map[int64]struct{})
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLogFormat, err)
		}
		line, _ := cr.FieldPos(0)

		e, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidLogFormat, line, err)
		}
		if _, ok := seen[e.LearnerID]; !ok {
			if opts.MaxLearners > 0 && len(seen) == opts.MaxLearners {
				continue
			}
			seen[e.LearnerID] = struct{}{}
		}
		events = append(events, e)
	}
	return events, nil
}

func parseRecord(rec []string) (mastery.Event, error) {
	if len(rec) != numColumns {
		return mastery.Event{}, fmt.Errorf("%d fields, want %d", len(rec), numColumns)
	}
	var v [numColumns]int64
	for i, f := range rec {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return mastery.Event{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		v[i] = n
	}
	if v[1] < 0 {
		return mastery.Event{}, fmt.Errorf("negative time %d", v[1])
	}
	if v[2] != 0 && v[2] != 1 {
		return mastery.Event{}, fmt.Errorf("response %d is not 0 or 1", v[2])
	}
	return mastery.Event{
		LearnerID: v[0],
		Time:      int(v[1]),
		Response:  uint8(v[2]),
		State:     int(v[3]),
		Censored:  v[4] != 0,
		Active:    v[5] != 0,
	}, nil
}

// WriteFlatFile writes events in the flat-file format.
func WriteFlatFile(w io.Writer, events []mastery.Event) error {
	cw := csv.NewWriter(w)
	rec := make([]string, numColumns)
	for _, e := range events {
		rec[0] = strconv.FormatInt(e.LearnerID, 10)
		rec[1] = strconv.Itoa(e.Time)
		rec[2] = strconv.Itoa(int(e.Response))
		rec[3] = strconv.Itoa(e.State)
		rec[4] = flag(e.Censored)
		rec[5] = flag(e.Active)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
