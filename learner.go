package mastery

import (
	"fmt"
	"sort"
)

// Learner is the response history of one learner.
type Learner struct {
	ID        int64
	Responses []uint8 // O_k, one response per step starting at time 0.
	Censored  bool    // E_k: the spell ends at the last step.
}

// Len returns the number of observed steps T_k.
func (l Learner) Len() int {
	return len(l.Responses)
}

// BuildLearners groups active events by learner and orders each learner's
// events by time. Learners are returned sorted by ID.
//
// Time indices must be dense from 0: a missing step returns ErrTimeGap.
// Duplicate steps, negative times, non-binary responses and a spell end
// before the last step return ErrInvalidEvent. Returns ErrEmptyData when no
// event is active.
func BuildLearners(events []Event) ([]Learner, error) {
	groups := make(map[int64][]Event)
	for _, e := range events {
		if !e.Active {
			continue
		}
		if e.Time < 0 {
			return nil, fmt.Errorf("%w: learner %d has negative time %d", ErrInvalidEvent, e.LearnerID, e.Time)
		}
		if e.Response > 1 {
			return nil, fmt.Errorf("%w: learner %d time %d response %d", ErrInvalidEvent, e.LearnerID, e.Time, e.Response)
		}
		groups[e.LearnerID] = append(groups[e.LearnerID], e)
	}
	if len(groups) == 0 {
		return nil, ErrEmptyData
	}

	ids := make([]int64, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	learners := make([]Learner, len(ids))
	for k, id := range ids {
		evs := groups[id]
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].Time < evs[j].Time })

		responses := make([]uint8, len(evs))
		for t, e := range evs {
			switch {
			case e.Time < t:
				return nil, fmt.Errorf("%w: learner %d has duplicate time %d", ErrInvalidEvent, id, e.Time)
			case e.Time > t:
				return nil, fmt.Errorf("%w: learner %d is missing time %d", ErrTimeGap, id, t)
			}
			if e.Censored && t != len(evs)-1 {
				return nil, fmt.Errorf("%w: learner %d spell ends at time %d before its last event", ErrInvalidEvent, id, t)
			}
			responses[t] = e.Response
		}

		learners[k] = Learner{
			ID:        id,
			Responses: responses,
			Censored:  evs[len(evs)-1].Censored,
		}
	}
	return learners, nil
}

// MaxLen returns the longest learner history.
func MaxLen(learners []Learner) int {
	n := 0
	for _, l := range learners {
		n = max(n, l.Len())
	}
	return n
}
