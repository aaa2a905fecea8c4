package mastery

// Event is one practice record of a learner.
type Event struct {
	LearnerID int64 `json:"learner_id"`
	Time      int   `json:"time"`     // 0-based position in the learner's spell.
	Response  uint8 `json:"response"` // 1 correct, 0 incorrect.
	State     int   `json:"state"`    // latent state or level when known (simulated data); ignored by estimation.
	Censored  bool  `json:"censored"` // the spell ends at this step.
	Active    bool  `json:"active"`   // only active events are used.
}
