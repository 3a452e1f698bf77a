package primary

// StepStatusChange records one automatic step transition.
type StepStatusChange struct {
	StepID int64  `json:"step_id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// PlanStatusChange records one automatic plan transition.
type PlanStatusChange struct {
	PlanID int64  `json:"plan_id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// ActivePlanCleared records an active binding removed because its plan
// became done.
type ActivePlanCleared struct {
	PlanID    int64  `json:"plan_id"`
	SessionID string `json:"session_id"`
	// CurrentSession is true when the binding belonged to the calling session.
	CurrentSession bool   `json:"current_session"`
	Reason         string `json:"reason"`
}

// StatusChanges is the ordered change log of one operation.
type StatusChanges struct {
	Steps              []StepStatusChange  `json:"steps"`
	Plans              []PlanStatusChange  `json:"plans"`
	ActivePlansCleared []ActivePlanCleared `json:"active_plans_cleared"`
}

// Merge appends other's entries after c's.
func (c *StatusChanges) Merge(other StatusChanges) {
	c.Steps = append(c.Steps, other.Steps...)
	c.Plans = append(c.Plans, other.Plans...)
	c.ActivePlansCleared = append(c.ActivePlansCleared, other.ActivePlansCleared...)
}

// IsEmpty reports whether no transition was recorded.
func (c StatusChanges) IsEmpty() bool {
	return len(c.Steps) == 0 && len(c.Plans) == 0 && len(c.ActivePlansCleared) == 0
}
