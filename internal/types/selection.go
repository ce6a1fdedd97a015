package types

// Section names a delivery bucket in the digest email.
type Section string

const (
	SectionTopPicks Section = "top_picks"
	SectionRegion   Section = "region"
	SectionLocality Section = "locality"
	SectionDeals    Section = "deals"
)

// SelectedJob is one job in a user's final selection, tagged with its
// delivery section and the personalized score that ranked it.
type SelectedJob struct {
	JobID   string            `json:"job_id"`
	Section Section           `json:"section"`
	Score   PersonalizedScore `json:"score"`
}

// SelectionResult is the externally visible output of the engine for one
// user: min(target, available) jobs in selection order with section tags.
type SelectionResult struct {
	UserID string        `json:"user_id"`
	Jobs   []SelectedJob `json:"jobs"`
}

// SectionJobs groups the selected job ids by section, preserving order.
func (r *SelectionResult) SectionJobs() map[Section][]string {
	out := make(map[Section][]string)
	for _, j := range r.Jobs {
		out[j.Section] = append(out[j.Section], j.JobID)
	}
	return out
}
