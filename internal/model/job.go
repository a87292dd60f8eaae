package model

import "time"

// Job statuses. Only active jobs are searchable; the sweeper moves active
// jobs past their expiry to expired.
const (
	JobStatusActive  = "active"
	JobStatusExpired = "expired"
	JobStatusClosed  = "closed"
)

// Job is a searchable tuition requirement posted by a student.
type Job struct {
	ID                 string  `json:"id" db:"id"`
	Title              string  `json:"title" db:"title"`
	Subject            string  `json:"subject" db:"subject"`
	ClassLevel         string  `json:"classLevel" db:"class_level"`
	TeachingMode       string  `json:"teachingMode" db:"teaching_mode"`
	Urgency            string  `json:"urgency" db:"urgency"`
	BudgetAmount       float64 `json:"budgetAmount" db:"budget_amount"`
	RequiredExperience float64 `json:"requiredExperience" db:"required_experience_years"`
	RequiredGender     string  `json:"requiredGender,omitempty" db:"required_gender"`
	Status             string  `json:"status" db:"status"`
	Address
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// JobResult is a job annotated with the distance from the search origin.
type JobResult struct {
	Job
	Distance *int `json:"distance,omitempty"`
}

// DistanceMeters implements the annotation accessor used by the bucketer.
func (r JobResult) DistanceMeters() *int { return r.Distance }
