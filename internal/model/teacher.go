package model

import (
	"time"

	"github.com/lib/pq"
)

// Address holds the denormalized location fields stored alongside the
// geographic point.
type Address struct {
	City      string  `json:"city" db:"city"`
	State     string  `json:"state" db:"state"`
	Area      string  `json:"area,omitempty" db:"area"`
	Pincode   string  `json:"pincode,omitempty" db:"pincode"`
	Country   string  `json:"country,omitempty" db:"country"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Teacher is a searchable tutor profile. Rating and review counts are
// maintained by the profile service; this service only reads them.
type Teacher struct {
	ID              string         `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	Headline        *string        `json:"headline,omitempty" db:"headline"`
	Subjects        pq.StringArray `json:"subjects" db:"subjects"`
	ClassLevels     pq.StringArray `json:"classLevels" db:"class_levels"`
	TeachingModes   pq.StringArray `json:"teachingModes" db:"teaching_modes"`
	ExperienceYears float64        `json:"experienceYears" db:"experience_years"`
	AvgRating       float64        `json:"avgRating" db:"avg_rating"`
	ReviewCount     int            `json:"reviewCount" db:"review_count"`
	HourlyRate      float64        `json:"hourlyRate" db:"hourly_rate"`
	Gender          string         `json:"gender" db:"gender"`
	Languages       pq.StringArray `json:"languages" db:"languages"`
	Qualifications  pq.StringArray `json:"qualifications" db:"qualifications"`
	IsActive        bool           `json:"isActive" db:"is_active"`
	IsVerified      bool           `json:"isVerified" db:"is_verified"`
	Address
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TeacherResult is a teacher annotated with the distance from the search
// origin. Distance is rounded meters and is nil when no origin was supplied.
type TeacherResult struct {
	Teacher
	Distance *int `json:"distance,omitempty"`
}

// DistanceMeters implements the annotation accessor used by the bucketer.
func (r TeacherResult) DistanceMeters() *int { return r.Distance }
