package dto

import (
	"time"

	"github.com/google/uuid"
)

type CompetencyResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	RecommendedLevel string    `json:"recommended_level"`
}

type DeclaredRequirementResponse struct {
	CompetencyID    uuid.UUID `json:"competency_id"`
	RequiredLevel   string    `json:"required_level"`
	CoveragePercent *int      `json:"coverage_percent,omitempty"`
	IsMandatory     *bool     `json:"is_mandatory,omitempty"`
}

// CourseCreatedResponse carries the stored course. RecommendationError is set
// when the course was stored but its recommendation run failed.
type CourseCreatedResponse struct {
	ID                  uuid.UUID                     `json:"id"`
	Title               string                        `json:"title"`
	Description         string                        `json:"description"`
	DurationHours       int                           `json:"duration_hours"`
	CreatedAt           time.Time                     `json:"created_at"`
	Competencies        []DeclaredRequirementResponse `json:"competencies"`
	Recommendation      *RecommendationRunResponse    `json:"recommendation"`
	RecommendationError string                        `json:"recommendation_error,omitempty"`
}

type VacancyCreatedResponse struct {
	ID                  uuid.UUID                     `json:"id"`
	Title               string                        `json:"title"`
	Description         string                        `json:"description"`
	Company             string                        `json:"company"`
	Location            string                        `json:"location"`
	PostedAt            time.Time                     `json:"posted_at"`
	Competencies        []DeclaredRequirementResponse `json:"competencies"`
	Recommendation      *RecommendationRunResponse    `json:"recommendation"`
	RecommendationError string                        `json:"recommendation_error,omitempty"`
}

type ProfileResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Bio      string    `json:"bio"`
	Location string    `json:"location"`
}

type ProfileCompetencyResponse struct {
	ProfileID         uuid.UUID `json:"profile_id"`
	CompetencyID      uuid.UUID `json:"competency_id"`
	SelfAssessedLevel string    `json:"self_assessed_level"`
	YearsExperience   *int      `json:"years_experience,omitempty"`
}
