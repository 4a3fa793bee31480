package dto

import (
	"time"

	"github.com/google/uuid"
)

type RequirementResponse struct {
	CompetencyID  uuid.UUID `json:"competency_id"`
	RequiredLevel string    `json:"required_level"`
}

type RecommendationRecordResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProfileID uuid.UUID  `json:"profile_id"`
	CourseID  *uuid.UUID `json:"course_id,omitempty"`
	VacancyID *uuid.UUID `json:"vacancy_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type RecommendationRunResponse struct {
	EntityKind      string                         `json:"entity_kind"`
	EntityID        uuid.UUID                      `json:"entity_id"`
	Path            string                         `json:"path"`
	Policy          string                         `json:"policy"`
	Requirements    []RequirementResponse          `json:"requirements"`
	QualifiedCount  int                            `json:"qualified_count"`
	SkippedCount    int                            `json:"skipped_count"`
	Recommendations []RecommendationRecordResponse `json:"recommendations"`
}

type MatchPreviewResponse struct {
	EntityKind string      `json:"entity_kind"`
	EntityID   uuid.UUID   `json:"entity_id"`
	ProfileIDs []uuid.UUID `json:"profile_ids"`
}

type CourseRecommendationResponse struct {
	RecommendationID uuid.UUID `json:"recommendation_id"`
	CourseID         uuid.UUID `json:"course_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	RecommendedAt    time.Time `json:"recommended_at"`
}

type VacancyRecommendationResponse struct {
	RecommendationID uuid.UUID `json:"recommendation_id"`
	VacancyID        uuid.UUID `json:"vacancy_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Company          string    `json:"company"`
	Location         string    `json:"location"`
	RecommendedAt    time.Time `json:"recommended_at"`
}
