package usecase

import (
	"context"
	"time"

	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

type RecommendationListParams struct {
	Limit  int
	Offset int
}

type CourseRecommendationItem struct {
	RecommendationID uuid.UUID
	CourseID         uuid.UUID
	Title            string
	Description      string
	RecommendedAt    time.Time
}

type VacancyRecommendationItem struct {
	RecommendationID uuid.UUID
	VacancyID        uuid.UUID
	Title            string
	Description      string
	Company          string
	Location         string
	RecommendedAt    time.Time
}

type RecommendationListUsecase interface {
	CoursesForProfile(ctx context.Context, profileID uuid.UUID, params RecommendationListParams) ([]CourseRecommendationItem, error)
	VacanciesForProfile(ctx context.Context, profileID uuid.UUID, params RecommendationListParams) ([]VacancyRecommendationItem, error)
}

type RecommendationList struct {
	repo repository.RecommendationQueryRepository
}

func NewRecommendationListUsecase(repo repository.RecommendationQueryRepository) *RecommendationList {
	return &RecommendationList{repo: repo}
}

func (u *RecommendationList) CoursesForProfile(ctx context.Context, profileID uuid.UUID, params RecommendationListParams) ([]CourseRecommendationItem, error) {
	if profileID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	limit, offset, err := normalizePage(params)
	if err != nil {
		return nil, err
	}

	rows, err := u.repo.CoursesForProfile(ctx, profileID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]CourseRecommendationItem, 0, len(rows))
	for _, r := range page(rows, limit, offset) {
		out = append(out, CourseRecommendationItem{
			RecommendationID: r.RecommendationID,
			CourseID:         r.CourseID,
			Title:            r.Title,
			Description:      r.Description,
			RecommendedAt:    r.RecommendedAt,
		})
	}
	return out, nil
}

func (u *RecommendationList) VacanciesForProfile(ctx context.Context, profileID uuid.UUID, params RecommendationListParams) ([]VacancyRecommendationItem, error) {
	if profileID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	limit, offset, err := normalizePage(params)
	if err != nil {
		return nil, err
	}

	rows, err := u.repo.VacanciesForProfile(ctx, profileID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]VacancyRecommendationItem, 0, len(rows))
	for _, r := range page(rows, limit, offset) {
		out = append(out, VacancyRecommendationItem{
			RecommendationID: r.RecommendationID,
			VacancyID:        r.VacancyID,
			Title:            r.Title,
			Description:      r.Description,
			Company:          r.Company,
			Location:         r.Location,
			RecommendedAt:    r.RecommendedAt,
		})
	}
	return out, nil
}

func normalizePage(params RecommendationListParams) (int, int, error) {
	limit := params.Limit
	if limit == 0 {
		limit = 20
	}
	if limit < 0 || limit > 100 {
		return 0, 0, ErrInvalidInput
	}
	if params.Offset < 0 {
		return 0, 0, ErrInvalidInput
	}
	return limit, params.Offset, nil
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
