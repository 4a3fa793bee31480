package usecase

import (
	"context"
	"errors"
	"fmt"

	"skill-bridge/internal/repository"

	"github.com/google/uuid"
)

// RecommendationTriggerUsecase starts runs for entities known only by id.
type RecommendationTriggerUsecase interface {
	RecommendCourseByID(ctx context.Context, courseID uuid.UUID) (RecommendationRun, error)
	RecommendVacancyByID(ctx context.Context, vacancyID uuid.UUID) (RecommendationRun, error)
	MatchCourse(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	MatchVacancy(ctx context.Context, vacancyID uuid.UUID) ([]uuid.UUID, error)
}

type RecommendationTrigger struct {
	entities    repository.EntityRepository
	recommender RecommendationUsecase
}

func NewRecommendationTrigger(entities repository.EntityRepository, recommender RecommendationUsecase) *RecommendationTrigger {
	return &RecommendationTrigger{entities: entities, recommender: recommender}
}

func (u *RecommendationTrigger) RecommendCourseByID(ctx context.Context, courseID uuid.UUID) (RecommendationRun, error) {
	if courseID == uuid.Nil {
		return RecommendationRun{}, ErrInvalidInput
	}
	course, err := u.entities.CourseByID(ctx, courseID)
	if err != nil {
		return RecommendationRun{}, entityErr(err, repository.ErrCourseNotFound)
	}
	return u.recommender.RecommendForCourse(ctx, course)
}

func (u *RecommendationTrigger) RecommendVacancyByID(ctx context.Context, vacancyID uuid.UUID) (RecommendationRun, error) {
	if vacancyID == uuid.Nil {
		return RecommendationRun{}, ErrInvalidInput
	}
	vacancy, err := u.entities.VacancyByID(ctx, vacancyID)
	if err != nil {
		return RecommendationRun{}, entityErr(err, repository.ErrVacancyNotFound)
	}
	return u.recommender.RecommendForVacancy(ctx, vacancy)
}

func (u *RecommendationTrigger) MatchCourse(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	if courseID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if _, err := u.entities.CourseByID(ctx, courseID); err != nil {
		return nil, entityErr(err, repository.ErrCourseNotFound)
	}
	return u.recommender.MatchCourse(ctx, courseID)
}

func (u *RecommendationTrigger) MatchVacancy(ctx context.Context, vacancyID uuid.UUID) ([]uuid.UUID, error) {
	if vacancyID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if _, err := u.entities.VacancyByID(ctx, vacancyID); err != nil {
		return nil, entityErr(err, repository.ErrVacancyNotFound)
	}
	return u.recommender.MatchVacancy(ctx, vacancyID)
}

func entityErr(err, notFound error) error {
	if errors.Is(err, notFound) {
		return fmt.Errorf("%w: %w", ErrEntityNotFound, err)
	}
	return fmt.Errorf("%w: load entity: %w", ErrRepositoryFailure, err)
}
