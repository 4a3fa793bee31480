package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-bridge/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRecommendationQueryRepo struct {
	courses   []repository.RecommendedCourse
	vacancies []repository.RecommendedVacancy
	err       error
}

func (m mockRecommendationQueryRepo) CoursesForProfile(context.Context, uuid.UUID) ([]repository.RecommendedCourse, error) {
	return m.courses, m.err
}

func (m mockRecommendationQueryRepo) VacanciesForProfile(context.Context, uuid.UUID) ([]repository.RecommendedVacancy, error) {
	return m.vacancies, m.err
}

func TestRecommendationList_CoursesForProfile(t *testing.T) {
	now := time.Now().UTC()
	rows := make([]repository.RecommendedCourse, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, repository.RecommendedCourse{RecommendationID: uuid.New(), CourseID: uuid.New(), Title: "Go", RecommendedAt: now})
	}
	uc := NewRecommendationListUsecase(mockRecommendationQueryRepo{courses: rows})

	items, err := uc.CoursesForProfile(context.Background(), uuid.New(), RecommendationListParams{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, rows[1].CourseID, items[0].CourseID)
	assert.Equal(t, rows[2].RecommendationID, items[1].RecommendationID)

	items, err = uc.CoursesForProfile(context.Background(), uuid.New(), RecommendationListParams{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRecommendationList_VacanciesForProfile(t *testing.T) {
	row := repository.RecommendedVacancy{RecommendationID: uuid.New(), VacancyID: uuid.New(), Title: "Backend", Company: "Acme", Location: "Recife"}
	uc := NewRecommendationListUsecase(mockRecommendationQueryRepo{vacancies: []repository.RecommendedVacancy{row}})

	items, err := uc.VacanciesForProfile(context.Background(), uuid.New(), RecommendationListParams{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].Company)
	assert.Equal(t, "Recife", items[0].Location)
}

func TestRecommendationList_InvalidInput(t *testing.T) {
	uc := NewRecommendationListUsecase(mockRecommendationQueryRepo{})

	_, err := uc.CoursesForProfile(context.Background(), uuid.Nil, RecommendationListParams{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.VacanciesForProfile(context.Background(), uuid.New(), RecommendationListParams{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.VacanciesForProfile(context.Background(), uuid.New(), RecommendationListParams{Offset: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecommendationList_RepositoryError(t *testing.T) {
	uc := NewRecommendationListUsecase(mockRecommendationQueryRepo{err: errors.New("down")})

	_, err := uc.CoursesForProfile(context.Background(), uuid.New(), RecommendationListParams{})
	assert.ErrorIs(t, err, ErrInternal)
}
