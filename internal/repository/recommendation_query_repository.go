package repository

import (
	"context"
	"time"

	"skill-bridge/internal/database"

	"github.com/google/uuid"
)

type RecommendedCourse struct {
	RecommendationID uuid.UUID
	CourseID         uuid.UUID
	Title            string
	Description      string
	RecommendedAt    time.Time
}

type RecommendedVacancy struct {
	RecommendationID uuid.UUID
	VacancyID        uuid.UUID
	Title            string
	Description      string
	Company          string
	Location         string
	RecommendedAt    time.Time
}

type RecommendationQueryRepository interface {
	CoursesForProfile(ctx context.Context, profileID uuid.UUID) ([]RecommendedCourse, error)
	VacanciesForProfile(ctx context.Context, profileID uuid.UUID) ([]RecommendedVacancy, error)
}

type PostgresRecommendationQueryRepository struct {
	db database.DB
}

func NewPostgresRecommendationQueryRepository(db database.DB) *PostgresRecommendationQueryRepository {
	return &PostgresRecommendationQueryRepository{db: db}
}

func (r *PostgresRecommendationQueryRepository) CoursesForProfile(ctx context.Context, profileID uuid.UUID) ([]RecommendedCourse, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, c.id, c.title, COALESCE(c.description, ''), r.created_at
		 FROM recommendations r
		 JOIN courses c ON c.id = r.course_id
		 WHERE r.profile_id = $1 AND r.course_id IS NOT NULL
		 ORDER BY r.created_at DESC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecommendedCourse, 0)
	for rows.Next() {
		var it RecommendedCourse
		if err := rows.Scan(&it.RecommendationID, &it.CourseID, &it.Title, &it.Description, &it.RecommendedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRecommendationQueryRepository) VacanciesForProfile(ctx context.Context, profileID uuid.UUID) ([]RecommendedVacancy, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, v.id, v.title, COALESCE(v.description, ''), COALESCE(v.company, ''), COALESCE(v.location, ''), r.created_at
		 FROM recommendations r
		 JOIN vacancies v ON v.id = r.vacancy_id
		 WHERE r.profile_id = $1 AND r.vacancy_id IS NOT NULL
		 ORDER BY r.created_at DESC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecommendedVacancy, 0)
	for rows.Next() {
		var it RecommendedVacancy
		if err := rows.Scan(&it.RecommendationID, &it.VacancyID, &it.Title, &it.Description, &it.Company, &it.Location, &it.RecommendedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
