package repository

import (
	"context"
	"database/sql"
	"errors"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain/competency"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrVacancyNotFound = errors.New("vacancy not found")
)

type EntityRepository interface {
	CourseByID(ctx context.Context, id uuid.UUID) (competency.Course, error)
	VacancyByID(ctx context.Context, id uuid.UUID) (competency.Vacancy, error)
}

type PostgresEntityRepository struct {
	db database.DB
}

func NewPostgresEntityRepository(db database.DB) *PostgresEntityRepository {
	return &PostgresEntityRepository{db: db}
}

func (r *PostgresEntityRepository) CourseByID(ctx context.Context, id uuid.UUID) (competency.Course, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, title, COALESCE(description, ''), duration_hours, created_at FROM courses WHERE id = $1`,
		id,
	)

	var c competency.Course
	var hours int32
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &hours, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return competency.Course{}, ErrCourseNotFound
		}
		return competency.Course{}, err
	}
	c.DurationHours = int(hours)
	return c, nil
}

func (r *PostgresEntityRepository) VacancyByID(ctx context.Context, id uuid.UUID) (competency.Vacancy, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, title, COALESCE(description, ''), COALESCE(company, ''), COALESCE(location, ''), posted_at
		 FROM vacancies WHERE id = $1`,
		id,
	)

	var v competency.Vacancy
	if err := row.Scan(&v.ID, &v.Title, &v.Description, &v.Company, &v.Location, &v.PostedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return competency.Vacancy{}, ErrVacancyNotFound
		}
		return competency.Vacancy{}, err
	}
	return v, nil
}
