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
	ErrCompetencyNotFound = errors.New("competency not found")
	ErrProfileNotFound    = errors.New("profile not found")
)

// CatalogRepository writes the entities the recommendation engine reads:
// competencies, profiles with their self-assessments, and courses and
// vacancies with their declared requirements.
type CatalogRepository interface {
	CreateCompetency(ctx context.Context, c competency.Competency) error
	CompetencyNameExists(ctx context.Context, name string) (bool, error)
	ListCompetencies(ctx context.Context) ([]competency.Competency, error)
	CompetencyByID(ctx context.Context, id uuid.UUID) (competency.Competency, error)
	DeleteCompetency(ctx context.Context, id uuid.UUID) error
	MissingCompetencies(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	CreateCourse(ctx context.Context, c competency.Course, reqs []competency.Requirement) error
	CreateVacancy(ctx context.Context, v competency.Vacancy, reqs []competency.Requirement) error

	CreateProfile(ctx context.Context, p competency.Profile) error
	ProfileExists(ctx context.Context, id uuid.UUID) (bool, error)
	UpsertProfileCompetency(ctx context.Context, pc competency.ProfileCompetency) error
}

type PostgresCatalogRepository struct {
	db database.DB
}

func NewPostgresCatalogRepository(db database.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) CreateCompetency(ctx context.Context, c competency.Competency) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO competencies (id, name, description, recommended_level) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Description, int16(c.RecommendedLevel),
	)
	return err
}

func (r *PostgresCatalogRepository) CompetencyNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM competencies WHERE lower(name) = lower($1))`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresCatalogRepository) ListCompetencies(ctx context.Context) ([]competency.Competency, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), recommended_level
		 FROM competencies
		 ORDER BY name ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]competency.Competency, 0)
	for rows.Next() {
		var c competency.Competency
		var lvl int16
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &lvl); err != nil {
			return nil, err
		}
		c.RecommendedLevel = competency.Level(lvl)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCatalogRepository) CompetencyByID(ctx context.Context, id uuid.UUID) (competency.Competency, error) {
	var c competency.Competency
	var lvl int16
	err := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), recommended_level FROM competencies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &lvl)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return competency.Competency{}, ErrCompetencyNotFound
		}
		return competency.Competency{}, err
	}
	c.RecommendedLevel = competency.Level(lvl)
	return c, nil
}

// DeleteCompetency removes the competency together with every requirement
// and self-assessment that references it.
func (r *PostgresCatalogRepository) DeleteCompetency(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM competencies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCompetencyNotFound
	}
	return nil
}

// MissingCompetencies returns the ids that have no competency row, in input order.
func (r *PostgresCatalogRepository) MissingCompetencies(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := make([]string, 0, len(ids))
	for _, id := range ids {
		params = append(params, id.String())
	}

	rows, err := r.db.Query(ctx,
		`SELECT t.id
		 FROM unnest($1::uuid[]) WITH ORDINALITY AS t(id, ord)
		 WHERE NOT EXISTS (SELECT 1 FROM competencies c WHERE c.id = t.id)
		 ORDER BY t.ord`,
		params,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCatalogRepository) CreateCourse(ctx context.Context, c competency.Course, reqs []competency.Requirement) error {
	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO courses (id, title, description, duration_hours, created_at) VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.Title, c.Description, c.DurationHours, c.CreatedAt,
		); err != nil {
			return err
		}
		for _, req := range reqs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO course_competencies (course_id, competency_id, required_level, coverage_percent)
				 VALUES ($1, $2, $3, $4)`,
				c.ID, req.CompetencyID, int16(req.RequiredLevel), req.CoveragePercent,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresCatalogRepository) CreateVacancy(ctx context.Context, v competency.Vacancy, reqs []competency.Requirement) error {
	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO vacancies (id, title, description, company, location, posted_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			v.ID, v.Title, v.Description, v.Company, v.Location, v.PostedAt,
		); err != nil {
			return err
		}
		for _, req := range reqs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO vacancy_competencies (vacancy_id, competency_id, required_level, is_mandatory)
				 VALUES ($1, $2, $3, COALESCE($4::boolean, FALSE))`,
				v.ID, req.CompetencyID, int16(req.RequiredLevel), req.IsMandatory,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresCatalogRepository) CreateProfile(ctx context.Context, p competency.Profile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, full_name, bio, location) VALUES ($1, $2, $3, $4)`,
		p.ID, p.FullName, p.Bio, p.Location,
	)
	return err
}

func (r *PostgresCatalogRepository) ProfileExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertProfileCompetency records a self-assessment, replacing an earlier one
// for the same competency. An unset level is stored as NULL.
func (r *PostgresCatalogRepository) UpsertProfileCompetency(ctx context.Context, pc competency.ProfileCompetency) error {
	var lvl *int16
	if pc.SelfAssessedLevel.Valid() {
		v := int16(pc.SelfAssessedLevel)
		lvl = &v
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO profile_competencies (profile_id, competency_id, self_assessed_level, years_experience)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (profile_id, competency_id) DO UPDATE
		 SET self_assessed_level = EXCLUDED.self_assessed_level,
		     years_experience = EXCLUDED.years_experience`,
		pc.ProfileID, pc.CompetencyID, lvl, pc.YearsExperience,
	)
	return err
}
