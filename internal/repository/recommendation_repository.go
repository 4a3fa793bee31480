package repository

import (
	"context"
	"errors"
	"fmt"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain/competency"

	"github.com/google/uuid"
)

var ErrUnknownTarget = errors.New("unknown recommendation target")

// RecommendationRepository is the storage contract of the recommendation engine.
type RecommendationRepository interface {
	RequirementsFor(ctx context.Context, target competency.Target) ([]competency.Requirement, error)
	CompetencyCatalog(ctx context.Context) ([]competency.Competency, error)
	ProfilesWithCompetencies(ctx context.Context) ([]competency.ProfileSnapshot, error)
	PersistRecommendations(ctx context.Context, recs []competency.Recommendation) error
	RecommendedProfileIDs(ctx context.Context, target competency.Target) ([]uuid.UUID, error)
}

type PostgresRecommendationRepository struct {
	db database.DB
}

func NewPostgresRecommendationRepository(db database.DB) *PostgresRecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

func (r *PostgresRecommendationRepository) RequirementsFor(ctx context.Context, target competency.Target) ([]competency.Requirement, error) {
	var query string
	switch target.Kind {
	case competency.TargetCourse:
		query = `SELECT course_id, competency_id, required_level, NULL::boolean, coverage_percent
		 FROM course_competencies
		 WHERE course_id = $1
		 ORDER BY competency_id`
	case competency.TargetVacancy:
		query = `SELECT vacancy_id, competency_id, required_level, is_mandatory, NULL::int
		 FROM vacancy_competencies
		 WHERE vacancy_id = $1
		 ORDER BY competency_id`
	default:
		return nil, ErrUnknownTarget
	}

	rows, err := r.db.Query(ctx, query, target.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]competency.Requirement, 0)
	for rows.Next() {
		var req competency.Requirement
		var lvl int16
		if err := rows.Scan(&req.EntityID, &req.CompetencyID, &lvl, &req.IsMandatory, &req.CoveragePercent); err != nil {
			return nil, err
		}
		req.RequiredLevel = competency.Level(lvl)
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRecommendationRepository) CompetencyCatalog(ctx context.Context) ([]competency.Competency, error) {
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

// ProfilesWithCompetencies returns every profile, including profiles without
// any competency rows. NULL self-assessments map to LevelUnset.
func (r *PostgresRecommendationRepository) ProfilesWithCompetencies(ctx context.Context) ([]competency.ProfileSnapshot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.id, pc.competency_id, pc.self_assessed_level
		 FROM profiles p
		 LEFT JOIN profile_competencies pc ON pc.profile_id = p.id
		 ORDER BY p.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]competency.ProfileSnapshot, 0)
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var profileID uuid.UUID
		var competencyID *uuid.UUID
		var lvl *int16
		if err := rows.Scan(&profileID, &competencyID, &lvl); err != nil {
			return nil, err
		}

		i, ok := index[profileID]
		if !ok {
			i = len(out)
			index[profileID] = i
			out = append(out, competency.ProfileSnapshot{ProfileID: profileID, Levels: map[uuid.UUID]competency.Level{}})
		}
		if competencyID == nil {
			continue
		}
		out[i].Levels[*competencyID] = competency.LevelFromNullable(lvl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PersistRecommendations inserts the batch in one transaction.
func (r *PostgresRecommendationRepository) PersistRecommendations(ctx context.Context, recs []competency.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("recommendation %s: %w", rec.ID, err)
		}
	}

	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		for _, rec := range recs {
			_, err := tx.Exec(ctx,
				`INSERT INTO recommendations (id, profile_id, course_id, vacancy_id, created_at)
				 VALUES ($1,$2,$3,$4,$5)`,
				rec.ID,
				rec.ProfileID,
				rec.CourseID,
				rec.VacancyID,
				rec.CreatedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRecommendationRepository) RecommendedProfileIDs(ctx context.Context, target competency.Target) ([]uuid.UUID, error) {
	var query string
	switch target.Kind {
	case competency.TargetCourse:
		query = `SELECT DISTINCT profile_id FROM recommendations WHERE course_id = $1`
	case competency.TargetVacancy:
		query = `SELECT DISTINCT profile_id FROM recommendations WHERE vacancy_id = $1`
	default:
		return nil, ErrUnknownTarget
	}

	rows, err := r.db.Query(ctx, query, target.ID)
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
