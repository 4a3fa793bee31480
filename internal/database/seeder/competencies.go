package seeder

import (
	"context"
	"fmt"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain/competency"

	"github.com/google/uuid"
)

type CompetencyItem struct {
	Name             string
	Description      string
	RecommendedLevel competency.Level
}

// CompetencySeeder inserts catalog entries whose name (case-insensitive) is
// not present yet.
type CompetencySeeder struct {
	Items []CompetencyItem
}

func (CompetencySeeder) Name() string { return "competencies" }

func (s CompetencySeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "competencies", "id", "name", "description", "recommended_level"); err != nil {
		return err
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, it := range s.Items {
			if !it.RecommendedLevel.Valid() {
				return fmt.Errorf("competency %q: %w", it.Name, competency.ErrInvalidLevel)
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO competencies (id, name, description, recommended_level)
				 SELECT $1, $2, $3, $4
				 WHERE NOT EXISTS (SELECT 1 FROM competencies WHERE lower(name) = lower($2))`,
				uuid.New(), it.Name, it.Description, int16(it.RecommendedLevel),
			)
			if err != nil {
				return fmt.Errorf("insert competency %q: %w", it.Name, err)
			}
		}
		return nil
	})
}

func DefaultCompetencies() []CompetencyItem {
	return []CompetencyItem{
		{Name: "Python", Description: "Python programming", RecommendedLevel: competency.LevelIntermediate},
		{Name: "Go", Description: "Go programming", RecommendedLevel: competency.LevelIntermediate},
		{Name: "JavaScript", Description: "JavaScript programming", RecommendedLevel: competency.LevelIntermediate},
		{Name: "TypeScript", Description: "TypeScript programming", RecommendedLevel: competency.LevelIntermediate},
		{Name: "Java", Description: "Java programming", RecommendedLevel: competency.LevelIntermediate},
		{Name: "SQL", Description: "Relational querying and modelling", RecommendedLevel: competency.LevelBeginner},
		{Name: "PostgreSQL", Description: "PostgreSQL administration and tuning", RecommendedLevel: competency.LevelIntermediate},
		{Name: "Redis", Description: "In-memory data stores", RecommendedLevel: competency.LevelBeginner},
		{Name: "Docker", Description: "Container images and runtimes", RecommendedLevel: competency.LevelBeginner},
		{Name: "Kubernetes", Description: "Container orchestration", RecommendedLevel: competency.LevelAdvanced},
		{Name: "AWS", Description: "Amazon Web Services", RecommendedLevel: competency.LevelIntermediate},
		{Name: "Machine Learning", Description: "Supervised and unsupervised learning", RecommendedLevel: competency.LevelAdvanced},
		{Name: "Data Analysis", Description: "Exploratory analysis and reporting", RecommendedLevel: competency.LevelBeginner},
		{Name: "Git", Description: "Version control", RecommendedLevel: competency.LevelBeginner},
	}
}
