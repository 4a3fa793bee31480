package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skill-bridge/internal/domain/competency"
	"skill-bridge/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type CompetencyInput struct {
	Name             string `validate:"required,max=150"`
	Description      string `validate:"max=1000"`
	RecommendedLevel string
}

// RequirementInput links a course or vacancy to a competency. An empty level
// means beginner.
type RequirementInput struct {
	CompetencyID    uuid.UUID
	Level           string
	CoveragePercent *int `validate:"omitnil,gte=0,lte=100"`
	IsMandatory     *bool
}

type CourseInput struct {
	Title         string             `validate:"required,max=250"`
	Description   string             `validate:"max=4000"`
	DurationHours int                `validate:"gte=0"`
	Competencies  []RequirementInput `validate:"dive"`
}

type VacancyInput struct {
	Title        string             `validate:"required,max=250"`
	Description  string             `validate:"max=4000"`
	Company      string             `validate:"max=200"`
	Location     string             `validate:"max=150"`
	Competencies []RequirementInput `validate:"dive"`
}

type ProfileInput struct {
	FullName string `validate:"required,max=200"`
	Bio      string `validate:"max=1000"`
	Location string `validate:"max=150"`
}

// ProfileCompetencyInput is a self-assessment. An empty level is stored as
// unset and never satisfies a requirement.
type ProfileCompetencyInput struct {
	CompetencyID    uuid.UUID
	Level           string
	YearsExperience *int `validate:"omitnil,gte=0,lte=80"`
}

// CourseCreation is a stored course and the run triggered for it. When the
// run fails the course stays stored, Run is nil and RunErr says why.
type CourseCreation struct {
	Course       competency.Course
	Requirements []competency.Requirement
	Run          *RecommendationRun
	RunErr       error
}

type VacancyCreation struct {
	Vacancy      competency.Vacancy
	Requirements []competency.Requirement
	Run          *RecommendationRun
	RunErr       error
}

type CatalogUsecase interface {
	CreateCompetency(ctx context.Context, in CompetencyInput) (competency.Competency, error)
	ListCompetencies(ctx context.Context) ([]competency.Competency, error)
	GetCompetency(ctx context.Context, id uuid.UUID) (competency.Competency, error)
	DeleteCompetency(ctx context.Context, id uuid.UUID) error

	CreateCourse(ctx context.Context, in CourseInput) (CourseCreation, error)
	CreateVacancy(ctx context.Context, in VacancyInput) (VacancyCreation, error)

	CreateProfile(ctx context.Context, in ProfileInput) (competency.Profile, error)
	SetProfileCompetency(ctx context.Context, profileID uuid.UUID, in ProfileCompetencyInput) (competency.ProfileCompetency, error)
}

type Catalog struct {
	repo        repository.CatalogRepository
	recommender RecommendationUsecase
	log         *zap.Logger
	now         func() time.Time
}

var inputValidator = validator.New()

// NewCatalog wires catalog writes. A nil recommender stores courses and
// vacancies without running recommendations.
func NewCatalog(repo repository.CatalogRepository, recommender RecommendationUsecase, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{repo: repo, recommender: recommender, log: log, now: time.Now}
}

func (u *Catalog) CreateCompetency(ctx context.Context, in CompetencyInput) (competency.Competency, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := inputValidator.Struct(in); err != nil {
		return competency.Competency{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	lvl, err := parseLevelOr(in.RecommendedLevel, competency.LevelBeginner)
	if err != nil {
		return competency.Competency{}, err
	}

	exists, err := u.repo.CompetencyNameExists(ctx, in.Name)
	if err != nil {
		return competency.Competency{}, fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
	}
	if exists {
		return competency.Competency{}, fmt.Errorf("%w: competency %q", ErrAlreadyExists, in.Name)
	}

	c := competency.Competency{
		ID:               uuid.New(),
		Name:             in.Name,
		Description:      strings.TrimSpace(in.Description),
		RecommendedLevel: lvl,
	}
	if err := u.repo.CreateCompetency(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return competency.Competency{}, fmt.Errorf("%w: competency %q", ErrAlreadyExists, in.Name)
		}
		return competency.Competency{}, fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
	}
	return c, nil
}

func (u *Catalog) ListCompetencies(ctx context.Context) ([]competency.Competency, error) {
	items, err := u.repo.ListCompetencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
	}
	return items, nil
}

func (u *Catalog) GetCompetency(ctx context.Context, id uuid.UUID) (competency.Competency, error) {
	if id == uuid.Nil {
		return competency.Competency{}, ErrInvalidInput
	}
	c, err := u.repo.CompetencyByID(ctx, id)
	if err != nil {
		return competency.Competency{}, entityErr(err, repository.ErrCompetencyNotFound)
	}
	return c, nil
}

func (u *Catalog) DeleteCompetency(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.DeleteCompetency(ctx, id); err != nil {
		return entityErr(err, repository.ErrCompetencyNotFound)
	}
	return nil
}

// CreateCourse stores the course with its requirements, then runs
// recommendations for it.
func (u *Catalog) CreateCourse(ctx context.Context, in CourseInput) (CourseCreation, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := inputValidator.Struct(in); err != nil {
		return CourseCreation{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	reqs, err := u.requirements(ctx, in.Competencies)
	if err != nil {
		return CourseCreation{}, err
	}

	course := competency.Course{
		ID:            uuid.New(),
		Title:         in.Title,
		Description:   strings.TrimSpace(in.Description),
		DurationHours: in.DurationHours,
		CreatedAt:     u.now().UTC(),
	}
	for i := range reqs {
		reqs[i].EntityID = course.ID
	}
	if err := u.repo.CreateCourse(ctx, course, reqs); err != nil {
		return CourseCreation{}, writeErr(err)
	}

	out := CourseCreation{Course: course, Requirements: reqs}
	if u.recommender != nil {
		run, err := u.recommender.RecommendForCourse(ctx, course)
		if err != nil {
			u.log.Warn("course stored but recommendation failed", zap.Stringer("course_id", course.ID), zap.Error(err))
			out.RunErr = err
		} else {
			out.Run = &run
		}
	}
	return out, nil
}

// CreateVacancy stores the vacancy with its requirements, then runs
// recommendations for it.
func (u *Catalog) CreateVacancy(ctx context.Context, in VacancyInput) (VacancyCreation, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := inputValidator.Struct(in); err != nil {
		return VacancyCreation{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	reqs, err := u.requirements(ctx, in.Competencies)
	if err != nil {
		return VacancyCreation{}, err
	}

	vacancy := competency.Vacancy{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		PostedAt:    u.now().UTC(),
	}
	for i := range reqs {
		reqs[i].EntityID = vacancy.ID
	}
	if err := u.repo.CreateVacancy(ctx, vacancy, reqs); err != nil {
		return VacancyCreation{}, writeErr(err)
	}

	out := VacancyCreation{Vacancy: vacancy, Requirements: reqs}
	if u.recommender != nil {
		run, err := u.recommender.RecommendForVacancy(ctx, vacancy)
		if err != nil {
			u.log.Warn("vacancy stored but recommendation failed", zap.Stringer("vacancy_id", vacancy.ID), zap.Error(err))
			out.RunErr = err
		} else {
			out.Run = &run
		}
	}
	return out, nil
}

func (u *Catalog) CreateProfile(ctx context.Context, in ProfileInput) (competency.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if err := inputValidator.Struct(in); err != nil {
		return competency.Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	p := competency.Profile{
		ID:       uuid.New(),
		FullName: in.FullName,
		Bio:      strings.TrimSpace(in.Bio),
		Location: strings.TrimSpace(in.Location),
	}
	if err := u.repo.CreateProfile(ctx, p); err != nil {
		return competency.Profile{}, fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
	}
	return p, nil
}

// SetProfileCompetency records or replaces a profile's self-assessment.
func (u *Catalog) SetProfileCompetency(ctx context.Context, profileID uuid.UUID, in ProfileCompetencyInput) (competency.ProfileCompetency, error) {
	if profileID == uuid.Nil || in.CompetencyID == uuid.Nil {
		return competency.ProfileCompetency{}, ErrInvalidInput
	}
	if err := inputValidator.Struct(in); err != nil {
		return competency.ProfileCompetency{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	lvl, err := parseLevelOr(in.Level, competency.LevelUnset)
	if err != nil {
		return competency.ProfileCompetency{}, err
	}

	exists, err := u.repo.ProfileExists(ctx, profileID)
	if err != nil {
		return competency.ProfileCompetency{}, fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
	}
	if !exists {
		return competency.ProfileCompetency{}, fmt.Errorf("%w: %w", ErrEntityNotFound, repository.ErrProfileNotFound)
	}
	missing, err := u.repo.MissingCompetencies(ctx, []uuid.UUID{in.CompetencyID})
	if err != nil {
		return competency.ProfileCompetency{}, fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
	}
	if len(missing) > 0 {
		return competency.ProfileCompetency{}, fmt.Errorf("%w: unknown competency %s", ErrInvalidInput, in.CompetencyID)
	}

	pc := competency.ProfileCompetency{
		ProfileID:         profileID,
		CompetencyID:      in.CompetencyID,
		SelfAssessedLevel: lvl,
		YearsExperience:   in.YearsExperience,
	}
	if err := u.repo.UpsertProfileCompetency(ctx, pc); err != nil {
		return competency.ProfileCompetency{}, writeErr(err)
	}
	return pc, nil
}

// requirements parses levels, collapses repeated competencies to the
// strictest level and checks that every competency exists.
func (u *Catalog) requirements(ctx context.Context, in []RequirementInput) ([]competency.Requirement, error) {
	out := make([]competency.Requirement, 0, len(in))
	index := make(map[uuid.UUID]int, len(in))
	for _, r := range in {
		if r.CompetencyID == uuid.Nil {
			return nil, fmt.Errorf("%w: missing competency id", ErrInvalidInput)
		}
		lvl, err := parseLevelOr(r.Level, competency.LevelBeginner)
		if err != nil {
			return nil, err
		}
		if i, ok := index[r.CompetencyID]; ok {
			if lvl > out[i].RequiredLevel {
				out[i].RequiredLevel = lvl
			}
			continue
		}
		index[r.CompetencyID] = len(out)
		out = append(out, competency.Requirement{
			CompetencyID:    r.CompetencyID,
			RequiredLevel:   lvl,
			IsMandatory:     r.IsMandatory,
			CoveragePercent: r.CoveragePercent,
		})
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.CompetencyID)
	}
	missing, err := u.repo.MissingCompetencies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: unknown competencies %v", ErrInvalidInput, missing)
	}
	return out, nil
}

func parseLevelOr(s string, fallback competency.Level) (competency.Level, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	lvl, err := competency.ParseLevel(s)
	if err != nil {
		return competency.LevelUnset, fmt.Errorf("%w: %w: %q", ErrInvalidInput, err, s)
	}
	return lvl, nil
}

// writeErr classifies a failed insert. A foreign key violation means a
// referenced row vanished after validation.
func writeErr(err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	}
	return fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
