package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-bridge/internal/domain/competency"
	"skill-bridge/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalogRepo stores declared requirements into the recommendation fake
// so a real Recommender sees what was created.
type fakeCatalogRepo struct {
	recs *fakeRecommendationRepo

	competencies map[uuid.UUID]competency.Competency
	profiles     map[uuid.UUID]competency.Profile
	assessments  []competency.ProfileCompetency
	courses      []competency.Course
	vacancies    []competency.Vacancy

	nameExists bool
	writeErr   error
	missingErr error
}

func newFakeCatalogRepo(known ...competency.Competency) *fakeCatalogRepo {
	f := &fakeCatalogRepo{
		recs:         &fakeRecommendationRepo{requirements: map[uuid.UUID][]competency.Requirement{}},
		competencies: map[uuid.UUID]competency.Competency{},
		profiles:     map[uuid.UUID]competency.Profile{},
	}
	for _, c := range known {
		f.competencies[c.ID] = c
	}
	return f
}

func (f *fakeCatalogRepo) CreateCompetency(_ context.Context, c competency.Competency) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.competencies[c.ID] = c
	return nil
}

func (f *fakeCatalogRepo) CompetencyNameExists(context.Context, string) (bool, error) {
	return f.nameExists, nil
}

func (f *fakeCatalogRepo) ListCompetencies(context.Context) ([]competency.Competency, error) {
	out := make([]competency.Competency, 0, len(f.competencies))
	for _, c := range f.competencies {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCatalogRepo) CompetencyByID(_ context.Context, id uuid.UUID) (competency.Competency, error) {
	c, ok := f.competencies[id]
	if !ok {
		return competency.Competency{}, repository.ErrCompetencyNotFound
	}
	return c, nil
}

func (f *fakeCatalogRepo) DeleteCompetency(_ context.Context, id uuid.UUID) error {
	if _, ok := f.competencies[id]; !ok {
		return repository.ErrCompetencyNotFound
	}
	delete(f.competencies, id)
	return nil
}

func (f *fakeCatalogRepo) MissingCompetencies(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if f.missingErr != nil {
		return nil, f.missingErr
	}
	out := make([]uuid.UUID, 0)
	for _, id := range ids {
		if _, ok := f.competencies[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) CreateCourse(_ context.Context, c competency.Course, reqs []competency.Requirement) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.courses = append(f.courses, c)
	f.recs.requirements[c.ID] = reqs
	return nil
}

func (f *fakeCatalogRepo) CreateVacancy(_ context.Context, v competency.Vacancy, reqs []competency.Requirement) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.vacancies = append(f.vacancies, v)
	f.recs.requirements[v.ID] = reqs
	return nil
}

func (f *fakeCatalogRepo) CreateProfile(_ context.Context, p competency.Profile) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeCatalogRepo) ProfileExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.profiles[id]
	return ok, nil
}

func (f *fakeCatalogRepo) UpsertProfileCompetency(_ context.Context, pc competency.ProfileCompetency) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.assessments = append(f.assessments, pc)
	return nil
}

type failingRecommender struct {
	RecommendationUsecase
	err error
}

func (r failingRecommender) RecommendForCourse(context.Context, competency.Course) (RecommendationRun, error) {
	return RecommendationRun{}, r.err
}

func newTestCatalog(t *testing.T, repo *fakeCatalogRepo) *Catalog {
	t.Helper()
	uc := NewCatalog(repo, newTestRecommender(t, repo.recs), nil)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestCatalog_CreateCourse_StoresAndRecommends(t *testing.T) {
	goLang := competency.Competency{ID: uuid.New(), Name: "Go"}
	sql := competency.Competency{ID: uuid.New(), Name: "SQL"}
	repo := newFakeCatalogRepo(goLang, sql)

	ready, partial := uuid.New(), uuid.New()
	repo.recs.profiles = []competency.ProfileSnapshot{
		profile(ready, map[uuid.UUID]competency.Level{goLang.ID: competency.LevelAdvanced, sql.ID: competency.LevelBeginner}),
		profile(partial, map[uuid.UUID]competency.Level{goLang.ID: competency.LevelExpert}),
	}

	got, err := newTestCatalog(t, repo).CreateCourse(context.Background(), CourseInput{
		Title:         "  Go com Postgres ",
		DurationHours: 40,
		Competencies: []RequirementInput{
			{CompetencyID: goLang.ID, Level: "intermediate"},
			{CompetencyID: sql.ID},
			{CompetencyID: goLang.ID, Level: "advanced"},
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.courses, 1)
	assert.Equal(t, "Go com Postgres", got.Course.Title)
	assert.Equal(t, fixedNow, got.Course.CreatedAt)

	require.Len(t, got.Requirements, 2)
	assert.Equal(t, competency.LevelAdvanced, got.Requirements[0].RequiredLevel)
	assert.Equal(t, competency.LevelBeginner, got.Requirements[1].RequiredLevel)
	assert.Equal(t, got.Course.ID, got.Requirements[0].EntityID)

	require.NotNil(t, got.Run)
	assert.NoError(t, got.RunErr)
	assert.Equal(t, PathDeclared, got.Run.Path)
	assert.Equal(t, []uuid.UUID{ready}, profileIDs(got.Run.Recommendations))
	assert.Equal(t, competency.CourseTarget(got.Course.ID), got.Run.Target)
}

func TestCatalog_CreateVacancy_WithoutRequirementsInfers(t *testing.T) {
	docker := competency.Competency{ID: uuid.New(), Name: "Docker", RecommendedLevel: competency.LevelBeginner}
	repo := newFakeCatalogRepo(docker)
	repo.recs.catalog = []competency.Competency{docker}
	pid := uuid.New()
	repo.recs.profiles = []competency.ProfileSnapshot{
		profile(pid, map[uuid.UUID]competency.Level{docker.ID: competency.LevelIntermediate}),
	}

	got, err := newTestCatalog(t, repo).CreateVacancy(context.Background(), VacancyInput{
		Title:       "DevOps",
		Description: "Experiência com Docker",
		Company:     "Acme",
	})
	require.NoError(t, err)
	assert.Empty(t, got.Requirements)
	require.NotNil(t, got.Run)
	assert.Equal(t, PathInferred, got.Run.Path)
	assert.Equal(t, []uuid.UUID{pid}, profileIDs(got.Run.Recommendations))
}

func TestCatalog_CreateCourse_RejectsBadInput(t *testing.T) {
	known := competency.Competency{ID: uuid.New(), Name: "Go"}
	cases := []struct {
		name string
		in   CourseInput
	}{
		{"blank title", CourseInput{Title: "   "}},
		{"negative duration", CourseInput{Title: "Go", DurationHours: -1}},
		{"unknown level", CourseInput{Title: "Go", Competencies: []RequirementInput{{CompetencyID: known.ID, Level: "guru"}}}},
		{"nil competency", CourseInput{Title: "Go", Competencies: []RequirementInput{{}}}},
		{"unknown competency", CourseInput{Title: "Go", Competencies: []RequirementInput{{CompetencyID: uuid.New()}}}},
		{"coverage out of range", CourseInput{Title: "Go", Competencies: []RequirementInput{{CompetencyID: known.ID, CoveragePercent: ptr(120)}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeCatalogRepo(known)
			_, err := newTestCatalog(t, repo).CreateCourse(context.Background(), tc.in)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.courses)
		})
	}
}

func TestCatalog_CreateCourse_UnknownLevelWrapsLevelError(t *testing.T) {
	known := competency.Competency{ID: uuid.New(), Name: "Go"}
	_, err := newTestCatalog(t, newFakeCatalogRepo(known)).CreateCourse(context.Background(), CourseInput{
		Title:        "Go",
		Competencies: []RequirementInput{{CompetencyID: known.ID, Level: "3"}},
	})
	assert.ErrorIs(t, err, competency.ErrInvalidLevel)
}

func TestCatalog_CreateCourse_RunFailureKeepsCourse(t *testing.T) {
	repo := newFakeCatalogRepo()
	uc := NewCatalog(repo, failingRecommender{err: ErrRecommendationInProgress}, nil)

	got, err := uc.CreateCourse(context.Background(), CourseInput{Title: "Go"})
	require.NoError(t, err)
	assert.Len(t, repo.courses, 1)
	assert.Nil(t, got.Run)
	assert.ErrorIs(t, got.RunErr, ErrRecommendationInProgress)
}

func TestCatalog_CreateCourse_WriteErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrInvalidInput},
		{"unique", &pgconn.PgError{Code: "23505"}, ErrAlreadyExists},
		{"other", errors.New("connection reset"), ErrRepositoryFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeCatalogRepo()
			repo.writeErr = tc.err
			_, err := newTestCatalog(t, repo).CreateCourse(context.Background(), CourseInput{Title: "Go"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCatalog_CreateCompetency(t *testing.T) {
	repo := newFakeCatalogRepo()
	uc := newTestCatalog(t, repo)

	c, err := uc.CreateCompetency(context.Background(), CompetencyInput{Name: " C# ", RecommendedLevel: "Advanced"})
	require.NoError(t, err)
	assert.Equal(t, "C#", c.Name)
	assert.Equal(t, competency.LevelAdvanced, c.RecommendedLevel)
	assert.Contains(t, repo.competencies, c.ID)

	c, err = uc.CreateCompetency(context.Background(), CompetencyInput{Name: "Git"})
	require.NoError(t, err)
	assert.Equal(t, competency.LevelBeginner, c.RecommendedLevel)

	_, err = uc.CreateCompetency(context.Background(), CompetencyInput{Name: "Rust", RecommendedLevel: "wizard"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.CreateCompetency(context.Background(), CompetencyInput{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.nameExists = true
	_, err = uc.CreateCompetency(context.Background(), CompetencyInput{Name: "git"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCatalog_GetAndDeleteCompetency(t *testing.T) {
	known := competency.Competency{ID: uuid.New(), Name: "Go"}
	repo := newFakeCatalogRepo(known)
	uc := newTestCatalog(t, repo)

	got, err := uc.GetCompetency(context.Background(), known.ID)
	require.NoError(t, err)
	assert.Equal(t, known, got)

	list, err := uc.ListCompetencies(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.DeleteCompetency(context.Background(), known.ID))
	assert.ErrorIs(t, uc.DeleteCompetency(context.Background(), known.ID), ErrEntityNotFound)

	_, err = uc.GetCompetency(context.Background(), known.ID)
	assert.ErrorIs(t, err, ErrEntityNotFound)
	_, err = uc.GetCompetency(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalog_ProfileAndSelfAssessment(t *testing.T) {
	known := competency.Competency{ID: uuid.New(), Name: "Go"}
	repo := newFakeCatalogRepo(known)
	uc := newTestCatalog(t, repo)

	p, err := uc.CreateProfile(context.Background(), ProfileInput{FullName: " Ana Souza ", Location: "Recife"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", p.FullName)

	pc, err := uc.SetProfileCompetency(context.Background(), p.ID, ProfileCompetencyInput{
		CompetencyID:    known.ID,
		Level:           "expert",
		YearsExperience: ptr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, competency.LevelExpert, pc.SelfAssessedLevel)

	pc, err = uc.SetProfileCompetency(context.Background(), p.ID, ProfileCompetencyInput{CompetencyID: known.ID})
	require.NoError(t, err)
	assert.Equal(t, competency.LevelUnset, pc.SelfAssessedLevel)
	assert.Len(t, repo.assessments, 2)

	_, err = uc.SetProfileCompetency(context.Background(), uuid.New(), ProfileCompetencyInput{CompetencyID: known.ID})
	assert.ErrorIs(t, err, ErrEntityNotFound)

	_, err = uc.SetProfileCompetency(context.Background(), p.ID, ProfileCompetencyInput{CompetencyID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.SetProfileCompetency(context.Background(), p.ID, ProfileCompetencyInput{CompetencyID: known.ID, Level: "master"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.SetProfileCompetency(context.Background(), p.ID, ProfileCompetencyInput{CompetencyID: known.ID, YearsExperience: ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.CreateProfile(context.Background(), ProfileInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func ptr[T any](v T) *T { return &v }
