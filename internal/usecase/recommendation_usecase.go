package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skill-bridge/internal/domain/competency"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mode controls how a run treats recommendations persisted by earlier runs.
type Mode int

const (
	// ModeAppend persists every qualifying pair, duplicating earlier runs.
	ModeAppend Mode = iota
	// ModeSkipExisting skips profiles already recommended for the entity.
	ModeSkipExisting
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append":
		return ModeAppend, nil
	case "skip_existing":
		return ModeSkipExisting, nil
	default:
		return ModeAppend, fmt.Errorf("%w: unknown recommendation mode %q", ErrInvalidInput, s)
	}
}

type MatchPath string

const (
	PathDeclared MatchPath = "declared"
	PathInferred MatchPath = "inferred"
)

type RecommendationNotifier interface {
	NotifyRecommendations(target competency.Target, profileIDs []uuid.UUID)
}

// RecommendationRun describes the outcome of one run.
type RecommendationRun struct {
	Target          competency.Target
	Path            MatchPath
	Policy          matching.Policy
	Requirements    []matching.Requirement
	Qualified       []uuid.UUID
	Skipped         int
	Recommendations []competency.Recommendation
}

type RecommendationUsecase interface {
	RecommendForCourse(ctx context.Context, course competency.Course) (RecommendationRun, error)
	RecommendForVacancy(ctx context.Context, vacancy competency.Vacancy) (RecommendationRun, error)
	MatchCourse(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	MatchVacancy(ctx context.Context, vacancyID uuid.UUID) ([]uuid.UUID, error)
}

type Recommender struct {
	repo       repository.RecommendationRepository
	inferencer *matching.Inferencer
	locker     EntityLocker
	notifier   RecommendationNotifier
	log        *zap.Logger
	mode       Mode
	now        func() time.Time
}

type RecommenderOption func(*Recommender)

func WithLocker(l EntityLocker) RecommenderOption {
	return func(r *Recommender) { r.locker = l }
}

func WithNotifier(n RecommendationNotifier) RecommenderOption {
	return func(r *Recommender) { r.notifier = n }
}

func WithLogger(l *zap.Logger) RecommenderOption {
	return func(r *Recommender) {
		if l != nil {
			r.log = l
		}
	}
}

func WithMode(m Mode) RecommenderOption {
	return func(r *Recommender) { r.mode = m }
}

func WithClock(now func() time.Time) RecommenderOption {
	return func(r *Recommender) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRecommender(repo repository.RecommendationRepository, inferencer *matching.Inferencer, opts ...RecommenderOption) *Recommender {
	r := &Recommender{
		repo:       repo,
		inferencer: inferencer,
		log:        zap.NewNop(),
		mode:       ModeAppend,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecommendForCourse infers from the course title only when no requirements
// are declared.
func (u *Recommender) RecommendForCourse(ctx context.Context, course competency.Course) (RecommendationRun, error) {
	if course.ID == uuid.Nil {
		return RecommendationRun{}, ErrInvalidInput
	}
	return u.recommend(ctx, competency.CourseTarget(course.ID), course.Title)
}

// RecommendForVacancy infers from title and description when no requirements
// are declared.
func (u *Recommender) RecommendForVacancy(ctx context.Context, vacancy competency.Vacancy) (RecommendationRun, error) {
	if vacancy.ID == uuid.Nil {
		return RecommendationRun{}, ErrInvalidInput
	}
	text := strings.TrimSpace(vacancy.Title + " " + vacancy.Description)
	return u.recommend(ctx, competency.VacancyTarget(vacancy.ID), text)
}

// MatchCourse lists profiles meeting every declared course requirement
// without persisting anything.
func (u *Recommender) MatchCourse(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	if courseID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return u.matchDeclared(ctx, competency.CourseTarget(courseID))
}

func (u *Recommender) MatchVacancy(ctx context.Context, vacancyID uuid.UUID) ([]uuid.UUID, error) {
	if vacancyID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return u.matchDeclared(ctx, competency.VacancyTarget(vacancyID))
}

func (u *Recommender) recommend(ctx context.Context, t competency.Target, text string) (RecommendationRun, error) {
	start := u.now()
	log := u.log.With(zap.String("entity_kind", string(t.Kind)), zap.Stringer("entity_id", t.ID))

	if u.locker != nil {
		release, ok, err := u.locker.Acquire(ctx, lockKey(t))
		if err != nil {
			log.Error("recommendation lock failed", zap.Error(err))
			return RecommendationRun{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		if !ok {
			return RecommendationRun{}, ErrRecommendationInProgress
		}
		defer release()
	}

	snap, err := u.snapshot(ctx, t, true)
	if err != nil {
		log.Error("recommendation snapshot failed", zap.Error(err))
		return RecommendationRun{}, err
	}

	run := RecommendationRun{Target: t, Path: PathDeclared, Policy: matching.PolicyAllOf, Requirements: snap.declared}
	if len(snap.declared) == 0 {
		run.Path = PathInferred
		run.Policy = matching.PolicyAnyOf
		run.Requirements = u.inferencer.Infer(text, snap.catalog)
	}
	run.Qualified = qualify(run.Policy, run.Requirements, snap.profiles)

	candidates := run.Qualified
	if u.mode == ModeSkipExisting && len(candidates) > 0 {
		existing, err := u.repo.RecommendedProfileIDs(ctx, t)
		if err != nil {
			log.Error("recommendation lookup failed", zap.Error(err))
			return RecommendationRun{}, fmt.Errorf("%w: existing recommendations: %w", ErrRepositoryFailure, err)
		}
		candidates = without(candidates, existing)
		run.Skipped = len(run.Qualified) - len(candidates)
	}

	now := u.now()
	recs := make([]competency.Recommendation, 0, len(candidates))
	for _, pid := range candidates {
		recs = append(recs, competency.NewRecommendation(pid, t, now))
	}

	if len(recs) > 0 {
		if err := u.repo.PersistRecommendations(ctx, recs); err != nil {
			log.Error("recommendation persist failed", zap.Int("records", len(recs)), zap.Error(err))
			return RecommendationRun{}, fmt.Errorf("%w: persist: %w", ErrRepositoryFailure, err)
		}
	}
	run.Recommendations = recs

	if u.notifier != nil && len(recs) > 0 {
		ids := make([]uuid.UUID, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.ProfileID)
		}
		u.notifier.NotifyRecommendations(t, ids)
	}

	log.Info("recommendation run finished",
		zap.String("path", string(run.Path)),
		zap.Stringer("policy", run.Policy),
		zap.Int("requirements", len(run.Requirements)),
		zap.Int("profiles", len(snap.profiles)),
		zap.Int("qualified", len(run.Qualified)),
		zap.Int("skipped", run.Skipped),
		zap.Int("persisted", len(recs)),
		zap.Duration("duration", u.now().Sub(start)),
	)
	return run, nil
}

func (u *Recommender) matchDeclared(ctx context.Context, t competency.Target) ([]uuid.UUID, error) {
	snap, err := u.snapshot(ctx, t, false)
	if err != nil {
		return nil, err
	}
	if len(snap.declared) == 0 {
		return []uuid.UUID{}, nil
	}
	return qualify(matching.PolicyAllOf, snap.declared, snap.profiles), nil
}

type runSnapshot struct {
	declared []matching.Requirement
	catalog  []competency.Competency
	profiles []competency.ProfileSnapshot
}

// snapshot materializes everything a run needs before any matching happens.
func (u *Recommender) snapshot(ctx context.Context, t competency.Target, withCatalog bool) (runSnapshot, error) {
	rows, err := u.repo.RequirementsFor(ctx, t)
	if err != nil {
		return runSnapshot{}, fmt.Errorf("%w: requirements: %w", ErrRepositoryFailure, err)
	}
	snap := runSnapshot{declared: matching.FromDeclared(rows)}
	if len(snap.declared) == 0 && !withCatalog {
		return snap, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(snap.declared) == 0 {
		g.Go(func() error {
			c, err := u.repo.CompetencyCatalog(gctx)
			if err != nil {
				return fmt.Errorf("catalog: %w", err)
			}
			snap.catalog = c
			return nil
		})
	}
	g.Go(func() error {
		p, err := u.repo.ProfilesWithCompetencies(gctx)
		if err != nil {
			return fmt.Errorf("profiles: %w", err)
		}
		snap.profiles = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return runSnapshot{}, fmt.Errorf("%w: %w", ErrRepositoryFailure, err)
	}
	return snap, nil
}

func qualify(policy matching.Policy, reqs []matching.Requirement, profiles []competency.ProfileSnapshot) []uuid.UUID {
	out := make([]uuid.UUID, 0)
	if len(reqs) == 0 {
		return out
	}
	seen := make(map[uuid.UUID]struct{}, len(profiles))
	for _, p := range profiles {
		if p.ProfileID == uuid.Nil {
			continue
		}
		if _, ok := seen[p.ProfileID]; ok {
			continue
		}
		if policy.Eligible(reqs, p.Levels) {
			seen[p.ProfileID] = struct{}{}
			out = append(out, p.ProfileID)
		}
	}
	return out
}

func without(ids []uuid.UUID, exclude []uuid.UUID) []uuid.UUID {
	if len(exclude) == 0 {
		return ids
	}
	skip := make(map[uuid.UUID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := skip[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

func lockKey(t competency.Target) string {
	return string(t.Kind) + ":" + t.ID.String()
}
