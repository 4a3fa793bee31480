package competency

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level is a proficiency scale with an explicit total order.
// The numeric values are persisted and must not be renumbered.
type Level int16

const (
	LevelUnset        Level = -1
	LevelBeginner     Level = 0
	LevelIntermediate Level = 1
	LevelAdvanced     Level = 2
	LevelExpert       Level = 3
)

var ErrInvalidLevel = errors.New("invalid competency level")

func (l Level) Valid() bool {
	return l >= LevelBeginner && l <= LevelExpert
}

// Satisfies reports whether l meets required. Unset or out of range levels
// on either side never satisfy.
func (l Level) Satisfies(required Level) bool {
	if !l.Valid() || !required.Valid() {
		return false
	}
	return l >= required
}

func (l Level) String() string {
	switch l {
	case LevelBeginner:
		return "beginner"
	case LevelIntermediate:
		return "intermediate"
	case LevelAdvanced:
		return "advanced"
	case LevelExpert:
		return "expert"
	case LevelUnset:
		return "unset"
	default:
		return "invalid"
	}
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return LevelBeginner, nil
	case "intermediate":
		return LevelIntermediate, nil
	case "advanced":
		return LevelAdvanced, nil
	case "expert":
		return LevelExpert, nil
	default:
		return LevelUnset, ErrInvalidLevel
	}
}

// LevelFromNullable maps a nullable stored value onto the scale.
func LevelFromNullable(v *int16) Level {
	if v == nil {
		return LevelUnset
	}
	return Level(*v)
}

type Competency struct {
	ID               uuid.UUID
	Name             string
	Description      string
	RecommendedLevel Level
}

// Requirement abstracts course and vacancy competency rows.
type Requirement struct {
	EntityID        uuid.UUID
	CompetencyID    uuid.UUID
	RequiredLevel   Level
	IsMandatory     *bool
	CoveragePercent *int
}

type ProfileCompetency struct {
	ProfileID         uuid.UUID
	CompetencyID      uuid.UUID
	SelfAssessedLevel Level
	YearsExperience   *int
}

type ProfileSnapshot struct {
	ProfileID uuid.UUID
	Levels    map[uuid.UUID]Level
}

type Profile struct {
	ID       uuid.UUID
	FullName string
	Bio      string
	Location string
}

type Course struct {
	ID            uuid.UUID
	Title         string
	Description   string
	DurationHours int
	CreatedAt     time.Time
}

type Vacancy struct {
	ID          uuid.UUID
	Title       string
	Description string
	Company     string
	Location    string
	PostedAt    time.Time
}

type TargetKind string

const (
	TargetCourse  TargetKind = "course"
	TargetVacancy TargetKind = "vacancy"
)

// Target identifies the entity a recommendation run is for.
type Target struct {
	Kind TargetKind
	ID   uuid.UUID
}

func CourseTarget(id uuid.UUID) Target  { return Target{Kind: TargetCourse, ID: id} }
func VacancyTarget(id uuid.UUID) Target { return Target{Kind: TargetVacancy, ID: id} }

func (t Target) Valid() bool {
	if t.ID == uuid.Nil {
		return false
	}
	return t.Kind == TargetCourse || t.Kind == TargetVacancy
}

var ErrInvalidRecommendation = errors.New("recommendation must reference exactly one of course or vacancy")

type Recommendation struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	CourseID  *uuid.UUID
	VacancyID *uuid.UUID
	CreatedAt time.Time
}

// NewRecommendation binds a profile to the target entity.
func NewRecommendation(profileID uuid.UUID, t Target, now time.Time) Recommendation {
	r := Recommendation{
		ID:        uuid.New(),
		ProfileID: profileID,
		CreatedAt: now.UTC(),
	}
	id := t.ID
	switch t.Kind {
	case TargetCourse:
		r.CourseID = &id
	case TargetVacancy:
		r.VacancyID = &id
	}
	return r
}

func (r Recommendation) Validate() error {
	if r.ProfileID == uuid.Nil {
		return ErrInvalidRecommendation
	}
	if (r.CourseID != nil && *r.CourseID == uuid.Nil) || (r.VacancyID != nil && *r.VacancyID == uuid.Nil) {
		return ErrInvalidRecommendation
	}
	if (r.CourseID != nil) == (r.VacancyID != nil) {
		return ErrInvalidRecommendation
	}
	return nil
}

func (r Recommendation) Target() Target {
	if r.CourseID != nil {
		return CourseTarget(*r.CourseID)
	}
	if r.VacancyID != nil {
		return VacancyTarget(*r.VacancyID)
	}
	return Target{}
}
