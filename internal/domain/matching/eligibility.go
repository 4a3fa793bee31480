package matching

import (
	"skill-bridge/internal/domain/competency"

	"github.com/google/uuid"
)

type Requirement struct {
	CompetencyID  uuid.UUID
	RequiredLevel competency.Level
}

// Policy selects how a requirement set is matched against a profile.
type Policy int

const (
	// PolicyAllOf requires every requirement to be met. Used for declared requirements.
	PolicyAllOf Policy = iota
	// PolicyAnyOf requires at least one requirement to be met. Used for inferred requirements.
	PolicyAnyOf
)

func (p Policy) String() string {
	switch p {
	case PolicyAllOf:
		return "all_of"
	case PolicyAnyOf:
		return "any_of"
	default:
		return "unknown"
	}
}

func (p Policy) Eligible(reqs []Requirement, levels map[uuid.UUID]competency.Level) bool {
	switch p {
	case PolicyAllOf:
		return EligibleAllOf(reqs, levels)
	case PolicyAnyOf:
		return EligibleAnyOf(reqs, levels)
	default:
		return false
	}
}

// EligibleAllOf reports whether levels satisfies every requirement. The number
// of distinct satisfied competencies must equal the number of distinct
// required competencies; an empty requirement set is not eligible.
func EligibleAllOf(reqs []Requirement, levels map[uuid.UUID]competency.Level) bool {
	required := collapse(reqs)
	if len(required) == 0 {
		return false
	}

	satisfied := 0
	for cid, lvl := range required {
		have, ok := levels[cid]
		if !ok {
			continue
		}
		if have.Satisfies(lvl) {
			satisfied++
		}
	}
	return satisfied == len(required)
}

// EligibleAnyOf reports whether levels satisfies at least one requirement.
func EligibleAnyOf(reqs []Requirement, levels map[uuid.UUID]competency.Level) bool {
	for cid, lvl := range collapse(reqs) {
		have, ok := levels[cid]
		if !ok {
			continue
		}
		if have.Satisfies(lvl) {
			return true
		}
	}
	return false
}

// collapse dedupes requirements by competency id, keeping the strictest level.
func collapse(reqs []Requirement) map[uuid.UUID]competency.Level {
	out := make(map[uuid.UUID]competency.Level, len(reqs))
	for _, r := range reqs {
		if r.CompetencyID == uuid.Nil {
			continue
		}
		cur, ok := out[r.CompetencyID]
		if !ok || r.RequiredLevel > cur {
			out[r.CompetencyID] = r.RequiredLevel
		}
	}
	return out
}

// FromDeclared maps stored requirement rows to engine requirements.
func FromDeclared(rows []competency.Requirement) []Requirement {
	out := make([]Requirement, 0, len(rows))
	for _, r := range rows {
		out = append(out, Requirement{CompetencyID: r.CompetencyID, RequiredLevel: r.RequiredLevel})
	}
	return out
}
