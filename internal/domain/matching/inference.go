package matching

import (
	"strings"

	"skill-bridge/internal/domain/competency"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const DefaultSimilarityThreshold = 0.6

type Options struct {
	SimilarityThreshold float64  `validate:"gte=0,lte=1"`
	StopWords           []string `validate:"dive,required"`
}

func DefaultOptions() Options {
	sw := make([]string, len(DefaultStopWords))
	copy(sw, DefaultStopWords)
	return Options{SimilarityThreshold: DefaultSimilarityThreshold, StopWords: sw}
}

var validate = validator.New()

func (o Options) Validate() error {
	return validate.Struct(o)
}

// Inferencer derives a requirement set from free text when an entity declares none.
type Inferencer struct {
	extractor *Extractor
	threshold float64
}

func NewInferencer(opts Options) (*Inferencer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Inferencer{
		extractor: NewExtractor(opts.StopWords),
		threshold: opts.SimilarityThreshold,
	}, nil
}

func (i *Inferencer) Threshold() float64 {
	return i.threshold
}

// Infer matches the keywords of text against the catalog. A competency is
// matched when any keyword is similar enough to its name or either one
// contains the other. Matched competencies are required at their own
// recommended level. The result follows catalog order.
func (i *Inferencer) Infer(text string, catalog []competency.Competency) []Requirement {
	keywords := i.extractor.Extract(text)
	if len(keywords) == 0 || len(catalog) == 0 {
		return nil
	}

	out := make([]Requirement, 0)
	seen := make(map[uuid.UUID]struct{}, len(catalog))
	for _, c := range catalog {
		name := Normalize(strings.TrimSpace(c.Name))
		if name == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		if !i.matchesAny(keywords, name) {
			continue
		}
		seen[c.ID] = struct{}{}

		lvl := c.RecommendedLevel
		if !lvl.Valid() {
			lvl = competency.LevelBeginner
		}
		out = append(out, Requirement{CompetencyID: c.ID, RequiredLevel: lvl})
	}
	return out
}

func (i *Inferencer) matchesAny(keywords []string, name string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) || strings.Contains(k, name) {
			return true
		}
		if Similarity(k, name) >= i.threshold {
			return true
		}
	}
	return false
}
