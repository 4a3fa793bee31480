package handler

import (
	"errors"

	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/domain/competency"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

type createCompetencyRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	RecommendedLevel string `json:"recommended_level"`
}

type requirementRequest struct {
	CompetencyID    uuid.UUID `json:"competency_id"`
	RequiredLevel   string    `json:"required_level"`
	CoveragePercent *int      `json:"coverage_percent"`
	IsMandatory     *bool     `json:"is_mandatory"`
}

type createCourseRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	DurationHours int                  `json:"duration_hours"`
	Competencies  []requirementRequest `json:"competencies"`
}

type createVacancyRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Company      string               `json:"company"`
	Location     string               `json:"location"`
	Competencies []requirementRequest `json:"competencies"`
}

type createProfileRequest struct {
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
}

type profileCompetencyRequest struct {
	CompetencyID      uuid.UUID `json:"competency_id"`
	SelfAssessedLevel string    `json:"self_assessed_level"`
	YearsExperience   *int      `json:"years_experience"`
}

func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	competencies := r.Group("/competencies")
	competencies.Get("/", h.ListCompetencies)
	competencies.Post("/", h.CreateCompetency)
	competencies.Get("/:competency_id", h.GetCompetency)
	competencies.Delete("/:competency_id", h.DeleteCompetency)

	r.Post("/courses", h.CreateCourse)
	r.Post("/vacancies", h.CreateVacancy)

	profiles := r.Group("/profiles")
	profiles.Post("/", h.CreateProfile)
	profiles.Post("/:profile_id/competencies", h.SetProfileCompetency)
}

func (h *CatalogHandler) CreateCompetency(c fiber.Ctx) error {
	var req createCompetencyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	created, err := h.uc.CreateCompetency(c.Context(), usecase.CompetencyInput{
		Name:             req.Name,
		Description:      req.Description,
		RecommendedLevel: req.RecommendedLevel,
	})
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, toCompetencyResponse(created))
}

func (h *CatalogHandler) ListCompetencies(c fiber.Ctx) error {
	items, err := h.uc.ListCompetencies(c.Context())
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	res := make([]dto.CompetencyResponse, 0, len(items))
	for _, it := range items {
		res = append(res, toCompetencyResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CatalogHandler) GetCompetency(c fiber.Ctx) error {
	id, err := uuidParam(c, "competency_id")
	if err != nil {
		return err
	}
	item, err := h.uc.GetCompetency(c.Context(), id)
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toCompetencyResponse(item))
}

func (h *CatalogHandler) DeleteCompetency(c fiber.Ctx) error {
	id, err := uuidParam(c, "competency_id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteCompetency(c.Context(), id); err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *CatalogHandler) CreateCourse(c fiber.Ctx) error {
	var req createCourseRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	created, err := h.uc.CreateCourse(c.Context(), usecase.CourseInput{
		Title:         req.Title,
		Description:   req.Description,
		DurationHours: req.DurationHours,
		Competencies:  toRequirementInputs(req.Competencies),
	})
	if err != nil {
		return mapCatalogUsecaseError(err)
	}

	res := dto.CourseCreatedResponse{
		ID:            created.Course.ID,
		Title:         created.Course.Title,
		Description:   created.Course.Description,
		DurationHours: created.Course.DurationHours,
		CreatedAt:     created.Course.CreatedAt,
		Competencies:  toDeclaredResponses(created.Requirements),
	}
	res.Recommendation, res.RecommendationError = runOutcome(created.Run, created.RunErr)
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, res)
}

func (h *CatalogHandler) CreateVacancy(c fiber.Ctx) error {
	var req createVacancyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	created, err := h.uc.CreateVacancy(c.Context(), usecase.VacancyInput{
		Title:        req.Title,
		Description:  req.Description,
		Company:      req.Company,
		Location:     req.Location,
		Competencies: toRequirementInputs(req.Competencies),
	})
	if err != nil {
		return mapCatalogUsecaseError(err)
	}

	res := dto.VacancyCreatedResponse{
		ID:           created.Vacancy.ID,
		Title:        created.Vacancy.Title,
		Description:  created.Vacancy.Description,
		Company:      created.Vacancy.Company,
		Location:     created.Vacancy.Location,
		PostedAt:     created.Vacancy.PostedAt,
		Competencies: toDeclaredResponses(created.Requirements),
	}
	res.Recommendation, res.RecommendationError = runOutcome(created.Run, created.RunErr)
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, res)
}

func (h *CatalogHandler) CreateProfile(c fiber.Ctx) error {
	var req createProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	p, err := h.uc.CreateProfile(c.Context(), usecase.ProfileInput{
		FullName: req.FullName,
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.ProfileResponse{
		ID:       p.ID,
		FullName: p.FullName,
		Bio:      p.Bio,
		Location: p.Location,
	})
}

func (h *CatalogHandler) SetProfileCompetency(c fiber.Ctx) error {
	profileID, err := uuidParam(c, "profile_id")
	if err != nil {
		return err
	}
	var req profileCompetencyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	pc, err := h.uc.SetProfileCompetency(c.Context(), profileID, usecase.ProfileCompetencyInput{
		CompetencyID:    req.CompetencyID,
		Level:           req.SelfAssessedLevel,
		YearsExperience: req.YearsExperience,
	})
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.ProfileCompetencyResponse{
		ProfileID:         pc.ProfileID,
		CompetencyID:      pc.CompetencyID,
		SelfAssessedLevel: pc.SelfAssessedLevel.String(),
		YearsExperience:   pc.YearsExperience,
	})
}

func toCompetencyResponse(c competency.Competency) dto.CompetencyResponse {
	return dto.CompetencyResponse{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		RecommendedLevel: c.RecommendedLevel.String(),
	}
}

func toRequirementInputs(reqs []requirementRequest) []usecase.RequirementInput {
	out := make([]usecase.RequirementInput, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, usecase.RequirementInput{
			CompetencyID:    r.CompetencyID,
			Level:           r.RequiredLevel,
			CoveragePercent: r.CoveragePercent,
			IsMandatory:     r.IsMandatory,
		})
	}
	return out
}

func toDeclaredResponses(reqs []competency.Requirement) []dto.DeclaredRequirementResponse {
	out := make([]dto.DeclaredRequirementResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.DeclaredRequirementResponse{
			CompetencyID:    r.CompetencyID,
			RequiredLevel:   r.RequiredLevel.String(),
			CoveragePercent: r.CoveragePercent,
			IsMandatory:     r.IsMandatory,
		})
	}
	return out
}

func runOutcome(run *usecase.RecommendationRun, runErr error) (*dto.RecommendationRunResponse, string) {
	if run != nil {
		res := toRunResponse(*run)
		return &res, ""
	}
	if errors.Is(runErr, usecase.ErrRecommendationInProgress) {
		return nil, "recommendation already in progress"
	}
	if runErr != nil {
		return nil, "recommendation failed"
	}
	return nil, ""
}

func mapCatalogUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "Already exists", nil, err)
	default:
		return mapRecommendationUsecaseError(err)
	}
}
