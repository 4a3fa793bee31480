package handler

import (
	"errors"

	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc usecase.RecommendationTriggerUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationTriggerUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	courses := r.Group("/courses")
	courses.Post("/:course_id/recommendations", h.RecommendCourse)
	courses.Get("/:course_id/matches", h.MatchCourse)

	vacancies := r.Group("/vacancies")
	vacancies.Post("/:vacancy_id/recommendations", h.RecommendVacancy)
	vacancies.Get("/:vacancy_id/matches", h.MatchVacancy)
}

func (h *RecommendationHandler) RecommendCourse(c fiber.Ctx) error {
	id, err := uuidParam(c, "course_id")
	if err != nil {
		return err
	}
	run, err := h.uc.RecommendCourseByID(c.Context(), id)
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, toRunResponse(run))
}

func (h *RecommendationHandler) RecommendVacancy(c fiber.Ctx) error {
	id, err := uuidParam(c, "vacancy_id")
	if err != nil {
		return err
	}
	run, err := h.uc.RecommendVacancyByID(c.Context(), id)
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, toRunResponse(run))
}

func (h *RecommendationHandler) MatchCourse(c fiber.Ctx) error {
	id, err := uuidParam(c, "course_id")
	if err != nil {
		return err
	}
	ids, err := h.uc.MatchCourse(c.Context(), id)
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchPreviewResponse{
		EntityKind: "course",
		EntityID:   id,
		ProfileIDs: ids,
	})
}

func (h *RecommendationHandler) MatchVacancy(c fiber.Ctx) error {
	id, err := uuidParam(c, "vacancy_id")
	if err != nil {
		return err
	}
	ids, err := h.uc.MatchVacancy(c.Context(), id)
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchPreviewResponse{
		EntityKind: "vacancy",
		EntityID:   id,
		ProfileIDs: ids,
	})
}

func toRunResponse(run usecase.RecommendationRun) dto.RecommendationRunResponse {
	reqs := make([]dto.RequirementResponse, 0, len(run.Requirements))
	for _, r := range run.Requirements {
		reqs = append(reqs, dto.RequirementResponse{CompetencyID: r.CompetencyID, RequiredLevel: r.RequiredLevel.String()})
	}
	recs := make([]dto.RecommendationRecordResponse, 0, len(run.Recommendations))
	for _, r := range run.Recommendations {
		recs = append(recs, dto.RecommendationRecordResponse{
			ID:        r.ID,
			ProfileID: r.ProfileID,
			CourseID:  r.CourseID,
			VacancyID: r.VacancyID,
			CreatedAt: r.CreatedAt,
		})
	}
	return dto.RecommendationRunResponse{
		EntityKind:      string(run.Target.Kind),
		EntityID:        run.Target.ID,
		Path:            string(run.Path),
		Policy:          run.Policy.String(),
		Requirements:    reqs,
		QualifiedCount:  len(run.Qualified),
		SkippedCount:    run.Skipped,
		Recommendations: recs,
	}
}

func uuidParam(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return id, nil
}

func mapRecommendationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid input", nil, err)
	case errors.Is(err, usecase.ErrEntityNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Entity not found", nil, err)
	case errors.Is(err, usecase.ErrRecommendationInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Recommendation already in progress", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
