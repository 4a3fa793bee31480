package handler

import (
	"strconv"

	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationListHandler struct {
	uc usecase.RecommendationListUsecase
}

func NewRecommendationListHandler(uc usecase.RecommendationListUsecase) *RecommendationListHandler {
	return &RecommendationListHandler{uc: uc}
}

func (h *RecommendationListHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/recommendations")
	grp.Get("/courses/:profile_id", h.ListCourses)
	grp.Get("/vacancies/:profile_id", h.ListVacancies)
}

func (h *RecommendationListHandler) ListCourses(c fiber.Ctx) error {
	profileID, err := uuidParam(c, "profile_id")
	if err != nil {
		return err
	}
	params := listParams(c)

	items, err := h.uc.CoursesForProfile(c.Context(), profileID, params)
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}

	out := make([]dto.CourseRecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CourseRecommendationResponse{
			RecommendationID: it.RecommendationID,
			CourseID:         it.CourseID,
			Title:            it.Title,
			Description:      it.Description,
			RecommendedAt:    it.RecommendedAt,
		})
	}
	return response.List(c, out, response.Meta{Limit: params.Limit, Offset: params.Offset, Count: len(out)})
}

func (h *RecommendationListHandler) ListVacancies(c fiber.Ctx) error {
	profileID, err := uuidParam(c, "profile_id")
	if err != nil {
		return err
	}
	params := listParams(c)

	items, err := h.uc.VacanciesForProfile(c.Context(), profileID, params)
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}

	out := make([]dto.VacancyRecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.VacancyRecommendationResponse{
			RecommendationID: it.RecommendationID,
			VacancyID:        it.VacancyID,
			Title:            it.Title,
			Description:      it.Description,
			Company:          it.Company,
			Location:         it.Location,
			RecommendedAt:    it.RecommendedAt,
		})
	}
	return response.List(c, out, response.Meta{Limit: params.Limit, Offset: params.Offset, Count: len(out)})
}

func listParams(c fiber.Ctx) usecase.RecommendationListParams {
	limit := parseQueryInt(c, "limit", 20)
	offset := parseQueryInt(c, "offset", 0)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return usecase.RecommendationListParams{Limit: limit, Offset: offset}
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
