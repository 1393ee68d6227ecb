package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fedguard/appealbot/internal/config"
	"github.com/fedguard/appealbot/internal/models"
	"github.com/fedguard/appealbot/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PageSize matches the /pending command so the API and the bot paginate the
// same way.
const PageSize = 5

type Service struct {
	config  *config.Config
	storage *storage.Storage
}

func NewService(cfg *config.Config, storage *storage.Storage) *Service {
	return &Service{
		config:  cfg,
		storage: storage,
	}
}

func (s *Service) Register(e *echo.Echo) {
	e.GET("/healthz", s.HandleHealth())
	e.GET("/api/stats", s.HandleStats())
	e.GET("/api/appeals", s.HandleListAppeals())
}

func (s *Service) HandleHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
}

func (s *Service) HandleStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		stats := make(map[string]int64, 3)
		for _, status := range []models.AppealStatus{
			models.AppealStatusPending,
			models.AppealStatusApproved,
			models.AppealStatusRejected,
		} {
			total, err := s.storage.CountByStatus(ctx, status)
			if err != nil {
				logrus.Errorf("failed to count %s appeals: %v", status, err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count appeals"})
			}
			stats[status.String()] = total
		}

		return c.JSON(http.StatusOK, stats)
	}
}

type appealResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	AppealType  string `json:"appeal_type"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

type appealListResponse struct {
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Appeals []appealResponse `json:"appeals"`
}

func (s *Service) HandleListAppeals() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		status := models.AppealStatusPending
		if raw := c.QueryParam("status"); raw != "" {
			parsed, err := models.ParseAppealStatus(raw)
			if err != nil {
				if errors.Is(err, models.ErrUnknownAppealStatus) {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse status"})
			}
			status = parsed
		}

		page := 0
		if raw := c.QueryParam("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "page must be a non-negative integer"})
			}
			page = parsed
		}

		total, err := s.storage.CountByStatus(ctx, status)
		if err != nil {
			logrus.Errorf("failed to count appeals: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count appeals"})
		}

		appeals, err := s.storage.ListByStatus(ctx, status, PageSize, page*PageSize)
		if err != nil {
			logrus.Errorf("failed to list appeals: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list appeals"})
		}

		resp := appealListResponse{
			Total:   total,
			Page:    page,
			Appeals: make([]appealResponse, 0, len(appeals)),
		}
		for _, appeal := range appeals {
			resp.Appeals = append(resp.Appeals, appealResponse{
				ID:          appeal.ID,
				UserID:      appeal.UserID,
				Username:    appeal.Username,
				AppealType:  appeal.AppealType.String(),
				Status:      appeal.Status.String(),
				SubmittedAt: appeal.SubmittedISO(),
			})
		}

		return c.JSON(http.StatusOK, resp)
	}
}
