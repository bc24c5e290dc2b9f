package handlers

import (
	"errors"
	"net/http"

	"github.com/onegreenvn/title-studio-backend/internal/database/repository"
	"github.com/onegreenvn/title-studio-backend/internal/models"
	"github.com/onegreenvn/title-studio-backend/internal/services"
	"github.com/onegreenvn/title-studio-backend/internal/services/excel"
	"github.com/onegreenvn/title-studio-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type GenerationHandler struct {
	generationService *services.GenerationService
	excelService      *excel.Service
	logRepo           *repository.GenerationLogRepository
}

func NewGenerationHandler(generationService *services.GenerationService, excelService *excel.Service, logRepo *repository.GenerationLogRepository) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		excelService:      excelService,
		logRepo:           logRepo,
	}
}

// Generate godoc
// @Summary Generate title candidates
// @Description Run one generation attempt against the title agent and return the terminal session state
// @Tags titles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerationRequest true "Generation request"
// @Success 200 {object} models.GenerationSession
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/titles/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	session, err := h.generationService.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrGenerationInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

// Session godoc
// @Summary Get generation session
// @Description Return the user's current lifecycle state and outcome
// @Tags titles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.GenerationSession
// @Router /api/v1/titles/session [get]
func (h *GenerationHandler) Session(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	c.JSON(http.StatusOK, h.generationService.Session(userID))
}

// Reset godoc
// @Summary Reset generation session
// @Description Clear the user's session back to idle, discarding the stored outcome
// @Tags titles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.GenerationSession
// @Router /api/v1/titles/reset [post]
func (h *GenerationHandler) Reset(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	c.JSON(http.StatusOK, h.generationService.Reset(userID))
}

// Export godoc
// @Summary Export title candidates
// @Description Download the current session's title candidates as an Excel workbook
// @Tags titles
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/titles/export [get]
func (h *GenerationHandler) Export(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	session := h.generationService.Session(userID)
	if session.Outcome == nil || session.Outcome.Kind != models.OutcomeTitles || len(session.Outcome.Titles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No title candidates available to export"})
		return
	}

	result, err := h.excelService.ExportTitleSet(session.RequestID, session.Outcome.Titles)
	if err != nil {
		logrus.Errorf("Failed to export titles for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export titles", "details": err.Error()})
		return
	}

	c.FileAttachment(result.Path, result.Filename)
}

// History godoc
// @Summary List generation attempts
// @Description Return the user's past generation attempts (metadata only), newest first
// @Tags titles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/titles/history [get]
func (h *GenerationHandler) History(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))
	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)

	logs, total, err := h.logRepo.GetByUserID(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       logs,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}
