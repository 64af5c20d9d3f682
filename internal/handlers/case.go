package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lexgen/lexgen-backend/internal/apierr"
	"github.com/lexgen/lexgen-backend/internal/services"
)

type CaseHandler struct {
	caseGenService services.CaseGenerationService
	caseService    services.CaseService
}

func NewCaseHandler(caseGenService services.CaseGenerationService, caseService services.CaseService) *CaseHandler {
	return &CaseHandler{caseGenService: caseGenService, caseService: caseService}
}

type intakeRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	CaseType          string `json:"case_type"`
	AdditionalDetails string `json:"additional_details"`
}

func (r intakeRequest) toIntake() services.CaseIntake {
	return services.CaseIntake{
		Title:             r.Title,
		Description:       r.Description,
		CaseType:          r.CaseType,
		AdditionalDetails: r.AdditionalDetails,
	}
}

// Screen is the live content-filter status the intake form polls on every
// field edit.
func (h *CaseHandler) Screen(c *gin.Context) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErr(c, apierr.BadRequest(err))
		return
	}
	passed := h.caseGenService.ScreenIntake(req.toIntake())
	RespondOK(c, gin.H{"passed": passed})
}

func (h *CaseHandler) Generate(c *gin.Context) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErr(c, apierr.BadRequest(err))
		return
	}
	created, err := h.caseGenService.GenerateSimple(c.Request.Context(), req.toIntake())
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"case": created})
}

func (h *CaseHandler) StartSession(c *gin.Context) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErr(c, apierr.BadRequest(err))
		return
	}
	result, err := h.caseGenService.StartSession(c.Request.Context(), req.toIntake())
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *CaseHandler) PostMessage(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.BadRequest(errors.New("invalid session id")))
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErr(c, apierr.BadRequest(err))
		return
	}
	result, err := h.caseGenService.ContinueSession(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *CaseHandler) List(c *gin.Context) {
	cases, err := h.caseService.List(c.Request.Context())
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"cases": cases})
}

func (h *CaseHandler) Get(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.BadRequest(errors.New("invalid case id")))
		return
	}
	legalCase, err := h.caseService.Get(c.Request.Context(), caseID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"case": legalCase})
}

func (h *CaseHandler) SaveContent(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.BadRequest(errors.New("invalid case id")))
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErr(c, apierr.BadRequest(err))
		return
	}
	legalCase, err := h.caseService.SaveContent(c.Request.Context(), caseID, req.Content)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"case": legalCase})
}
