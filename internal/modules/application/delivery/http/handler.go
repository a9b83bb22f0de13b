package handler

import (
	"context"
	"net/http"

	appDto "anoa.com/freelancehub/internal/modules/application/dto"
	application "anoa.com/freelancehub/internal/modules/application/service"
	"anoa.com/freelancehub/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	service application.Service
}

func NewApplicationHandler(service application.Service) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	projectID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req appDto.SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), userID, projectID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ApplicationHandler) Accept(c *gin.Context) {
	h.decide(c, h.service.Accept)
}

func (h *ApplicationHandler) Refuse(c *gin.Context) {
	h.decide(c, h.service.Refuse)
}

func (h *ApplicationHandler) decide(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*appDto.ApplicationResponse, error)) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	applicationID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := op(c.Request.Context(), userID, applicationID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
