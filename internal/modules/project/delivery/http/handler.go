package handler

import (
	"context"
	"net/http"

	projectDto "anoa.com/freelancehub/internal/modules/project/dto"
	project "anoa.com/freelancehub/internal/modules/project/service"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"anoa.com/freelancehub/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	service project.Service
}

func NewProjectHandler(service project.Service) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req projectDto.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ProjectHandler) ListOpenProjects(c *gin.Context) {
	var q commonDto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.ListOpen(c.Request.Context(), q)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), projectID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	projectID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req projectDto.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), userID, projectID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	h.remove(c, h.service.Delete, "project deleted successfully")
}

func (h *ProjectHandler) CancelProject(c *gin.Context) {
	h.remove(c, h.service.Cancel, "project cancelled successfully")
}

func (h *ProjectHandler) ForceDeleteProject(c *gin.Context) {
	h.remove(c, h.service.ForceDelete, "project and its applications deleted successfully")
}

func (h *ProjectHandler) remove(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) error, detail string) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	projectID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := op(c.Request.Context(), userID, projectID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.MessageResponse{Detail: detail})
}

func (h *ProjectHandler) GetUserProjects(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	targetID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListForUser(c.Request.Context(), userID, targetID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *ProjectHandler) GetClientProjects(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.ClientProjects(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *ProjectHandler) GetAcceptedFreelancer(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	projectID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.AcceptedFreelancer(c.Request.Context(), userID, projectID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
