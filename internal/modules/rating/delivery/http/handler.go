package handler

import (
	"net/http"

	ratingDto "anoa.com/freelancehub/internal/modules/rating/dto"
	rating "anoa.com/freelancehub/internal/modules/rating/service"
	"anoa.com/freelancehub/pkg/response"
	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	service rating.Service
}

func NewRatingHandler(service rating.Service) *RatingHandler {
	return &RatingHandler{service: service}
}

func (h *RatingHandler) Rate(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	freelancerID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input ratingDto.RateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	resp, created, err := h.service.RateFreelancer(c.Request.Context(), userID, freelancerID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *RatingHandler) Get(c *gin.Context) {
	freelancerID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetRating(c.Request.Context(), freelancerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
