package handler

import (
	"net/http"

	profileDto "anoa.com/freelancehub/internal/modules/profile/dto"
	profile "anoa.com/freelancehub/internal/modules/profile/service"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"anoa.com/freelancehub/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.profileService.GetCurrentProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input profileDto.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindError(c, err)
		return
	}

	var files profileDto.ProfileFiles
	for field, dst := range map[string]**commonDto.UploadedFile{"photo": &files.Photo, "resume": &files.Resume} {
		fileHeader, err := c.FormFile(field)
		if err != nil || fileHeader == nil {
			continue
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read " + field, "status": "validation_error"})
			return
		}
		defer file.Close()

		*dst = &commonDto.UploadedFile{Reader: file, FileName: fileHeader.Filename}
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input, files)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetFreelancer(c *gin.Context) {
	freelancerID, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.profileService.GetFreelancer(c.Request.Context(), freelancerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
