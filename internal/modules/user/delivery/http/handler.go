package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	userDto "anoa.com/freelancehub/internal/modules/user/dto"
	user "anoa.com/freelancehub/internal/modules/user/service"
	"anoa.com/freelancehub/pkg/apperror"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"anoa.com/freelancehub/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service     user.AuthService
	frontendURL string
}

func NewAuthHandler(service user.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		service:     service,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input userDto.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindError(c, err)
		return
	}

	var files userDto.RegisterFiles
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

	resp, err := h.service.Register(c.Request.Context(), input, files)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	result, err := h.service.Verify(c.Request.Context(), c.Param("token"))
	if result == nil {
		response.ResponseError(c, err)
		return
	}

	q := url.Values{}
	q.Set("status", result.Status)
	q.Set("email", result.Email)
	c.Redirect(http.StatusFound, h.frontendURL+"/verification-email?"+q.Encode())
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input userDto.EmailInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.ResendVerification(c.Request.Context(), input.Email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var input userDto.EmailInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.RequestPasswordReset(c.Request.Context(), input.Email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) CheckResetToken(c *gin.Context) {
	tok := c.Param("token")
	if err := h.service.CheckResetToken(c.Request.Context(), tok); err != nil {
		if errors.Is(err, apperror.ErrInvalidToken) {
			c.Redirect(http.StatusFound, h.frontendURL+"/reset-password?status=invalid_token")
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/reset-password/"+url.PathEscape(tok))
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input userDto.ResetPasswordInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input userDto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input userDto.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
