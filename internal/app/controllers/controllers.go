// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes a
// 400 response and returns false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter").
			WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// requirePrincipal fetches the authenticated principal set by the auth
// middleware. On failure it writes a 401 response and returns false.
func requirePrincipal(ctx *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return auth.Principal{}, false
	}
	return p, true
}
