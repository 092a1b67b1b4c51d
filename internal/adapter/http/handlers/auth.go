package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/dto"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/mapper"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/middleware"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Me returns the caller as seen by AuthMiddleware. Nothing is read from storage.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apiErr := toAPIError(domain.ErrMissingToken, middleware.GetLang(c))
		c.JSON(apiErr.HTTPStatus, apiErr)
		return
	}

	c.JSON(http.StatusOK, dto.Success(mapper.ToCurrentUser(identity)))
}
