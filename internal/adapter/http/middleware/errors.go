package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/apierrors"
)

func abortWithError(c *gin.Context, err apierrors.JsonErr) {
	c.AbortWithStatusJSON(err.HTTPStatus, err)
}
