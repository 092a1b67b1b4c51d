package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/apierrors"
)

const OwnerIDParam = "owner_id"

// OwnershipMiddleware rejects requests whose path owner is not the verified
// subject. It must run after AuthMiddleware.
func OwnershipMiddleware(authorizer ports.OwnershipAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLang(c)

		identity, ok := GetIdentity(c)
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="tasks"`)
			abortWithError(c, apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgMissingToken, lang))
			return
		}

		if err := authorizer.Authorize(c.Param(OwnerIDParam), identity.Subject); err != nil {
			abortWithError(c, apierrors.CreateError(http.StatusForbidden, apierrors.MsgForbidden, lang))
			return
		}

		c.Next()
	}
}
