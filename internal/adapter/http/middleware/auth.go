package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/apierrors"
)

const identityKey = "identity"

// AuthMiddleware verifies the bearer token and stores the caller identity.
// Every failure answers 401 before any other check runs.
func AuthMiddleware(verifier ports.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLang(c)

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="tasks"`)
			abortWithError(c, apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgMissingToken, lang))
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			msgKey := apierrors.MsgUnauthorized
			if errors.Is(err, domain.ErrTokenExpired) {
				msgKey = apierrors.MsgTokenExpired
			}
			c.Header("WWW-Authenticate", `Bearer realm="tasks", error="invalid_token"`)
			abortWithError(c, apierrors.CreateError(http.StatusUnauthorized, msgKey, lang))
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return domain.Identity{}, false
	}
	identity, ok := value.(domain.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
