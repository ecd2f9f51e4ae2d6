package handler

import (
	"net/http"

	apperrors "github.com/meetcast/matching-server-go/internal/errors"
	"github.com/meetcast/matching-server-go/internal/httputil"
	"github.com/meetcast/matching-server-go/internal/middleware"
	"github.com/meetcast/matching-server-go/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

// requireRole resolves the request identity and enforces the expected role.
// It writes the error response itself; callers bail out on nil.
func requireRole(w http.ResponseWriter, r *http.Request, role model.Role) *middleware.Identity {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return nil
	}
	if identity.Role != role {
		writeError(w, apperrors.Forbidden("Insufficient role for this operation"))
		return nil
	}
	return identity
}
