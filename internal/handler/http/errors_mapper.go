package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/service"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/internal/utils"
)

// apiError is the HTTP rendition of a domain error.
type apiError struct {
	status  int
	code    string
	message string
}

var errInternal = apiError{http.StatusInternalServerError, app.CodeInternal, app.MsgInternalServerError}

var errorStatusMap = map[error]apiError{
	service.ErrInvalidDataProvided: {http.StatusBadRequest, app.CodeBadRequest, app.MsgInvalidDataProvided},
	ErrInvalidQueryParam:           {http.StatusBadRequest, app.CodeBadRequest, app.MsgInvalidDataProvided},

	service.ErrInvalidCredentials: {http.StatusUnauthorized, app.CodeInvalidCredentials, app.MsgInvalidCredentials},
	ErrEmptyAuthorizationHeader:   {http.StatusUnauthorized, app.CodeUnauthenticated, app.MsgAuthenticationRequired},
	ErrNoIdentity:                 {http.StatusUnauthorized, app.CodeUnauthenticated, app.MsgAuthenticationRequired},
	service.ErrAccountGone:        {http.StatusUnauthorized, app.CodeUnauthenticated, app.MsgAuthenticationRequired},

	utils.ErrTokenExpired:               {http.StatusUnauthorized, app.CodeTokenExpired, app.MsgTokenIsExpired},
	utils.ErrTokenInvalidSignature:      {http.StatusUnauthorized, app.CodeTokenInvalidSignature, app.MsgTokenInvalidSignature},
	utils.ErrTokenMalformed:             {http.StatusUnauthorized, app.CodeTokenMalformed, app.MsgTokenMalformed},
	utils.ErrInvalidAuthorizationHeader: {http.StatusUnauthorized, app.CodeTokenMalformed, app.MsgTokenMalformed},

	ErrForbidden:                {http.StatusForbidden, app.CodeForbidden, app.MsgAccessDenied},
	service.ErrSelfModification: {http.StatusForbidden, app.CodeForbidden, app.MsgSelfModification},

	store.ErrAccountNotFound:    {http.StatusNotFound, app.CodeNotFound, app.MsgAccountNotFound},
	store.ErrEmailAlreadyExists: {http.StatusConflict, app.CodeConflict, app.MsgEmailAlreadyExists},
	service.ErrTooManyAttempts:  {http.StatusTooManyRequests, app.CodeTooManyRequests, app.MsgTooManyAttempts},
}

func apiErrorFromError(err error) apiError {
	for target, apiErr := range errorStatusMap {
		if errors.Is(err, target) {
			return apiErr
		}
	}
	return errInternal
}

func statusFromError(err error) int {
	return apiErrorFromError(err).status
}

// writeError logs err and writes the matching JSON error response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apiErrorFromError(err)

	log := logger.FromRequest(r)
	if apiErr.status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("code", apiErr.code).Msg("request rejected")
	}

	utils.WriteError(w, apiErr.status, apiErr.code, apiErr.message)
}
