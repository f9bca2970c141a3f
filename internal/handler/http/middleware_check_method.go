// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/utils"
)

// routeNotFound answers unknown paths with a JSON 404 the client can decode.
//
// It is also registered as the MethodNotAllowed handler: a known path called
// with an unsupported method gets the same 404 instead of chi's 405, so the
// route table is not revealed to callers probing methods.
func routeNotFound(w http.ResponseWriter, _ *http.Request) {
	utils.WriteError(w, http.StatusNotFound, app.CodeNotFound, app.MsgRouteNotFound)
}
