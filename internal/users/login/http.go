// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhtran/authgate/internal/platform/constants"
	requestutil "github.com/minhtran/authgate/internal/platform/request"
	"github.com/minhtran/authgate/internal/platform/respond"
	"github.com/minhtran/authgate/internal/platform/validate"
)

// Handler exposes the login use case over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new login [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for the login endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/login", handler.login)
	return router
}

// loginRequest mirrors the legacy plugin request body. The username field
// carries either a handle or an email; the wire name is frozen.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
login handles POST /login.

Description: Decodes and validates the credential pair, then delegates to
[Service.Authenticate]. Validation failures are answered before the
throttle ever sees the attempt. The success body is the bare account
object; every failure is a `{"message": "..."}` object.

Parameters:
  - writer: http.ResponseWriter
  - request: *http.Request
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var body loginRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required(body.Username, constants.MsgMissingIdentifier).
		Required(body.Password, constants.MsgMissingPassword)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Authenticate(request.Context(), Input{
		Identifier: body.Username,
		Secret:     body.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}
