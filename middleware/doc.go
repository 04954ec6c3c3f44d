// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion with method, path, remote (client IP), status and
duration_ms. Successful heartbeats are logged at debug level.

# Organizer Routes

Organizer routes require the X-Organizer-Key header:

	mux.HandleFunc("POST /events", middleware.WithLogging(
		middleware.RequireOrganizer(cfg.OrganizerKey, eventHandler.CreateEvent)))

A missing or wrong key is answered with 401.

# CORS Middleware

Enable cross-origin requests for the candidate and organizer pages:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Translate lobby errors into a status and error body:

	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	not_found            404
	invalid_input        400
	invalid_state        409
	upstream_unavailable 502
	anything else        500 "Internal error"

Parse JSON request bodies (limited to 1 MiB):

	var req models.JoinRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
