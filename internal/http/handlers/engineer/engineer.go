// Package engineer contains all HTTP handlers for the engineer resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router wants func(http.ResponseWriter, *http.Request), which has
// no room for a service. Each exported function below is therefore a
// factory: it takes the Service once at startup and returns the handler
// that runs on every request, closing over svc.
//
//	router.HandleFunc("GET /api/v1/software-engineers/{id}", engineer.GetByID(svc))
//	//                                                     ^^^^^^^^^^^^^^^^^^^^
//	//                                      GetByID(svc) runs ONCE at startup.
//
// The handlers only translate HTTP to service calls and back. Business
// rules (existence checks, the AI call on create) live in the service.
package engineer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/engineers-api/internal/ai"
	engineersvc "github.com/aanand-mishra/engineers-api/internal/service/engineer"
	"github.com/aanand-mishra/engineers-api/internal/types"
	"github.com/aanand-mishra/engineers-api/internal/utils/response"
)

// Service is what the handlers need from the engineer service.
// Declaring it here, where it is consumed, lets tests pass a stub.
type Service interface {
	GetAll(ctx context.Context) ([]types.Engineer, error)
	GetByID(ctx context.Context, id int64) (types.Engineer, error)
	Create(ctx context.Context, candidate types.Engineer) (types.Engineer, error)
	Update(ctx context.Context, replacement types.Engineer) (types.Engineer, error)
	DeleteByID(ctx context.Context, id int64) error
}

// validate is shared: a Validate instance caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

// errorStatus maps service error kinds to HTTP status codes. The first
// match wins; anything unlisted is a 500.
var errorStatus = []struct {
	kind   error
	status int
}{
	{engineersvc.ErrNotFound, http.StatusNotFound},
	{ai.ErrProvider, http.StatusBadGateway},
}

// Register mounts the five REST routes under /{resource}.
//
//	GET    /{resource}        → GetList
//	GET    /{resource}/{id}   → GetByID
//	POST   /{resource}        → New
//	PUT    /{resource}/{id}   → Update
//	DELETE /{resource}/{id}   → Delete
func Register(mux *http.ServeMux, resource string, svc Service) {
	base := "/" + resource
	mux.HandleFunc("GET "+base, GetList(svc))
	mux.HandleFunc("GET "+base+"/{id}", GetByID(svc))
	mux.HandleFunc("POST "+base, New(svc))
	mux.HandleFunc("PUT "+base+"/{id}", Update(svc))
	mux.HandleFunc("DELETE "+base+"/{id}", Delete(svc))
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /{resource}
// Returns every engineer.
//
// Success response (200 OK):
//
//	[ { "id": 1, "name": "Ana", "techStack": ["Go"], "learningPathRecommendations": null } ]
//
// An empty store yields [] rather than null.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "getting all engineers")

		engineers, err := svc.GetAll(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		// A nil slice encodes as null; clients expect an array.
		if engineers == nil {
			engineers = []types.Engineer{}
		}

		response.WriteJSON(w, http.StatusOK, engineers)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /{resource}/{id}
//
// Path parameter: {id}, must be a valid integer
//
// Error responses:
//
//	400 Bad Request  id is not a valid integer
//	404 Not Found    no engineer with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.InfoContext(r.Context(), "getting an engineer", slog.Int64("id", id))

		e, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, e)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /{resource}
// Creates an engineer and asks the AI for a learning path.
//
// Request body (JSON), id is ignored if present:
//
//	{ "name": "Ana", "techStack": ["Go", "AWS"] }
//
// Success response (201 Created) is the stored engineer, including the
// generated learningPathRecommendations.
//
// Error responses:
//
//	400 Bad Request  empty body, malformed JSON, or failed validation
//	502 Bad Gateway  the AI provider failed; nothing was stored
//	500 Internal     database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "creating an engineer")

		// ── Step 1: Decode and validate the body ──────────────────────
		candidate, ok := decodeEngineer(w, r)
		if !ok {
			return
		}

		// ── Step 2: Create (AI call + insert) ─────────────────────────
		// This is the slow path: the request waits on the model.
		created, err := svc.Create(r.Context(), candidate)
		if err != nil {
			writeError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "engineer created", slog.Int64("id", created.ID))

		// ── Step 3: Return 201 with the full record ───────────────────
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /{resource}/{id}
// Replaces ALL fields of an existing engineer. The id comes from the path;
// an id in the body is overwritten. The learning path is whatever the
// caller sends (null clears it); the AI is not called.
//
// Error responses:
//
//	400 Bad Request  bad id, empty body, malformed JSON, or failed validation
//	404 Not Found    no engineer with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// ── Step 1: Parse the id from the path ────────────────────────
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.InfoContext(r.Context(), "updating an engineer", slog.Int64("id", id))

		// ── Step 2: Decode and validate the replacement ───────────────
		replacement, ok := decodeEngineer(w, r)
		if !ok {
			return
		}
		replacement.ID = id

		// ── Step 3: Save ──────────────────────────────────────────────
		updated, err := svc.Update(r.Context(), replacement)
		if err != nil {
			writeError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "engineer updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /{resource}/{id}
// Success is 204 No Content with an empty body; deleting twice gives 404.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.InfoContext(r.Context(), "deleting an engineer", slog.Int64("id", id))

		if err := svc.DeleteByID(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "engineer deleted", slog.Int64("id", id))

		// No body, so no Content-Type either: just the status line.
		w.WriteHeader(http.StatusNoContent)
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// pathID parses the {id} path segment. On failure it has already written
// a 400 response and the caller just returns.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	// r.PathValue reads the {id} wildcard from the Go 1.22+ route pattern.
	// Base 10, 64-bit, to match the int64 primary key.
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decodeEngineer reads and validates the JSON body. On failure it has
// already written a 400 response.
func decodeEngineer(w http.ResponseWriter, r *http.Request) (types.Engineer, bool) {
	var e types.Engineer

	err := json.NewDecoder(r.Body).Decode(&e)
	if errors.Is(err, io.EOF) {
		// io.EOF means the body was completely empty.
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return types.Engineer{}, false
	}
	if err != nil {
		// Malformed JSON, wrong types, truncated input...
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.Engineer{}, false
	}

	// Struct checks every validate:"..." tag; "dive,required" on TechStack
	// rejects empty entries such as ["Go", ""].
	if err := validate.Struct(e); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
			return types.Engineer{}, false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.Engineer{}, false
	}

	// A missing techStack becomes [] so it round-trips as an array.
	e.Normalize()
	return e, true
}

// writeError picks the status for err from errorStatus and writes the
// standard error envelope. Only server-side failures are logged here;
// 4xx outcomes already show up in the access log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	for _, m := range errorStatus {
		if errors.Is(err, m.kind) {
			status = m.status
			break
		}
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	response.WriteJSON(w, status, response.GeneralError(err))
}
