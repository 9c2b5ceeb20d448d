package submissions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/core/services/judge"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/handlers"
	"gitlab.com/judgecore-2026.net/internal/languages"
	"gitlab.com/judgecore-2026.net/internal/static/errs"
)

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	judgeService judge.IJudgeService
	repo         secondary.SubmissionRepository
	cache        secondary.ResultCache
	logger       primary.Logger
}

func NewSubmissionHandler(
	judgeService judge.IJudgeService,
	repo secondary.SubmissionRepository,
	cache secondary.ResultCache,
	logger primary.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		judgeService: judgeService,
		repo:         repo,
		cache:        cache,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	router.Handle("/api/submissions", mw.JWTMiddleware(http.HandlerFunc(h.CreateSubmission))).Methods("POST")
	router.Handle("/api/submissions/run", mw.JWTMiddleware(http.HandlerFunc(h.RunSubmission))).Methods("POST")
	router.Handle("/api/submissions/{submissionId}", mw.JWTMiddleware(http.HandlerFunc(h.GetSubmission))).Methods("GET")
	router.HandleFunc("/api/languages", h.GetLanguages).Methods("GET")
}

// CreateSubmission enqueues a submission for asynchronous judging.
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	if err := h.repo.SaveSubmission(r.Context(), sub); err != nil {
		h.logger.Error("Failed to save submission", "error", err)
		handlers.ResponseError(w, "Failed to save submission", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusAccepted, CreateSubmissionResponse{
		SubmissionID: sub.ID,
		Status:       sub.Status,
	})
}

// RunSubmission judges a submission synchronously and returns the full
// result table.
func (h *SubmissionHandler) RunSubmission(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	results, err := h.judgeService.RunBatch(r.Context(), sub)
	if err != nil && results == nil {
		h.writeJudgeError(w, err)
		return
	}
	if err != nil {
		// Infrastructure fault: the table is complete but uniformly
		// annotated; the status code tells the caller not to blame the code.
		handlers.ResponseWithJson(w, http.StatusBadGateway, SubmissionResponse{
			SubmissionID: sub.ID,
			Language:     sub.Language,
			Status:       domain.SubmissionFailed,
			Results:      results,
		})
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, SubmissionResponse{
		SubmissionID: sub.ID,
		Language:     sub.Language,
		Status:       domain.SubmissionJudged,
		Results:      results,
	})
}

// GetSubmission retrieves a submission and, once judged, its result table.
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["submissionId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid submission ID", http.StatusBadRequest)
		return
	}

	sub, err := h.repo.GetSubmission(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.SubmissionNotFound) {
			handlers.ResponseError(w, "Submission not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get submission", "error", err)
		handlers.ResponseError(w, "Failed to get submission", http.StatusInternalServerError)
		return
	}

	resp := SubmissionResponse{
		SubmissionID: sub.ID,
		Language:     sub.Language,
		Status:       sub.Status,
	}
	if sub.Status == domain.SubmissionJudged || sub.Status == domain.SubmissionFailed {
		resp.Results, err = h.loadResults(r, id)
		if err != nil {
			h.logger.Error("Failed to load results", "submissionId", id, "error", err)
			handlers.ResponseError(w, "Failed to load results", http.StatusInternalServerError)
			return
		}
	}
	handlers.ResponseWithJson(w, http.StatusOK, resp)
}

// GetLanguages lists the registered language identifiers.
func (h *SubmissionHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, map[string][]string{
		"languages": h.judgeService.Languages(),
	})
}

func (h *SubmissionHandler) loadResults(r *http.Request, id uuid.UUID) ([]domain.ExecutionResult, error) {
	results, found, err := h.cache.Get(r.Context(), id)
	if err == nil && found {
		return results, nil
	}
	results, err = h.repo.GetResults(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if cacheErr := h.cache.Set(r.Context(), id, results); cacheErr != nil {
		h.logger.Warn("Failed to populate result cache", "submissionId", id, "error", cacheErr)
	}
	return results, nil
}

func (h *SubmissionHandler) decodeSubmission(w http.ResponseWriter, r *http.Request) (*domain.Submission, bool) {
	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return nil, false
	}

	userID, _ := r.Context().Value(handlers.UserContextKey).(string)
	sub := req.toDomain(userID)

	// Reject before touching storage or the sandbox.
	if err := h.precheck(sub); err != nil {
		h.writeJudgeError(w, err)
		return nil, false
	}
	return sub, true
}

func (h *SubmissionHandler) precheck(sub *domain.Submission) error {
	if sub.Code == "" || sub.Language == "" || sub.TimeLimit <= 0 || sub.MemoryLimit <= 0 || len(sub.TestCases) == 0 {
		return errs.InvalidSubmission
	}
	// An unknown language can never be judged; reject it here instead of
	// enqueueing a submission doomed to FAILED.
	if _, err := languages.Resolve(sub.Language); err != nil {
		return err
	}
	return nil
}

func (h *SubmissionHandler) writeJudgeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.InvalidSubmission):
		handlers.ResponseError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errs.UnsupportedLanguage):
		handlers.ResponseError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, errs.Infrastructure):
		handlers.ResponseError(w, "Judging temporarily unavailable", http.StatusBadGateway)
	default:
		handlers.ResponseError(w, "Failed to judge submission", http.StatusInternalServerError)
	}
}
