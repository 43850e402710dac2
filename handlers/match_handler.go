package handlers

import (
	"net/http"
	"time"

	"github.com/Dosada05/league-engine/middleware"
	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type createMatchRequest struct {
	PlayerA     string     `json:"player_a"`
	PlayerB     string     `json:"player_b"`
	Matchday    *int       `json:"matchday,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Location    *string    `json:"location,omitempty"`
}

// CreateHandler handles POST /tournaments/{tournamentID}/matches
func (h *MatchHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create match")
		return
	}

	var req createMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateManualMatch(r.Context(), services.CreateMatchInput{
		TournamentID: tournamentID,
		PlayerA:      req.PlayerA,
		PlayerB:      req.PlayerB,
		Matchday:     req.Matchday,
		ScheduledAt:  req.ScheduledAt,
		Location:     req.Location,
		CreatedBy:    &currentUserID,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /matches/{matchID}
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatchByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournamentHandler handles GET /tournaments/{tournamentID}/matches
func (h *MatchHandler) ListByTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.MatchStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		s := models.MatchStatus(statusStr)
		status = &s
	}

	matches, err := h.matchService.ListMatchesByTournament(r.Context(), tournamentID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitScoreHandler handles POST /matches/{matchID}/score
func (h *MatchHandler) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to submit score")
		return
	}

	var input models.ScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SubmitScore(r.Context(), id, input, &currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type rescheduleRequest struct {
	Matchday    *int       `json:"matchday,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Location    *string    `json:"location,omitempty"`
}

// RescheduleHandler handles PATCH /matches/{matchID}/schedule
func (h *MatchHandler) RescheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req rescheduleRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RescheduleMatch(r.Context(), id, services.RescheduleInput{
		Matchday:    req.Matchday,
		ScheduledAt: req.ScheduledAt,
		Location:    req.Location,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

// SetLockedHandler handles PATCH /matches/{matchID}/lock
func (h *MatchHandler) SetLockedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req lockRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SetMatchLocked(r.Context(), id, req.Locked)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /matches/{matchID}
func (h *MatchHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.DeleteMatch(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CloseMatchdayHandler handles POST /tournaments/{tournamentID}/matchdays/{matchday}/close
func (h *MatchHandler) CloseMatchdayHandler(w http.ResponseWriter, r *http.Request) {
	h.setMatchdayClosed(w, r, true)
}

// ReopenMatchdayHandler handles POST /tournaments/{tournamentID}/matchdays/{matchday}/reopen
func (h *MatchHandler) ReopenMatchdayHandler(w http.ResponseWriter, r *http.Request) {
	h.setMatchdayClosed(w, r, false)
}

func (h *MatchHandler) setMatchdayClosed(w http.ResponseWriter, r *http.Request, closed bool) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchday, err := getIDFromURL(r, "matchday")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to close matchday")
		return
	}

	lock, err := h.matchService.SetMatchdayClosed(r.Context(), tournamentID, matchday, closed, &currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchday_lock": lock}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatchdayLocksHandler handles GET /tournaments/{tournamentID}/matchdays
func (h *MatchHandler) ListMatchdayLocksHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	locks, err := h.matchService.ListMatchdayLocks(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchday_locks": locks}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
