package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/league-engine/middleware"
	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/Dosada05/league-engine/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	scheduleService   services.ScheduleService
}

func NewTournamentHandler(ts services.TournamentService, ss services.ScheduleService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		scheduleService:   ss,
	}
}

type createTournamentRequest struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind,omitempty"`
	ScheduleMode  string   `json:"schedule_mode,omitempty"`
	MatchSchema   string   `json:"match_schema,omitempty"`
	PointsWin     *int     `json:"points_win,omitempty"`
	PointsDraw    *int     `json:"points_draw,omitempty"`
	PointsLoss    *int     `json:"points_loss,omitempty"`
	AllowDraws    *bool    `json:"allow_draws,omitempty"`
	TiebreakOrder []string `json:"tiebreak_order,omitempty"`
}

// CreateHandler handles POST /tournaments
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create tournament")
		return
	}

	var req createTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), services.CreateTournamentInput{
		Name:          req.Name,
		Kind:          models.TournamentKind(req.Kind),
		ScheduleMode:  models.ScheduleMode(req.ScheduleMode),
		MatchSchema:   models.MatchSchema(req.MatchSchema),
		PointsWin:     req.PointsWin,
		PointsDraw:    req.PointsDraw,
		PointsLoss:    req.PointsLoss,
		AllowDraws:    req.AllowDraws,
		TiebreakOrder: req.TiebreakOrder,
		CreatedBy:     &currentUserID,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournamentByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /tournaments
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListTournamentsFilter
	query := r.URL.Query()

	if statusStr := query.Get("status"); statusStr != "" {
		status := models.TournamentStatus(statusStr)
		filter.Status = &status
	}
	if kindStr := query.Get("kind"); kindStr != "" {
		kind := models.TournamentKind(kindStr)
		filter.Kind = &kind
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		} else {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
	} else {
		filter.Limit = 20
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		} else {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusHandler handles PATCH /tournaments/{tournamentID}/status
func (h *TournamentHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.SetStatus(r.Context(), id, models.TournamentStatus(req.Status))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateRulesRequest struct {
	PointsWin     *int     `json:"points_win,omitempty"`
	PointsDraw    *int     `json:"points_draw,omitempty"`
	PointsLoss    *int     `json:"points_loss,omitempty"`
	AllowDraws    *bool    `json:"allow_draws,omitempty"`
	TiebreakOrder []string `json:"tiebreak_order,omitempty"`
}

// UpdateRulesHandler handles PATCH /tournaments/{tournamentID}/rules
func (h *TournamentHandler) UpdateRulesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req updateRulesRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateRules(r.Context(), id, services.UpdateRulesInput{
		PointsWin:     req.PointsWin,
		PointsDraw:    req.PointsDraw,
		PointsLoss:    req.PointsLoss,
		AllowDraws:    req.AllowDraws,
		TiebreakOrder: req.TiebreakOrder,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /tournaments/{tournamentID}
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateScheduleHandler handles POST /tournaments/{tournamentID}/schedule/generate
func (h *TournamentHandler) GenerateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var requestedBy *string
	if userID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		requestedBy = &userID
	}

	matches, err := h.scheduleService.GenerateSchedule(r.Context(), id, requestedBy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type participantRequest struct {
	ParticipantID string `json:"participant_id"`
}

// AddParticipantHandler handles POST /tournaments/{tournamentID}/participants
func (h *TournamentHandler) AddParticipantHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req participantRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.AddParticipant(r.Context(), id, req.ParticipantID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant_id": req.ParticipantID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveParticipantHandler handles DELETE /tournaments/{tournamentID}/participants/{participantID}
func (h *TournamentHandler) RemoveParticipantHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID := getStringFromURL(r, "participantID")
	if participantID == "" {
		badRequestResponse(w, r, errors.New("invalid participantID URL parameter"))
		return
	}

	if err := h.tournamentService.RemoveParticipant(r.Context(), id, participantID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListParticipantsHandler handles GET /tournaments/{tournamentID}/participants
func (h *TournamentHandler) ListParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.tournamentService.ListParticipants(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadBadgeHandler handles PUT /tournaments/{tournamentID}/badge
func (h *TournamentHandler) UploadBadgeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("badge")
	if err != nil {
		badRequestResponse(w, r, errors.New("badge file is required (multipart field \"badge\")"))
		return
	}
	defer file.Close()

	tournament, err := h.tournamentService.UploadBadge(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveBadgeHandler handles DELETE /tournaments/{tournamentID}/badge
func (h *TournamentHandler) RemoveBadgeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.RemoveBadge(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
