package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/league-engine/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// GetStandingsHandler handles GET /tournaments/{tournamentID}/standings
func (h *StandingsHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.standingsService.GetStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFormHandler handles GET /tournaments/{tournamentID}/form?n=5
func (h *StandingsHandler) GetFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	lastN := 0
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		n, err := strconv.Atoi(nStr)
		if err != nil || n < 1 {
			badRequestResponse(w, r, errors.New("invalid n query parameter"))
			return
		}
		lastN = n
	}

	view, err := h.standingsService.GetForm(r.Context(), id, lastN)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"form": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
