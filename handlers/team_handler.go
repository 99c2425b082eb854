package handlers

import (
	"net/http"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List отдаёт каталог команд пула; ?tier= фильтрует по тиру рейтинга.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	pool := models.TeamPool(r.URL.Query().Get("pool"))
	if pool == "" {
		pool = models.PoolNHL
	}

	var tierFilter *models.TeamTier
	if raw := r.URL.Query().Get("tier"); raw != "" {
		tier := models.TeamTier(raw)
		tierFilter = &tier
	}

	teams, err := h.teamService.ListByPool(r.Context(), pool, tierFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
