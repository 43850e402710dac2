package routes

import (
	"testing"

	"github.com/Dosada05/league-engine/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestRegisteredRouteShapes(t *testing.T) {
	router := chi.NewRouter()
	SetupRoutes(router, "test-secret",
		handlers.NewTournamentHandler(nil, nil),
		handlers.NewMatchHandler(nil),
		handlers.NewStandingsHandler(nil),
		handlers.NewWebSocketHandler(nil, nil),
	)

	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/healthz"},
		{"POST", "/tournaments"},
		{"GET", "/tournaments/3"},
		{"POST", "/tournaments/3/schedule/generate"},
		{"POST", "/tournaments/3/matchdays/2/close"},
		{"POST", "/tournaments/3/matchdays/2/reopen"},
		{"GET", "/tournaments/3/matchdays"},
		{"GET", "/tournaments/3/standings"},
		{"GET", "/tournaments/3/form"},
		{"GET", "/matches/9"},
		{"POST", "/matches/9/score"},
		{"PATCH", "/matches/9/schedule"},
		{"PATCH", "/matches/9/lock"},
		{"DELETE", "/matches/9"},
		{"GET", "/ws/tournaments/3"},
	}
	for _, tc := range cases {
		rctx := chi.NewRouteContext()
		assert.True(t, router.Match(rctx, tc.method, tc.path), "%s %s not routed", tc.method, tc.path)
	}

	// Old shapes must be gone.
	for _, tc := range []struct {
		method string
		path   string
	}{
		{"POST", "/tournaments/3/schedule"},
		{"PUT", "/tournaments/3/matchdays/2/lock"},
		{"PUT", "/matches/9/score"},
		{"PUT", "/matches/9/lock"},
	} {
		rctx := chi.NewRouteContext()
		assert.False(t, router.Match(rctx, tc.method, tc.path), "%s %s should not be routed", tc.method, tc.path)
	}
}
