package handler

import (
	"net/http"

	"github.com/foodieapp/storefront-gateway/internal/aggregate"
)

// sectionView is one dashboard section on the wire, tagged with where its
// data came from so the SPA can badge degraded sections.
type sectionView struct {
	Data   any              `json:"data"`
	Source aggregate.Source `json:"source"`
}

type dashboardView struct {
	Sections map[string]sectionView `json:"sections"`
	Degraded bool                   `json:"degraded"`
}

func dashboardOf(res aggregate.Result) dashboardView {
	sections := make(map[string]sectionView, len(res))
	for name, entry := range res {
		sections[name] = sectionView{Data: entry.Data, Source: entry.Source}
	}
	return dashboardView{Sections: sections, Degraded: res.Degraded()}
}

func (h *Handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dashboardOf(h.dashboards.Admin(r.Context())))
}

func (h *Handler) ownerDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dashboardOf(h.dashboards.Owner(r.Context())))
}

func (h *Handler) customerDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dashboardOf(h.dashboards.Customer(r.Context())))
}
