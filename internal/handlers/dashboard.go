package handlers

import "net/http"

// dashboardStats is the JSON shape of the dashboard counters.
type dashboardStats struct {
	TotalPosts      int `json:"total_posts"`
	PublishedPosts  int `json:"published_posts"`
	DraftPosts      int `json:"draft_posts"`
	TotalCategories int `json:"total_categories"`
}

// Dashboard handles GET /api/dashboard.
func (a *API) Dashboard(w http.ResponseWriter, r *http.Request) {
	total, err := a.posts.Count(nil)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	published := true
	publishedCount, err := a.posts.Count(&published)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	categoryCount, err := a.categories.Count()
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dashboardStats{
		TotalPosts:      total,
		PublishedPosts:  publishedCount,
		DraftPosts:      total - publishedCount,
		TotalCategories: categoryCount,
	})
}
