package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/CongoMusahAdama/rrate/internal/domain"
	"github.com/CongoMusahAdama/rrate/internal/filter"
	"github.com/CongoMusahAdama/rrate/internal/pagination"
)

type listingQuery struct {
	Spec     domain.FilterSpec
	Sort     filter.SortOrder
	Page     int
	PageSize int
}

type ListingsResponse struct {
	Items      []listingView `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
	HasPrev    bool          `json:"has_prev"`
	HasNext    bool          `json:"has_next"`
}

// parseListingQuery reads the search form fields. Page numbers that do not
// parse fall back to page 1; out-of-range pages are clamped by Paginate.
func parseListingQuery(r *http.Request, defPageSize int) (listingQuery, string) {
	q := r.URL.Query()

	out := listingQuery{
		Spec: domain.FilterSpec{
			Location:     strings.TrimSpace(q.Get("location")),
			PropertyType: strings.TrimSpace(q.Get("type")),
		},
		Page:     1,
		PageSize: defPageSize,
	}
	if strings.EqualFold(out.Spec.PropertyType, "all") {
		out.Spec.PropertyType = ""
	}

	pr, err := domain.ParsePriceRange(q.Get("price"))
	if err != nil {
		return out, "invalid_price_range"
	}
	out.Spec.PriceRange = pr

	order, err := filter.ParseSortOrder(q.Get("sort"))
	if err != nil {
		return out, "invalid_sort"
	}
	out.Sort = order

	if v := q.Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			out.Page = parsed
		}
	}
	if v := q.Get("page_size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			out.PageSize = parsed
		}
	}
	if out.PageSize > maxPageSize {
		out.PageSize = maxPageSize
	}
	return out, ""
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	q, code := parseListingQuery(r, s.PageSize)
	if code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}

	all, err := s.Catalog.All(r.Context())
	if err != nil {
		s.Logger.Error("list catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}

	matched := filter.Sort(filter.Apply(all, q.Spec), q.Sort)
	page := pagination.Paginate(matched, q.PageSize, q.Page)

	writeJSON(w, http.StatusOK, ListingsResponse{
		Items:      viewsOf(page.Items),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Total:      page.Total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
	})
}

func (s *Server) handleListingByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	l, found, err := s.Catalog.ByID(r.Context(), id)
	if err != nil {
		s.Logger.Error("lookup listing", "listing_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(l))
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
