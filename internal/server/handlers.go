package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Karthik-beta/data-app/internal/model"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Username/email and password are required")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username/email and password are required")
		return
	}

	if !s.loginLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	session, ok := s.auth.Validate(req.Username, req.Password)
	if !ok {
		// Uniform failure: unknown user and wrong password are
		// indistinguishable to the caller.
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := s.auth.IssueToken(session)
	if err != nil {
		zap.L().Error("issue token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.cookies.Set(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"user": session})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleSession reports the current user, or null when there is no valid
// session. Callers use it to gate rendering, so it never responds 401.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	token := s.cookies.Read(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	session, err := s.auth.VerifyToken(token)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": session})
}

// parseFilters decodes the comma-separated multi-value filter parameters.
func parseFilters(r *http.Request) model.FilterSelection {
	q := r.URL.Query()
	f := model.FilterSelection{
		Statuses:   splitParam(q.Get("statuses")),
		Classes:    splitParam(q.Get("classes")),
		Industries: splitParam(q.Get("industries")),
		StateCodes: splitParam(q.Get("stateCodes")),
		Search:     q.Get("search"),
	}
	for _, y := range splitParam(q.Get("years")) {
		year, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		f.Years = append(f.Years, year)
	}
	return f
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	cursor, _ := strconv.ParseInt(q.Get("cursor"), 10, 64)
	if cursor < 0 {
		cursor = 0
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	filters := parseFilters(r)

	records, err := s.store.Records(ctx, filters, cursor, limit)
	if err != nil {
		zap.L().Error("fetch records", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch records",
			"details": err.Error(),
		})
		return
	}
	if records == nil {
		records = []model.Company{}
	}

	page := model.Page{Records: records}

	// A full page implies more may exist; a short page signals exhaustion.
	if len(records) == limit {
		last := records[len(records)-1].ID
		page.NextCursor = &last
	}

	// Totals are computed on the first page of a session only.
	if cursor == 0 {
		total, err := s.store.TotalCount(ctx)
		if err != nil {
			zap.L().Error("total count", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Failed to fetch records",
				"details": err.Error(),
			})
			return
		}
		page.Total = &total

		filtered := total
		if filters.Active() {
			filtered, err = s.store.FilteredCount(ctx, filters)
			if err != nil {
				zap.L().Error("filtered count", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error":   "Failed to fetch records",
					"details": err.Error(),
				})
				return
			}
		}
		page.FilteredTotal = &filtered
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.store.FilterOptions(r.Context())
	if err != nil {
		zap.L().Error("fetch filter options", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch filter options")
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.analytics.Summarize(r.Context())
	if err != nil {
		zap.L().Error("summarize", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
