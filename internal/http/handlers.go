package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"movimenti/internal/core"
	"movimenti/internal/log"
)

// remote status values reported on mutation responses. The local commit is
// already durable when the response goes out; the remote write is still in
// flight.
const remotePending = "pending"

type (
	categorizeRequest struct {
		CatCode string `json:"catcode"`
	}

	bulkCategorizeRequest struct {
		IDs     []string `json:"ids"`
		CatCode string   `json:"catcode"`
	}

	splitRequest struct {
		Splits []core.Split `json:"splits"`
	}

	mutationResponse struct {
		Transaction core.Transaction `json:"transaction"`
		Remote      string           `json:"remote"`
	}

	bulkMutationResponse struct {
		Transactions []core.Transaction `json:"transactions"`
		Remote       string             `json:"remote"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = p
	}
	pageSize := s.transactions.CurrentPageSize()
	if v := strings.TrimSpace(r.URL.Query().Get("page-size")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "page-size must be an integer")
			return
		}
		pageSize = p
	}

	filter, err := parseFilter(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.transactions.Query(r.Context(), page, pageSize, filter)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.Get(r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, t)
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CatCode) == "" {
		s.writeError(w, r, http.StatusUnprocessableEntity, "catcode is required")
		return
	}

	res, err := s.transactions.Categorize(r.Context(), r.PathValue("id"), req.CatCode)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, mutationResponse{Transaction: res.Transaction, Remote: remotePending})
}

func (s *Server) handleBulkCategorize(w http.ResponseWriter, r *http.Request) {
	var req bulkCategorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		s.writeError(w, r, http.StatusUnprocessableEntity, "ids are required")
		return
	}
	if strings.TrimSpace(req.CatCode) == "" {
		s.writeError(w, r, http.StatusUnprocessableEntity, "catcode is required")
		return
	}

	for _, id := range req.IDs {
		s.coordinator.ToggleSelection(id)
	}
	session, err := s.coordinator.OpenBulk()
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if cat, ok := s.categories.Resolve(req.CatCode); ok && !cat.IsMain() {
		session.SelectMain(cat.ParentCode)
		session.SelectSub(cat.Code)
	} else {
		session.SelectMain(req.CatCode)
	}

	results, err := session.Confirm(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := bulkMutationResponse{Remote: remotePending}
	for _, res := range results {
		resp.Transactions = append(resp.Transactions, res.Transaction)
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.transactions.ApplySplits(r.Context(), r.PathValue("id"), req.Splits)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, mutationResponse{Transaction: res.Transaction, Remote: remotePending})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.Load(r.Context())
	if err != nil {
		// degrade to an empty taxonomy rather than failing the page
		s.logger.WarnContext(r.Context(), "Serving empty taxonomy after load failure",
			log.FieldOperation, log.OpFetch,
			log.FieldError, err)
	}

	if parent := strings.TrimSpace(r.URL.Query().Get("parent")); parent != "" {
		s.writeJSON(w, r, http.StatusOK, s.categories.SubCategoriesOf(parent))
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	s.writeJSON(w, r, http.StatusOK, categories)
}

// parseFilter builds the query filter from the recognized parameters. Dates
// use the YYYY-MM-DD form; anything else is rejected rather than silently
// ignored.
func parseFilter(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()
	f := core.Filter{
		Kind:        strings.TrimSpace(q.Get("kind")),
		Account:     strings.TrimSpace(q.Get("account")),
		Beneficiary: q.Get("beneficiary"),
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return core.Filter{}, errors.New("from must be a YYYY-MM-DD date")
		}
		f.FromDate = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return core.Filter{}, errors.New("to must be a YYYY-MM-DD date")
		}
		f.ToDate = d
	}
	return f, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to encode response",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeDomainError maps engine errors onto HTTP statuses. A remote write
// failure never reaches this path: mutations acknowledge on the local commit.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidPageSize),
		errors.Is(err, core.ErrIncompleteSplit),
		errors.Is(err, core.ErrAmountMismatch),
		errors.Is(err, core.ErrInvalidAmount):
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "Unhandled engine error",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
