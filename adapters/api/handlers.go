package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"replayrng/domain/core"
	apperrors "replayrng/internal/errors"
	"replayrng/ports"
)

type createRequest struct {
	Seed int32 `json:"seed"`
}

type rangeRequest struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	MaxInclusive *bool   `json:"max_inclusive,omitempty"`
	Float        bool    `json:"float"`
}

type restoreRequest struct {
	Count int `json:"count"`
}

type snapshotRequest struct {
	Label string `json:"label"`
}

type drawResponse struct {
	Values interface{} `json:"values"`
	Count  int         `json:"count"`
}

type valueResponse struct {
	Value interface{} `json:"value"`
	Count int         `json:"count,omitempty"`
}

type snapshotListResponse struct {
	Snapshots []*ports.SnapshotRecord `json:"snapshots"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	state, err := s.service.Create(r.Context(), req.Seed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, state)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	state, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.service.Close(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	id, n, err := sessionAndBatch(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	values, state, err := s.service.Next(r.Context(), id, n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, drawResponse{Values: values, Count: state.Count})
}

func (s *Server) handleNextFloat(w http.ResponseWriter, r *http.Request) {
	id, n, err := sessionAndBatch(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	values, state, err := s.service.NextFloat(r.Context(), id, n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, drawResponse{Values: values, Count: state.Count})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req rangeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if req.Float {
		inclusive := req.MaxInclusive == nil || *req.MaxInclusive
		value, state, err := s.service.RangeFloat(r.Context(), id, float32(req.Min), float32(req.Max), inclusive)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, valueResponse{Value: value, Count: state.Count})
		return
	}

	min, max, err := intBounds(req.Min, req.Max)
	if err != nil {
		s.writeError(w, err)
		return
	}
	inclusive := req.MaxInclusive != nil && *req.MaxInclusive
	value, state, err := s.service.Range(r.Context(), id, min, max, inclusive)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, valueResponse{Value: value, Count: state.Count})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req restoreRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	state, err := s.service.Restore(r.Context(), id, req.Count)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePeek(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	value, err := s.service.Peek(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, valueResponse{Value: value})
}

func (s *Server) handlePeekFloat(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	value, err := s.service.PeekFloat(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, valueResponse{Value: value})
}

func (s *Server) handlePeekRange(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	req, err := rangeQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if req.Float {
		inclusive := req.MaxInclusive == nil || *req.MaxInclusive
		value, err := s.service.PeekRangeFloat(r.Context(), id, float32(req.Min), float32(req.Max), inclusive)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, valueResponse{Value: value})
		return
	}

	min, max, err := intBounds(req.Min, req.Max)
	if err != nil {
		s.writeError(w, err)
		return
	}
	inclusive := req.MaxInclusive != nil && *req.MaxInclusive
	value, err := s.service.PeekRange(r.Context(), id, min, max, inclusive)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, valueResponse{Value: value})
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req snapshotRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	record, err := s.service.SaveSnapshot(r.Context(), id, req.Label)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	seed, err := strconv.ParseInt(r.URL.Query().Get("seed"), 10, 32)
	if err != nil {
		s.writeError(w, apperrors.InvalidInput("seed must be a 32-bit integer"))
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			s.writeError(w, apperrors.InvalidInput("limit must be a non-negative integer"))
			return
		}
	}

	records, err := s.service.ListSnapshots(r.Context(), int32(seed), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []*ports.SnapshotRecord{}
	}
	s.writeJSON(w, http.StatusOK, snapshotListResponse{Snapshots: records})
}

func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID, err := core.ParseSnapshotID(chi.URLParam(r, "snapshotId"))
	if err != nil {
		s.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	state, err := s.service.LoadSnapshot(r.Context(), snapshotID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, state)
}

// Request helpers

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func sessionID(r *http.Request) (core.SessionID, error) {
	id, err := core.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}
	return id, nil
}

func sessionAndBatch(r *http.Request) (core.SessionID, int, error) {
	id, err := sessionID(r)
	if err != nil {
		return "", 0, err
	}
	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		if n, err = strconv.Atoi(raw); err != nil {
			return "", 0, apperrors.InvalidInput("n must be an integer")
		}
	}
	return id, n, nil
}

func rangeQuery(r *http.Request) (rangeRequest, error) {
	q := r.URL.Query()
	var req rangeRequest
	var err error

	if req.Min, err = strconv.ParseFloat(q.Get("min"), 64); err != nil {
		return req, apperrors.InvalidInput("min must be a number")
	}
	if req.Max, err = strconv.ParseFloat(q.Get("max"), 64); err != nil {
		return req, apperrors.InvalidInput("max must be a number")
	}
	if raw := q.Get("max_inclusive"); raw != "" {
		inclusive, err := strconv.ParseBool(raw)
		if err != nil {
			return req, apperrors.InvalidInput("max_inclusive must be a boolean")
		}
		req.MaxInclusive = &inclusive
	}
	if raw := q.Get("float"); raw != "" {
		if req.Float, err = strconv.ParseBool(raw); err != nil {
			return req, apperrors.InvalidInput("float must be a boolean")
		}
	}
	return req, nil
}

// intBounds narrows JSON numbers to int32 bounds, rejecting fractions and
// values outside the 32-bit range.
func intBounds(min, max float64) (int32, int32, error) {
	for _, v := range []float64{min, max} {
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("integer bound %v is not a 32-bit integer", v))
		}
	}
	return int32(min), int32(max), nil
}
