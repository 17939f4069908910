package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ZelongGuo/dislocation/internal/disloc"
)

// EvaluateRequest carries the arrays of one batch. Omitted elastic
// constants fall back to the service defaults.
type EvaluateRequest struct {
	Patches      [][]float64 `json:"patches" validate:"required,min=1"`
	Observations [][]float64 `json:"observations" validate:"required,min=1"`
	Mu           *float64    `json:"mu,omitempty"`
	Nu           *float64    `json:"nu,omitempty"`
}

// EvaluateResponse holds the batch output row by row. Components an
// unphysical patch left non-finite are sent as null; the flags say why.
type EvaluateResponse struct {
	U       [][]disloc.Number  `json:"u"`
	D       [][]disloc.Number  `json:"d"`
	S       [][]disloc.Number  `json:"s"`
	Flags   [][]int32          `json:"flags"`
	Summary disloc.FlagSummary `json:"summary"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) evaluate(c echo.Context) error {
	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		s.metrics.RecordError("bad_request")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
	}
	if err := c.Validate(&req); err != nil {
		s.metrics.RecordError("bad_request")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	patches, err := disloc.PatchesFromRows(req.Patches)
	if err != nil {
		s.metrics.RecordError("bad_request")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	obs, err := disloc.ObservationsFromRows(req.Observations)
	if err != nil {
		s.metrics.RecordError("bad_request")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if pairs := len(patches) * len(obs); pairs > s.cfg.Evaluator.MaxPairs {
		s.metrics.RecordError("too_large")
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "batch exceeds the station/patch pair limit"})
	}

	ec := disloc.ElasticConstants{Mu: s.cfg.Elastic.Mu, Nu: s.cfg.Elastic.Nu}
	if req.Mu != nil {
		ec.Mu = *req.Mu
	}
	if req.Nu != nil {
		ec.Nu = *req.Nu
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.cfg.Evaluator.RequestTimeout)
	defer cancel()

	start := time.Now()
	rs, err := s.eval.Evaluate(ctx, patches, obs, ec)
	switch {
	case errors.Is(err, disloc.ErrElastic):
		s.metrics.RecordError("bad_request")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.RecordError("timeout")
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "evaluation timed out"})
	case err != nil:
		s.metrics.RecordError("error")
		s.log.Error().Err(err).Msg("evaluation failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	elapsed := time.Since(start).Seconds()

	resp := EvaluateResponse{
		U:       make([][]disloc.Number, len(rs.Results)),
		D:       make([][]disloc.Number, len(rs.Results)),
		S:       make([][]disloc.Number, len(rs.Results)),
		Flags:   rs.Codes(),
		Summary: rs.Summary(),
	}
	for i, r := range rs.Results {
		rj := r.JSON()
		resp.U[i], resp.D[i], resp.S[i] = rj.U, rj.D, rj.S
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		s.metrics.RecordError("error")
		s.log.Error().Err(err).Msg("write evaluation response")
		return err
	}
	s.metrics.RecordEvaluation(resp.Summary, elapsed)
	return nil
}
