package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/kellysim/config"
	"github.com/rustyeddy/kellysim/kelly"
	"github.com/rustyeddy/kellysim/report"
	"github.com/rustyeddy/kellysim/session"
	"github.com/rustyeddy/kellysim/sim"
)

// InputsRequest carries dashboard inputs in percent units. Omitted fields
// keep their previous values.
type InputsRequest struct {
	WinRatePct   *float64 `json:"win_rate_pct"`
	RiskPct      *float64 `json:"risk_pct"`
	FeePct       *float64 `json:"fee_pct"`
	Days         *int     `json:"days"`
	StartBalance *float64 `json:"start_balance"`
}

// SimulationResponse wraps a snapshot with whether it was recomputed.
type SimulationResponse struct {
	Changed  bool                    `json:"changed"`
	Inputs   config.SimulationConfig `json:"inputs"`
	Snapshot *session.Snapshot       `json:"snapshot"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// current returns the latest snapshot, running the starting inputs first
// if the session is still empty.
func (s *Server) current() (*session.Snapshot, config.SimulationConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap := s.sess.Current(); snap != nil {
		return snap, s.inputs, nil
	}
	snap, _, err := s.sess.Apply(s.inputs.Params())
	return snap, s.inputs, err
}

func (s *Server) getSimulation(c *gin.Context) {
	snap, in, err := s.current()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SimulationResponse{Inputs: in, Snapshot: snap})
}

func (s *Server) postSimulation(c *gin.Context) {
	var req InputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.inputs
	if req.WinRatePct != nil {
		in.WinRatePct = *req.WinRatePct
	}
	if req.RiskPct != nil {
		in.RiskPct = *req.RiskPct
	}
	if req.FeePct != nil {
		in.FeePct = *req.FeePct
	}
	if req.Days != nil {
		in.Days = *req.Days
	}
	if req.StartBalance != nil {
		in.StartBalance = *req.StartBalance
	}
	in = in.Clamp()

	snap, changed, err := s.sess.Apply(in.Params())
	if err != nil {
		fail(c, err)
		return
	}
	s.inputs = in
	c.JSON(http.StatusOK, SimulationResponse{Changed: changed, Inputs: in, Snapshot: snap})
}

func (s *Server) postRerun(c *gin.Context) {
	if _, _, err := s.current(); err != nil {
		fail(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.sess.Rerun()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SimulationResponse{Changed: true, Inputs: s.inputs, Snapshot: snap})
}

func (s *Server) getCSV(c *gin.Context) {
	snap, _, err := s.current()
	if err != nil {
		fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, snap.Trajectory); err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+snap.RunID+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// getKelly answers for arbitrary inputs; it never touches the session.
func (s *Server) getKelly(c *gin.Context) {
	s.mu.Lock()
	winPct, feePct := s.inputs.WinRatePct, s.inputs.FeePct
	s.mu.Unlock()

	var err error
	if v := c.Query("win_rate_pct"); v != "" {
		if winPct, err = strconv.ParseFloat(v, 64); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "win_rate_pct: " + err.Error()})
			return
		}
	}
	if v := c.Query("fee_pct"); v != "" {
		if feePct, err = strconv.ParseFloat(v, 64); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "fee_pct: " + err.Error()})
			return
		}
	}

	est, err := kelly.Compute(winPct/100, feePct/100)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, sim.ErrInvalidParameter) || errors.Is(err, kelly.ErrInvalidParameter) {
		status = http.StatusBadRequest
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}
