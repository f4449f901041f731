package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/lanesim/internal/httputil"
	"github.com/banshee-data/lanesim/internal/sim"
	"github.com/banshee-data/lanesim/internal/units"
)

// maxStepBatch bounds how far one /api/sim/step call may advance the
// engine, so a bad query can't stall the handler goroutine.
const maxStepBatch = 10000

// carAPI is the wire form of one car. Speeds carry whatever unit the
// caller asked for, so the JSON names stay unit-neutral; the response
// wrapper names the unit once.
type carAPI struct {
	Position           float64 `json:"position_m"`
	Speed              float64 `json:"speed"`
	MaxSpeed           float64 `json:"max_speed"`
	Lane               int     `json:"lane"`
	LaneName           string  `json:"lane_name"`
	FollowsBadPractice bool    `json:"follows_bad_practice"`
	Blocked            bool    `json:"blocked"`
}

// carsToAPI converts a snapshot to wire form. The engine stores km/h.
func carsToAPI(cars []sim.CarView, targetUnits string) []carAPI {
	out := make([]carAPI, len(cars))
	for i, c := range cars {
		out[i] = carAPI{
			Position:           c.Position,
			Speed:              units.ConvertSpeed(c.Speed, targetUnits),
			MaxSpeed:           units.ConvertSpeed(c.MaxSpeed, targetUnits),
			Lane:               int(c.Lane),
			LaneName:           c.LaneName,
			FollowsBadPractice: c.FollowsBadPractice,
			Blocked:            c.Blocked,
		}
	}
	return out
}

func (s *Server) showSim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.host == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no simulation configured")
		return
	}

	s.writeJSON(w, http.StatusOK, s.host.State())
}

// listCars returns the car snapshot. Query params:
//
//	units (optional, kph|mps|mph; defaults to the server units)
func (s *Server) listCars(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.host == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no simulation configured")
		return
	}

	targetUnits := s.units
	if u := r.URL.Query().Get("units"); u != "" {
		if !units.IsValid(u) {
			s.writeJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid 'units' parameter, want one of: %s", units.GetValidUnitsString()))
			return
		}
		targetUnits = u
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"units": targetUnits,
		"cars":  carsToAPI(s.host.Cars(), targetUnits),
	})
}

// stepSim advances the engine. Query params:
//
//	n (optional, default 1, max 10000)
func (s *Server) stepSim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.host == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no simulation configured")
		return
	}

	n := 1
	if q := r.URL.Query().Get("n"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 || parsed > maxStepBatch {
			s.writeJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid 'n' parameter, want 1..%d", maxStepBatch))
			return
		}
		n = parsed
	}

	s.writeJSON(w, http.StatusOK, s.host.Step(n))
}

// resetSim rebuilds the engine. An empty body keeps the current config;
// a JSON body overrides the fields it names and must leave a config that
// validates.
func (s *Server) resetSim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.host == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no simulation configured")
		return
	}

	cfg := s.host.State().Config
	if r.Body != nil && r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &cfg, 1<<20); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
	}

	if err := s.host.Reset(cfg); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.host.State())
}
