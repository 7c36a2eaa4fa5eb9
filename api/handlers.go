package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kmartel07/gridride/core/engine"
	"github.com/kmartel07/gridride/core/model"
)

// Engine is the surface of the simulation core the API depends on.
type Engine interface {
	CreateDriver(loc model.Location) (model.Driver, error)
	DeleteDriver(id string) error
	Drivers() []model.Driver
	CreateRider(pickup, dropoff model.Location) (model.Rider, error)
	DeleteRider(id string) error
	Riders() []model.Rider
	RequestRide(riderID string) (model.RideRequest, error)
	Rides() []model.RideRequest
	PendingRides(driverID string) ([]model.RideRequest, error)
	Respond(rideID string, accept bool) (model.RideRequest, error)
	Dispatch(rideID string) (engine.DispatchOutcome, error)
	AdvanceTick() engine.TickResult
	State() engine.Snapshot
	Reset()
}

type createDriverRequest struct {
	Location model.Location `json:"location"`
}

func (s *Server) createDriver(w http.ResponseWriter, r *http.Request) {
	var req createDriverRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	d, err := s.engine.CreateDriver(req.Location)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, d)
}

func (s *Server) listDrivers(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Drivers())
}

func (s *Server) deleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteDriver(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "driver deleted"})
}

func (s *Server) pendingRides(w http.ResponseWriter, r *http.Request) {
	rides, err := s.engine.PendingRides(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rides == nil {
		rides = []model.RideRequest{}
	}
	s.writeJSON(w, http.StatusOK, rides)
}

type createRiderRequest struct {
	Pickup  model.Location `json:"pickup"`
	Dropoff model.Location `json:"dropoff"`
}

func (s *Server) createRider(w http.ResponseWriter, r *http.Request) {
	var req createRiderRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	rider, err := s.engine.CreateRider(req.Pickup, req.Dropoff)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rider)
}

func (s *Server) listRiders(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Riders())
}

func (s *Server) deleteRider(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteRider(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "rider deleted"})
}

type requestRideRequest struct {
	RiderID string `json:"rider_id"`
}

func (s *Server) requestRide(w http.ResponseWriter, r *http.Request) {
	var req requestRideRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	ride, err := s.engine.RequestRide(req.RiderID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ride)
}

func (s *Server) listRides(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Rides())
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	ride, err := s.engine.Respond(mux.Vars(r)["id"], req.Accept)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ride)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	out, err := s.engine.Dispatch(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) tick(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.AdvanceTick())
}

func (s *Server) state(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) reset(w http.ResponseWriter, _ *http.Request) {
	s.engine.Reset()
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "simulation state cleared"})
}
