package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/miqat/internal/state"
	"github.com/leapstack-labs/miqat/pkg/hijri"
	"github.com/leapstack-labs/miqat/pkg/qiblah"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// errBadRequest marks errors caused by request parameters.
var errBadRequest = errors.New("bad request")

func (s *Server) routes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/times", s.handleTimes)
		r.Get("/timetable", s.handleTimetable)
		r.Get("/next", s.handleNext)
		r.Get("/hijri", s.handleHijri)
		r.Get("/qiblah", s.handleQiblah)
		r.Get("/locations", s.handleLocations)
		r.Get("/locations/{name}", s.handleLocation)
		r.Get("/events", s.handleEvents)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type timesResponse struct {
	*salah.Times
	Method  string             `json:"method"`
	Madhab  string             `json:"madhab"`
	Prayers []salah.PrayerTime `json:"prayers"`
	Hijri   hijri.Date         `json:"hijri"`
}

type nextResponse struct {
	Current   string    `json:"current"`
	Next      string    `json:"next"`
	At        time.Time `json:"at"`
	Remaining string    `json:"remaining"`
	Seconds   int64     `json:"seconds"`
	Hijri     string    `json:"hijri"`
}

type qiblahResponse struct {
	Location  salah.Location `json:"location"`
	Direction float64        `json:"direction"`
	Sixty     string         `json:"sixty"`
	Distance  float64        `json:"distance_km"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, state.ErrLocationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, salah.ErrInvalidLocation),
		errors.Is(err, salah.ErrUnreachableAngle):
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// resolve returns the settings for the request, applying the saved location
// named by the "location" query parameter when present.
func (s *Server) resolve(r *http.Request) (Settings, error) {
	settings := s.Settings()
	name := r.URL.Query().Get("location")
	if name == "" {
		return settings, nil
	}
	if s.cfg.Store == nil {
		return Settings{}, fmt.Errorf("%w: %s", state.ErrLocationNotFound, name)
	}
	loc, err := s.cfg.Store.GetLocation(r.Context(), name)
	if err != nil {
		return Settings{}, err
	}
	settings.Location = loc.Coordinates()
	settings.Calculation = loc.Apply(settings.Calculation)
	return settings, nil
}

// dateParam parses the "date" query parameter, defaulting to today in zone.
func (s *Server) dateParam(r *http.Request, zone *time.Location) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.now().In(zone), nil
	}
	date, err := time.ParseInLocation(time.DateOnly, raw, zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", errBadRequest, raw)
	}
	return date, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTimes(w http.ResponseWriter, r *http.Request) {
	settings, err := s.resolve(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	date, err := s.dateParam(r, settings.Location.Zone())
	if err != nil {
		s.writeError(w, err)
		return
	}

	times, err := salah.NewSchedule(settings.Location).
		On(date).
		WithConfig(settings.Calculation).
		Calculate()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newTimesResponse(times, settings))
}

func newTimesResponse(times *salah.Times, settings Settings) timesResponse {
	return timesResponse{
		Times:   times,
		Method:  settings.Calculation.Method.String(),
		Madhab:  settings.Calculation.Madhab.String(),
		Prayers: times.Prayers(),
		Hijri:   hijri.FromGregorian(times.Date, settings.HijriCorrection),
	}
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	settings, err := s.resolve(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	month := s.now().In(settings.Location.Zone())
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = time.Parse("2006-01", raw)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: month %q must be YYYY-MM", errBadRequest, raw))
			return
		}
	}

	days, err := salah.Timetable(settings.Location, settings.Calculation, month.Year(), month.Month())
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := make([]timesResponse, len(days))
	for i, day := range days {
		resp[i] = newTimesResponse(day, settings)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// next computes the current and upcoming prayer at the server's clock.
func (s *Server) next(settings Settings) (nextResponse, error) {
	now := s.now()
	times, err := salah.NewSchedule(settings.Location).
		At(now).
		WithConfig(settings.Calculation).
		Calculate()
	if err != nil {
		return nextResponse{}, err
	}

	next := times.NextAt(now)
	remaining := times.TimeRemainingAt(now)
	return nextResponse{
		Current:   times.Name(times.CurrentAt(now)),
		Next:      times.Name(next),
		At:        times.Time(next),
		Remaining: formatRemaining(remaining),
		Seconds:   int64(remaining / time.Second),
		Hijri:     hijri.FromGregorian(times.Date, settings.HijriCorrection).String(),
	}, nil
}

func formatRemaining(d time.Duration) string {
	d = d.Truncate(time.Minute)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	settings, err := s.resolve(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.next(settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHijri(w http.ResponseWriter, r *http.Request) {
	settings, err := s.resolve(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	date, err := s.dateParam(r, settings.Location.Zone())
	if err != nil {
		s.writeError(w, err)
		return
	}

	correction := settings.HijriCorrection
	if raw := r.URL.Query().Get("correction"); raw != "" {
		correction, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: correction %q must be an integer", errBadRequest, raw))
			return
		}
		if correction < -hijri.MaxCorrection || correction > hijri.MaxCorrection {
			s.writeError(w, fmt.Errorf("%w: correction %d out of range [-%d, %d]",
				errBadRequest, correction, hijri.MaxCorrection, hijri.MaxCorrection))
			return
		}
	}
	s.writeJSON(w, http.StatusOK, hijri.FromGregorian(date, correction))
}

func (s *Server) handleQiblah(w http.ResponseWriter, r *http.Request) {
	settings, err := s.resolve(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := qiblah.New(settings.Location)
	s.writeJSON(w, http.StatusOK, qiblahResponse{
		Location:  settings.Location,
		Direction: q.Direction(),
		Sixty:     q.Sixty(),
		Distance:  q.Distance(),
	})
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		s.writeJSON(w, http.StatusOK, []*state.Location{})
		return
	}
	locations, err := s.cfg.Store.ListLocations(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if locations == nil {
		locations = []*state.Location{}
	}
	s.writeJSON(w, http.StatusOK, locations)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if s.cfg.Store == nil {
		s.writeError(w, fmt.Errorf("%w: %s", state.ErrLocationNotFound, name))
		return
	}
	loc, err := s.cfg.Store.GetLocation(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loc)
}

// handleEvents is a long-lived SSE endpoint. It patches the countdown
// signals immediately, on every tick and whenever the settings change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	settings, err := s.resolve(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pinned := r.URL.Query().Get("location") != ""

	sse := datastar.NewSSE(w, r)

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	ticker := time.NewTicker(s.cfg.EventInterval)
	defer ticker.Stop()

	send := func() {
		resp, err := s.next(settings)
		if err != nil {
			_ = sse.ConsoleError(err)
			return
		}
		if err := sse.MarshalAndPatchSignals(resp); err != nil {
			s.logger.Debug("failed to patch signals", "error", err)
		}
	}
	send()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if !pinned {
				settings = s.Settings()
			}
			send()
		case <-ticker.C:
			send()
		}
	}
}
