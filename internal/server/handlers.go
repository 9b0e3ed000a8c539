// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/common/logger"
	"itinerary-planner/internal/common/metrics"
	"itinerary-planner/internal/common/observability"
	"itinerary-planner/internal/events"
	"itinerary-planner/internal/models"
)

const maxRequestBody = 1 << 20 // 1 MiB

// WeatherProvider supplies the authoritative forecast and local events.
type WeatherProvider interface {
	GetWeatherAndEvents(ctx context.Context, input models.TravelInput) models.WeatherResponse
}

// TransportProvider suggests inter-city transport options.
type TransportProvider interface {
	GetTransportOptions(ctx context.Context, input models.TravelInput) (*models.TransportResponse, error)
}

// ItineraryGenerator runs the full generation pipeline.
type ItineraryGenerator interface {
	GenerateItinerary(ctx context.Context, input models.TravelInput, prefs models.UserPreferences, weather models.WeatherResponse) (*models.ItineraryResponse, error)
}

// Handlers carries the HTTP-facing dependencies.
type Handlers struct {
	weather   WeatherProvider
	transport TransportProvider
	itinerary ItineraryGenerator
	store     *events.Store
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandlers(weather WeatherProvider, transport TransportProvider, itinerary ItineraryGenerator, store *events.Store, obs *observability.Observability, log logger.Logger) *Handlers {
	return &Handlers{
		weather:   weather,
		transport: transport,
		itinerary: itinerary,
		store:     store,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// errorBody matches the error envelope clients expect.
type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Error   string `json:"error,omitempty"`
}

// GenerateItinerary handles POST /api/itinerary: fetch weather and events,
// fetch transport options, run the generation pipeline, and attach the
// transport options to the result. Transport failures degrade to an empty
// option list instead of failing the request.
func (h *Handlers) GenerateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, span := h.obs.StartSpan(r.Context(), "generate-itinerary")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		h.itineraryError(ctx, w, apperrors.NewInvalidInputError("failed to read request body"))
		return
	}
	if err := validateItineraryRequest(body); err != nil {
		h.itineraryError(ctx, w, err)
		return
	}

	var req models.ItineraryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.itineraryError(ctx, w, apperrors.NewInvalidInputError(err.Error()))
		return
	}
	if err := req.TravelInput.Validate(); err != nil {
		h.itineraryError(ctx, w, apperrors.NewInvalidInputError(err.Error()))
		return
	}
	if err := req.UserPreferences.Validate(); err != nil {
		h.itineraryError(ctx, w, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	h.logger.Info("processing itinerary request", map[string]interface{}{
		"destination": req.TravelInput.Destination,
		"startDate":   req.TravelInput.StartDate,
		"returnDate":  req.TravelInput.ReturnDate,
	})

	weatherStart := time.Now()
	weather := h.weather.GetWeatherAndEvents(ctx, req.TravelInput)
	h.obs.RecordStageDuration(ctx, "weather", time.Since(weatherStart))

	if len(weather.WeatherForecast) == 0 {
		h.itineraryError(ctx, w, apperrors.NewWeatherUnavailableError("no forecast available for destination"))
		return
	}

	transportStart := time.Now()
	transportResp, err := h.transport.GetTransportOptions(ctx, req.TravelInput)
	h.obs.RecordStageDuration(ctx, "transport", time.Since(transportStart))
	if err != nil {
		h.logger.Warn("transport options unavailable", map[string]interface{}{"error": err.Error()})
		transportResp = &models.TransportResponse{Options: []models.TransportOption{}}
	}

	generateStart := time.Now()
	itinerary, err := h.itinerary.GenerateItinerary(ctx, req.TravelInput, req.UserPreferences, weather)
	h.obs.RecordStageDuration(ctx, "generate", time.Since(generateStart))
	if err != nil {
		h.itineraryError(ctx, w, err)
		return
	}

	if len(transportResp.Options) > 0 {
		itinerary.TransportOptions = transportResp.Options
	}

	h.obs.RecordRequest(ctx, "success")
	metrics.ItineraryRequests.WithLabelValues("success").Inc()
	h.writeJSON(w, http.StatusOK, itinerary)
}

// Health handles GET /health: verify agents are wired and the required
// credentials are present.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.weather == nil || h.transport == nil || h.itinerary == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "one or more agents not initialized",
		})
		return
	}

	var missing []string
	for _, v := range []string{"GEMINI_API_KEY", "WEATHER_API_KEY", "TICKETMASTER_API_KEY"} {
		if os.Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		h.writeError(r.Context(), w, apperrors.NewConfigMissingError(missing))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

// ListEvents handles GET /api/events.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseEventFilter(r)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	list, err := h.store.List(filter)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// CreateEvent handles POST /api/events.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in events.EventInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	created, err := h.store.Create(in)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// GetEvent handles GET /api/events/:id.
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.store.Get(ps.ByName("id"))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /api/events/:id.
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in events.EventInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	updated, err := h.store.Update(ps.ByName("id"), in)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteEvent handles DELETE /api/events/:id.
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.store.Delete(ps.ByName("id")); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseEventFilter(r *http.Request) (events.Filter, error) {
	q := r.URL.Query()
	var f events.Filter

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, apperrors.NewInvalidInputError("start_date must be RFC3339")
		}
		f.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, apperrors.NewInvalidInputError("end_date must be RFC3339")
		}
		f.EndDate = &t
	}
	if v := q.Get("latitude"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil || lat < -90 || lat > 90 {
			return f, apperrors.NewInvalidInputError("latitude must be between -90 and 90")
		}
		f.Latitude = &lat
	}
	if v := q.Get("longitude"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil || lon < -180 || lon > 180 {
			return f, apperrors.NewInvalidInputError("longitude must be between -180 and 180")
		}
		f.Longitude = &lon
	}
	if v := q.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 || radius > 100 {
			return f, apperrors.NewInvalidInputError("radius must be in (0, 100] kilometers")
		}
		f.RadiusKm = &radius
	}
	if categories, ok := q["categories"]; ok {
		f.Categories = categories
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > 100 {
			return f, apperrors.NewInvalidInputError("limit must be in (0, 100]")
		}
		f.Limit = limit
	}
	return f, nil
}

func decodeBody(r *http.Request, out interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(out); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	return nil
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handlers) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)

	body := errorBody{
		Message: "An unexpected error occurred",
		Type:    string(code),
	}
	var std *apperrors.StandardError
	if errors.As(err, &std) {
		body.Message = std.Message
		body.Error = std.Details
	}

	h.logger.Error("request failed", map[string]interface{}{
		"code":   string(code),
		"status": status,
		"error":  err.Error(),
	})

	h.writeJSON(w, status, body)
}

// itineraryError records a failed generation request before writing the error.
func (h *Handlers) itineraryError(ctx context.Context, w http.ResponseWriter, err error) {
	h.obs.RecordRequest(ctx, "failure")
	metrics.ItineraryRequests.WithLabelValues("failure").Inc()
	h.writeError(ctx, w, err)
}
