package api

import (
	"encoding/json"
	"net/http"

	"github.com/amterp/palette/internal/colorfmt"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/service"
)

// ColorResponse is one color in a palette, in stored order.
type ColorResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PaletteResponse is the JSON form of a palette.
// Colors are a list so clients don't depend on object key order.
type PaletteResponse struct {
	Key    string          `json:"key"`
	Name   string          `json:"name"`
	Colors []ColorResponse `json:"colors"`
}

func toPaletteResponse(key string, p *model.Palette) PaletteResponse {
	resp := PaletteResponse{Key: key, Name: p.Name, Colors: []ColorResponse{}}
	for k, v := range p.Colors.All() {
		resp.Colors = append(resp.Colors, ColorResponse{Key: k, Value: v})
	}
	return resp
}

func toPaletteResponses(palettes *model.Collection) []PaletteResponse {
	responses := make([]PaletteResponse, 0, palettes.Len())
	for k, p := range palettes.All() {
		if p == nil {
			continue
		}
		responses = append(responses, toPaletteResponse(k, p))
	}
	return responses
}

// Handler contains all HTTP handlers for the API.
//
// Single-user: one PaletteService is shared by every request and every
// connected browser tab.
type Handler struct {
	palettes *service.PaletteService
	settings *service.SettingsService
	doctor   *service.DoctorService
}

// NewHandler creates a new handler. doctor may be nil, which disables the
// doctor route.
func NewHandler(palettes *service.PaletteService, settings *service.SettingsService, doctor *service.DoctorService) *Handler {
	return &Handler{
		palettes: palettes,
		settings: settings,
		doctor:   doctor,
	}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /favicon.svg", h.GetFavicon)

	// Palette routes
	mux.HandleFunc("GET /api/v1/palettes", h.ListPalettes)
	mux.HandleFunc("POST /api/v1/palettes", h.CreatePalette)
	mux.HandleFunc("GET /api/v1/palettes/{key}", h.GetPalette)
	mux.HandleFunc("PATCH /api/v1/palettes/{key}", h.RenamePalette)
	mux.HandleFunc("DELETE /api/v1/palettes/{key}", h.DeletePalette)
	mux.HandleFunc("POST /api/v1/palettes/{key}/reset", h.ResetPalette)

	// Color routes
	mux.HandleFunc("POST /api/v1/palettes/{key}/colors", h.AddColor)
	mux.HandleFunc("PUT /api/v1/palettes/{key}/colors/{ck}", h.UpdateColor)
	mux.HandleFunc("DELETE /api/v1/palettes/{key}/colors/{ck}", h.RemoveColor)
	mux.HandleFunc("GET /api/v1/palettes/{key}/colors/{ck}/formatted", h.FormatColor)

	// Settings routes
	mux.HandleFunc("GET /api/v1/settings", h.ListSettings)
	mux.HandleFunc("PUT /api/v1/settings/{name}", h.UpdateSetting)

	if h.doctor != nil {
		mux.HandleFunc("GET /api/v1/doctor", h.Diagnose)
	}

	// Static files (frontend)
	mux.Handle("/", h.StaticHandler())
}

// --- Palette Handlers ---

// ListPalettes returns every palette, or those whose name contains ?q=.
func (h *Handler) ListPalettes(w http.ResponseWriter, r *http.Request) {
	palettes := h.palettes.Search(r.URL.Query().Get("q"))
	JSON(w, http.StatusOK, toPaletteResponses(palettes))
}

// GetPalette returns a single palette by key.
func (h *Handler) GetPalette(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	p, err := h.palettes.Get(key)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, toPaletteResponse(key, p))
}

// PaletteNameRequest is the JSON body for creating or renaming a palette.
type PaletteNameRequest struct {
	Name *string `json:"name"`
}

// CreatePalette creates an empty palette under the next key.
func (h *Handler) CreatePalette(w http.ResponseWriter, r *http.Request) {
	var req PaletteNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == nil {
		BadRequest(w, "name is required")
		return
	}

	key, err := h.palettes.CreatePalette(*req.Name)
	if err != nil {
		Error(w, err)
		return
	}

	h.respondPalette(w, http.StatusCreated, key)
}

// RenamePalette overwrites a palette's name.
func (h *Handler) RenamePalette(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req PaletteNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == nil {
		BadRequest(w, "name is required")
		return
	}

	if err := h.palettes.RenamePalette(key, *req.Name); err != nil {
		Error(w, err)
		return
	}

	h.respondPalette(w, http.StatusOK, key)
}

// ResetPalette removes every color from a palette.
func (h *Handler) ResetPalette(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := h.palettes.ResetPalette(key); err != nil {
		Error(w, err)
		return
	}

	h.respondPalette(w, http.StatusOK, key)
}

// DeletePalette deletes a palette.
func (h *Handler) DeletePalette(w http.ResponseWriter, r *http.Request) {
	if err := h.palettes.DeletePalette(r.PathValue("key")); err != nil {
		Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Color Handlers ---

// ColorRequest is the JSON body for adding or updating a color.
type ColorRequest struct {
	Value string `json:"value"`
}

// AddColorResponse is returned after a color is added.
type AddColorResponse struct {
	ColorKey string          `json:"color_key"`
	Palette  PaletteResponse `json:"palette"`
}

// AddColor appends a color to a palette.
func (h *Handler) AddColor(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, ok := decodeColor(w, r)
	if !ok {
		return
	}

	colorKey, err := h.palettes.AddColor(key, value)
	if err != nil {
		Error(w, err)
		return
	}

	p, err := h.palettes.Get(key)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, AddColorResponse{
		ColorKey: colorKey,
		Palette:  toPaletteResponse(key, p),
	})
}

// UpdateColor overwrites an existing color.
func (h *Handler) UpdateColor(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, ok := decodeColor(w, r)
	if !ok {
		return
	}

	if err := h.palettes.UpdateColor(key, r.PathValue("ck"), value); err != nil {
		Error(w, err)
		return
	}

	h.respondPalette(w, http.StatusOK, key)
}

// RemoveColor deletes a color from a palette.
func (h *Handler) RemoveColor(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := h.palettes.RemoveColor(key, r.PathValue("ck")); err != nil {
		Error(w, err)
		return
	}

	h.respondPalette(w, http.StatusOK, key)
}

// FormattedColorResponse is a stored color rendered in a color format.
type FormattedColorResponse struct {
	Value     string            `json:"value"`
	Format    model.ColorFormat `json:"format"`
	Formatted string            `json:"formatted"`
}

// FormatColor renders a stored color as the text that insertion would
// produce. ?format= overrides the preferred format.
func (h *Handler) FormatColor(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	colorKey := r.PathValue("ck")

	format := h.settings.PreferredFormat()
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := model.ParseColorFormat(f)
		if err != nil {
			BadRequest(w, err.Error())
			return
		}
		format = parsed
	}

	p, err := h.palettes.Get(key)
	if err != nil {
		Error(w, err)
		return
	}
	value, ok := p.Colors.Get(colorKey)
	if !ok {
		NotFound(w, "color", colorKey)
		return
	}

	formatted, err := colorfmt.Format(value, format)
	if err != nil {
		JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	JSON(w, http.StatusOK, FormattedColorResponse{
		Value:     value,
		Format:    format,
		Formatted: formatted,
	})
}

// --- Settings Handlers ---

// ListSettings returns the editable settings with their current values.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.settings.Options())
}

// SettingRequest is the JSON body for changing a setting.
type SettingRequest struct {
	Value string `json:"value"`
}

// UpdateSetting validates and persists one setting.
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.settings.Set(r.PathValue("name"), req.Value); err != nil {
		Error(w, err)
		return
	}
	h.palettes.SetPolicy(h.settings.NamePolicy())

	JSON(w, http.StatusOK, h.settings.Options())
}

// --- Doctor Handlers ---

// Diagnose runs the read-only consistency checks.
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	report, err := h.doctor.Diagnose()
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, report)
}

func (h *Handler) respondPalette(w http.ResponseWriter, status int, key string) {
	p, err := h.palettes.Get(key)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, status, toPaletteResponse(key, p))
}

func decodeColor(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req ColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return "", false
	}
	if req.Value == "" {
		BadRequest(w, "value is required")
		return "", false
	}
	return req.Value, true
}
