package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/palette/testutil"
)

// testAPI provides a complete test environment for API handler tests.
type testAPI struct {
	handler  *Handler
	mux      *http.ServeMux
	palettes *service.PaletteService
	settings *service.SettingsService
	paths    *config.Paths
}

// setupTestAPI creates a test environment with real stores backed by a temp
// directory, seeded with testutil.TestCollection.
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	paths := testutil.TempDataDir(t)
	testutil.SeedPalettes(t, paths, testutil.TestCollection())

	settings := service.NewSettingsService(store.NewSettingsStore(paths))
	if err := settings.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	palettes := service.NewPaletteService(store.NewPaletteStore(paths))
	if _, err := palettes.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	handler := NewHandler(palettes, settings, service.NewDoctorService(paths))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &testAPI{
		handler:  handler,
		mux:      mux,
		palettes: palettes,
		settings: settings,
		paths:    paths,
	}
}

// request makes an HTTP request and returns the response.
func (api *testAPI) request(method, path string, body any) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	return w
}

// decodeJSON decodes the response body into the given target.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

// reloaded reads palettes.json from disk through a fresh store.
func (api *testAPI) reloaded(t *testing.T) *service.PaletteService {
	t.Helper()
	fresh := service.NewPaletteService(store.NewPaletteStore(api.paths))
	if _, err := fresh.Load(); err != nil {
		t.Fatalf("Reload from disk failed: %v", err)
	}
	return fresh
}

func paletteKeys(palettes []PaletteResponse) string {
	keys := make([]string, len(palettes))
	for i, p := range palettes {
		keys[i] = p.Key
	}
	return strings.Join(keys, ",")
}

// ============================================================================
// Palette Endpoint Tests
// ============================================================================

func TestHandler_ListPalettes(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/palettes", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var resp []PaletteResponse
	decodeJSON(t, w, &resp)
	if got := paletteKeys(resp); got != "1,2,3" {
		t.Errorf("Expected keys 1,2,3, got %s", got)
	}
	if len(resp[0].Colors) != 2 || resp[0].Colors[1].Value != "#ff8800" {
		t.Errorf("Unexpected colors for palette 1: %+v", resp[0].Colors)
	}
	if resp[2].Colors == nil {
		t.Error("Expected empty colors list, got null")
	}
}

func TestHandler_ListPalettes_Search(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "1,2,3"},
		{"%20%20", "1,2,3"},
		{"warm", "1"},
		{"O", "2"},
		{"nothing", ""},
	}

	api := setupTestAPI(t)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := api.request("GET", "/api/v1/palettes?q="+tt.query, nil)
			var resp []PaletteResponse
			decodeJSON(t, w, &resp)
			if got := paletteKeys(resp); got != tt.want {
				t.Errorf("q=%q: got keys %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestHandler_GetPalette(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/palettes/2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var p PaletteResponse
	decodeJSON(t, w, &p)
	if p.Key != "2" || p.Name != "Cool" {
		t.Errorf("Unexpected palette: %+v", p)
	}

	w = api.request("GET", "/api/v1/palettes/99", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestHandler_CreatePalette(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("POST", "/api/v1/palettes", map[string]string{"name": "Neon"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var p PaletteResponse
	decodeJSON(t, w, &p)
	if p.Key != "4" || p.Name != "Neon" || len(p.Colors) != 0 {
		t.Errorf("Unexpected palette: %+v", p)
	}

	if _, err := api.reloaded(t).Get("4"); err != nil {
		t.Errorf("Created palette not persisted: %v", err)
	}
}

func TestHandler_CreatePalette_Errors(t *testing.T) {
	tests := []struct {
		name string
		body any
		want int
	}{
		{"duplicate name", map[string]string{"name": "Warm"}, http.StatusConflict},
		{"blank name", map[string]string{"name": "  "}, http.StatusBadRequest},
		{"missing name", map[string]string{}, http.StatusBadRequest},
		{"invalid JSON", "not json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupTestAPI(t)
			w := api.request("POST", "/api/v1/palettes", tt.body)
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
			if api.palettes.Snapshot().Len() != 3 {
				t.Error("Expected no palette to be created")
			}
		})
	}
}

func TestHandler_RenamePalette(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PATCH", "/api/v1/palettes/1", map[string]string{"name": "Hot"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var p PaletteResponse
	decodeJSON(t, w, &p)
	if p.Name != "Hot" || len(p.Colors) != 2 {
		t.Errorf("Unexpected palette after rename: %+v", p)
	}

	w = api.request("PATCH", "/api/v1/palettes/1", map[string]string{"name": "Cool"})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for taken name, got %d", w.Code)
	}

	w = api.request("PATCH", "/api/v1/palettes/42", map[string]string{"name": "X"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestHandler_ResetPalette(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("POST", "/api/v1/palettes/1/reset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var p PaletteResponse
	decodeJSON(t, w, &p)
	if p.Name != "Warm" || len(p.Colors) != 0 {
		t.Errorf("Expected Warm with no colors, got %+v", p)
	}
}

func TestHandler_DeletePalette(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("DELETE", "/api/v1/palettes/2", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if _, err := api.reloaded(t).Get("2"); err == nil {
		t.Error("Expected palette 2 to be gone from disk")
	}

	w = api.request("DELETE", "/api/v1/palettes/2", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}

	// Keys are never reused
	w = api.request("POST", "/api/v1/palettes", map[string]string{"name": "Next"})
	var p PaletteResponse
	decodeJSON(t, w, &p)
	if p.Key != "4" {
		t.Errorf("Expected key 4 after deleting 2, got %q", p.Key)
	}
}

// ============================================================================
// Color Endpoint Tests
// ============================================================================

func TestHandler_AddColor(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("POST", "/api/v1/palettes/1/colors", map[string]string{"value": "rgb(0, 128, 255)"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp AddColorResponse
	decodeJSON(t, w, &resp)
	if resp.ColorKey != "3" {
		t.Errorf("Expected color key 3, got %q", resp.ColorKey)
	}
	if len(resp.Palette.Colors) != 3 || resp.Palette.Colors[2].Value != "rgb(0, 128, 255)" {
		t.Errorf("Unexpected colors: %+v", resp.Palette.Colors)
	}
}

func TestHandler_AddColor_Errors(t *testing.T) {
	api := setupTestAPI(t)

	if w := api.request("POST", "/api/v1/palettes/1/colors", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing value, got %d", w.Code)
	}
	if w := api.request("POST", "/api/v1/palettes/9/colors", map[string]string{"value": "#fff"}); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for absent palette, got %d", w.Code)
	}
}

func TestHandler_UpdateColor(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PUT", "/api/v1/palettes/1/colors/2", map[string]string{"value": "#00ff00"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var p PaletteResponse
	decodeJSON(t, w, &p)
	if p.Colors[1].Key != "2" || p.Colors[1].Value != "#00ff00" {
		t.Errorf("Expected color 2 updated in place, got %+v", p.Colors)
	}

	w = api.request("PUT", "/api/v1/palettes/1/colors/7", map[string]string{"value": "#00ff00"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for absent color, got %d", w.Code)
	}
}

func TestHandler_RemoveColor(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("DELETE", "/api/v1/palettes/1/colors/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var p PaletteResponse
	decodeJSON(t, w, &p)
	if len(p.Colors) != 1 || p.Colors[0].Key != "2" {
		t.Errorf("Expected only color 2 left, got %+v", p.Colors)
	}

	// Max-key rule: 2 is the highest remaining, so the next color is 3
	w = api.request("POST", "/api/v1/palettes/1/colors", map[string]string{"value": "#123456"})
	var resp AddColorResponse
	decodeJSON(t, w, &resp)
	if resp.ColorKey != "3" {
		t.Errorf("Expected color key 3, got %q", resp.ColorKey)
	}
}

func TestHandler_FormatColor(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		code  int
		wants string
	}{
		{"preferred format", "/api/v1/palettes/1/colors/1/formatted", http.StatusOK, "#ff0000"},
		{"rgb override", "/api/v1/palettes/1/colors/1/formatted?format=rgb", http.StatusOK, "rgb(255, 0, 0)"},
		{"hsl override", "/api/v1/palettes/1/colors/1/formatted?format=HSL", http.StatusOK, "hsl(0, 100%, 50%)"},
		{"bad format", "/api/v1/palettes/1/colors/1/formatted?format=cmyk", http.StatusBadRequest, ""},
		{"absent color", "/api/v1/palettes/1/colors/9/formatted", http.StatusNotFound, ""},
		{"absent palette", "/api/v1/palettes/9/colors/1/formatted", http.StatusNotFound, ""},
	}

	api := setupTestAPI(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.request("GET", tt.path, nil)
			if w.Code != tt.code {
				t.Fatalf("Expected status %d, got %d", tt.code, w.Code)
			}
			if tt.code != http.StatusOK {
				return
			}
			var resp FormattedColorResponse
			decodeJSON(t, w, &resp)
			if resp.Formatted != tt.wants {
				t.Errorf("Formatted = %q, want %q", resp.Formatted, tt.wants)
			}
		})
	}
}

func TestHandler_FormatColor_Unparseable(t *testing.T) {
	api := setupTestAPI(t)
	if _, err := api.palettes.AddColor("2", "not-a-color"); err != nil {
		t.Fatal(err)
	}

	w := api.request("GET", "/api/v1/palettes/2/colors/2/formatted", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", w.Code)
	}
}

// ============================================================================
// Settings Endpoint Tests
// ============================================================================

func TestHandler_Settings(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/settings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var opts []service.Option
	decodeJSON(t, w, &opts)
	if len(opts) == 0 || opts[0].Key != service.SettingPreferredColorFormat || opts[0].Value != "hex" {
		t.Errorf("Unexpected options: %+v", opts)
	}

	w = api.request("PUT", "/api/v1/settings/preferredColorFormat", map[string]string{"value": "rgb"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	// Formatting follows the new preference
	w = api.request("GET", "/api/v1/palettes/2/colors/1/formatted", nil)
	var resp FormattedColorResponse
	decodeJSON(t, w, &resp)
	if resp.Formatted != "rgb(0, 0, 255)" {
		t.Errorf("Expected rgb output after setting change, got %q", resp.Formatted)
	}

	if w := api.request("PUT", "/api/v1/settings/preferredColorFormat", map[string]string{"value": "cmyk"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad value, got %d", w.Code)
	}
	if w := api.request("PUT", "/api/v1/settings/nope", map[string]string{"value": "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown setting, got %d", w.Code)
	}
}

func TestHandler_UniqueNamesSettingAppliesImmediately(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PUT", "/api/v1/settings/unique_names", map[string]string{"value": "false"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = api.request("POST", "/api/v1/palettes", map[string]string{"name": "Warm"})
	if w.Code != http.StatusCreated {
		t.Errorf("Expected duplicate name to be allowed, got %d", w.Code)
	}
}

// ============================================================================
// Misc
// ============================================================================

func TestHandler_Doctor(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/doctor", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var report service.DiagnosticReport
	decodeJSON(t, w, &report)
	if report.HasErrors() {
		t.Errorf("Expected healthy report, got %+v", report.Issues)
	}
	if len(report.Palettes) != 3 {
		t.Errorf("Expected 3 palettes described, got %d", len(report.Palettes))
	}
}

func TestHandler_Favicon(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/favicon.svg", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected svg content type, got %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `fill="#ff0000"`) || !strings.Contains(body, `fill="#ff8800"`) {
		t.Errorf("Expected first palette's colors in favicon, got %s", body)
	}
}

func TestGenerateFaviconSVG_FillsMissingCells(t *testing.T) {
	svg := GenerateFaviconSVG(nil)
	if n := strings.Count(svg, `width="16"`); n != 4 {
		t.Errorf("Expected 4 cells, got %d", n)
	}
}

func TestHandler_StaticIndex(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/some/page", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/v1/palettes") {
		t.Error("Expected index.html to be served")
	}
}
