package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/amterp/palette/internal/colorfmt"
	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/palette/internal/util"
	"github.com/amterp/palette/internal/version"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Priority 1: Palettes file integrity (errors)
	CodeMalformedPalettes  = "MALFORMED_PALETTES"
	CodeInvalidPalette     = "INVALID_PALETTE"
	CodeInvalidColorsField = "INVALID_COLORS"
	CodeInvalidColorValue  = "INVALID_COLOR_VALUE"

	// Priority 2: Palette content (warnings)
	CodeMissingPalettesFile  = "MISSING_PALETTES_FILE"
	CodeMissingPaletteName   = "MISSING_PALETTE_NAME"
	CodeNonNumericKey        = "NON_NUMERIC_KEY"
	CodeUnparseableColor     = "UNPARSEABLE_COLOR"
	CodeDuplicatePaletteName = "DUPLICATE_PALETTE_NAME"

	// Priority 3: Settings (warnings)
	CodeMalformedSettings      = "MALFORMED_SETTINGS"
	CodeSettingsSchemaOutdated = "SETTINGS_SCHEMA_OUTDATED"
	CodeInvalidColorFormat     = "INVALID_COLOR_FORMAT"
)

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity   IssueSeverity `json:"severity"`
	Code       string        `json:"code"`
	PaletteKey string        `json:"palette_key,omitempty"`
	ColorKey   string        `json:"color_key,omitempty"`
	Message    string        `json:"message"`
	Fixable    bool          `json:"fixable"`
	FixAction  string        `json:"fix_action,omitempty"`
	FixError   string        `json:"fix_error,omitempty"` // Populated if fix was attempted but failed
}

// PaletteDiagnostic contains stats for a single palette.
type PaletteDiagnostic struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Colors int    `json:"colors"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Fixed     int `json:"fixed"`
	FixFailed int `json:"fix_failed,omitempty"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	PalettesFile string              `json:"palettes_file"`
	Modified     string              `json:"modified,omitempty"`
	Palettes     []PaletteDiagnostic `json:"palettes"`
	Issues       []Issue             `json:"issues"`
	Summary      ReportSummary       `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

func (r *DiagnosticReport) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

func (r *DiagnosticReport) summarize() {
	r.Summary.Errors, r.Summary.Warnings = 0, 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			r.Summary.Errors++
		} else {
			r.Summary.Warnings++
		}
	}
}

// DoctorService validates palette data by reading the files directly, so it
// can report on documents the normal load path would reject.
type DoctorService struct {
	paths *config.Paths
}

// NewDoctorService creates a new diagnostic service.
func NewDoctorService(paths *config.Paths) *DoctorService {
	return &DoctorService{paths: paths}
}

// Diagnose checks palettes.json and this tool's settings table.
func (s *DoctorService) Diagnose() (*DiagnosticReport, error) {
	report := &DiagnosticReport{
		PalettesFile: s.paths.PalettesPath(),
		Palettes:     []PaletteDiagnostic{},
		Issues:       []Issue{},
	}

	s.checkPalettes(report)
	s.checkSettings(report)

	report.summarize()
	return report, nil
}

// Fix applies automatic fixes for issues that have deterministic solutions.
// Returns a new report showing remaining issues and what was fixed.
func (s *DoctorService) Fix(report *DiagnosticReport) (*DiagnosticReport, error) {
	fixed := 0
	fixFailed := 0
	remaining := []Issue{}

	for _, issue := range report.Issues {
		if !issue.Fixable {
			remaining = append(remaining, issue)
			continue
		}

		var err error
		switch issue.Code {
		case CodeMissingPalettesFile:
			err = store.NewPaletteStore(s.paths).Save(model.DefaultCollection())
		case CodeInvalidColorFormat:
			err = s.fixColorFormat()
		default:
			remaining = append(remaining, issue)
			continue
		}

		if err != nil {
			issue.FixError = err.Error()
			remaining = append(remaining, issue)
			fixFailed++
		} else {
			fixed++
		}
	}

	newReport := &DiagnosticReport{
		PalettesFile: report.PalettesFile,
		Modified:     report.Modified,
		Palettes:     report.Palettes,
		Issues:       remaining,
		Summary: ReportSummary{
			Fixed:     fixed,
			FixFailed: fixFailed,
		},
	}
	newReport.summarize()

	return newReport, nil
}

func (s *DoctorService) checkPalettes(report *DiagnosticReport) {
	path := s.paths.PalettesPath()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			report.add(Issue{
				Severity:  SeverityWarning,
				Code:      CodeMissingPalettesFile,
				Message:   "Palettes file does not exist yet",
				Fixable:   true,
				FixAction: "Write the default palettes",
			})
			return
		}
		report.add(Issue{
			Severity: SeverityError,
			Code:     CodeMalformedPalettes,
			Message:  fmt.Sprintf("Cannot stat palettes file: %v", err),
		})
		return
	}
	report.Modified = util.FormatTime(info.ModTime())

	data, err := os.ReadFile(path)
	if err != nil {
		report.add(Issue{
			Severity: SeverityError,
			Code:     CodeMalformedPalettes,
			Message:  fmt.Sprintf("Cannot read palettes file: %v", err),
		})
		return
	}

	var palettes model.OrderedMap[json.RawMessage]
	if err := json.Unmarshal(data, &palettes); err != nil {
		report.add(Issue{
			Severity:  SeverityError,
			Code:      CodeMalformedPalettes,
			Message:   fmt.Sprintf("Invalid JSON: %v", err),
			FixAction: "Edit the file with 'palette open' or delete it to restore defaults",
		})
		return
	}

	namesSeen := make(map[string][]string) // name -> palette keys
	var names []string

	for key, raw := range palettes.All() {
		if _, ok := model.ParseKey(key); !ok {
			report.add(Issue{
				Severity:   SeverityWarning,
				Code:       CodeNonNumericKey,
				PaletteKey: key,
				Message:    fmt.Sprintf("Palette key %q is not numeric and is ignored when numbering new palettes", key),
			})
		}

		diag, ok := s.checkPalette(report, key, raw)
		if !ok {
			continue
		}
		report.Palettes = append(report.Palettes, diag)

		if diag.Name != "" {
			if _, seen := namesSeen[diag.Name]; !seen {
				names = append(names, diag.Name)
			}
			namesSeen[diag.Name] = append(namesSeen[diag.Name], key)
		}
	}

	for _, name := range names {
		keys := namesSeen[name]
		if len(keys) < 2 {
			continue
		}
		report.add(Issue{
			Severity:   SeverityWarning,
			Code:       CodeDuplicatePaletteName,
			PaletteKey: keys[0],
			Message:    fmt.Sprintf("Palette name %q is used by keys %v", name, keys),
			FixAction:  "Rename all but one with 'palette rename'",
		})
	}
}

// checkPalette inspects one palette entry. Returns false if it's too broken
// to describe.
func (s *DoctorService) checkPalette(report *DiagnosticReport, key string, raw json.RawMessage) (PaletteDiagnostic, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		report.add(Issue{
			Severity:   SeverityError,
			Code:       CodeInvalidPalette,
			PaletteKey: key,
			Message:    "Palette is not a JSON object",
		})
		return PaletteDiagnostic{}, false
	}

	diag := PaletteDiagnostic{Key: key}

	var name string
	if rawName, ok := fields["name"]; !ok || json.Unmarshal(rawName, &name) != nil || name == "" {
		report.add(Issue{
			Severity:   SeverityWarning,
			Code:       CodeMissingPaletteName,
			PaletteKey: key,
			Message:    "Palette has no name",
			FixAction:  fmt.Sprintf("Run 'palette rename %s <name>'", key),
		})
	}
	diag.Name = name

	rawColors, ok := fields["colors"]
	if !ok {
		report.add(Issue{
			Severity:   SeverityError,
			Code:       CodeInvalidColorsField,
			PaletteKey: key,
			Message:    "Palette has no colors field",
		})
		return diag, true
	}

	var colors model.OrderedMap[json.RawMessage]
	if err := json.Unmarshal(rawColors, &colors); err != nil {
		report.add(Issue{
			Severity:   SeverityError,
			Code:       CodeInvalidColorsField,
			PaletteKey: key,
			Message:    fmt.Sprintf("Colors is not a JSON object: %v", err),
		})
		return diag, true
	}
	diag.Colors = colors.Len()

	for colorKey, rawValue := range colors.All() {
		if _, ok := model.ParseKey(colorKey); !ok {
			report.add(Issue{
				Severity:   SeverityWarning,
				Code:       CodeNonNumericKey,
				PaletteKey: key,
				ColorKey:   colorKey,
				Message:    fmt.Sprintf("Color key %q is not numeric and is ignored when numbering new colors", colorKey),
			})
		}

		var value string
		if err := json.Unmarshal(rawValue, &value); err != nil {
			report.add(Issue{
				Severity:   SeverityError,
				Code:       CodeInvalidColorValue,
				PaletteKey: key,
				ColorKey:   colorKey,
				Message:    fmt.Sprintf("Color value is not a string: %s", rawValue),
			})
			continue
		}
		if _, err := colorfmt.Parse(value); err != nil {
			report.add(Issue{
				Severity:   SeverityWarning,
				Code:       CodeUnparseableColor,
				PaletteKey: key,
				ColorKey:   colorKey,
				Message:    fmt.Sprintf("Color %q can't be converted to other formats: %v", value, err),
				FixAction:  fmt.Sprintf("Run 'palette color update %s %s <color>'", key, colorKey),
			})
		}
	}

	return diag, true
}

func (s *DoctorService) checkSettings(report *DiagnosticReport) {
	path := s.paths.SettingsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return // Written on first run
		}
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedSettings,
			Message:  fmt.Sprintf("Cannot read settings: %v", err),
		})
		return
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedSettings,
			Message:  fmt.Sprintf("Invalid TOML in settings: %v", err),
		})
		return
	}

	schema, _ := raw["schema"].(string)
	if schema != version.CurrentSettingsSchema() {
		msg := fmt.Sprintf("Settings missing schema version, current is %s", version.CurrentSettingsSchema())
		if schema != "" {
			msg = fmt.Sprintf("Settings have schema %s, current is %s", schema, version.CurrentSettingsSchema())
		}
		report.add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeSettingsSchemaOutdated,
			Message:   msg,
			FixAction: fmt.Sprintf("Set schema = %q in %s", version.CurrentSettingsSchema(), path),
		})
		return
	}

	plugins, _ := raw["plugins"].(map[string]any)
	table, _ := plugins[config.PluginID].(map[string]any)
	format, ok := table["preferred_color_format"].(string)
	if !ok || format == "" {
		return
	}
	if _, err := model.ParseColorFormat(format); err != nil {
		report.add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeInvalidColorFormat,
			Message:   err.Error(),
			Fixable:   true,
			FixAction: fmt.Sprintf("Reset preferred_color_format to %s", model.FormatHex),
		})
	}
}

func (s *DoctorService) fixColorFormat() error {
	settingsStore := store.NewSettingsStore(s.paths)
	shared, err := settingsStore.Load()
	if err != nil {
		return err
	}
	cfg, _, _ := shared.Plugin(config.PluginID)
	cfg.PreferredColorFormat = model.FormatHex
	shared.SetPlugin(config.PluginID, cfg)
	return settingsStore.Save(shared)
}
