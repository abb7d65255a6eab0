package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/ra"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check palette data for problems. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Apply automatic fixes for issues with deterministic solutions").
		Register(cmd)

	ctx.DoctorDryRun, _ = ra.NewBool("dry-run").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show what fixes would be applied without making changes").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

// runDoctor reads the files directly instead of going through NewApp, which
// would refuse to load a malformed palettes.json.
func runDoctor(jsonOutput bool, fix bool, dryRun bool) {
	// --fix and --dry-run are mutually exclusive
	if fix && dryRun {
		Fatal(fmt.Errorf("--fix and --dry-run cannot be used together"))
	}

	doctorService := service.NewDoctorService(config.DefaultPaths())

	// Run diagnosis
	report, err := doctorService.Diagnose()
	if err != nil {
		Fatal(err)
	}

	// Apply fixes if requested (not in dry-run mode)
	if fix && len(report.Issues) > 0 {
		report, err = doctorService.Fix(report)
		if err != nil {
			Fatal(err)
		}
	}

	if jsonOutput {
		if err := printJson(report); err != nil {
			Fatal(err)
		}
	} else {
		printDoctorReport(report, fix, dryRun)
	}

	// Exit with status 1 if there are errors
	if report.HasErrors() {
		os.Exit(1)
	}
}

func printDoctorReport(report *service.DiagnosticReport, didFix bool, dryRun bool) {
	fmt.Printf("Checking %s...\n", RenderBold(report.PalettesFile))
	if report.Modified != "" {
		fmt.Printf("  Modified: %s\n", report.Modified)
	}
	colors := 0
	for _, p := range report.Palettes {
		colors += p.Colors
	}
	fmt.Printf("  %d palette(s), %d color(s)\n\n", len(report.Palettes), colors)

	fixed := 0
	if didFix {
		fixed = report.Summary.Fixed
	}
	fixable := countFixable(report.Issues)

	if fixed > 0 {
		PrintSuccess("Fixed %d issue(s)\n", fixed)
	}
	if dryRun && fixable > 0 {
		PrintInfo("Dry run: %d issue(s) would be fixed\n", fixable)
	}

	if len(report.Issues) == 0 {
		if fixed > 0 {
			PrintSuccess("All issues resolved")
		} else {
			PrintSuccess("No issues found")
		}
		return
	}

	// Errors before warnings, otherwise in report order
	issues := slices.Clone(report.Issues)
	slices.SortStableFunc(issues, func(a, b service.Issue) int {
		return severityRank(a.Severity) - severityRank(b.Severity)
	})
	for _, issue := range issues {
		printIssue(issue)
	}

	fmt.Println()
	fmt.Printf("Summary: %s\n", summaryLine(report.Summary, fixed))

	if !didFix && fixable > 0 {
		fmt.Println()
		if dryRun {
			PrintInfo("Run 'palette doctor --fix' to apply these fixes")
		} else {
			PrintInfo("Run 'palette doctor --fix' to apply automatic fixes")
		}
	}
}

func severityRank(s service.IssueSeverity) int {
	if s == service.SeverityError {
		return 0
	}
	return 1
}

func countFixable(issues []service.Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}

func summaryLine(summary service.ReportSummary, fixed int) string {
	var parts []string
	if summary.Errors > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d error(s)", summary.Errors)))
	}
	if summary.Warnings > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d warning(s)", summary.Warnings)))
	}
	if fixed > 0 {
		parts = append(parts, StyleSuccess.Render(fmt.Sprintf("%d fixed", fixed)))
	}
	if summary.FixFailed > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d fix failed", summary.FixFailed)))
	}
	return strings.Join(parts, ", ")
}

func printIssue(issue service.Issue) {
	style, icon := StyleWarning, IconWarning
	if issue.Severity == service.SeverityError {
		style, icon = StyleError, IconError
	}

	location := ""
	if issue.PaletteKey != "" {
		location = " " + RenderKey(issue.PaletteKey)
		if issue.ColorKey != "" {
			location += "/" + RenderKey(issue.ColorKey)
		}
	}

	fmt.Printf("%s %s%s %s\n", style.Render(icon), style.Render("["+issue.Code+"]"), location, issue.Message)

	switch {
	case issue.FixError != "":
		fmt.Printf("  %s Fix failed: %s\n", StyleError.Render(IconInfo), issue.FixError)
	case issue.FixAction != "" && issue.Fixable:
		fmt.Printf("  %s Fix: %s\n", RenderMuted(IconInfo), issue.FixAction)
	case issue.FixAction != "":
		fmt.Printf("  %s %s\n", RenderMuted(IconInfo), issue.FixAction)
	}
}
