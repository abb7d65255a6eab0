package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/ra"
)

// completionCtx provides lightweight store access for shell completion.
// Completion functions run during ParseOrExit, before NewApp() is called,
// so we can't use the full App. Reads palettes.json directly and never
// writes defaults.
type completionCtx struct {
	once     sync.Once
	palettes *model.Collection
	err      error
}

var compCtx completionCtx

func initCompletionCtx() {
	compCtx.once.Do(func() {
		s := store.NewPaletteStore(config.DefaultPaths())
		if !s.Exists() {
			compCtx.err = fmt.Errorf("no palettes file")
			return
		}
		compCtx.palettes, compCtx.err = s.Load()
	})
}

// valueFlags are flags that consume the following argument.
var valueFlags = map[string]bool{
	"--format": true, "--file": true, "--line": true, "--col": true,
	"-F": true, "-s": true, "--search": true, "-p": true, "--port": true,
}

// completePalettes returns palette keys and names matching the given prefix.
func completePalettes(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()
	if compCtx.err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	return matchPalettes(compCtx.palettes, toComplete), ra.CompletionDirectiveNoFileComp
}

func matchPalettes(palettes *model.Collection, toComplete string) []string {
	var result []string
	for key, p := range palettes.All() {
		if strings.HasPrefix(key, toComplete) {
			result = append(result, key)
		}
		if p != nil && p.Name != "" && strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(toComplete)) {
			result = append(result, p.Name)
		}
	}
	return result
}

// completeColors returns color keys of the palette named earlier on the
// command line.
func completeColors(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()
	if compCtx.err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	arg := firstPositional(os.Args)
	return matchColors(compCtx.palettes, arg, toComplete), ra.CompletionDirectiveNoFileComp
}

func matchColors(palettes *model.Collection, paletteArg, toComplete string) []string {
	if paletteArg == "" {
		return nil
	}
	key := paletteArg
	if !palettes.Has(key) {
		keys := palettes.FindByName(paletteArg)
		if len(keys) != 1 {
			return nil
		}
		key = keys[0]
	}
	p, _ := palettes.Get(key)
	if p == nil {
		return nil
	}

	var result []string
	for k := range p.Colors.All() {
		if strings.HasPrefix(k, toComplete) {
			result = append(result, k)
		}
	}
	return result
}

// completeFormats returns the color formats matching the given prefix.
func completeFormats(toComplete string) ([]string, ra.CompletionDirective) {
	var result []string
	for _, f := range model.ColorFormats {
		if strings.HasPrefix(string(f), toComplete) {
			result = append(result, string(f))
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// completeSettings returns setting names matching the given prefix.
func completeSettings(toComplete string) ([]string, ra.CompletionDirective) {
	var result []string
	for _, name := range []string{service.SettingPreferredColorFormat, service.SettingUniqueNames} {
		if strings.HasPrefix(name, toComplete) {
			result = append(result, name)
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// commandWords are subcommand names skipped when looking for positionals.
var commandWords = map[string]bool{
	"color": true, "add": true, "update": true, "remove": true,
	"insert": true, "copy": true, "rename": true, "reset": true, "delete": true,
}

// firstPositional returns the first argument after the program name that is
// neither a subcommand, a flag, nor a flag's value.
func firstPositional(args []string) string {
	if len(args) < 2 {
		return ""
	}
	skipNext := false
	for _, arg := range args[1:] {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.HasPrefix(arg, "-") {
			skipNext = valueFlags[arg]
			continue
		}
		if commandWords[arg] {
			continue
		}
		return arg
	}
	return ""
}

// registerCompletion adds the "palette completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
