package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
	Repeat   bool     // may be given more than once
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional words, e.g. shell names
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments (e.g., "*.xbel")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps "command.flag" or "flag" to completion metadata.
// The command-qualified key wins.
var flagCompletionMeta = map[string]completionMeta{
	"format":       {Values: []string{"URL", "XBEL"}},
	"config":       {FileGlob: "*.yaml,*.yml"},
	"xsl":          {FileGlob: "*.xsl,*.xslt"},
	"in":           {FileGlob: "*.xbel,*.xml"},
	"paste.output": {IsDir: true},
	"xslt.output":  {FileGlob: "*"},
}

func lookupMeta(command, name string) (completionMeta, bool) {
	if meta, ok := flagCompletionMeta[command+"."+name]; ok {
		return meta, true
	}
	meta, ok := flagCompletionMeta[name]
	return meta, ok
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(command string, fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "stringArray", "stringSlice":
			fd.Repeat = true
		}

		if meta, ok := lookupMeta(command, f.Name); ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	xslt := extractFlagsFromFlagSet("xslt", newXSLTFlagSet(&xsltFlags{}, io.Discard))
	// --param is split off before pflag sees the arguments.
	xslt = append(xslt, flagDef{
		Long:   "param",
		Desc:   "parameter as NAME VALUE (repeatable)",
		Repeat: true,
	})

	return []commandDef{
		{
			Name:  "paste",
			Desc:  "Save the clipboard address as a bookmark file",
			Flags: extractFlagsFromFlagSet("paste", newPasteFlagSet(&pasteFlags{}, io.Discard)),
		},
		{
			Name:        "xslt",
			Desc:        "Apply an XSLT stylesheet to a bookmark document",
			Flags:       xslt,
			TakesFiles:  true,
			FilePattern: "*.xbel,*.xml",
		},
		{
			Name:        "open",
			Desc:        "Open every bookmark of an XBEL file",
			Flags:       extractFlagsFromFlagSet("open", newOpenFlagSet(&openFlags{}, io.Discard)),
			TakesFiles:  true,
			FilePattern: "*.xbel",
		},
		{
			Name:  "doctor",
			Desc:  "Check clipboard, opener and config",
			Flags: extractFlagsFromFlagSet("doctor", newDoctorFlagSet(&doctorFlags{}, io.Discard)),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: []string{"paste", "xslt", "open", "doctor", "completion", "version"},
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell name", ErrUsage)
	}

	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		if errors.Is(err, ErrUnsupportedShell) {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return err
	}
	return nil
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xbelmark completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(xbelmark completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(xbelmark completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    xbelmark completion fish > ~/.config/fish/completions/xbelmark.fish")
}

// ---------------------------------------------------------------------------
// Script generators
// ---------------------------------------------------------------------------

// globExts turns "*.yaml,*.yml" into ["yaml", "yml"]. A bare "*" yields
// nothing, meaning any file.
func globExts(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext, ok := strings.CutPrefix(strings.TrimSpace(g), "*."); ok && ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords lists every spelling of every flag.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

func bashFileCompgen(glob string) string {
	exts := globExts(glob)
	if len(exts) == 0 {
		return `compgen -f -- "${cur}"`
	}
	return fmt.Sprintf(`compgen -f -X '!*.@(%s)' -- "${cur}"`, strings.Join(exts, "|"))
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for xbelmark\n")
	b.WriteString("_xbelmark_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var valueCases []string
		for _, f := range c.Flags {
			if f.Type == flagBool {
				continue
			}
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern = "-" + f.Short + "|" + pattern
			}
			var action string
			switch f.Type {
			case flagEnum:
				action = fmt.Sprintf(`COMPREPLY=($(compgen -W "%s" -- "${cur}"))`, strings.Join(f.Values, " "))
			case flagFile:
				action = fmt.Sprintf(`COMPREPLY=($(%s))`, bashFileCompgen(f.FileGlob))
			case flagDir:
				action = `COMPREPLY=($(compgen -d -- "${cur}"))`
			default:
				action = "COMPREPLY=()"
			}
			valueCases = append(valueCases, fmt.Sprintf("        %s) %s; return ;;\n", pattern, action))
		}
		if len(valueCases) > 0 {
			b.WriteString("        case \"${prev}\" in\n")
			for _, vc := range valueCases {
				b.WriteString("    " + vc)
			}
			b.WriteString("        esac\n")
		}

		if len(c.Flags) > 0 {
			b.WriteString("        if [[ \"${cur}\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(flagWords(c.Flags), " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(&b, "        COMPREPLY=($(%s))\n", bashFileCompgen(c.FilePattern))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _xbelmark_completions xbelmark\n")
	return b.String()
}

// zshQuote escapes s for use inside a single-quoted zsh word.
func zshQuote(s string) string {
	s = strings.ReplaceAll(s, "'", `'\''`)
	s = strings.ReplaceAll(s, "[", `\[`)
	s = strings.ReplaceAll(s, "]", `\]`)
	s = strings.ReplaceAll(s, ":", `\:`)
	return s
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		if exts := globExts(f.FileGlob); len(exts) > 0 {
			return ":file:_files -g \"*.(" + strings.Join(exts, "|") + ")\""
		}
		return ":file:_files"
	case flagDir:
		return ":directory:_files -/"
	default:
		return ":" + f.Long + ":"
	}
}

func zshSpec(f flagDef) string {
	desc := "[" + zshQuote(f.Desc) + "]" + zshAction(f)
	switch {
	case f.Repeat && f.Short != "":
		return "'*'{-" + f.Short + ",--" + f.Long + "}'" + desc + "'"
	case f.Repeat:
		return "'*--" + f.Long + desc + "'"
	case f.Short != "":
		return "'(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",--" + f.Long + "}'" + desc + "'"
	default:
		return "'--" + f.Long + desc + "'"
	}
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef xbelmark\n\n")
	b.WriteString("_xbelmark() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, strings.ReplaceAll(c.Desc, "'", `'\''`))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		specs := make([]string, 0, len(c.Flags)+1)
		for _, f := range c.Flags {
			specs = append(specs, zshSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			specs = append(specs, "'1:argument:("+strings.Join(c.Args, " ")+")'")
		case c.TakesFiles:
			if exts := globExts(c.FilePattern); len(exts) > 0 {
				specs = append(specs, "'*:file:_files -g \"*.("+strings.Join(exts, "|")+")\"'")
			} else {
				specs = append(specs, "'*:file:_files'")
			}
		}
		if len(specs) == 0 {
			b.WriteString("        ;;\n")
			continue
		}
		b.WriteString("        _arguments \\\n")
		for i, s := range specs {
			b.WriteString("            " + s)
			if i < len(specs)-1 {
				b.WriteString(" \\")
			}
			b.WriteString("\n")
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_xbelmark \"$@\"\n")
	return b.String()
}

// fishQuote single-quotes s for fish.
func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for xbelmark\n\n")
	b.WriteString("function __fish_xbelmark_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_xbelmark_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c xbelmark -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c xbelmark -n __fish_xbelmark_needs_command -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := fishQuote("__fish_xbelmark_using_command " + c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			line := "complete -c xbelmark -n " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long + " -d " + fishQuote(f.Desc)
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			b.WriteString(line + "\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c xbelmark -n %s -a %s\n", cond, fishQuote(strings.Join(c.Args, " ")))
		case c.TakesFiles:
			fmt.Fprintf(&b, "complete -c xbelmark -n %s -F\n", cond)
		}
	}

	return b.String()
}
