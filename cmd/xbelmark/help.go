package main

import (
	"fmt"
	"io"

	"github.com/alnah/go-xbelmark/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xbelmark <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  paste      Save the clipboard address as a bookmark file")
	fmt.Fprintln(w, "  xslt       Apply an XSLT stylesheet to a bookmark document")
	fmt.Fprintln(w, "  open       Open every bookmark of an XBEL file")
	fmt.Fprintln(w, "  doctor     Check clipboard, opener and config")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'xbelmark help <command>' for details on a specific command.")
}

// printPasteUsage prints usage for the paste command.
func printPasteUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xbelmark paste [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the address on the clipboard to <title>.url or <title>.xbel.")
	fmt.Fprintln(w, "Existing files are never overwritten.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bookmark:")
	fmt.Fprintln(w, "  -u, --uri <url>           Address to save (default: clipboard)")
	fmt.Fprintln(w, "  -t, --title <s>           Title (default: page <title>, then the address)")
	fmt.Fprintln(w, "      --no-fetch            Never fetch the page title")
	fmt.Fprintln(w, "  -f, --format <s>          Format: URL, XBEL (default: XBEL)")
	fmt.Fprintln(w, "      --added               Stamp XBEL bookmarks with the current time")
	fmt.Fprintln(w, "      --indent <n>          Indent XBEL output (0-8 spaces)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: current)")
	fmt.Fprintln(w, "  -s, --spaces              Keep spaces in the file name")
	fmt.Fprintln(w, "      --stdout              Print the bookmark instead of writing a file")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show details")
}

// printXSLTUsage prints usage for the xslt command.
func printXSLTUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xbelmark xslt --xsl <stylesheet> --in <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Apply an XSLT 1.0 stylesheet. Stylesheets may call")
	fmt.Fprintln(w, "dateTimeToUnix(string) in the ext://xbelmark/datetime namespace.")
	fmt.Fprintln(w, "Besides a file path, --xsl accepts a name: html, markdown, tsv, or")
	fmt.Fprintln(w, "any <name>.xsl found in the config xslt.stylesheetDir.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --xsl <path|name>     Stylesheet (default: config xslt.stylesheet)")
	fmt.Fprintln(w, "      --in <path>           Input document (or first argument)")
	fmt.Fprintln(w, "      --param <name> <val>  Stylesheet parameter (repeatable)")
	fmt.Fprintln(w, "  -p, --set <name=val>      Stylesheet parameter (repeatable)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show details")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Example:")
	fmt.Fprintf(w, "  xbelmark xslt --xsl %s -p heading=Links bookmarks.xbel > bookmarks.html\n", assets.DefaultStylesheetName)
}

// printOpenUsage prints usage for the open command.
func printOpenUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xbelmark open [flags] <file.xbel>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the opener command once per bookmark, or print the addresses")
	fmt.Fprintln(w, "when no opener is configured.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --command <cmd>       Opener, e.g. \"firefox --new-tab\"")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show details")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xbelmark doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the clipboard can be read, the opener is on PATH and")
	fmt.Fprintln(w, "the config and the directories it names are usable.")
	fmt.Fprintln(w, "Exits 1 when a check fails; warnings exit 0.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	if !isCommand(args[0]) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return
	}

	switch args[0] {
	case "paste":
		printPasteUsage(env.Stdout)
	case "xslt":
		printXSLTUsage(env.Stdout)
	case "open":
		printOpenUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: xbelmark version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: xbelmark help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	}
}
