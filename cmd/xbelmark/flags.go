package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	xbelmark "github.com/alnah/go-xbelmark"
)

// ErrUsage marks command line parse errors.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pasteFlags holds all flags for the paste command.
type pasteFlags struct {
	common  commonFlags
	format  string
	uri     string
	title   string
	output  string
	indent  int
	spaces  bool
	stdout  bool
	added   bool
	noFetch bool
}

// xsltFlags holds all flags for the xslt command.
type xsltFlags struct {
	common      commonFlags
	stylesheet  string
	input       string
	output      string
	assignments []string
	pairs       []string // collected from --param NAME VALUE
}

// openFlags holds all flags for the open command.
type openFlags struct {
	common  commonFlags
	command string
}

// doctorFlags holds all flags for the doctor command.
type doctorFlags struct {
	config string
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show details")
}

func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseError wraps a pflag error so it maps to ExitUsage.
func parseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// newPasteFlagSet registers the paste command flags into f.
func newPasteFlagSet(f *pasteFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("paste", stderr, printPasteUsage)

	fs.StringVarP(&f.format, "format", "f", "", "bookmark format: URL, XBEL")
	fs.StringVarP(&f.uri, "uri", "u", "", "address to bookmark (default: clipboard)")
	fs.StringVarP(&f.title, "title", "t", "", "bookmark title (default: fetched from the page)")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVar(&f.indent, "indent", 0, "indent XBEL output by n spaces")
	fs.BoolVarP(&f.spaces, "spaces", "s", false, "keep spaces in the file name")
	fs.BoolVar(&f.stdout, "stdout", false, "print the bookmark instead of writing a file")
	fs.BoolVar(&f.added, "added", false, "stamp XBEL bookmarks with the current time")
	fs.BoolVar(&f.noFetch, "no-fetch", false, "never fetch the page title")
	addCommonFlags(fs, &f.common)

	return fs
}

// parsePasteFlags parses paste command flags. The FlagSet is returned so
// callers can tell set flags from defaults.
func parsePasteFlags(args []string, stderr io.Writer) (*pasteFlags, *flag.FlagSet, error) {
	f := &pasteFlags{}
	fs := newPasteFlagSet(f, stderr)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, fs, nil
}

// newXSLTFlagSet registers the xslt command flags into f. --param is not
// among them, see parseXSLTFlags.
func newXSLTFlagSet(f *xsltFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("xslt", stderr, printXSLTUsage)

	fs.StringVar(&f.stylesheet, "xsl", "", "stylesheet path or name")
	fs.StringVar(&f.input, "in", "", "input document path")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringArrayVarP(&f.assignments, "set", "p", nil, "parameter as NAME=VALUE (repeatable)")
	addCommonFlags(fs, &f.common)

	return fs
}

// parseXSLTFlags parses xslt command flags and returns positional args.
// --param takes two values, which pflag cannot express, so those pairs are
// collected before the remaining flags are parsed.
func parseXSLTFlags(args []string, stderr io.Writer) (*xsltFlags, []string, error) {
	pairs, rest, err := extractParamPairs(args)
	if err != nil {
		return nil, nil, err
	}

	f := &xsltFlags{pairs: pairs}
	fs := newXSLTFlagSet(f, stderr)

	if err := fs.Parse(rest); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// extractParamPairs removes every "--param NAME VALUE" triple from args.
// Scanning stops at "--".
func extractParamPairs(args []string) (pairs, rest []string, err error) {
	for i := 0; i < len(args); i++ {
		switch a := args[i]; a {
		case "--":
			return pairs, append(rest, args[i:]...), nil
		case "--param":
			if i+2 >= len(args) {
				return nil, nil, fmt.Errorf("%w: --param needs a name and a value", xbelmark.ErrMalformedParameterList)
			}
			pairs = append(pairs, args[i+1], args[i+2])
			i += 2
		default:
			rest = append(rest, a)
		}
	}
	return pairs, rest, nil
}

func newOpenFlagSet(f *openFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("open", stderr, printOpenUsage)

	fs.StringVar(&f.command, "command", "", "opener command (default: print addresses)")
	addCommonFlags(fs, &f.common)

	return fs
}

// parseOpenFlags parses open command flags and returns positional args.
func parseOpenFlags(args []string, stderr io.Writer) (*openFlags, []string, error) {
	f := &openFlags{}
	fs := newOpenFlagSet(f, stderr)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newDoctorFlagSet(f, stderr)

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

func newDoctorFlagSet(f *doctorFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("doctor", stderr, printDoctorUsage)

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")

	return fs
}
