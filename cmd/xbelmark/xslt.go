package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	xbelmark "github.com/alnah/go-xbelmark"
	"github.com/alnah/go-xbelmark/internal/assets"
	"github.com/alnah/go-xbelmark/internal/fileutil"
	"github.com/alnah/go-xbelmark/internal/hints"
)

// Sentinel errors for the xslt command.
var (
	ErrNoStylesheet = errors.New("no stylesheet specified")
	ErrNoInput      = errors.New("no input specified")
	ErrWriteOutput  = errors.New("failed to write transform output")
)

// runXSLT applies a stylesheet and writes the result to stdout or a file.
func runXSLT(args []string, env *Environment) error {
	flags, positional, err := parseXSLTFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w%s", err, paramsHint(err))
	}

	cfg, err := resolveConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	stylesheet := flags.stylesheet
	if stylesheet == "" {
		stylesheet = cfg.XSLT.Stylesheet
	}
	if stylesheet == "" {
		return fmt.Errorf("%w: use --xsl with a path or a built-in name (%s), or set xslt.stylesheet in the config",
			ErrNoStylesheet, strings.Join(assets.Names(), ", "))
	}

	input := flags.input
	if input == "" && len(positional) > 0 {
		input = positional[0]
	}
	if input == "" {
		return fmt.Errorf("%w: use --in or pass the document as an argument", ErrNoInput)
	}

	params, err := resolveParams(cfg.XSLT.Params, flags)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForParams())
	}

	start := time.Now()
	out, err := applyStylesheet(stylesheet, cfg.XSLT.StylesheetDir, input, params)
	if err != nil {
		if errors.Is(err, xbelmark.ErrStylesheetLoad) &&
			!errors.Is(err, os.ErrNotExist) &&
			!errors.Is(err, assets.ErrStylesheetNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForStylesheet())
		}
		return err
	}

	if flags.output == "" {
		fmt.Fprint(env.Stdout, out)
		return nil
	}
	if err := fileutil.WriteAtomic(flags.output, out); err != nil {
		return fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Transformed %s with %s in %v\n", input, stylesheet, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// resolveParams merges config params, --param pairs and -p assignments,
// later sources winning.
func resolveParams(fromConfig map[string]string, flags *xsltFlags) (xbelmark.ParameterMap, error) {
	pairs, err := xbelmark.ParseParamPairs(flags.pairs)
	if err != nil {
		return nil, err
	}
	assigned, err := xbelmark.ParseParamAssignments(flags.assignments)
	if err != nil {
		return nil, err
	}
	return xbelmark.ParameterMap(fromConfig).Merge(pairs).Merge(assigned), nil
}

// applyStylesheet runs a stylesheet given as a file path or, when no such
// file exists, as a name looked up in dir and then among the built-ins.
func applyStylesheet(stylesheet, dir, input string, params xbelmark.ParameterMap) (string, error) {
	if !assets.IsAssetName(stylesheet) || fileutil.FileExists(stylesheet) {
		return xbelmark.Apply(stylesheet, input, params)
	}

	resolver, err := assets.NewResolver(dir)
	if err != nil {
		return "", fmt.Errorf("%w: xslt.stylesheetDir: %w", xbelmark.ErrStylesheetLoad, err)
	}
	src, err := resolver.LoadStylesheet(stylesheet)
	if err != nil {
		return "", fmt.Errorf("%w: %w%s", xbelmark.ErrStylesheetLoad, err, hints.ForStylesheetName(resolver.Names()))
	}

	f, err := os.Open(input) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %w", xbelmark.ErrInputDocumentLoad, err)
	}
	defer func() { _ = f.Close() }()

	return xbelmark.TransformReader(strings.NewReader(src), f, params)
}

func paramsHint(err error) string {
	if errors.Is(err, xbelmark.ErrMalformedParameterList) {
		return hints.ForParams()
	}
	return ""
}
