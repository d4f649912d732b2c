package domain

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/SeanPesce/JSRETK/internal/adapter"
	"github.com/SeanPesce/JSRETK/internal/controller"
	m "github.com/SeanPesce/JSRETK/internal/model"
)

// Cosmetic replacements applied to generated output. Literal substring
// substitution, order-sensitive, applied once across the whole text.
var cosmeticReplacements = [][2]string{
	{"void 0", "undefined"},
	{"!1", "false"},
	{"!0", "true"},
}

// ProcessArgs configures one uniquify-and-rename batch.
type ProcessArgs struct {
	Uniquify    m.UniquifyOptions
	SmartRename bool
	Smart       m.SmartRenameOptions
	// OutDir and OutSuffix shape the output path for each input.
	OutDir    string
	OutSuffix string
}

// Workflow defines the toolkit's file-level operations. Inputs are always
// processed strictly sequentially, each fully read, transformed and written
// before the next begins.
type Workflow interface {
	// ProcessFiles uniquifies (and optionally smart-renames) every input.
	// A fatal error on one file is recorded in its result and the batch
	// continues; no partial output file is ever written.
	ProcessFiles(inputs []string, args ProcessArgs) ([]m.FileResult, error)
	// ExtractLiterals streams extracted literal values from every input to
	// emit, in source order.
	ExtractLiterals(inputs []string, opts m.ExtractOptions, emit func(string)) error
	// RecoverSources writes the original sources referenced by a compiled
	// file's source map into outDir.
	RecoverSources(input, outDir string) (written, skipped int, err error)
	// FixHermesFile repairs hbc-decompiler output and writes it next to the
	// input (or to outPath when non-empty).
	FixHermesFile(input, outPath string, opts m.FixOptions) (string, error)
}

type workflow struct {
	reader adapter.InputReader
	writer adapter.Writer
	lexer  adapter.Lexer
	parser adapter.Parser
	uniq   *Uniquifier
	smart  *SmartRenamer
	ui     controller.UI
}

// NewWorkflow creates a Workflow instance with the provided adapters.
func NewWorkflow(reader adapter.InputReader, writer adapter.Writer, lexer adapter.Lexer,
	parser adapter.Parser, uniq *Uniquifier, smart *SmartRenamer, ui controller.UI) Workflow {
	return &workflow{
		reader: reader,
		writer: writer,
		lexer:  lexer,
		parser: parser,
		uniq:   uniq,
		smart:  smart,
		ui:     ui,
	}
}

// countingReporter forwards engine events to the UI while keeping per-file
// tallies for the result row.
type countingReporter struct {
	ui      controller.UI
	skipped int
}

func (r *countingReporter) SkippedOccurrence(offset int, name string, err error) {
	r.skipped++
	r.ui.SkippedOccurrence(offset, name, err)
}

func (r *countingReporter) AmbiguousCandidate(amb m.Ambiguity) {
	r.ui.AmbiguousCandidate(amb)
}

func (w *workflow) ProcessFiles(inputs []string, args ProcessArgs) ([]m.FileResult, error) {
	// All argument validation happens before any file is touched.
	if err := args.Uniquify.Validate(); err != nil {
		return nil, err
	}

	if args.SmartRename {
		if err := args.Smart.Validate(); err != nil {
			return nil, err
		}
	}

	results := make([]m.FileResult, 0, len(inputs))

	for _, input := range inputs {
		res := w.processOne(input, args)
		results = append(results, res)
		w.ui.FileDone(res)
	}

	return results, w.ui.Summary(results)
}

func (w *workflow) processOne(input string, args ProcessArgs) m.FileResult {
	res := m.FileResult{Source: input}

	src, err := w.reader.Read(input)
	if err != nil {
		res.Err = err

		return res
	}

	w.ui.StartFile(input, len(src))

	work, hashbang := adapter.StripHashbang(src)

	rep := &countingReporter{ui: w.ui}
	counter := m.NewRenameCounter()

	uniquified, renamed, err := w.uniq.Uniquify(work, args.Uniquify, counter, w.ui.Progress, rep)
	if err != nil {
		res.Err = err
		res.Skipped = rep.skipped

		return res
	}

	res.Uniquified = renamed

	// The engine output is parsed and regenerated even when smart rename
	// is off; reformatting is part of the pipeline. A parse failure here is
	// fatal for this file only.
	prog, err := w.parser.Parse(uniquified)
	if err != nil {
		res.Err = err
		res.Skipped = rep.skipped

		return res
	}

	if args.SmartRename {
		tokens, err := w.lexer.Tokenize(uniquified)
		if err != nil {
			res.Err = fmt.Errorf("tokenize for smart rename: %w", err)
			res.Skipped = rep.skipped

			return res
		}

		count, ambiguous, err := w.smart.Rename(prog, tokens, args.Smart, rep)
		if err != nil {
			res.Err = err
			res.Skipped = rep.skipped

			return res
		}

		res.SmartRenamed = count
		res.Ambiguous = ambiguous
	}

	out := w.parser.Generate(prog)
	out = applyCosmetics(out)
	out = adapter.RestoreHashbang(out, hashbang)

	res.Output = outputPath(input, args.OutDir, args.OutSuffix)
	res.Skipped = rep.skipped

	if err := w.writer.WriteFile(res.Output, []byte(out)); err != nil {
		res.Err = err
		res.Output = ""

		return res
	}

	return res
}

func (w *workflow) ExtractLiterals(inputs []string, opts m.ExtractOptions, emit func(string)) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	for _, input := range inputs {
		src, err := w.reader.Read(input)
		if err != nil {
			return err
		}

		work, _ := adapter.StripHashbang(src)

		tokens, err := w.lexer.Tokenize(work)
		if err != nil {
			return fmt.Errorf("tokenize %s: %w", input, err)
		}

		for value := range Extract(tokens, opts) {
			emit(value)
		}
	}

	return nil
}

func (w *workflow) RecoverSources(input, outDir string) (int, int, error) {
	data, err := w.reader.Read(input)
	if err != nil {
		return 0, 0, err
	}

	mapData := []byte(data)

	// A .js input carries a sourceMappingURL reference instead of the map
	// itself: inline data URIs are decoded, anything else is resolved
	// relative to the input and read through the same reader.
	if !strings.HasSuffix(strings.ToLower(input), ".map") {
		if ref := ExtractSourceMapURL(data); ref != "" {
			decoded, isData, err := DecodeDataURI(ref)
			switch {
			case err != nil:
				return 0, 0, err
			case isData:
				mapData = decoded
			default:
				mapSrc, err := w.reader.Read(resolveMapRef(input, ref))
				if err != nil {
					return 0, 0, err
				}

				mapData = []byte(mapSrc)
			}
		}
	}

	return Unmap(mapData, outDir, w.writer)
}

func (w *workflow) FixHermesFile(input, outPath string, opts m.FixOptions) (string, error) {
	src, err := w.reader.Read(input)
	if err != nil {
		return "", err
	}

	fixed, err := FixHermes(src, opts)
	if err != nil {
		return "", err
	}

	if outPath == "" {
		outPath = input + DefaultFixedExt
	}

	if err := w.writer.WriteFile(outPath, []byte(fixed)); err != nil {
		return "", err
	}

	return outPath, nil
}

func applyCosmetics(src string) string {
	for _, r := range cosmeticReplacements {
		src = strings.ReplaceAll(src, r[0], r[1])
	}

	return src
}

// outputPath derives where the transformed copy of input goes.
func outputPath(input, outDir, suffix string) string {
	base := inputBaseName(input)
	if suffix == "" {
		suffix = ".unique.js"
	}

	return filepath.Join(outDir, base+suffix)
}

// inputBaseName names outputs for URL and stdin inputs as well as paths.
func inputBaseName(input string) string {
	if input == adapter.StdinPath {
		return "stdin"
	}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		if u, err := url.Parse(input); err == nil {
			if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
				return strings.TrimSuffix(base, ".js")
			}

			return u.Hostname()
		}
	}

	return strings.TrimSuffix(filepath.Base(input), ".js")
}

// resolveMapRef resolves a relative sourceMappingURL against its JS file.
func resolveMapRef(input, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		if base, err := url.Parse(input); err == nil {
			if resolved, err := base.Parse(ref); err == nil {
				return resolved.String()
			}
		}

		return ref
	}

	if filepath.IsAbs(ref) {
		return ref
	}

	return filepath.Join(filepath.Dir(input), ref)
}
