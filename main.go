package main

// editrcs program
// This processes one or more RCS ,v files and applies the edits given in a
// config file:
//   * author renames (user_mappings)
//   * symbolic name rewrites (symbol_mappings)
//   * strict-lock flag changes
// Files are parsed into the rcs model, edited, and re-emitted. Each input
// file is handled by a pool worker so large trees of ,v files convert in
// parallel.
//
// Notes:
// * RCS archives are text; a head revision that sniffs as an image/archive
//   or similar binary content is almost always a mistake, so we warn.

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/alitto/pond"
	"github.com/ben-cohen/editrcs/config"
	"github.com/ben-cohen/editrcs/rcs"
	"github.com/h2non/filetype"
	"github.com/pkg/profile"

	"github.com/perforce/p4prometheus/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

type EditorOptions struct {
	config   *config.Config
	rcsFiles []string
	suffix   string // Output suffix, "" means edit in place
	dryRun   bool
}

// RcsEditor - applies configured edits to a set of ,v files
type RcsEditor struct {
	logger     *logrus.Logger
	opts       EditorOptions
	testInput  string        // For testing only
	testOutput *bytes.Buffer // For testing only
}

func NewRcsEditor(logger *logrus.Logger, opts *EditorOptions) *RcsEditor {
	return &RcsEditor{logger: logger, opts: *opts}
}

// Warn when revision content sniffs as binary - RCS archives store text.
func (e *RcsEditor) checkBinary(filename string, r *rcs.Rcs) {
	if r.Head() == "" {
		return
	}
	text, err := r.Checkout(r.Head())
	if err != nil || len(text) == 0 {
		return
	}
	l := len(text)
	if l > 261 {
		l = 261
	}
	head := []byte(text[:l])
	if filetype.IsImage(head) || filetype.IsVideo(head) || filetype.IsArchive(head) || filetype.IsAudio(head) || filetype.IsDocument(head) {
		kind, _ := filetype.Match(head)
		e.logger.Warnf("Binary content in %s head revision (%s)", filename, kind.Extension)
	}
}

// applyEdits runs the configured edits over one parsed file, returning
// the number of changes made.
func (e *RcsEditor) applyEdits(filename string, r *rcs.Rcs) (int, error) {
	edits := 0
	for _, m := range e.opts.config.UserMappings {
		n := r.RenameUser(m.Old, m.New)
		if n > 0 {
			e.logger.Debugf("RenamedUser: %s %s->%s %d deltas", filename, m.Old, m.New, n)
		}
		edits += n
	}
	if len(e.opts.config.ReSymbolMaps) > 0 {
		syms := r.Symbols()
		changed := false
		for i, s := range syms {
			for _, m := range e.opts.config.ReSymbolMaps {
				if m.ReName.MatchString(s.Name) {
					syms[i].Name = m.Prefix + s.Name
					changed = true
					edits++
					break
				}
			}
		}
		if changed {
			if err := r.SetSymbols(syms); err != nil {
				return edits, err
			}
		}
	}
	if e.opts.config.SetStrict != nil && r.Strict() != *e.opts.config.SetStrict {
		r.SetStrict(*e.opts.config.SetStrict)
		edits++
	}
	return edits, nil
}

// EditFile processes a single ,v file.
func (e *RcsEditor) EditFile(filename string) error {
	var data []byte
	var err error
	if e.testInput != "" {
		data = []byte(e.testInput)
	} else {
		data, err = os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read %s: %v", filename, err)
		}
	}
	r, err := rcs.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %v", filename, err)
	}
	e.checkBinary(filename, r)
	edits, err := e.applyEdits(filename, r)
	if err != nil {
		return fmt.Errorf("failed to edit %s: %v", filename, err)
	}
	out := r.String()
	// Editing must never corrupt an archive - reparse before writing.
	if _, err := rcs.Parse([]byte(out)); err != nil {
		return fmt.Errorf("edited output of %s does not reparse: %v", filename, err)
	}
	e.logger.Infof("Edited: %s, %d changes", filename, edits)
	if e.opts.dryRun {
		return nil
	}
	if e.testInput != "" {
		e.testOutput = bytes.NewBufferString(out)
		return nil
	}
	outName := filename + e.opts.suffix
	if err := os.WriteFile(outName, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", outName, err)
	}
	return nil
}

// Run edits all the files, pooling the work.
func (e *RcsEditor) Run() int {
	poolSize := runtime.NumCPU()
	pool := pond.New(poolSize, 0, pond.MinWorkers(4))
	errCount := 0
	results := make(chan error, len(e.opts.rcsFiles))
	for _, f := range e.opts.rcsFiles {
		pool.Submit(
			func(filename string) func() {
				return func() {
					results <- e.EditFile(filename)
				}
			}(f))
	}
	pool.StopAndWait()
	close(results)
	for err := range results {
		if err != nil {
			e.logger.Errorf("%v", err)
			errCount++
		}
	}
	return errCount
}

func main() {
	var (
		configFile = kingpin.Flag(
			"config",
			"Config file for editrcs.",
		).Default("editrcs.yaml").Short('c').String()
		rcsFiles = kingpin.Arg(
			"rcsfiles",
			"RCS ,v files to edit.",
		).Strings()
		suffix = kingpin.Flag(
			"suffix",
			"Suffix to append to output filenames (default edits in place).",
		).Short('s').String()
		dryrun = kingpin.Flag(
			"dryrun",
			"Parse, edit and validate but don't write anything.",
		).Short('n').Bool()
		memProfile = kingpin.Flag(
			"memprofile",
			"Write a memory profile to the current directory.",
		).Bool()
		debug = kingpin.Flag(
			"debug",
			"Enable debugging level.",
		).Int()
	)
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("editrcs")).Author("Ben Cohen")
	kingpin.CommandLine.Help = "Applies configured edits to one or more RCS ,v files\n"
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	if *memProfile {
		defer profile.Start(profile.MemProfile).Stop()
	}

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug > 0 {
		logger.Level = logrus.DebugLevel
	}
	cfg, err := config.LoadConfigFile(*configFile)
	if err != nil {
		logger.Errorf("error loading config file: %v", err)
		os.Exit(-1)
	}
	startTime := time.Now()
	logger.Infof("%v", version.Print("editrcs"))
	logger.Infof("Starting %s, files: %v", startTime, *rcsFiles)

	opts := &EditorOptions{
		config:   cfg,
		rcsFiles: *rcsFiles,
		suffix:   *suffix,
		dryRun:   *dryrun,
	}
	e := NewRcsEditor(logger, opts)
	if errCount := e.Run(); errCount > 0 {
		logger.Errorf("Failed to edit %d files", errCount)
		os.Exit(1)
	}
}
