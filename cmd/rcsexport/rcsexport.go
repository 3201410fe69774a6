package main

// rcsexport program
// This processes an RCS ,v file and writes a git fast-import stream of
// its trunk history: one blob+commit per trunk revision, oldest first,
// each revision's text reconstructed by walking the delta chain.

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ben-cohen/editrcs/num"
	"github.com/ben-cohen/editrcs/rcs"
	libfastimport "github.com/rcowham/go-libgitfastimport"

	"github.com/perforce/p4prometheus/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

type MyWriterCloser struct {
	f *os.File
	*bufio.Writer
}

func (mwc *MyWriterCloser) Close() error {
	if err := mwc.Flush(); err != nil {
		return err
	}
	if mwc.f != nil {
		return mwc.f.Close()
	}
	return nil
}

// parseRcsDate converts a dotted RCS date (YY.MM.DD.hh.mm.ss, or a
// 4-digit year for dates from 2000 on) to a UTC time.
func parseRcsDate(date string) (time.Time, error) {
	layout := "06.01.02.15.04.05"
	if i := strings.Index(date, "."); i == 4 {
		layout = "2006.01.02.15.04.05"
	}
	return time.ParseInLocation(layout, date, time.UTC)
}

type RcsExportOptions struct {
	rcsFile    string
	exportFile string
	branchRef  string
	emailHost  string
}

// RcsExporter - writes a ,v trunk history as a git fast-import stream
type RcsExporter struct {
	logger *logrus.Logger
	opts   RcsExportOptions
	rcs    *rcs.Rcs
}

func NewRcsExporter(logger *logrus.Logger, opts RcsExportOptions, r *rcs.Rcs) *RcsExporter {
	return &RcsExporter{logger: logger, opts: opts, rcs: r}
}

// trunk returns the trunk revisions oldest first.
func (e *RcsExporter) trunk() []num.Num {
	var revs []num.Num
	for cur := e.rcs.Head(); cur != ""; {
		revs = append(revs, cur)
		d, err := e.rcs.Delta(cur)
		if err != nil {
			e.logger.Fatalf("Broken chain at %s: %v", cur, err)
		}
		cur = d.Next
	}
	for i, j := 0, len(revs)-1; i < j; i, j = i+1, j-1 {
		revs[i], revs[j] = revs[j], revs[i]
	}
	return revs
}

// Run writes the stream.
func (e *RcsExporter) Run(backend *libfastimport.Backend) {
	name := strings.TrimSuffix(filepath.Base(e.opts.rcsFile), ",v")
	revs := e.trunk()
	mark := 0
	for _, rev := range revs {
		d, err := e.rcs.Delta(rev)
		if err != nil {
			e.logger.Fatalf("Missing delta %s: %v", rev, err)
		}
		text, err := e.rcs.Checkout(rev)
		if err != nil {
			e.logger.Fatalf("Failed to check out %s: %v", rev, err)
		}
		when, err := parseRcsDate(d.Date)
		if err != nil {
			e.logger.Errorf("Bad date on %s: %v", rev, err)
			when = time.Unix(0, 0).UTC()
		}
		mark++
		blobMark := mark
		backend.Do(libfastimport.CmdBlob{Mark: blobMark, Data: text})
		mark++
		ident := libfastimport.Ident{
			Name:  d.Author,
			Email: fmt.Sprintf("%s@%s", d.Author, e.opts.emailHost),
			Time:  when,
		}
		msg := d.Log
		if msg == "" || msg[len(msg)-1] != '\n' {
			msg += "\n"
		}
		commit := libfastimport.CmdCommit{
			Ref:       e.opts.branchRef,
			Mark:      mark,
			Author:    &ident,
			Committer: ident,
			Msg:       msg,
		}
		if mark > 2 {
			commit.From = fmt.Sprintf(":%d", mark-2)
		}
		backend.Do(commit)
		backend.Do(libfastimport.FileModify{
			Mode:    libfastimport.ModeFil,
			Path:    libfastimport.Path(name),
			DataRef: fmt.Sprintf(":%d", blobMark),
		})
		backend.Do(libfastimport.CmdCommitEnd{})
		e.logger.Debugf("Exported %s as commit :%d (%d bytes)", rev, mark, len(text))
	}
	e.logger.Infof("Exported %d trunk revisions of %s", len(revs), e.opts.rcsFile)
}

func main() {
	var (
		rcsFile = kingpin.Arg(
			"rcsfile",
			"RCS ,v file to export.",
		).Required().String()
		exportFile = kingpin.Arg(
			"gitexport",
			"Git fast-import file to write.",
		).Required().String()
		branchRef = kingpin.Flag(
			"branch",
			"Git ref to export onto.",
		).Default("refs/heads/main").Short('b').String()
		emailHost = kingpin.Flag(
			"email.host",
			"Host part for synthesized author emails.",
		).Default("localhost").String()
		debug = kingpin.Flag(
			"debug",
			"Enable debugging level.",
		).Int()
	)
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("rcsexport")).Author("Ben Cohen")
	kingpin.CommandLine.Help = "Exports RCS ,v trunk history as a git fast-import stream\n"
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug > 0 {
		logger.Level = logrus.DebugLevel
	}
	logger.Infof("%v", version.Print("rcsexport"))

	data, err := os.ReadFile(*rcsFile)
	if err != nil {
		logger.Fatalf("Failed to read %s: %v", *rcsFile, err)
	}
	r, err := rcs.Parse(data)
	if err != nil {
		logger.Fatalf("Failed to parse %s: %v", *rcsFile, err)
	}

	outfile, err := os.Create(*exportFile)
	if err != nil {
		logger.Fatalf("Failed to create %s: %v", *exportFile, err)
	}
	mwc := &MyWriterCloser{outfile, bufio.NewWriter(outfile)}
	defer mwc.Close()
	backend := libfastimport.NewBackend(mwc, nil, nil)

	opts := RcsExportOptions{
		rcsFile:    *rcsFile,
		exportFile: *exportFile,
		branchRef:  *branchRef,
		emailHost:  *emailHost,
	}
	e := NewRcsExporter(logger, opts, r)
	e.Run(backend)
	logger.Infof("Output file: %s", *exportFile)
}
