package main

// rcsjoin program
// Concatenates the histories of two RCS ,v files. The first file's head
// revision text must equal the second file's start revision text; the
// second file's revisions are renumbered on top of the first file's and
// the combined history is written out.

import (
	"os"

	"github.com/ben-cohen/editrcs/rcs"

	"github.com/perforce/p4prometheus/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func parseFile(logger *logrus.Logger, filename string) *rcs.Rcs {
	data, err := os.ReadFile(filename)
	if err != nil {
		logger.Fatalf("Failed to read %s: %v", filename, err)
	}
	r, err := rcs.Parse(data)
	if err != nil {
		logger.Fatalf("Failed to parse %s: %v", filename, err)
	}
	return r
}

func main() {
	var (
		baseFile = kingpin.Arg(
			"base",
			"RCS ,v file holding the older history.",
		).Required().String()
		joinFile = kingpin.Arg(
			"join",
			"RCS ,v file holding the newer history to append.",
		).Required().String()
		outFile = kingpin.Flag(
			"output",
			"Output file (default stdout).",
		).Short('o').String()
		debug = kingpin.Flag(
			"debug",
			"Enable debugging level.",
		).Int()
	)
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("rcsjoin")).Author("Ben Cohen")
	kingpin.CommandLine.Help = "Joins the histories of two RCS ,v files\n"
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug > 0 {
		logger.Level = logrus.DebugLevel
	}

	base := parseFile(logger, *baseFile)
	join := parseFile(logger, *joinFile)
	logger.Debugf("Joining %s (head %s) with %s (head %s)", *baseFile, base.Head(), *joinFile, join.Head())
	if err := base.Join(join); err != nil {
		logger.Fatalf("Failed to join: %v", err)
	}
	logger.Infof("Joined history head is %s", base.Head())

	out := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			logger.Fatalf("Failed to create %s: %v", *outFile, err)
		}
		defer f.Close()
		out = f
	}
	if _, err := base.WriteTo(out); err != nil {
		logger.Fatalf("Failed to write: %v", err)
	}
}
