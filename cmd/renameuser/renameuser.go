package main

// renameuser program
// Rewrites the author of every delta committed by one user to another
// name, leaving everything else untouched.

import (
	"os"

	"github.com/ben-cohen/editrcs/rcs"

	"github.com/perforce/p4prometheus/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	var (
		rcsFile = kingpin.Arg(
			"rcsfile",
			"RCS ,v file to edit.",
		).Required().String()
		oldUser = kingpin.Arg(
			"old",
			"Author name to replace.",
		).Required().String()
		newUser = kingpin.Arg(
			"new",
			"Replacement author name.",
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
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("renameuser")).Author("Ben Cohen")
	kingpin.CommandLine.Help = "Renames a committer in an RCS ,v file\n"
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug > 0 {
		logger.Level = logrus.DebugLevel
	}

	data, err := os.ReadFile(*rcsFile)
	if err != nil {
		logger.Fatalf("Failed to read %s: %v", *rcsFile, err)
	}
	r, err := rcs.Parse(data)
	if err != nil {
		logger.Fatalf("Failed to parse %s: %v", *rcsFile, err)
	}
	n := r.RenameUser(*oldUser, *newUser)
	logger.Infof("Renamed %s to %s on %d deltas", *oldUser, *newUser, n)

	out := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			logger.Fatalf("Failed to create %s: %v", *outFile, err)
		}
		defer f.Close()
		out = f
	}
	if _, err := r.WriteTo(out); err != nil {
		logger.Fatalf("Failed to write: %v", err)
	}
}
