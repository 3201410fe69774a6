package main

// pivotbranch program
// Swaps a branch with the trunk of an RCS ,v file: the branch chain
// becomes the top of the trunk and any trunk revisions above the branch
// point are re-homed onto the vacated branch numeral. Reconstructed texts
// are preserved for every revision.

import (
	"os"

	"github.com/ben-cohen/editrcs/num"
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
		branch = kingpin.Arg(
			"branch",
			"Branch numeral to pivot onto the trunk, e.g. 1.3.1.",
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
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("pivotbranch")).Author("Ben Cohen")
	kingpin.CommandLine.Help = "Swaps a branch with the trunk of an RCS ,v file\n"
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
	if err := r.Pivot(num.Num(*branch)); err != nil {
		logger.Fatalf("Failed to pivot %s: %v", *branch, err)
	}
	logger.Infof("Pivoted %s, new head is %s", *branch, r.Head())

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
