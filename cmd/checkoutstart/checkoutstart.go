package main

// checkoutstart program
// Reconstructs the text of the start revision (or any revision given with
// -r) of an RCS ,v file by walking the delta chain from the head and
// applying each stored diff, and writes it to stdout.

import (
	"fmt"
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
			"RCS ,v file to read.",
		).Required().String()
		revision = kingpin.Flag(
			"revision",
			"Revision to check out (default is the start revision).",
		).Short('r').String()
		debug = kingpin.Flag(
			"debug",
			"Enable debugging level.",
		).Int()
	)
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("checkoutstart")).Author("Ben Cohen")
	kingpin.CommandLine.Help = "Reconstructs one revision of an RCS ,v file and prints it\n"
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
	rev := num.Num(*revision)
	if rev == "" {
		rev = r.Start()
	}
	logger.Debugf("Checking out %s of %s (head %s)", rev, *rcsFile, r.Head())
	text, err := r.Checkout(rev)
	if err != nil {
		logger.Fatalf("Failed to check out %s: %v", rev, err)
	}
	fmt.Print(text)
}
