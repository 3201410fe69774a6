package main

// rcsgraph program
// This processes an RCS ,v file and writes a graph file (graphviz dot
// format) showing the trunk/branch structure of its revisions, and
// optionally renders it to an image.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ben-cohen/editrcs/num"
	"github.com/ben-cohen/editrcs/rcs"
	"github.com/emicklei/dot"
	"github.com/goccy/go-graphviz"

	"github.com/perforce/p4prometheus/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

// RcsGraph - renders the delta graph of one ,v file
type RcsGraph struct {
	logger *logrus.Logger
	rcs    *rcs.Rcs
	graph  *dot.Graph
	nodes  map[num.Num]dot.Node
}

func NewRcsGraph(logger *logrus.Logger, r *rcs.Rcs) *RcsGraph {
	return &RcsGraph{logger: logger,
		rcs:   r,
		graph: dot.NewGraph(dot.Directed),
		nodes: make(map[num.Num]dot.Node)}
}

func (g *RcsGraph) node(rev num.Num) dot.Node {
	if n, ok := g.nodes[rev]; ok {
		return n
	}
	label := string(rev)
	if d, err := g.rcs.Delta(rev); err == nil {
		label = fmt.Sprintf("%s\n%s %s", rev, d.Author, d.State)
	}
	n := g.graph.Node(label)
	g.nodes[rev] = n
	return n
}

// Build creates one node per revision with "n" edges along next links and
// "b" edges from each revision to its branch heads.
func (g *RcsGraph) Build() {
	for _, rev := range g.rcs.Revisions() {
		d, err := g.rcs.Delta(rev)
		if err != nil {
			g.logger.Errorf("Missing delta: %s", rev)
			continue
		}
		from := g.node(rev)
		if d.Next != "" {
			g.graph.Edge(from, g.node(d.Next), "n")
		}
		for _, b := range d.Branches {
			g.graph.Edge(from, g.node(b), "b")
		}
	}
}

func render(logger *logrus.Logger, dotBytes []byte, imageFile string) {
	g := graphviz.New()
	graph, err := graphviz.ParseBytes(dotBytes)
	if err != nil {
		logger.Fatalf("Failed to parse dot output: %v", err)
	}
	format := graphviz.PNG
	if filepath.Ext(imageFile) == ".svg" {
		format = graphviz.SVG
	}
	if err := g.RenderFilename(graph, format, imageFile); err != nil {
		logger.Fatalf("Failed to render %s: %v", imageFile, err)
	}
}

func main() {
	var (
		rcsFile = kingpin.Arg(
			"rcsfile",
			"RCS ,v file to graph.",
		).Required().String()
		outputGraph = kingpin.Flag(
			"output",
			"Graphviz dot file to output revision structure to.",
		).Short('o').Required().String()
		imageFile = kingpin.Flag(
			"render",
			"Optional image file (.png or .svg) to render via graphviz.",
		).String()
		debug = kingpin.Flag(
			"debug",
			"Enable debugging level.",
		).Int()
	)
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version(version.Print("rcsgraph")).Author("Ben Cohen")
	kingpin.CommandLine.Help = "Parses an RCS ,v file to create a graphviz DOT file\n"
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := logrus.New()
	logger.Level = logrus.InfoLevel
	if *debug > 0 {
		logger.Level = logrus.DebugLevel
	}
	logger.Infof("%v", version.Print("rcsgraph"))

	data, err := os.ReadFile(*rcsFile)
	if err != nil {
		logger.Fatalf("Failed to read %s: %v", *rcsFile, err)
	}
	r, err := rcs.Parse(data)
	if err != nil {
		logger.Fatalf("Failed to parse %s: %v", *rcsFile, err)
	}
	g := NewRcsGraph(logger, r)
	g.Build()

	f, err := os.OpenFile(*outputGraph, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		logger.Fatal(err)
	}
	defer f.Close()
	dotBytes := []byte(g.graph.String())
	f.Write(dotBytes)
	if *imageFile != "" {
		render(logger, dotBytes, *imageFile)
	}
}
