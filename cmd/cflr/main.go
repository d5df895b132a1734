// Command cflr computes a whole-program points-to relation for the given
// packages and prints it.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/andsve/cflr"
	"github.com/andsve/cflr/frontend"
	"github.com/andsve/cflr/pkgutil"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/go/packages"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	dir        = flag.String("dir", "", "alternative directory to run the go build tool in")
	debug      = flag.Bool("debug", false, "print solver debug output")
	objs       = flag.Bool("objs", false, "group the dump by pointer instead of one pair per line")
)

func main() {
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	if flag.NArg() == 0 {
		log.Fatal("specify a package query on the command line")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatalf("failed to close %v: %v", f.Name(), err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	pkgs, err := pkgutil.LoadPackages(&packages.Config{
		Mode:  pkgutil.LoadMode,
		Tests: true,
		Dir:   *dir,
	}, flag.Args()...)
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Infof("loaded %d packages", len(pkgs))

	prog, _ := pkgutil.BuildSSA(pkgs)

	graph, index := frontend.Build(prog)
	log.Infof("pointer assignment graph: %d nodes, %d edges",
		index.NumNodes(), graph.NumEdges())

	solver := cflr.NewSolver(graph)
	solver.Solve()
	log.Infof("saturated graph: %d edges", graph.NumEdges())

	dump(solver.Result(), index)
}

func dump(res cflr.Result, index *frontend.Index) {
	ptr := color.New(color.FgCyan).SprintFunc()

	if *objs {
		var last cflr.Node
		first := true
		res.ForEachPointsTo(func(p, o cflr.Node) {
			if first || p != last {
				fmt.Printf("%s:\n", ptr(index.NameOf(p)))
				first, last = false, p
			}
			fmt.Printf("\t%s\n", index.NameOf(o))
		})
		return
	}

	res.ForEachPointsTo(func(p, o cflr.Node) {
		fmt.Printf("%s -> %s\n", ptr(index.NameOf(p)), index.NameOf(o))
	})
}
