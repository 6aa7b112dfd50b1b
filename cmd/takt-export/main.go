package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/norppa/takt"
	"github.com/norppa/takt/export"
	"github.com/norppa/takt/version"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] infile\nArrangement file utility: re-emit arrangements as yaml/json, export midi, print a timeline summary.\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	yamlOut := flag.Bool("y", false, "Output the arrangement as a .yml file.")
	jsonOut := flag.Bool("j", false, "Output the arrangement as a .json file.")
	midiOut := flag.Bool("m", false, "Export the arrangement as a .mid file.")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	outPath := flag.String("o", "", "Directory where to write files. By default, everything is placed in the same directory as the input file.")
	scale := flag.Float64("scale", 1, "Horizontal display scale used when printing the snap grid.")
	minWidth := flag.Float64("gridwidth", 18, "Minimum rendered grid interval width in pixels.")
	versionFlag := flag.Bool("v", false, "Print version.")
	help := flag.Bool("h", false, "Show help.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() != 1 || *help {
		flag.Usage()
		os.Exit(0)
	}
	log := logrus.New()

	inPath := flag.Arg(0)
	f, err := os.Open(inPath)
	if err != nil {
		log.WithError(err).Fatal("cannot open input file")
	}
	arr, err := export.ReadArrangement(f)
	f.Close()
	if err != nil {
		log.WithError(err).WithField("file", inPath).Fatal("cannot read arrangement")
	}

	write := func(ext string, emit func(w *os.File) error) {
		var w *os.File
		if *stdout {
			w = os.Stdout
		} else {
			name := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath)) + ext
			dir := filepath.Dir(inPath)
			if *outPath != "" {
				dir = *outPath
			}
			path := filepath.Join(dir, name)
			w, err = os.Create(path)
			if err != nil {
				log.WithError(err).Fatal("cannot create output file")
			}
			defer w.Close()
			log.WithField("file", path).Info("writing")
		}
		if err := emit(w); err != nil {
			log.WithError(err).Fatal("export failed")
		}
	}

	if *yamlOut {
		write(".yml", func(w *os.File) error { return export.WriteArrangement(w, arr) })
	}
	if *jsonOut {
		write(".json", func(w *os.File) error { return export.WriteArrangementJSON(w, arr) })
	}
	if *midiOut {
		write(".mid", func(w *os.File) error { return export.WriteSMF(w, arr) })
	}
	if !*yamlOut && !*jsonOut && !*midiOut {
		printSummary(arr, *scale, *minWidth)
	}
}

func printSummary(arr takt.Arrangement, scale, minWidth float64) {
	ctx := arr.TimeContext()
	grid := takt.ComputeGridSize(scale, arr.Signature, minWidth)
	fmt.Printf("%v/%v at %g BPM, snap grid %s\n", arr.Signature.BeatsPerBar, arr.Signature.BeatUnit, arr.BPM, gridLabel(grid))
	for _, t := range arr.Tracks {
		fmt.Printf("track %q (%d clips, %d lanes)\n", t.Name, len(t.Clips), len(t.Lanes))
		for _, c := range t.Clips {
			bar, beat, tick := c.Start.BarBeatTick(arr.Signature)
			looped := ""
			if c.Looped() {
				looped = " looped"
			}
			fmt.Printf("  %d.%d.%03.0f  %q  %.3fs-%.3fs%s\n", bar+1, beat+1, tick,
				c.Name, c.Start.Seconds(ctx), c.EffectiveEnd().Seconds(ctx), looped)
		}
	}
}

func gridLabel(g takt.GridSize) string {
	switch {
	case g.Measures > 0:
		return fmt.Sprintf("%d bars", g.Measures)
	case g.Beats > 0:
		return fmt.Sprintf("%d beats", g.Beats)
	case g.Fraction >= 1:
		return "1 beat"
	}
	return fmt.Sprintf("1/%.0f beat", 1/g.Fraction)
}
