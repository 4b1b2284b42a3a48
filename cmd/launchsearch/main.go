package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/launch-search/internal/evolution"
	"github.com/GoSim-25-26J-441/launch-search/internal/report"
	"github.com/GoSim-25-26J-441/launch-search/pkg/config"
	"github.com/GoSim-25-26J-441/launch-search/pkg/logger"
	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

const usage = `usage: launchsearch <command> [flags]

commands:
  search  run the evolutionary search and write the mean fitness and best candidate
  trace   replay a candidate and write its approach trajectory as JSON
  chart   render a mean fitness file as a PNG bar chart
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "search":
		err = runSearch(ctx, os.Args[2:])
	case "trace":
		err = runTrace(os.Args[2:])
	case "chart":
		err = runChart(os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig(path, logLevel string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logger.SetDefault(logger.NewText(logLevel, os.Stderr))
	return cfg, nil
}

func runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "search document")
	meansPath := fs.String("means", "means.txt", "mean fitness output file")
	bestPath := fs.String("best", "best.json", "best candidate output file")
	chartPath := fs.String("chart", "", "optional PNG chart of the fitness history")
	logLevel := fs.String("log-level", "", "log level, overrides the document (debug, info, warn, error)")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath, *logLevel)
	if err != nil {
		return err
	}

	eng, err := evolution.NewEngine(cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	history, err := eng.Run(ctx)
	if err != nil {
		return err
	}
	stats := history.Stats()

	if err := writeFile(*meansPath, func(f *os.File) error { return report.WriteMeanFitness(f, stats) }); err != nil {
		return err
	}

	final, _ := history.Final()
	best, ok := final.Best()
	if !ok {
		return errors.New("search produced an empty population")
	}
	if err := writeFile(*bestPath, func(f *os.File) error { return report.WriteBest(f, best) }); err != nil {
		return err
	}

	if *chartPath != "" {
		if err := report.WriteFitnessChart(*chartPath, stats); err != nil {
			return err
		}
	}

	logger.Info("best candidate", "candidate", best.String(), "seed", eng.Seed(),
		"elapsed", utils.FormatDuration(time.Since(started)))
	return nil
}

func runTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "search document")
	bestPath := fs.String("best", "best.json", "candidate to replay")
	frames := fs.Int("frames", 8000, "maximum number of frames in the trace, 0 keeps every step")
	outPath := fs.String("out", "trace.json", "trace output file")
	logLevel := fs.String("log-level", "", "log level, overrides the document (debug, info, warn, error)")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath, *logLevel)
	if err != nil {
		return err
	}

	f, err := os.Open(*bestPath)
	if err != nil {
		return fmt.Errorf("failed to open candidate: %w", err)
	}
	genome, err := report.ReadBest(f)
	f.Close()
	if err != nil {
		return err
	}

	eng, err := evolution.NewEngine(cfg)
	if err != nil {
		return err
	}
	tr, err := eng.PrepareTrace(genome, *frames)
	if err != nil {
		return err
	}

	if err := writeFile(*outPath, func(f *os.File) error { return report.WriteTrace(f, tr) }); err != nil {
		return err
	}
	logger.Info("trace written", "path", *outPath, "frames", tr.Frames(),
		"launch", utils.FormatEpoch(tr.LaunchTime), "landing", utils.FormatEpoch(tr.LandingTime))
	return nil
}

func runChart(args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	meansPath := fs.String("means", "means.txt", "mean fitness file")
	outPath := fs.String("out", "chart.png", "chart output file")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Parse(args)

	logger.SetDefault(logger.NewText(*logLevel, os.Stderr))

	f, err := os.Open(*meansPath)
	if err != nil {
		return fmt.Errorf("failed to open mean fitness file: %w", err)
	}
	defer f.Close()

	stats, err := report.ReadMeanFitness(f)
	if err != nil {
		return err
	}
	if err := report.WriteFitnessChart(*outPath, stats); err != nil {
		return err
	}
	logger.Info("chart written", "path", *outPath, "generations", len(stats))
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
