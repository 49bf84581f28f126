// Command markly parses a plain-text markly document and renders it to
// HTML.
package main

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/markly-lang/markly/htmlrender"
	"github.com/markly-lang/markly/internal/config"
	"github.com/markly-lang/markly/markup"
)

var debug bool

// process is the main entry point of the program.
func process(c *cli.Context) error {
	var inputFileName = "index.txt"

	outputFileName := c.String("output")
	dryrun := c.Bool("dryrun")
	debug = c.Bool("debug")

	var z *zap.Logger
	var err error
	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	sugar := z.Sugar()
	defer sugar.Sync()

	if c.Args().Present() {
		inputFileName = c.Args().First()
	} else {
		fmt.Printf("no input file provided, using %q\n", inputFileName)
	}

	if len(outputFileName) == 0 {
		ext := path.Ext(inputFileName)
		if len(ext) == 0 {
			outputFileName = inputFileName + ".html"
		} else {
			outputFileName = strings.Replace(inputFileName, ext, ".html", 1)
		}
	}

	if !dryrun {
		fmt.Printf("processing %v and generating %v\n", inputFileName, outputFileName)
	} else {
		fmt.Printf("dry run: processing %v without writing output\n", inputFileName)
	}

	html, err := renderFile(inputFileName, sugar)
	if err != nil {
		return err
	}

	if dryrun {
		return nil
	}
	return os.WriteFile(outputFileName, []byte(html), 0664)
}

// renderFile reads the YAML front matter, parses the markly body, resolves
// links, and renders the result to an HTML string.
func renderFile(inputFileName string, sugar *zap.SugaredLogger) (string, error) {
	f, err := os.Open(inputFileName)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cfg, rest, err := config.Load(f)
	if err != nil {
		return "", err
	}

	doc, err := markup.Parse(rest, markup.Options{
		Subdocs:  cfg.Subdocs,
		Tabwidth: cfg.Tabwidth,
		Filename: inputFileName,
	})
	if err != nil {
		return "", err
	}

	markup.ResolveLinks(doc, func(link *markup.Element, key, url string) {
		if url == "" {
			sugar.Warnw("link definition not found", "key", key)
		}
		markup.SetLinkHref(link, url)
	})

	if cfg.CodeLanguage != "" {
		tagVerbatimBlocks(doc, cfg.CodeLanguage)
	}

	return htmlrender.NewRenderer(cfg, sugar).RenderString(doc)
}

// tagVerbatimBlocks sets class as every "pre" element's language hint,
// unless a block already carries one of its own.
func tagVerbatimBlocks(e *markup.Element, class string) {
	if e.Tag == "pre" {
		if _, ok := markup.VerbatimClass(e); !ok {
			markup.SetVerbatimClass(e, class)
		}
	}
	for _, c := range e.ChildElements() {
		tagVerbatimBlocks(c, class)
	}
}

func main() {
	app := &cli.App{
		Name:     "markly",
		Version:  "v0.1",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{Name: "markly contributors"},
		},
		Usage:     "process a markly document and produce HTML",
		UsageText: "markly [options] [INPUT_FILE] (default input file is index.txt)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write html to `FILE` (default is input file name with extension .html)",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output file, just process input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}
}
