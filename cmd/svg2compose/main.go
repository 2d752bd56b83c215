// Copyright 2022 The svg2compose Authors. All rights reserved.

// Command svg2compose converts SVG documents into Kotlin Compose
// ImageVector source. It converts a single file to stdout or a file,
// or a whole directory in batch mode.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	svg2compose "github.com/composevec/svg2compose"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// config is the optional YAML configuration file. Everything in it can
// be left out; flags override it.
type config struct {
	// Template wraps the generated fragment. Placeholders:
	// {{imports}}, {{build_code}}, {{icon_name}}.
	Template     string `yaml:"template"`
	TemplateFile string `yaml:"template_file"`
	GroupImports bool   `yaml:"group_imports"`
	AutoMirror   bool   `yaml:"auto_mirror"`
	// Colors maps color values to replacement tokens, e.g.
	// "#2196F3": "MaterialTheme.colorScheme.primary".
	Colors map[string]string `yaml:"colors"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg config) template() (svg2compose.Template, error) {
	t := svg2compose.DefaultTemplate
	t.GroupImports = cfg.GroupImports
	if cfg.TemplateFile != "" {
		data, err := os.ReadFile(cfg.TemplateFile)
		if err != nil {
			return t, err
		}
		t.Text = string(data)
	} else if cfg.Template != "" {
		t.Text = cfg.Template
	}
	return t, nil
}

func run(args []string) int {
	fs := flag.NewFlagSet("svg2compose", flag.ContinueOnError)
	var (
		name       = fs.String("name", "", "icon name, default derived from the document")
		out        = fs.String("out", "", "output file, default stdout")
		dir        = fs.String("dir", "", "convert every .svg under this directory")
		outDir     = fs.String("outdir", "", "output directory for batch mode")
		configPath = fs.String("config", "", "YAML configuration file")
		preview    = fs.String("preview", "", "also render a PNG preview to this file")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: svg2compose [flags] <icon.svg>\n")
		fmt.Fprintf(fs.Output(), "       svg2compose [flags] -dir icons/ -outdir gen/\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		return 1
	}
	tmpl, err := cfg.template()
	if err != nil {
		slog.Error("loading template", "error", err)
		return 1
	}

	if *dir != "" {
		if *outDir == "" {
			slog.Error("-outdir is required with -dir")
			return 2
		}
		if err := runBatch(*dir, *outDir, cfg, tmpl); err != nil {
			slog.Error("batch conversion failed", "error", err)
			return 1
		}
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	if err := convertFile(fs.Arg(0), *out, *name, *preview, cfg, tmpl); err != nil {
		slog.Error("conversion failed", "file", fs.Arg(0), "error", err)
		return 1
	}
	return 0
}

func convertOne(path, name string, cfg config, tmpl svg2compose.Template) (*svg2compose.Result, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	res, err := svg2compose.Convert(f, svg2compose.Options{
		Name:       name,
		AutoMirror: cfg.AutoMirror,
	})
	if err != nil {
		return nil, "", err
	}
	for _, w := range res.Warnings {
		slog.Warn(w.Message, "kind", w.Kind.String(), "file", path, "offset", w.Offset)
	}

	output := tmpl.Render(res.Code, res.Imports, res.Name)
	if len(cfg.Colors) > 0 {
		output = svg2compose.SubstituteColors(output, cfg.Colors)
	}
	return res, output, nil
}

func convertFile(path, out, name, preview string, cfg config, tmpl svg2compose.Template) error {
	res, output, err := convertOne(path, name, cfg, tmpl)
	if err != nil {
		return err
	}
	if preview != "" {
		if err := writePreview(res, preview); err != nil {
			return err
		}
		slog.Debug("preview written", "file", preview)
	}
	if out == "" {
		_, err := os.Stdout.WriteString(output)
		return err
	}
	return os.WriteFile(out, []byte(output), 0o644)
}

func writePreview(res *svg2compose.Result, path string) error {
	doc := res.Document
	// scale the longer viewport side to 512 pixels
	const side = 512
	w, h := side, side
	if doc.ViewportWidth > doc.ViewportHeight {
		h = int(side * doc.ViewportHeight / doc.ViewportWidth)
	} else if doc.ViewportHeight > doc.ViewportWidth {
		w = int(side * doc.ViewportWidth / doc.ViewportHeight)
	}
	img := svg2compose.Render(doc, w, h)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func runBatch(dir, outDir string, cfg config, tmpl svg2compose.Template) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".svg") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no .svg files found")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(files)), "converting")
	failed := 0
	for _, path := range files {
		// file stem names the icon, overriding document ids for
		// predictable batch output names
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		iconName := svg2compose.PascalCase(stem)
		_, output, err := convertOne(path, iconName, cfg, tmpl)
		if err != nil {
			slog.Warn("skipping file", "file", path, "error", err)
			failed++
			_ = bar.Add(1)
			continue
		}
		outPath := filepath.Join(outDir, iconName+".kt")
		if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	slog.Info("batch done", "converted", len(files)-failed, "failed", failed)
	if failed == len(files) {
		return errors.New("all conversions failed")
	}
	return nil
}
