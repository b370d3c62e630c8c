// handles command-line flags
package config

import (
	"flag"
	"io"
	"path/filepath"
	"strings"
)

const DefaultConfigFile = "folio.yaml"

type Config struct {
	BuildConfig

	ConfigPath string
	BaseURL    string
	Host       string
	Verbose    bool
	NoCache    bool
	IsDev      bool
}

// Load parses args, reads the build config file and applies flag overrides
// on top of it. Directories are made absolute.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configFlag := fs.String("config", DefaultConfigFile, "Path to folio.yaml")
	baseURLFlag := fs.String("baseurl", "", "Base URL")
	compressFlag := fs.Bool("compress", false, "Enable image compression")
	verboseFlag := fs.Bool("verbose", false, "Debug logging")
	contentFlag := fs.String("content", "", "Content directory")
	outputFlag := fs.String("output", "", "Output directory")
	katexFlag := fs.String("katex", "", "Path to katex.min.js for server-side math")
	noCacheFlag := fs.Bool("no-cache", false, "Disable the math cache")
	portFlag := fs.Int("port", 0, "Dev server port")
	hostFlag := fs.String("host", "localhost", "Dev server host/IP to bind to")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	build, err := LoadBuildConfig(*configFlag)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		BuildConfig: *build,
		ConfigPath:  *configFlag,
		BaseURL:     strings.TrimSuffix(*baseURLFlag, "/"),
		Host:        *hostFlag,
		Verbose:     *verboseFlag,
		NoCache:     *noCacheFlag,
	}

	// only flags given on the command line override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "compress":
			cfg.CompressImages = *compressFlag
		case "content":
			cfg.ContentDir = *contentFlag
		case "output":
			cfg.OutputDir = *outputFlag
		case "katex":
			cfg.KatexPath = *katexFlag
		case "port":
			cfg.Port = *portFlag
		}
	})
	cfg.validate()

	for _, dir := range []*string{
		&cfg.ContentDir, &cfg.DataDir, &cfg.Bibliography, &cfg.StaticDir,
		&cfg.TemplateDir, &cfg.OutputDir, &cfg.CacheDir, &cfg.KatexPath,
	} {
		if *dir == "" {
			continue
		}
		if abs, err := filepath.Abs(*dir); err == nil {
			*dir = abs
		}
	}
	return cfg, nil
}

// SetDevMode switches to the dev server profile: output is not minified
// so rebuilds stay fast and asset names stay stable across reloads.
func SetDevMode(cfg *Config, isDev bool) {
	cfg.IsDev = isDev
	if isDev {
		cfg.Minify = false
	}
}
