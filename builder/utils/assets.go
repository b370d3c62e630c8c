package utils

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

// BuildAssets runs esbuild over the css and js files under srcDir and writes
// the output under destDir on destFs. esbuild reads its inputs from disk.
// The returned map goes from a source URL such as /static/css/main.css to
// the URL of the emitted file, which carries a content hash when minifying.
func BuildAssets(srcFs, destFs afero.Fs, srcDir, destDir, urlPrefix string, minify bool, onWrite func(string)) (map[string]string, error) {
	assets := make(map[string]string)
	exists, err := afero.DirExists(srcFs, srcDir)
	if err != nil || !exists {
		return assets, err
	}

	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, err
	}
	absOut, err := filepath.Abs(destDir)
	if err != nil {
		return nil, err
	}

	var jsEntryPoints, cssEntryPoints []string
	err = afero.Walk(srcFs, srcDir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := SafeRel(srcDir, p)
		if err != nil {
			return err
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".js":
			jsEntryPoints = append(jsEntryPoints, rel)
		case ".css":
			cssEntryPoints = append(cssEntryPoints, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for assets: %w", err)
	}

	process := func(entryPoints []string, bundle bool) error {
		if len(entryPoints) == 0 {
			return nil
		}
		buildOptions := api.BuildOptions{
			AbsWorkingDir:     absSrc,
			EntryPoints:       entryPoints,
			Bundle:            bundle,
			Write:             false,
			Outdir:            absOut,
			Outbase:           absSrc,
			MinifyWhitespace:  minify,
			MinifyIdentifiers: minify,
			MinifySyntax:      minify,
			Metafile:          true,
			LogLevel:          api.LogLevelSilent,
			Loader: map[string]api.Loader{
				".woff2": api.LoaderFile,
				".woff":  api.LoaderFile,
				".ttf":   api.LoaderFile,
				".png":   api.LoaderFile,
				".jpg":   api.LoaderFile,
				".webp":  api.LoaderFile,
				".svg":   api.LoaderFile,
			},
		}
		if minify {
			buildOptions.EntryNames = "[dir]/[name].[hash]"
			buildOptions.AssetNames = "assets/[name].[hash]"
		}

		result := api.Build(buildOptions)
		if len(result.Errors) > 0 {
			return fmt.Errorf("esbuild failed with %d errors: %s", len(result.Errors), result.Errors[0].Text)
		}

		for _, outFile := range result.OutputFiles {
			rel, err := SafeRel(absOut, outFile.Path)
			if err != nil {
				return err
			}
			target := filepath.Join(destDir, filepath.FromSlash(rel))
			if err := WriteFileVFS(destFs, target, outFile.Contents); err != nil {
				return err
			}
			notify(onWrite, target)
		}

		var meta struct {
			Outputs map[string]struct {
				EntryPoint string `json:"entryPoint"`
			} `json:"outputs"`
		}
		if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
			return fmt.Errorf("failed to parse metafile: %w", err)
		}
		// metafile paths are relative to AbsWorkingDir
		for outPath, outInfo := range meta.Outputs {
			if outInfo.EntryPoint == "" {
				continue
			}
			rel, err := SafeRel(absOut, filepath.Join(absSrc, filepath.FromSlash(outPath)))
			if err != nil {
				return err
			}
			assets[path.Join(urlPrefix, outInfo.EntryPoint)] = path.Join(urlPrefix, rel)
		}
		return nil
	}

	// css is bundled so @import and fonts resolve; js is not, so standalone
	// libraries are not wrapped
	if err := process(cssEntryPoints, true); err != nil {
		return nil, err
	}
	if err := process(jsEntryPoints, false); err != nil {
		return nil, err
	}
	return assets, nil
}
