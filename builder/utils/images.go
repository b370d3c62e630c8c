package utils

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// CopyOptions controls CopyStatic.
type CopyOptions struct {
	CompressImages bool     // convert jpg/png to resized webp
	SkipExts       []string // lower-case extensions left to other stages
	Workers        int
	CacheDir       string // on-disk webp cache, optional
	Logger         *slog.Logger
	OnWrite        func(path string)
}

// IsConvertibleImage reports whether path is a jpg or png.
func IsConvertibleImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

type copyTask struct {
	src string
	dst string
}

// CopyStatic mirrors srcDir into dstDir on destFs. A missing srcDir copies
// nothing. Image conversion failures fall back to a plain copy.
func CopyStatic(ctx context.Context, srcFs, destFs afero.Fs, srcDir, dstDir string, opts CopyOptions) (int, error) {
	exists, err := afero.DirExists(srcFs, srcDir)
	if err != nil || !exists {
		return 0, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CacheDir != "" {
		if err := os.MkdirAll(opts.CacheDir, 0755); err != nil {
			opts.Logger.Warn("Image cache disabled", "dir", opts.CacheDir, "error", err)
			opts.CacheDir = ""
		}
	}

	skip := make(map[string]bool, len(opts.SkipExts))
	for _, ext := range opts.SkipExts {
		skip[ext] = true
	}

	copied := 0
	pool := NewWorkerPool(ctx, opts.Workers, func(_ context.Context, t copyTask) error {
		if opts.CompressImages && IsConvertibleImage(t.src) {
			target := WebPPath(t.dst)
			err := convertImage(srcFs, destFs, t.src, target, opts.CacheDir)
			if err == nil {
				notify(opts.OnWrite, target)
				return nil
			}
			opts.Logger.Warn("Image conversion failed, copying original", "path", t.src, "error", err)
		}
		if err := copyFile(srcFs, destFs, t.src, t.dst); err != nil {
			return err
		}
		notify(opts.OnWrite, t.dst)
		return nil
	})
	pool.Start()

	walkErr := afero.Walk(srcFs, srcDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if skip[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := SafeRel(srcDir, path)
		if err != nil {
			return err
		}
		copied++
		pool.Submit(copyTask{src: path, dst: filepath.Join(dstDir, rel)})
		return nil
	})
	if err := pool.Stop(); err != nil {
		return 0, err
	}
	if walkErr != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", srcDir, walkErr)
	}
	return copied, nil
}

func notify(fn func(string), path string) {
	if fn != nil {
		fn(path)
	}
}

func copyFile(srcFs, destFs afero.Fs, src, dst string) error {
	if err := destFs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	in, err := srcFs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := destFs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", src, err)
	}
	return nil
}

// convertImage resizes an image down to ImageMaxWidth and encodes it as
// webp. Encoded output is cached on disk by source content hash.
func convertImage(srcFs, destFs afero.Fs, srcPath, dstPath, cacheDir string) error {
	data, err := afero.ReadFile(srcFs, srcPath)
	if err != nil {
		return fmt.Errorf("failed to read source image %s: %w", srcPath, err)
	}

	var cacheFile string
	if cacheDir != "" {
		sum := blake3.Sum256(data)
		cacheFile = filepath.Join(cacheDir, hex.EncodeToString(sum[:16])+".webp")
		if cached, err := os.ReadFile(cacheFile); err == nil {
			return WriteFileVFS(destFs, dstPath, cached)
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image %s: %w", srcPath, err)
	}
	if img.Bounds().Dx() > ImageMaxWidth {
		img = imaging.Resize(img, ImageMaxWidth, 0, imaging.Lanczos)
	}

	buf := SharedBufferPool.Get()
	defer SharedBufferPool.Put(buf)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: WebPQuality}); err != nil {
		return fmt.Errorf("failed to encode webp %s: %w", dstPath, err)
	}

	if cacheFile != "" {
		if err := os.WriteFile(cacheFile, buf.Bytes(), 0644); err != nil {
			slog.Warn("Failed to write image cache", "path", cacheFile, "error", err)
		}
	}
	return WriteFileVFS(destFs, dstPath, buf.Bytes())
}
