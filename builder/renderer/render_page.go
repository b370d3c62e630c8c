package renderer

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// RenderPage executes the named page template through the layout and
// writes the result to path on DestFs.
func (r *Renderer) RenderPage(path, name string, data models.PageData) (err error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	data.Assets = r.GetAssets()

	if err := r.DestFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := r.DestFs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	bw := utils.SharedBufioWriterPool.Get(f)
	defer utils.SharedBufioWriterPool.Put(bw)

	var w io.Writer = bw
	var mw io.WriteCloser
	if r.Compress {
		mw = utils.Minifier().Writer("text/html", bw)
		w = mw
	}

	if err := r.execute(w, tmpl, data); err != nil {
		r.logger.Error("Failed to render layout", "path", path, "template", name, "error", err)
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if mw != nil {
		if err := mw.Close(); err != nil {
			return fmt.Errorf("failed to minify %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.RegisterFile(path)
	return nil
}

func (r *Renderer) execute(w io.Writer, tmpl *template.Template, data models.PageData) error {
	if !r.WebP {
		return tmpl.ExecuteTemplate(w, layoutTemplate, data)
	}
	sb := utils.SharedStringBuilderPool.Get()
	defer utils.SharedStringBuilderPool.Put(sb)
	if err := tmpl.ExecuteTemplate(sb, layoutTemplate, data); err != nil {
		return err
	}
	_, err := io.WriteString(w, utils.ReplaceToWebP(sb.String()))
	return err
}
