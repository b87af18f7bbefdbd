// Package templates embeds the HTML templates of the site.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed *.tmpl partials/*.tmpl
var files embed.FS

// FS returns the embedded templates.
func FS() fs.FS { return files }

// Parse discovers and parses every .tmpl file under fsys.
func Parse(fsys fs.FS, funcs template.FuncMap) (*template.Template, error) {
	var names []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			names = append(names, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("templates: no templates found")
	}
	return template.New("_root").Funcs(funcs).ParseFS(fsys, names...)
}
