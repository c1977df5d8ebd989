// Package gengo provides the Go code generator for compiled catalogs.
package gengo

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/iancoleman/strcase"
	"mvdan.cc/gofumpt/format"

	"github.com/lingui/catalog/compile"
)

const templateGotmpl = `// Code generated by lingui. DO NOT EDIT.
{{- range .HeadComment }}
// {{ . }}
{{- end }}

package {{ .Package }}

import "github.com/lingui/catalog/compile"

// {{ .VarName }} holds the compiled {{ printf "%q" .Locale }} messages.
var {{ .VarName }} = map[string]compile.Instruction{
{{- range .Messages }}
	{{ printf "%q" .ID }}: {{ printf "%#v" .Instruction }},
{{- end }}
}
{{- if .Missing }}

// {{ .VarName }}Missing lists the messages missing a translation.
var {{ .VarName }}Missing = []string{
{{- range .Missing }}
	{{ printf "%q" . }},
{{- end }}
}
{{- end }}
`

var tmpl = template.Must(template.New("gen").Parse(templateGotmpl))

type Options struct {
	Package     string
	Locale      string
	HeadComment []string
}

// Write writes Go source declaring the compiled messages of r as a map
// named after opts.Locale, like CatalogEnUS for "en-US".
func Write(w io.Writer, r compile.Result, opts Options) error {
	type message struct {
		ID          string
		Instruction compile.Instruction
	}
	info := struct {
		Options
		VarName  string
		Messages []message
		Missing  []string
	}{
		Options:  opts,
		VarName:  VarName(opts.Locale),
		Messages: make([]message, 0, len(r.IDs)),
		Missing:  r.Missing,
	}
	for _, id := range r.IDs {
		info.Messages = append(info.Messages, message{ID: id, Instruction: r.Instructions[id]})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, info); err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}
	formatted, err := format.Source(buf.Bytes(), format.Options{})
	if err != nil {
		return fmt.Errorf("formatting generated code: %w", err)
	}
	_, err = w.Write(formatted)
	return err
}

// VarName returns the Go identifier of the catalog of locale.
func VarName(locale string) string {
	return "Catalog" + strcase.ToCamel(locale)
}
