package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// render produces the formatted accessor file for one schema.
func render(pkgName string, set *SchemaInfo) ([]byte, error) {
	tmpl, err := template.New("hx").Parse(hxTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package string
		Schema  *SchemaInfo
	}{
		Package: pkgName,
		Schema:  set,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format source: %w\n%s", err, buf.Bytes())
	}
	return formatted, nil
}

const hxTemplate = `// Code generated by hxbind generate. DO NOT EDIT.

package {{.Package}}
{{$recv := .Schema.Receiver}}
{{- range .Schema.Instructions}}
{{- if .Multi}}
// {{.Method}} returns the {{.Name}} instruction (marker attribute "{{.Attribute}}") as a list.
func (p *{{$recv}}) {{.Method}}() []string { return p.List("{{.Name}}") }
{{else if .Numeric}}
// {{.Method}} returns the {{.Name}} instruction (marker attribute "{{.Attribute}}") as a number.
func (p *{{$recv}}) {{.Method}}() float64 { return p.Number("{{.Name}}") }
{{else}}
// {{.Method}} returns the {{.Name}} instruction (marker attribute "{{.Attribute}}").
func (p *{{$recv}}) {{.Method}}() (string, bool) { return p.Raw("{{.Name}}") }
{{end}}
{{- end}}`
