package typescript

import (
	"log/slog"
	"path/filepath"

	"github.com/Alia5/annogen/internal/codegen/annotation"
	"github.com/Alia5/annogen/internal/codegen/common"
	"github.com/Alia5/annogen/internal/codegen/meta"
)

const typesTemplateTS = `{{writeFileHeaderTS}}export module ServiceProxyTypes {
{{range .}}	export interface {{.Name}} {
{{range .Fields}}		{{.Name}}{{if .Optional}}?{{end}}: {{.Type}};
{{end}}	}
{{end}}}
`

type tsInterface struct {
	Name   string
	Fields []tsField
}

type tsField struct {
	Name     string
	Optional bool
	Type     string
}

// TypesEmitter renders proxyType classes as TypeScript interfaces.
type TypesEmitter struct {
	logger     *slog.Logger
	dir        string
	interfaces []tsInterface
}

func NewTypesEmitter(logger *slog.Logger, dir string) *TypesEmitter {
	return &TypesEmitter{logger: logger, dir: dir}
}

func (e *TypesEmitter) Name() string { return "types" }

func (e *TypesEmitter) Add(class *meta.ClassMetadata) (bool, error) {
	if !annotation.Has(class.Annotations, annotation.ProxyType) {
		return false, nil
	}

	iface := tsInterface{Name: class.Name}
	for _, f := range class.Fields() {
		if f.JSONOmitted {
			e.logger.Debug("Skipping field hidden from json", "class", class.Name, "field", f.Name)
			continue
		}
		typ, err := common.Project(f.ReturnType, "")
		if err != nil {
			return false, common.FieldTypeError(err, class.Name, f.Name, f.Pos)
		}
		if name, ok := common.Foreign(f.ReturnType); ok {
			e.logger.Warn("Field type from another package is typed any", "class", class.Name, "field", f.Name, "type", name, "pos", f.Pos)
		}
		iface.Fields = append(iface.Fields, tsField{Name: f.JSONName, Optional: f.IsOptional, Type: typ})
	}
	e.interfaces = append(e.interfaces, iface)
	e.logger.Debug("Added proxy type", "class", class.Name, "fields", len(iface.Fields))
	return true, nil
}

func (e *TypesEmitter) Finish() ([]meta.Artifact, error) {
	out, err := render("types", typesTemplateTS, e.interfaces)
	if err != nil {
		return nil, err
	}
	return []meta.Artifact{{Path: filepath.Join(e.dir, TypesFile), Content: out}}, nil
}
