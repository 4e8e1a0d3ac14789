package typescript

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Alia5/annogen/internal/codegen/common"
)

// Output file names, relative to the client directory.
const (
	ProxyFile  = "serviceProxy.generated.ts"
	TypesFile  = "serviceProxy.generated.types.ts"
	ModuleFile = "serviceProxy.generated.module.ts"
)

// TypesNamespace is the module that holds the shared interfaces. Proxy
// signatures refer to named types through it.
const TypesNamespace = "ServiceProxyTypes"

func writeFileHeaderTS() string { return common.FileHeader("//") }

var funcMap = template.FuncMap{
	"writeFileHeaderTS": writeFileHeaderTS,
}

func render(name, text string, data any) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(funcMap).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}
