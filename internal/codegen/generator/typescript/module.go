package typescript

import (
	"log/slog"
	"path/filepath"

	"github.com/Alia5/annogen/internal/codegen/meta"
)

const moduleTemplateTS = `{{writeFileHeaderTS}}import { NgModule } from '@angular/core';
import { ServiceProxy } from './serviceProxy.generated';

@NgModule({
	providers: [
{{range .}}		ServiceProxy.{{.}},
{{end}}	]
})
export class ServiceProxyModule {}
`

// ModuleEmitter lists every proxy as a provider of the Angular module.
type ModuleEmitter struct {
	logger  *slog.Logger
	dir     string
	proxies []string
	seen    map[string]bool
}

func NewModuleEmitter(logger *slog.Logger, dir string) *ModuleEmitter {
	return &ModuleEmitter{logger: logger, dir: dir, seen: map[string]bool{}}
}

func (e *ModuleEmitter) Name() string { return "module" }

// Add registers a proxy name. Repeats are ignored so each provider is listed
// once, in registration order.
func (e *ModuleEmitter) Add(proxyName string) bool {
	if !e.seen[proxyName] {
		e.seen[proxyName] = true
		e.proxies = append(e.proxies, proxyName)
	}
	return true
}

func (e *ModuleEmitter) Finish() ([]meta.Artifact, error) {
	out, err := render("module", moduleTemplateTS, e.proxies)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Rendered proxy module", "providers", len(e.proxies))
	return []meta.Artifact{{Path: filepath.Join(e.dir, ModuleFile), Content: out}}, nil
}
