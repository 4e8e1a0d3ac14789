package typescript

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Alia5/annogen/internal/codegen/annotation"
	"github.com/Alia5/annogen/internal/codegen/common"
	"github.com/Alia5/annogen/internal/codegen/meta"
)

var (
	// ErrDuplicateProxy indicates two classes map to the same proxy name.
	ErrDuplicateProxy = errors.New("annogen: duplicate proxy name")
	// ErrTooManyParameters indicates a proxy method with more than one payload parameter.
	ErrTooManyParameters = errors.New("annogen: proxy methods take at most one parameter")
)

const proxyTemplateTS = `{{writeFileHeaderTS}}import { Injectable } from '@angular/core';
import { Http } from '@angular/http';
import { Observable } from 'rxjs/Observable';
import 'rxjs/add/operator/toPromise';
import { ServiceProxyTypes } from './serviceProxy.generated.types';

export module ServiceProxy {
{{range .}}	@Injectable()
	export class {{.Name}} {
		constructor(private http: Http) {}
{{range .Methods}}		public async {{.Name}}({{.Param}}): Promise<{{.ReturnType}}> {
			let response = await this.http.post('{{.Path}}', { data: {{.Arg}} }).toPromise();
			let json = await response.json();
			return json.data as {{.ReturnType}};
		}
{{end}}	}
{{end}}}
`

type proxyClass struct {
	Name    string
	Methods []proxyMethod
}

type proxyMethod struct {
	Name       string
	Param      string // "name: Type" or empty
	Arg        string // name, or undefined
	Path       string
	ReturnType string
}

// Registrar receives the name of every proxy as soon as it is created.
type Registrar interface {
	Add(proxyName string) bool
}

// ProxyEmitter renders generateProxy classes as Angular client stubs.
type ProxyEmitter struct {
	logger  *slog.Logger
	dir     string
	module  Registrar
	proxies []proxyClass
	owners  map[string]string
}

func NewProxyEmitter(logger *slog.Logger, dir string, module Registrar) *ProxyEmitter {
	return &ProxyEmitter{logger: logger, dir: dir, module: module, owners: map[string]string{}}
}

func (e *ProxyEmitter) Name() string { return "proxy" }

func (e *ProxyEmitter) Add(class *meta.ClassMetadata) (bool, error) {
	if !annotation.Has(class.Annotations, annotation.GenerateProxy) {
		return false, nil
	}
	route, err := annotation.StringArg(class.Annotations, annotation.GenerateProxy, 0)
	if err != nil {
		return false, err
	}

	name := common.ProxyName(class.Name)
	if owner, ok := e.owners[name]; ok {
		return false, fmt.Errorf("%w: %s from %s and %s", ErrDuplicateProxy, name, owner, class.Name)
	}
	e.owners[name] = class.Name
	e.module.Add(name)

	proxy := proxyClass{Name: name}
	for _, m := range class.Members {
		if !annotation.Has(m.Annotations, annotation.ProxyMethod) {
			continue
		}
		if !m.IsMethod() {
			e.logger.Warn("proxyMethod on a field is ignored", "class", class.Name, "member", m.Name, "pos", m.Pos)
			continue
		}
		pm, err := e.method(class, m, route)
		if err != nil {
			return false, err
		}
		proxy.Methods = append(proxy.Methods, pm)
	}

	e.proxies = append(e.proxies, proxy)
	e.logger.Debug("Added proxy", "class", class.Name, "proxy", name, "route", route, "methods", len(proxy.Methods))
	return true, nil
}

func (e *ProxyEmitter) method(class *meta.ClassMetadata, m meta.MemberMetadata, route string) (proxyMethod, error) {
	tsName := common.LowerCamel(m.Name)
	pm := proxyMethod{Name: tsName, Arg: "undefined", Path: route + tsName}

	ret, err := common.Project(m.ReturnType, TypesNamespace)
	if err != nil {
		return pm, common.FieldTypeError(err, class.Name, m.Name, m.Pos)
	}
	pm.ReturnType = ret
	e.warnForeign(class, m, m.ReturnType)

	var payload []meta.ParameterMetadata
	for _, p := range m.Parameters {
		if p.Type.IsNamed("context", "Context") {
			continue
		}
		payload = append(payload, p)
	}
	switch len(payload) {
	case 0:
	case 1:
		p := payload[0]
		typ, err := common.Project(p.Type, TypesNamespace)
		if err != nil {
			return pm, common.FieldTypeError(err, class.Name, m.Name, m.Pos)
		}
		argName := p.Name
		if argName == "" || argName == "_" {
			argName = "payload"
		}
		e.warnForeign(class, m, p.Type)
		pm.Param = argName + ": " + typ
		pm.Arg = argName
	default:
		return pm, fmt.Errorf("%w: %s.%s at %s has %d", ErrTooManyParameters, class.Name, m.Name, m.Pos, len(payload))
	}
	return pm, nil
}

func (e *ProxyEmitter) Finish() ([]meta.Artifact, error) {
	out, err := render("proxy", proxyTemplateTS, e.proxies)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Rendered service proxies", "count", len(e.proxies))
	return []meta.Artifact{{Path: filepath.Join(e.dir, ProxyFile), Content: out}}, nil
}

func (e *ProxyEmitter) warnForeign(class *meta.ClassMetadata, m meta.MemberMetadata, t meta.TypeRef) {
	if name, ok := common.Foreign(t); ok {
		e.logger.Warn("Type from another package is typed any", "class", class.Name, "method", m.Name, "type", name, "pos", m.Pos)
	}
}
