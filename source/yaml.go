/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	stdpath "path"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"dirpx.dev/cfx/apis"
	uref "dirpx.dev/cfx/utils/reflect"
)

// ErrMissingParam is returned when a template is instantiated without one of
// its declared parameters.
var ErrMissingParam = errors.New("cfx(source): missing template parameter")

// ManifestFile is the root structure of a unit manifest.
type ManifestFile struct {
	Units []UnitDef `yaml:"units"`
}

// UnitDef declares a unit in YAML. When Template is true, "${param}"
// references in attribute names, string defaults and method definitions are
// expanded with the instantiation parameters.
type UnitDef struct {
	Name       string           `yaml:"name"`
	Template   bool             `yaml:"template"`
	Params     []string         `yaml:"params"`
	Attributes []apis.Attribute `yaml:"attributes"`
	Methods    []MethodDef      `yaml:"methods"`
	Requires   []string         `yaml:"requires"`
}

// MethodDef declares a method. Exactly one behavior is used:
//   - Returns: the string with "${attr}" expanded from the instance's fields.
//   - Increments: adds the first argument (default 1) to a numeric attribute
//     and returns the new value.
type MethodDef struct {
	Name       string `yaml:"name"`
	Returns    string `yaml:"returns,omitempty"`
	Increments string `yaml:"increments,omitempty"`
}

// getter and setter are the parts of an instance YAML methods rely on.
type getter interface {
	Get(name string) (any, bool)
}

type setter interface {
	getter
	Set(name string, v any) error
}

// LoadYAML reads every *.yaml / *.yml file under dir in fsys into a new
// Catalog.
func LoadYAML(fsys fs.FS, dir string) (*Catalog, error) {
	c := NewCatalog()
	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := stdpath.Ext(path); ext != ".yaml" && ext != ".yml" {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var file ManifestFile
		if err := yaml.Unmarshal(content, &file); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		for _, def := range file.Units {
			if err := c.addDef(def); err != nil {
				return fmt.Errorf("unit %s in %s: %w", def.Name, path, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir is LoadYAML over a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	return LoadYAML(os.DirFS(dir), ".")
}

func (c *Catalog) addDef(def UnitDef) error {
	if !def.Template {
		return c.Add(def.instantiate(nil))
	}
	return c.AddTemplate(def.Name, func(params map[string]any) (apis.Unit, error) {
		for _, p := range def.Params {
			if _, ok := params[p]; !ok {
				return apis.Unit{}, fmt.Errorf("%w: %s needs %q", ErrMissingParam, def.Name, p)
			}
		}
		return def.instantiate(params), nil
	})
}

// instantiate builds the unit, expanding "${param}" when params is non-nil.
func (def UnitDef) instantiate(params map[string]any) apis.Unit {
	expand := func(s string) string {
		if params == nil {
			return s
		}
		return os.Expand(s, func(k string) string { return uref.Render(params[k]) })
	}

	u := apis.Unit{Name: def.Name}
	for _, a := range def.Attributes {
		a.Name = expand(a.Name)
		if s, ok := a.Default.(string); ok {
			a.Default = expand(s)
		}
		u.Attributes = append(u.Attributes, a)
	}
	for _, m := range def.Methods {
		u.Methods = append(u.Methods, apis.Method{
			Name: expand(m.Name),
			Fn:   methodFunc(expand(m.Returns), expand(m.Increments)),
		})
	}
	for _, r := range def.Requires {
		u.Requires = append(u.Requires, expand(r))
	}
	return u
}

func methodFunc(returns, increments string) apis.MethodFunc {
	if increments != "" {
		return func(self any, args ...any) (any, error) {
			obj, ok := self.(setter)
			if !ok {
				return nil, fmt.Errorf("cfx(source): %T cannot hold attributes", self)
			}
			step := 1
			if len(args) > 0 {
				step = cast.ToInt(args[0])
			}
			cur, _ := obj.Get(increments)
			next := cast.ToInt(cur) + step
			if err := obj.Set(increments, next); err != nil {
				return nil, err
			}
			return next, nil
		}
	}
	return func(self any, _ ...any) (any, error) {
		obj, ok := self.(getter)
		if !ok {
			return returns, nil
		}
		return os.Expand(returns, func(k string) string {
			v, _ := obj.Get(k)
			return uref.Render(v)
		}), nil
	}
}
