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

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dirpx.dev/cfx"
	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/builder"
	"dirpx.dev/cfx/internal/logger"
	"dirpx.dev/cfx/internal/tracing"
	"dirpx.dev/cfx/model"
	"dirpx.dev/cfx/resolver"
	"dirpx.dev/cfx/source"
)

// app wires one Compositor and its collaborators for a single command run.
type app struct {
	settings settings
	log      *slog.Logger
	tracer   *tracing.Provider
	catalog  *source.Catalog
	runtime  *model.Runtime
	comp     *cfx.Compositor
	closers  []func() error
}

// newApp loads configuration and builds the composition stack.
func newApp(ctx context.Context, flags *rootFlags) (*app, error) {
	s, err := loadSettings(flags.configFile)
	if err != nil {
		return nil, err
	}
	a := &app{settings: s}

	log, closeLog, err := logger.Setup(s.loggerConfig(flags.logLevel))
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	a.log = log
	a.closers = append(a.closers, closeLog)

	if a.tracer, err = tracing.NewProvider(ctx, s.Tracing); err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	if a.catalog, err = loadCatalog(s.Catalog, log); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	cfg, err := s.compositorConfig()
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	var bld apis.Builder
	switch s.Registry.Backend {
	case backendMemory, "":
		bld = builder.New()
	case backendSQLite:
		bld = builder.SQLite(s.Registry.Path)
	default:
		_ = a.close(ctx)
		return nil, fmt.Errorf("unknown registry backend %q", s.Registry.Backend)
	}

	a.runtime = model.New()
	a.comp, err = cfx.New(cfg, a.runtime, resolver.New(a.catalog),
		cfx.WithBuilder(bld),
		cfx.WithLogger(log),
		cfx.WithTracer(a.tracer.Tracer()),
	)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	if c, ok := a.comp.Registry().(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}
	return a, nil
}

// close releases everything newApp opened, in reverse order.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// loadCatalog reads unit manifests from dir. A missing directory yields an
// empty catalog.
func loadCatalog(dir string, log *slog.Logger) (*source.Catalog, error) {
	if dir == "" {
		return source.NewCatalog(), nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		log.Warn("catalog.missing", slog.String("dir", dir))
		return source.NewCatalog(), nil
	}
	c, err := source.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", dir, err)
	}
	log.Debug("catalog.loaded", slog.String("dir", dir), slog.Int("units", len(c.Names())))
	return c, nil
}

// readRequest decodes a YAML request file: a sequence whose items are either
// scalars (plain units) or {unit, moniker, params} mappings.
func readRequest(path string) (apis.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	var req apis.Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request %s: %w", path, err)
	}
	return req, nil
}

// withApp runs fn against a freshly built app and closes it afterwards.
func withApp(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(ctx); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, a)
}
