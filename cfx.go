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

package cfx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/canon"
	"dirpx.dev/cfx/config"
	"dirpx.dev/cfx/naming"
)

// instrumentation names the tracer and logger scope of this package.
const instrumentation = "dirpx.dev/cfx"

// Span, event and attribute names.
const (
	SpanCompose    = "cfx.compose"
	SpanResolve    = "cfx.resolve"
	EventCollision = "cfx.collision"

	AttrKey    = "cfx.key"
	AttrName   = "cfx.name"
	AttrHit    = "cfx.memo_hit"
	AttrUnit   = "cfx.unit"
	AttrSerial = "cfx.serial"
)

var (
	// ErrNilRuntime is returned when New is called without a runtime.
	ErrNilRuntime = errors.New("cfx: nil runtime")
	// ErrNilResolver is returned when New is called without a resolver.
	ErrNilResolver = errors.New("cfx: nil resolver")
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("cfx: builder returned nil registry")
	// ErrNilMemo is returned when a builder returns a nil memo.
	ErrNilMemo = errors.New("cfx: builder returned nil memo")
)

// Compositor turns composition requests into frozen composite types and
// memoizes them by canonical key. All state is owned by the instance;
// independent Compositors never share a memo, registry or serial counter.
//
// A Compositor is safe for concurrent use. Memo hits take no lock; builds
// are serialized so a key is built at most once.
type Compositor struct {
	cfg apis.Config
	rt  apis.Runtime
	res apis.Resolver

	memo apis.Memo
	reg  apis.Registry

	// buildMu serializes builds and guards serial.
	buildMu sync.Mutex
	serial  *naming.Serial

	log    *slog.Logger
	tracer trace.Tracer
}

// New validates cfg and constructs a Compositor over rt and res.
func New(cfg apis.Config, rt apis.Runtime, res apis.Resolver, opts ...Option) (*Compositor, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, fmt.Errorf("%w: %w", apis.ErrInvalidConfig, ErrNilRuntime)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: %w", apis.ErrInvalidConfig, ErrNilResolver)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := o.memo
	if m == nil {
		m = o.bld.BuildMemo(cfg)
	}
	if m == nil {
		return nil, ErrNilMemo
	}
	reg := o.reg
	if reg == nil {
		var err error
		if reg, err = o.bld.BuildRegistry(cfg); err != nil {
			return nil, fmt.Errorf("build registry: %w", err)
		}
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}

	return &Compositor{
		cfg:    cfg,
		rt:     rt,
		res:    res,
		memo:   m,
		reg:    reg,
		serial: naming.NewSerial(),
		log:    o.log.With(slog.String("basename", cfg.Basename)),
		tracer: o.tracer,
	}, nil
}

// Config returns the configuration the Compositor was built with.
func (c *Compositor) Config() apis.Config {
	return c.cfg
}

// Registry returns the provenance registry.
func (c *Compositor) Registry() apis.Registry {
	return c.reg
}

// Memo returns the memoization table.
func (c *Compositor) Memo() apis.Memo {
	return c.memo
}

// Key returns the canonical key of req.
func (c *Compositor) Key(req apis.Request) (apis.Key, error) {
	return canon.Key(req)
}

// Compose returns the identifier of the composite type for req, building,
// freezing and registering it on first use. Equivalent requests (same items
// in any order) return the same identifier without side effects.
//
// On error the memo, the registry and the serial counter are unchanged.
// The type is published by Freeze before it is recorded, so when the
// registry rejects the entry the runtime keeps that type; a retry of the
// same request then sees the name as taken and builds a suffixed one.
func (c *Compositor) Compose(ctx context.Context, req apis.Request) (id string, err error) {
	ctx, span := c.tracer.Start(ctx, SpanCompose, trace.WithSpanKind(trace.SpanKindInternal))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String(AttrName, id))
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	key, err := canon.Key(req)
	if err != nil {
		c.log.WarnContext(ctx, "compose.failed", slog.Any("error", err))
		return "", err
	}
	span.SetAttributes(attribute.String(AttrKey, string(key)))

	if id, ok := c.memo.Get(key); ok {
		span.SetAttributes(attribute.Bool(AttrHit, true))
		c.log.DebugContext(ctx, "compose.hit", slog.String("key", string(key)), slog.String("name", id))
		return id, nil
	}

	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	// Re-check under the lock: a concurrent caller may have built it.
	if id, ok := c.memo.Get(key); ok {
		span.SetAttributes(attribute.Bool(AttrHit, true))
		c.log.DebugContext(ctx, "compose.hit", slog.String("key", string(key)), slog.String("name", id))
		return id, nil
	}
	span.SetAttributes(attribute.Bool(AttrHit, false))

	id, err = c.build(ctx, key, req)
	if err != nil {
		c.log.WarnContext(ctx, "compose.failed", slog.String("key", string(key)), slog.Any("error", err))
		return "", err
	}
	return id, nil
}

// build runs a full composition. Callers hold buildMu.
func (c *Compositor) build(ctx context.Context, key apis.Key, req apis.Request) (string, error) {
	names := naming.NewBuilder(c.cfg.Basename)
	units := make([]apis.Unit, 0, len(req))
	plain := make([]string, 0, len(req))

	for _, it := range req {
		switch it.Kind {
		case apis.KindParam:
			id := naming.ExpandOne(it.Unit, c.cfg.Prefixes)
			u, err := c.resolve(ctx, id, it.Params)
			if err != nil {
				return "", err
			}
			// Instances of one template differ only by moniker.
			u.Name = instanceName(u.Name, it.Moniker)
			units = append(units, u)
			names.Add(it.Moniker)
		default:
			plain = append(plain, it.Name)
			names.Add(it.Name)
		}
	}
	candidate := names.String()

	for _, id := range naming.Expand(plain, c.cfg.Prefixes) {
		u, err := c.resolve(ctx, id, nil)
		if err != nil {
			return "", err
		}
		units = append(units, u)
	}

	// Serial values are committed only once the type is registered.
	serial := c.serial.Clone()
	name := candidate
	for c.rt.Exists(name) {
		name = naming.Suffixed(candidate, serial.Next())
	}
	if name != candidate {
		trace.SpanFromContext(ctx).AddEvent(EventCollision, trace.WithAttributes(
			attribute.String(AttrName, candidate),
			attribute.String(AttrSerial, serial.Current()),
		))
		c.log.InfoContext(ctx, "compose.collision", slog.String("candidate", candidate), slog.String("name", name))
	}

	mt, err := c.rt.CreateType(name, c.cfg.Base, units)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	for _, spec := range c.cfg.PostTransforms {
		if mt, err = c.rt.ApplyTransform(mt, spec); err != nil {
			return "", fmt.Errorf("transform %s: %w", name, err)
		}
	}
	ft, err := c.rt.Freeze(mt)
	if err != nil {
		return "", fmt.Errorf("freeze %s: %w", name, err)
	}

	if err := c.reg.Record(apis.Entry{
		Name:    ft.Name(),
		Key:     key,
		Request: req.Clone(),
		Units:   ft.Units(),
	}); err != nil {
		return "", fmt.Errorf("record %s: %w", name, err)
	}
	c.memo.Set(key, ft.Name())
	c.serial = serial

	c.log.InfoContext(ctx, "compose.built",
		slog.String("name", ft.Name()),
		slog.String("key", string(key)),
		slog.Any("units", ft.Units()),
	)
	return ft.Name(), nil
}

// resolve asks the resolver for id inside its own span.
func (c *Compositor) resolve(ctx context.Context, id string, params map[string]any) (apis.Unit, error) {
	ctx, span := c.tracer.Start(ctx, SpanResolve, trace.WithAttributes(attribute.String(AttrUnit, id)))
	defer span.End()

	u, err := c.res.Resolve(ctx, id, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !errors.Is(err, apis.ErrResolution) {
			err = &apis.ResolutionError{Unit: id, Err: err}
		}
		return apis.Unit{}, err
	}
	if u.Name == "" {
		u.Name = id
	}
	return u, nil
}

// instanceName labels a template instance with its moniker.
func instanceName(unit, moniker string) string {
	return unit + "[" + moniker + "]"
}

// ListKnown returns a snapshot of every type this Compositor built together
// with the request that produced it.
func (c *Compositor) ListKnown() []apis.Entry {
	return c.reg.Entries()
}

// Lookup returns the published type for id.
func (c *Compositor) Lookup(id string) (apis.Type, bool) {
	return c.rt.Lookup(id)
}
