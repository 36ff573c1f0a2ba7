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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/builder"
)

// Option configures a Compositor.
type Option func(*options)

// options collects the optional collaborators of a Compositor.
type options struct {
	log    *slog.Logger
	tracer trace.Tracer
	bld    apis.Builder
	memo   apis.Memo
	reg    apis.Registry
}

func defaultOptions() options {
	return options{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: noop.NewTracerProvider().Tracer(instrumentation),
		bld:    builder.New(),
	}
}

// WithLogger sets the structured logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithTracer sets the tracer spans are started from. Nil keeps the no-op
// default.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithBuilder sets the builder used for the memo and registry that are not
// supplied explicitly.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) {
		if b != nil {
			o.bld = b
		}
	}
}

// WithMemo pins the memoization table instead of building one.
func WithMemo(m apis.Memo) Option {
	return func(o *options) {
		o.memo = m
	}
}

// WithRegistry pins the provenance registry instead of building one.
func WithRegistry(r apis.Registry) Option {
	return func(o *options) {
		o.reg = r
	}
}
