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

// Package cfx provides a composite-type factory.
//
// cfx turns an ordered list of reusable behavior units into a concrete,
// nameable type that has all the requested behaviors, and guarantees that
// asking for the same combination twice returns the same type instead of
// building a duplicate. Example request:
//
//	req := apis.Request{
//		apis.Plain("Roles::Named"),
//		apis.Param("Roles::Counter", "=Hits", map[string]any{"name": "hits"}),
//	}
//	id, err := c.Compose(ctx, req) // "App::Roles::Named::Hits"
//
// # Design
//
// A Compositor owns four pieces of state and borrows two collaborators.
//
// Owned:
//
//   - Memo: canonical key to type identifier. The key (see package canon)
//     depends only on the semantic content of a request, so permutations
//     of the same items memoize to one entry.
//
//   - Registry: append-only provenance. Every built type is recorded
//     together with the exact request the caller passed in.
//
//   - Serial: an "AA", "AB", ... counter used to disambiguate a generated
//     name that collides with a type that already exists in the runtime.
//
//   - Config: basename, prefix rewrite rules, the base capability set
//     and the post-composition transforms (see package config).
//
// Borrowed:
//
//   - apis.Resolver: materializes behavior units by identifier, optionally
//     instantiating a template with parameters (see packages resolver and
//     source).
//
//   - apis.Runtime: the object model that merges units into a type,
//     applies transforms and freezes it. The runtime, not cfx, decides
//     what makes two units conflict (see package model).
//
// Memo and Registry are produced by an apis.Builder (package builder) unless
// pinned with WithMemo / WithRegistry.
//
// # Naming
//
// The identifier is the basename followed by one segment per request item,
// joined with "::". Plain items contribute their identifier as written,
// parameterized items their moniker. A single leading "=" is stripped from
// every segment, and "::" inside a segment is flattened to "_" for every
// segment but the first:
//
//	basename "App", request [Foo, Bar/"=Baz"]  ->  App::Foo::Baz
//	basename "App", request [A::B, C::D]       ->  App::A::B::C_D
//
// If the runtime already knows the name, "_" and the next serial value are
// appended ("App::Foo::Baz_AA", then "_AB" for the next collision).
//
// # Concurrency model
//
// Memo hits take no Compositor lock. Builds run under a per-instance build
// mutex with a second memo lookup, so concurrent callers for one key wait
// for the first build and receive its result. The resolver call is the only
// blocking step and receives the caller's context.
//
// A failed Compose leaves memo, registry and serial exactly as they were.
// The runtime publishes a type only on Freeze, so nothing half-built is
// ever visible.
//
// # Observability
//
// Compose and every resolver call run in OpenTelemetry spans (no-op unless
// WithTracer is given) and log compose.hit, compose.built,
// compose.collision and compose.failed through log/slog (WithLogger).
package cfx
