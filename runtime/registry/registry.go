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

// Package registry is a small generic keyed builder registry used by
// runtime packages (sinks and pipeline plugins) to register
// construction logic under a (kind, name) pair and resolve it later without
// a hand-rolled switch statement per package.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Key identifies a registered builder by kind (the category, e.g. "sink")
// and name (the concrete variant, e.g. "stdout").
type Key struct {
	Kind string
	Name string
}

func (k Key) String() string { return k.Kind + "/" + k.Name }

func (k Key) normalized(foldLower bool) Key {
	if !foldLower {
		return k
	}
	return Key{Kind: strings.ToLower(k.Kind), Name: strings.ToLower(k.Name)}
}

// Builder constructs a value of type V from a specification of type Spec.
type Builder[V any, Spec any] interface {
	Build(ctx context.Context, spec Spec) (V, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc[V any, Spec any] func(ctx context.Context, spec Spec) (V, error)

func (f BuilderFunc[V, Spec]) Build(ctx context.Context, spec Spec) (V, error) {
	return f(ctx, spec)
}

// Option configures a Registry at construction time.
type Option func(*options)

type options struct {
	foldLower bool
}

// WithCaseFoldLower lower-cases both Kind and Name when registering and
// resolving keys, so callers need not agree on casing conventions.
func WithCaseFoldLower() Option {
	return func(o *options) { o.foldLower = true }
}

// Registry is a thread-safe, keyed collection of Builders. It can be sealed
// after the program's init() phase to catch accidental late registrations.
type Registry[V any, Spec any] struct {
	mu        sync.RWMutex
	builders  map[Key]Builder[V, Spec]
	foldLower bool
	sealed    bool
}

// New creates an empty Registry.
func New[V any, Spec any](opts ...Option) *Registry[V, Spec] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[V, Spec]{
		builders:  make(map[Key]Builder[V, Spec]),
		foldLower: o.foldLower,
	}
}

// Register installs b under key. It returns false (a no-op) if key is
// already registered or the registry has been sealed.
func (r *Registry[V, Spec]) Register(key Key, b Builder[V, Spec]) bool {
	key = key.normalized(r.foldLower)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return false
	}
	if _, exists := r.builders[key]; exists {
		return false
	}
	r.builders[key] = b
	return true
}

// MustRegister registers b under key and panics if the key is already
// taken or the registry is sealed. Intended for use from package init().
func MustRegister[V any, Spec any](r *Registry[V, Spec], key Key, b Builder[V, Spec]) {
	if !r.Register(key, b) {
		panic(fmt.Sprintf("registry: builder already registered or registry sealed for %s", key))
	}
}

// Build resolves the builder registered under key and invokes it with spec.
func (r *Registry[V, Spec]) Build(ctx context.Context, key Key, spec Spec) (V, error) {
	key = key.normalized(r.foldLower)

	r.mu.RLock()
	b, ok := r.builders[key]
	r.mu.RUnlock()

	var zero V
	if !ok {
		return zero, fmt.Errorf("registry: no builder registered for %s", key)
	}
	return b.Build(ctx, spec)
}

// Has reports whether a builder is registered for key.
func (r *Registry[V, Spec]) Has(key Key) bool {
	key = key.normalized(r.foldLower)

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.builders[key]
	return ok
}

// Keys returns the set of currently registered keys.
func (r *Registry[V, Spec]) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]Key, 0, len(r.builders))
	for k := range r.builders {
		keys = append(keys, k)
	}
	return keys
}

// Seal prevents any further registration. Intended to be called once
// package init() has finished, to surface accidental late registration as a
// loud failure instead of a silently-missing builder.
func (r *Registry[V, Spec]) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}
