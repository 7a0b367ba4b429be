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

// Package plugin is the runtime counterpart of apis/pipeline/plugin: a
// global registry mapping a plugin Kind to the Builder that turns its
// Specification into a stage.Stage, mirroring the (kind, name) shape
// runtime/sink uses for ambient sinks.
package plugin

import (
	"context"

	"dirpx.dev/radlog/apis/pipeline/plugin"
	"dirpx.dev/radlog/apis/pipeline/stage"
	"dirpx.dev/radlog/runtime/registry"
)

const registryKind = "plugin"

// Registry is the global plugin-stage builder registry, case-insensitive
// on Kind for the same reason runtime/sink's registry is.
var Registry = registry.New[stage.Stage, plugin.Specification](registry.WithCaseFoldLower())

// Register installs b under kind. Typical usage is from a plugin
// implementation's own package init(), e.g. runtime/plugin/levelfilter.
func Register(kind string, b registry.Builder[stage.Stage, plugin.Specification]) {
	registry.MustRegister(Registry, registry.Key{Kind: registryKind, Name: kind}, b)
}

// Build resolves the builder registered for kind and invokes it with spec.
func Build(ctx context.Context, kind string, spec plugin.Specification) (stage.Stage, error) {
	return Registry.Build(ctx, registry.Key{Kind: registryKind, Name: kind}, spec)
}

// Seal prevents further registration.
func Seal() { Registry.Seal() }
