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

// Package provider holds runtime implementations of apis/provider.Provider.
// apis/provider only defines the contract and merge helpers; concrete
// sources (defaults, file, env, remote) belong here.
package provider

import (
	"context"

	apiprovider "dirpx.dev/radlog/apis/provider"
)

// StaticProvider serves a fixed Specification and never changes. It is the
// "defaults/builtin" tier of apis/provider's priority convention: every
// other provider is expected to override it, never the other way around.
type StaticProvider struct {
	name     string
	priority int
	version  string
	spec     *apiprovider.Specification
}

var _ apiprovider.Provider = (*StaticProvider)(nil)

// NewStatic builds a StaticProvider. spec is served as-is; callers should
// not mutate it afterward.
func NewStatic(name string, priority int, spec *apiprovider.Specification, version string) *StaticProvider {
	return &StaticProvider{name: name, priority: priority, version: version, spec: spec}
}

// Name returns the provider's stable identifier.
func (p *StaticProvider) Name() string { return p.name }

// Priority returns the provider's fixed override priority.
func (p *StaticProvider) Priority() int { return p.priority }

// Snapshot always returns the same Specification and version.
func (p *StaticProvider) Snapshot(context.Context) (*apiprovider.Specification, string, error) {
	return p.spec, p.version, nil
}

// Watch reports that this provider never changes; callers should rely on
// Snapshot instead.
func (p *StaticProvider) Watch(context.Context) (apiprovider.Stream, error) {
	return nil, nil
}
