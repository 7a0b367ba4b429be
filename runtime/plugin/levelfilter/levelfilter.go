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

// Package levelfilter implements the simplest pipeline plugin: a Filter
// stage that drops any record below a configured minimum level. It
// registers itself under kind "level_filter" on import.
package levelfilter

import (
	"context"

	"dirpx.dev/radlog/apis/level"
	"dirpx.dev/radlog/apis/pipeline/plugin"
	"dirpx.dev/radlog/apis/pipeline/stage"
	"dirpx.dev/radlog/apis/record"
	rtplugin "dirpx.dev/radlog/runtime/plugin"
)

// Kind is the stable plugin identifier this package registers under.
const Kind = "level_filter"

// Config is the plugin.Specification.Config payload this plugin expects.
type Config struct {
	// MinLevel is the minimum severity a record must meet to continue.
	MinLevel level.Level
}

// Stage drops records below MinLevel and passes the rest through
// unmodified.
type Stage struct {
	name    string
	enabled bool
	min     level.Level
}

var _ plugin.Filter = (*Stage)(nil)

// New builds a Stage named name, gated by enabled, dropping records below
// cfg.MinLevel.
func New(name string, cfg Config, enabled bool) *Stage {
	return &Stage{name: name, enabled: enabled, min: cfg.MinLevel}
}

// Name returns the stage's configured name.
func (s *Stage) Name() string { return s.name }

// Enabled reports whether the filter currently evaluates records.
func (s *Stage) Enabled() bool { return s.enabled }

// Process drops r if it is below the configured minimum level.
func (s *Stage) Process(_ context.Context, r record.Record) (record.Record, stage.Decision, error) {
	if !s.enabled || r.Level >= s.min {
		return r, stage.Continue, nil
	}
	return r, stage.Drop, nil
}

// Builder constructs Stage instances from a plugin.Specification whose
// Config is a Config value.
type Builder struct{}

// Kind returns Kind.
func (Builder) Kind() string { return Kind }

// Build constructs a Stage from spec, defaulting Config's zero value (no
// level configured, i.e. nothing is filtered) when spec.Config isn't a
// Config.
func (Builder) Build(_ context.Context, spec plugin.Specification) (stage.Stage, error) {
	cfg, _ := spec.Config.(Config)
	enabled := true
	if spec.Enabled != nil {
		enabled = *spec.Enabled
	}
	name := spec.Name
	if name == "" {
		name = Kind
	}
	return New(name, cfg, enabled), nil
}

func init() {
	rtplugin.Register(Kind, Builder{})
}
