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

package radlog

import (
	"context"
	"fmt"

	"dirpx.dev/radlog/apis/level"
	"dirpx.dev/radlog/apis/pipeline"
	apiplugin "dirpx.dev/radlog/apis/pipeline/plugin"
	apiprovider "dirpx.dev/radlog/apis/provider"
	asink "dirpx.dev/radlog/apis/sink"
	aspolicy "dirpx.dev/radlog/apis/sink/policy"
	"dirpx.dev/radlog/runtime/encoder"
	jsonenc "dirpx.dev/radlog/runtime/encoder/json"
	"dirpx.dev/radlog/runtime/mirror"
	rtplugin "dirpx.dev/radlog/runtime/plugin"
	"dirpx.dev/radlog/runtime/plugin/levelfilter"
	rtprovider "dirpx.dev/radlog/runtime/provider"
	"dirpx.dev/radlog/runtime/sink"
	"dirpx.dev/radlog/runtime/tap"
)

// mirrorSinkName is both the registry key EnableDiagnosticsMirror stores
// the resulting sink under and the logical sink name its assembled
// pipeline.Specification targets.
const mirrorSinkName = "mirror-diagnostics"

// MirrorOptions configures EnableDiagnosticsMirror.
type MirrorOptions struct {
	// Path is the rotating log file the mirror writes JSON records to.
	Path string

	// Level is the severity every record written through this mirror is
	// stamped with. The channel API this sink is attached to has no
	// concept of per-call severity of its own (that only exists one layer
	// up, in multilevel.Logger's four fixed channels), so a mirror always
	// reports a single, fixed severity for everything it sees.
	Level level.Level

	// MinLevel gates the whole mirror: when Level doesn't meet it, every
	// record is dropped before it reaches the target file. This is the
	// knob operators use to mute a mirror without unwiring it.
	MinLevel level.Level

	// Rotation controls on-disk rotation of Path.
	Rotation aspolicy.Rotation

	// Batch controls asynchronous batching of writes to Path. The zero
	// value still batches, using WithBatch's own defaults.
	Batch aspolicy.Batch
}

// EnableDiagnosticsMirror builds a sink that re-wraps every entry a
// channel or logger writes through it as an apis/record.Record, runs it
// through a level filter, JSON-encodes it, and appends it to a rotating
// file, independent of whatever sink that channel already writes to. It
// exists so operators get a structured, ambient-schema copy of selected
// output without having to give up the domain text/JSON formatters
// everything else renders with.
//
// The assembled configuration is sourced through a provider.Provider
// snapshot rather than built by hand, the same path a dynamic provider
// (file, env, remote) would take if one were configured instead.
func (s *System) EnableDiagnosticsMirror(ctx context.Context, opt MirrorOptions) (sink.BackendSink, error) {
	pipelineSpec := pipeline.Specification{
		Pre: []apiplugin.Specification{
			{
				Kind:   levelfilter.Kind,
				Name:   "mirror-level-filter",
				Config: levelfilter.Config{MinLevel: opt.MinLevel},
			},
		},
		Sinks: []string{mirrorSinkName},
	}

	src := rtprovider.NewStatic("defaults", 0, &apiprovider.Specification{
		MinLevel: &opt.MinLevel,
		Pipeline: &pipelineSpec,
		Sinks:    pipelineSpec.Sinks,
	}, "static-1")

	spec, _, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("radlog: diagnostics mirror provider %q snapshot: %w", src.Name(), err)
	}
	merged := apiprovider.MergeAll(spec)
	if merged.Pipeline == nil {
		return nil, fmt.Errorf("radlog: diagnostics mirror provider produced no pipeline")
	}

	target, err := sink.Build(ctx, sink.KindAmbient, sink.NameRotatingFile, asink.Specification{
		Name:     mirrorSinkName,
		Rotation: &opt.Rotation,
		Batch:    &opt.Batch,
		Labels:   map[string]string{"path": opt.Path},
	})
	if err != nil {
		return nil, fmt.Errorf("radlog: building diagnostics mirror target sink: %w", err)
	}

	builder := tap.Builder{
		Plugins: rtplugin.Build,
		Encoder: jsonenc.New(encoder.Options{}),
		Sinks:   map[string]asink.Sink{mirrorSinkName: target},
	}
	pl, err := builder.Build(ctx, *merged.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("radlog: assembling diagnostics mirror pipeline: %w", err)
	}

	mirrorSink := mirror.New(s.defaultFormatter, pl, mirrorSinkName, opt.Level)
	return s.RegisterSink(mirrorSinkName, mirrorSink), nil
}
