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

// Package tap implements apis/pipeline.Pipeline as a flat pre-stage chain
// ending in a single encode-and-write to one ambient sink: each record
// runs through its configured plugin stages in order, and the first one to
// return stage.Drop ends processing for that record before it ever reaches
// the encoder.
package tap

import (
	"bytes"
	"context"
	"fmt"

	"dirpx.dev/radlog/apis/pipeline"
	"dirpx.dev/radlog/apis/pipeline/plugin"
	"dirpx.dev/radlog/apis/pipeline/stage"
	"dirpx.dev/radlog/apis/record"
	asink "dirpx.dev/radlog/apis/sink"
	"dirpx.dev/radlog/runtime/encoder"
)

// Chain is a Pipeline that runs records through an ordered set of
// pre-stages, encodes what survives, and writes it to a single target
// sink. Post-stages are intentionally not modeled here: this tap sits
// immediately before the sink write, so there is nothing downstream of the
// encode step for a post-stage to observe.
type Chain struct {
	pre    []stage.Stage
	enc    encoder.Encoder
	target asink.Sink
}

var _ pipeline.Pipeline = (*Chain)(nil)

// New builds a Chain. pre stages run in order; target receives the
// encoded bytes of whatever record survives them.
func New(pre []stage.Stage, enc encoder.Encoder, target asink.Sink) *Chain {
	return &Chain{pre: pre, enc: enc, target: target}
}

// Emit runs r through the pre-stage chain and, unless a stage drops it,
// encodes and writes the result to the target sink.
func (c *Chain) Emit(ctx context.Context, r record.Record) error {
	for _, s := range c.pre {
		if !s.Enabled() {
			continue
		}
		var (
			decision stage.Decision
			err      error
		)
		r, decision, err = s.Process(ctx, r)
		if err != nil {
			return fmt.Errorf("tap: stage %q: %w", s.Name(), err)
		}
		if decision == stage.Drop {
			return nil
		}
	}

	var buf bytes.Buffer
	if err := c.enc.Encode(&r, &buf); err != nil {
		return fmt.Errorf("tap: encode: %w", err)
	}
	return c.target.Write(ctx, buf.Bytes())
}

// Flush flushes the target sink.
func (c *Chain) Flush(ctx context.Context) error {
	return c.target.Flush(ctx)
}

// PluginResolver builds a stage.Stage for a single plugin specification,
// looking its builder up by Kind. runtime/plugin.Build satisfies this.
type PluginResolver func(ctx context.Context, kind string, spec plugin.Specification) (stage.Stage, error)

// Builder constructs a Chain from a pipeline.Specification: it resolves
// each Pre plugin spec through Plugins and binds the result to whichever
// sink in Sinks matches the specification's first entry.
type Builder struct {
	Plugins PluginResolver
	Encoder encoder.Encoder
	Sinks   map[string]asink.Sink
}

var _ pipeline.Builder = Builder{}

// Build resolves spec into a Chain.
func (b Builder) Build(ctx context.Context, spec pipeline.Specification) (pipeline.Pipeline, error) {
	pre := make([]stage.Stage, 0, len(spec.Pre))
	for _, ps := range spec.Pre {
		st, err := b.Plugins(ctx, ps.Kind, ps)
		if err != nil {
			return nil, fmt.Errorf("tap: building pre-plugin %q: %w", ps.Kind, err)
		}
		pre = append(pre, st)
	}

	if len(spec.Sinks) == 0 {
		return nil, fmt.Errorf("tap: pipeline specification names no sink")
	}
	target, ok := b.Sinks[spec.Sinks[0]]
	if !ok {
		return nil, fmt.Errorf("tap: unknown sink %q", spec.Sinks[0])
	}

	return New(pre, b.Encoder, target), nil
}
