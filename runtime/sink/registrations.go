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

package sink

import (
	"context"
	"fmt"

	asink "dirpx.dev/radlog/apis/sink"
	"dirpx.dev/radlog/runtime/registry"
	"dirpx.dev/radlog/runtime/sink/policy"
)

// KindAmbient is the registry kind under which context-aware apis/sink.Sink
// builders are registered, as opposed to the domain BackendSink variants
// this package constructs directly (NewStdoutSink, NewFileSink, ...).
const KindAmbient = "sink"

// NameRotatingFile is the builder name for buildRotatingFile.
const NameRotatingFile = "rotating_file"

func init() {
	Register(KindAmbient, NameRotatingFile, registry.BuilderFunc[asink.Sink, asink.Specification](buildRotatingFile))
}

// buildRotatingFile builds a size/age-rotating file sink from spec,
// reading the target path from spec.Labels["path"], and wraps it with an
// asynchronous batch writer when spec.Batch is set.
func buildRotatingFile(_ context.Context, spec asink.Specification) (asink.Sink, error) {
	path := spec.Labels["path"]
	if path == "" {
		return nil, fmt.Errorf("sink: %s/%s requires a %q label", KindAmbient, NameRotatingFile, "path")
	}

	opt := policy.FileRotationOptions{Path: path, Name: spec.Name}
	if spec.Rotation != nil {
		opt.Policy = *spec.Rotation
	}

	file, err := policy.NewRotatingFileSink(opt)
	if err != nil {
		return nil, err
	}

	if spec.Batch == nil {
		return file, nil
	}
	return policy.WithBatch(file, policy.BatchOptions{
		QueueSize:    spec.QueueCapacity,
		Batch:        *spec.Batch,
		Backpressure: spec.Backpressure,
		Name:         spec.Name,
	}), nil
}
