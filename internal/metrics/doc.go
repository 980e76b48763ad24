// Package metrics records site generation metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	gen := &site.Generator{Recorder: metrics.NoopRecorder{}}
//
// The generate command swaps in a PrometheusRecorder when --metrics-file is set
// and writes the registry in the textfile collector format after the run. The
// preview server exposes the same registry over HTTP.
package metrics
