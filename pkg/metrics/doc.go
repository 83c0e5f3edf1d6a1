// Package metrics records request latency distributions with
// HdrHistogram. The http package's MetricsBehavior feeds a Recorder from
// the send lifecycle hooks.
package metrics
