// Package pipeline runs a set of named stages concurrently.
//
// Each stage runs in its own goroutine and talks to the other stages through channels it
// owns; the pipeline itself never touches the data. Its job is the bookkeeping around the
// stages: it recovers panics so that a crashing stage is reported as ErrStagePanic instead
// of taking the process down, waits for every stage to return, and surfaces the first
// error that happened.
//
// Stages are described by model.StepInfo and linked to their parents, which lets pipeline
// options (see the measure, drawer and logger packages) observe the topology, the items
// reported by every stage and the time each stage took.
package pipeline
