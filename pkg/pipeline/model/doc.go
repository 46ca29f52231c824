// Package model provides the data structures shared by the pipeline package and its options.
// It defines the description of a stage, the start and end pseudo stages used to anchor the
// stage graph, and the hooks a pipeline option can implement.
package model
