// Package task defines the small contract agent runtimes use to discover
// and invoke tasks, and the translation task built on it.
package task

import "context"

// Descriptor is the static metadata a runtime reads to register a task.
type Descriptor struct {
	Name         string   `json:"name" yaml:"name"`
	ChatName     string   `json:"chat_name" yaml:"chat_name"`
	Description  string   `json:"description" yaml:"description"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Inputs       []string `json:"inputs" yaml:"inputs"`
	Outputs      []string `json:"outputs" yaml:"outputs"`
	// OutputType reports whether the output is text meant for the user.
	OutputType bool `json:"output_type" yaml:"output_type"`
}

func (d Descriptor) clone() Descriptor {
	d.Dependencies = append([]string{}, d.Dependencies...)
	d.Inputs = append([]string{}, d.Inputs...)
	d.Outputs = append([]string{}, d.Outputs...)
	return d
}

// Task is implemented by every task a runtime can invoke. Run takes the
// task's single raw input string and returns its outputs in order.
type Task interface {
	Descriptor() Descriptor
	Run(ctx context.Context, input string) ([]string, error)
	Explain() string
}
