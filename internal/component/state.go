// SPDX-License-Identifier: MPL-2.0

package component

import "github.com/kkx/mcl/internal/argument"

// DefaultMainClass is the entry point used when no component names one.
const DefaultMainClass = "net.minecraft.client.main.Main"

// State accumulates what installed components contribute to a launch.
// A State is created per install and is not safe for concurrent use.
type State struct {
	MainClass     string
	Classpath     []string
	Variables     map[string]string
	GameArguments []argument.Argument
	JVMArguments  []argument.Argument
}

// NewState returns an empty State with the default main class.
func NewState() *State {
	return &State{
		MainClass: DefaultMainClass,
		Variables: make(map[string]string),
	}
}

// AddClasspath appends entries to the classpath.
func (s *State) AddClasspath(entries ...string) {
	s.Classpath = append(s.Classpath, entries...)
}

// Set binds a substitution variable, replacing any previous value.
func (s *State) Set(name, value string) {
	s.Variables[name] = value
}
