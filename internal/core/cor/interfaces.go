// Copyright 2025 VisualFlow Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the building blocks for
// composing the storyboard pipeline out of small, individually testable
// commands. A workflow is a Chain of Commands that share a Context; each
// command reads its input from the context, does one unit of work, and
// writes its output back for the next command.
//
// This file defines the interfaces. Keeping them small lets workflows mix
// concrete commands, nested chains, and test doubles freely.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys that carry the primary data flow between
// commands in a chain.
const (
	// CtxIn is the default key a command reads its primary input from. A
	// chain populates it with the previous command's output.
	CtxIn = "__IN__"
	// CtxOut is the default key a command writes its primary output to.
	CtxOut = "__OUT__"
)

// Context is the shared state bag passed through a chain. It carries
// arbitrary key/value data, errors keyed by the command that raised them,
// and the standard Go context used for cancellation and trace propagation.
type Context interface {
	// SetContext replaces the embedded Go context. Chains use this to scope
	// each command's work to its own trace span.
	SetContext(ctx context.Context)

	// GetContext returns the embedded Go context.
	GetContext() context.Context

	// Add stores a key/value pair and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// Get returns the value stored under key, or nil.
	Get(key string) interface{}

	// Remove deletes the value stored under key.
	Remove(key string)

	// AddError records an error, keyed by the name of the command that
	// produced it.
	AddError(key string, err error)

	// GetErrors returns all recorded errors.
	GetErrors() map[string]error

	// HasErrors reports whether any command has recorded an error.
	HasErrors() bool
}

// Executable is anything with a core execution method.
type Executable interface {
	// Execute performs the unit of work, reading from and writing to the
	// shared Context.
	Execute(context Context)
}

// Command is an atomic, named unit of work within a chain.
type Command interface {
	Executable

	// GetName returns the command's unique name, used in logs and telemetry.
	GetName() string

	// GetInputParam returns the context key the command reads its primary
	// input from.
	GetInputParam() string

	// GetOutputParam returns the context key the command writes its primary
	// output to.
	GetOutputParam() string

	// IsExecutable reports whether the command's preconditions hold for the
	// current context state.
	IsExecutable(context Context) bool

	// GetTracer returns the command's OpenTelemetry tracer.
	GetTracer() trace.Tracer

	// GetMeter returns the command's OpenTelemetry meter.
	GetMeter() metric.Meter

	// GetSuccessCounter returns a counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns a counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains nest.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after
	// a command records an error. Returns the chain for fluent building.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
