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

// Package workflow composes the pipeline commands into the storyboard run:
// parse the script into scenes, then resolve every scene's media options
// batch by batch.
package workflow

import (
	"context"

	"github.com/Mkzay/visualflow/internal/core/commands"
	"github.com/Mkzay/visualflow/internal/core/cor"
	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/core/services"
	"github.com/Mkzay/visualflow/internal/providers"
)

// RunOptions carries the per-run knobs a caller may override. Zero values
// fall back to the configured defaults.
type RunOptions struct {
	Orientation model.Orientation
	Vibe        model.Vibe
	ColorGrade  model.ColorGrade
	Emit        commands.SceneEmitter
}

// StoryboardWorkflow turns raw script text into a fully resolved scene
// list. Each run builds a fresh chain because the batch processor is bound
// to run-scoped options and an emitter.
type StoryboardWorkflow struct {
	cor.BaseCommand
	config  *providers.Config
	queries *services.QueryService
	search  *services.SearchService
	session *services.Session
}

// NewStoryboardWorkflow creates the workflow over the shared services.
func NewStoryboardWorkflow(
	config *providers.Config,
	queries *services.QueryService,
	search *services.SearchService,
	session *services.Session,
) *StoryboardWorkflow {
	return &StoryboardWorkflow{
		BaseCommand: *cor.NewBaseCommand("storyboard-workflow"),
		config:      config,
		queries:     queries,
		search:      search,
		session:     session,
	}
}

// buildChain assembles the parse and batch commands for one run.
func (w *StoryboardWorkflow) buildChain(opts RunOptions) cor.Chain {
	orientation := opts.Orientation
	if orientation == "" {
		orientation = model.Orientation(w.config.Defaults.Orientation)
	}
	vibe := opts.Vibe
	if vibe == "" {
		vibe = model.Vibe(w.config.Defaults.Vibe)
	}
	grade := opts.ColorGrade
	if grade == "" {
		grade = model.ColorGrade(w.config.Defaults.ColorGrade)
	}

	chain := cor.NewBaseChain(w.GetName())
	chain.AddCommand(commands.NewScriptParser("parse-script"))
	chain.AddCommand(commands.NewSceneBatchProcessor(
		"process-scene-batches",
		w.queries,
		w.search,
		w.session,
		orientation,
		vibe,
		grade,
		opts.Emit,
	))
	return chain
}

// Run starts a new storyboard run for the given script. Starting a run
// mints a new session epoch, so any previous run still in flight loses its
// writes from this point on. The final scene list is returned; the emitter
// in opts sees every intermediate batch along the way.
func (w *StoryboardWorkflow) Run(ctx context.Context, script string, opts RunOptions) []*model.Scene {
	epoch := w.session.BeginRun()

	chCtx := cor.NewBaseContext()
	chCtx.SetContext(ctx)
	chCtx.Add(cor.CtxIn, script)
	chCtx.Add(commands.GetRunEpochParameterName(), epoch)

	w.buildChain(opts).Execute(chCtx)

	return w.session.Snapshot()
}
