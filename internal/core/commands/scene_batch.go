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

package commands

import (
	goctx "context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Mkzay/visualflow/internal/core/cor"
	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/core/services"
)

// BatchSize is the number of scenes processed concurrently per batch. It is
// a fixed tuning constant bounding concurrent provider load, independent of
// scene count and provider count.
const BatchSize = 3

const (
	runEpochParameterName = "RUN_EPOCH"
)

// GetRunEpochParameterName returns the context key carrying the run's epoch
// token.
func GetRunEpochParameterName() string {
	return runEpochParameterName
}

// SceneEmitter receives the full accumulated scene list after each batch
// settles, giving callers progressive visibility into a running storyboard.
type SceneEmitter func(scenes []*model.Scene)

// queryBuilder is the slice of the query service the processor needs.
type queryBuilder interface {
	Build(ctx goctx.Context, line string) (query string, aiGenerated bool)
}

// searcher is the slice of the search service the processor needs.
type searcher interface {
	SearchVideos(ctx goctx.Context, query string, orientation model.Orientation, page int) []*model.MediaResult
	SearchAudio(ctx goctx.Context, query string, page int) []*model.MediaResult
}

// sessionWriter is the slice of the session the processor needs.
type sessionWriter interface {
	ReplaceScenes(epoch string, scenes []*model.Scene) error
}

// SceneBatchProcessor drives the parsed scene list through query building
// and provider search. Scenes are processed in fixed-size batches: within a
// batch every scene runs concurrently, batches run strictly in sequence,
// and the accumulated list is published after each batch. A failure in one
// scene never aborts the run; the scene surfaces with its query set and an
// empty option list.
type SceneBatchProcessor struct {
	cor.BaseCommand
	queries     queryBuilder
	search      searcher
	session     sessionWriter
	orientation model.Orientation
	vibe        model.Vibe
	grade       model.ColorGrade
	emit        SceneEmitter
}

// NewSceneBatchProcessor creates the batch command. The emitter may be nil
// when the caller only wants the final list.
func NewSceneBatchProcessor(
	name string,
	queries queryBuilder,
	search searcher,
	session sessionWriter,
	orientation model.Orientation,
	vibe model.Vibe,
	grade model.ColorGrade,
	emit SceneEmitter,
) *SceneBatchProcessor {
	return &SceneBatchProcessor{
		BaseCommand: *cor.NewBaseCommand(name),
		queries:     queries,
		search:      search,
		session:     session,
		orientation: orientation,
		vibe:        vibe,
		grade:       grade,
		emit:        emit,
	}
}

// IsExecutable requires the parsed scene list and a run epoch token.
func (s *SceneBatchProcessor) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	_, ok := context.Get(s.GetInputParam()).([]*model.Scene)
	if !ok {
		return false
	}
	_, ok = context.Get(GetRunEpochParameterName()).(string)
	return ok
}

// Execute processes every scene batch by batch and publishes the growing
// list through the session and the emitter. A stale epoch stops the run
// quietly: a newer run owns the session now.
func (s *SceneBatchProcessor) Execute(context cor.Context) {
	scenes := context.Get(s.GetInputParam()).([]*model.Scene)
	epoch := context.Get(GetRunEpochParameterName()).(string)
	ctx := context.GetContext()

	for start := 0; start < len(scenes); start += BatchSize {
		end := start + BatchSize
		if end > len(scenes) {
			end = len(scenes)
		}

		var wg sync.WaitGroup
		for _, scene := range scenes[start:end] {
			wg.Add(1)
			go func(scene *model.Scene) {
				defer wg.Done()
				s.processScene(ctx, scene)
			}(scene)
		}
		wg.Wait()

		if err := s.publish(epoch, scenes); err != nil {
			// A newer run replaced this one. Abandon quietly.
			slog.Info("storyboard run superseded, stopping batch processing",
				"epoch", epoch, "batch_start", start)
			return
		}
	}

	s.GetSuccessCounter().Add(ctx, 1)
	context.Add(s.GetOutputParam(), scenes)
	context.Add(cor.CtxOut, scenes)
}

// processScene builds the scene's query and fetches its first option page.
// Panics are contained here so one bad scene cannot take down the batch.
func (s *SceneBatchProcessor) processScene(ctx goctx.Context, scene *model.Scene) {
	defer func() {
		if r := recover(); r != nil {
			s.GetErrorCounter().Add(ctx, 1)
			slog.Error("scene processing panicked",
				"scene_id", scene.ID, "panic", fmt.Sprint(r))
		}
	}()

	var options []*model.MediaResult
	if scene.Kind == model.SceneKindAudio {
		// Audio queries are pre-seeded at parse time.
		options = s.search.SearchAudio(ctx, scene.Query, 1)
	} else {
		query, aiGenerated := s.queries.Build(ctx, scene.OriginalLine)
		scene.Query = query
		scene.IsAIGenerated = aiGenerated
		augmented := services.AugmentQuery(query, s.vibe, s.grade)
		options = s.search.SearchVideos(ctx, augmented, s.orientation, 1)
	}

	scene.MediaOptions = options
	scene.Page = 1
	if len(options) > 0 {
		scene.Selected = options[0]
	}
}

// publish clones the accumulated list, swaps it into the session, and hands
// the same snapshot to the emitter.
func (s *SceneBatchProcessor) publish(epoch string, scenes []*model.Scene) error {
	snapshot := make([]*model.Scene, len(scenes))
	for i, scene := range scenes {
		snapshot[i] = scene.Clone()
	}
	if err := s.session.ReplaceScenes(epoch, snapshot); err != nil {
		return err
	}
	if s.emit != nil {
		s.emit(snapshot)
	}
	return nil
}
