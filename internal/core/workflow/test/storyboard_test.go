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

// Package workflow_test contains the end-to-end test for the storyboard
// workflow: script in, resolved scenes out, with stubbed provider adapters.
package workflow_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/core/services"
	"github.com/Mkzay/visualflow/internal/core/workflow"
	"github.com/Mkzay/visualflow/internal/providers"
	test "github.com/Mkzay/visualflow/internal/testutil"
)

// scriptedVideoProvider hands out one synthetic result per call and
// remembers the queries it saw.
type scriptedVideoProvider struct {
	mu      sync.Mutex
	source  model.Source
	queries []string
	calls   int
}

func (s *scriptedVideoProvider) Source() model.Source { return s.source }
func (s *scriptedVideoProvider) Enabled() bool        { return true }

func (s *scriptedVideoProvider) Search(_ context.Context, query string, _ model.Orientation, page int) []*model.MediaResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.queries = append(s.queries, query)
	return []*model.MediaResult{{
		ID:        fmt.Sprintf("%s-%d-%d", s.source, s.calls, page),
		Source:    s.source,
		Kind:      model.MediaKindVideo,
		StreamURL: "https://cdn.example.com/clip.mp4",
	}}
}

type scriptedAudioProvider struct {
	mu      sync.Mutex
	queries []string
}

func (s *scriptedAudioProvider) Source() model.Source { return model.SourceFreesound }
func (s *scriptedAudioProvider) Enabled() bool        { return true }

func (s *scriptedAudioProvider) Search(_ context.Context, query string, page int) []*model.MediaResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return []*model.MediaResult{{
		ID:          fmt.Sprintf("FREESOUND-%d-%d", len(s.queries), page),
		Source:      model.SourceFreesound,
		Kind:        model.MediaKindAudio,
		DownloadURL: "https://cdn.example.com/sound.mp3",
	}}
}

func newWorkflowUnderTest() (*workflow.StoryboardWorkflow, *services.Session, *scriptedVideoProvider, *scriptedAudioProvider) {
	video := &scriptedVideoProvider{source: model.SourcePexels}
	audio := &scriptedAudioProvider{}

	clients := &providers.ServiceClients{
		Video: []providers.VideoProvider{video},
		Audio: audio,
	}

	config := providers.NewConfig()
	config.Defaults.Orientation = string(model.OrientationLandscape)
	config.Defaults.Vibe = string(model.VibeNone)
	config.Defaults.ColorGrade = string(model.ColorGradeNone)

	session := services.NewSession()
	queries := services.NewQueryService(nil, providers.QueryModeLiteral, false)
	search := services.NewSearchService(clients)

	return workflow.NewStoryboardWorkflow(config, queries, search, session), session, video, audio
}

func TestStoryboardRunEndToEnd(t *testing.T) {
	wf, session, video, audio := newWorkflowUnderTest()

	var mu sync.Mutex
	emissions := 0
	scenes := wf.Run(context.Background(), test.GetTestScript(), workflow.RunOptions{
		Emit: func([]*model.Scene) {
			mu.Lock()
			emissions++
			mu.Unlock()
		},
	})

	// The sample script parses to five scenes: visual, dialogue, visual,
	// audio, dialogue. Two batches of three.
	assert.Len(t, scenes, 5)
	assert.Equal(t, 2, emissions)

	for _, scene := range scenes {
		assert.NotEmpty(t, scene.Query)
		assert.Len(t, scene.MediaOptions, 1)
		assert.NotNil(t, scene.Selected)
	}

	// Audio went to the audio provider, everything else to video.
	assert.Equal(t, 4, video.calls)
	assert.Len(t, audio.queries, 1)
	assert.Equal(t, "distant sirens rain", audio.queries[0])

	// The session holds the same final state the run returned.
	assert.Len(t, session.Snapshot(), 5)
}

func TestStoryboardRunAppliesVibeSuffix(t *testing.T) {
	wf, _, video, _ := newWorkflowUnderTest()

	wf.Run(context.Background(), "[Visuals: City skyline]", workflow.RunOptions{
		Vibe: model.VibeCyberpunk,
	})

	assert.Len(t, video.queries, 1)
	assert.Equal(t, "city skyline cyberpunk neon glitch futuristic", video.queries[0])
}

func TestStoryboardNewRunSupersedesSession(t *testing.T) {
	wf, session, _, _ := newWorkflowUnderTest()

	wf.Run(context.Background(), "[Visuals: First run]", workflow.RunOptions{})
	first := session.Epoch()

	wf.Run(context.Background(), "[Visuals: Second run]\n[Visuals: Another shot]", workflow.RunOptions{})
	second := session.Epoch()

	assert.NotEqual(t, first, second)
	scenes := session.Snapshot()
	assert.Len(t, scenes, 2)
	assert.Equal(t, "Second run", scenes[0].OriginalLine)
}

func TestStoryboardEmptyScriptYieldsEmptyRun(t *testing.T) {
	wf, session, _, _ := newWorkflowUnderTest()

	scenes := wf.Run(context.Background(), "Narrator: nothing but labels\n", workflow.RunOptions{})

	assert.Len(t, scenes, 0)
	assert.Len(t, session.Snapshot(), 0)
}
