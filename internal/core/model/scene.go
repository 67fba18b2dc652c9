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

// Package model defines the core data structures for the application.
// This file holds the Scene, the unit of work that flows through the whole
// pipeline: the script parser creates scenes, the query builder fills in
// their search strings, the aggregation engine grows their media options,
// and the exporter reads their final selections.
//
// Scenes are transient, in-memory objects. They live for the duration of a
// parse session and are discarded wholesale when a new script is processed.
package model

// SceneKind classifies a parsed script line.
type SceneKind string

const (
	SceneKindVisual   SceneKind = "VISUAL"   // An explicit [Visuals: ...] instruction.
	SceneKindDialogue SceneKind = "DIALOGUE" // Spoken or narrative text searched literally.
	SceneKindAudio    SceneKind = "AUDIO"    // A [Sound: ...] cue resolved against the audio library.
)

// Orientation is the shared orientation vocabulary. Provider adapters map
// this onto whatever words their upstream API expects.
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

const (
	// DefaultCutDuration is the number of seconds a freshly parsed visual or
	// dialogue scene occupies on the exported timeline.
	DefaultCutDuration = 4.0

	// MinCutDuration and MaxCutDuration bound user adjustments to a scene's
	// cut length.
	MinCutDuration = 1.0
	MaxCutDuration = 10.0
)

// Scene is one parsed unit of script content together with its search state.
//
// Invariants enforced across the pipeline:
//   - ID is unique and stable for the lifetime of a parse session.
//   - MediaOptions is append-only; "load more" grows it, nothing shrinks or
//     reorders it.
//   - Selected, when present, is always one of MediaOptions.
//   - Page starts at 1 and only ever increases.
type Scene struct {
	ID            int            `json:"id"`
	OriginalLine  string         `json:"original_line"`
	Kind          SceneKind      `json:"kind"`
	Query         string         `json:"query"`
	IsAIGenerated bool           `json:"is_ai_generated"`
	CutDuration   float64        `json:"cut_duration"`
	MediaOptions  []*MediaResult `json:"media_options"`
	Selected      *MediaResult   `json:"selected,omitempty"`
	Page          int            `json:"page"`
}

// Clone returns a copy of the scene with its own MediaOptions slice. The
// MediaResult values themselves are immutable once constructed, so sharing
// the pointers is safe; copying the slice is what allows the session to
// replace scene state wholesale without tearing a reader's earlier snapshot.
func (s *Scene) Clone() *Scene {
	out := *s
	out.MediaOptions = make([]*MediaResult, len(s.MediaOptions))
	copy(out.MediaOptions, s.MediaOptions)
	return &out
}
