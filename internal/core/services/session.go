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

package services

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Mkzay/visualflow/internal/core/model"
)

var (
	// ErrStaleEpoch is returned when a write arrives tagged with a run
	// epoch that a newer run has already superseded.
	ErrStaleEpoch = errors.New("session: stale run epoch")

	// ErrSceneNotFound is returned when a scene id does not exist in the
	// current scene list.
	ErrSceneNotFound = errors.New("session: scene not found")

	// ErrUnknownMedia is returned when a selection names a media id that is
	// not among the scene's fetched options.
	ErrUnknownMedia = errors.New("session: media id not among scene options")
)

// Session owns the evolving scene list for the current storyboard run. The
// list is replaced wholesale on every update so a reader holding a snapshot
// never observes a torn state. Each run is stamped with an epoch token;
// writes from an abandoned run carry a stale token and are rejected, which
// makes "starting a new run cancels the old one" deterministic.
type Session struct {
	mu     sync.RWMutex
	epoch  string
	scenes []*model.Scene
}

// NewSession returns an empty session with a fresh epoch.
func NewSession() *Session {
	return &Session{epoch: uuid.NewString()}
}

// BeginRun discards the current scene list, mints a new epoch, and returns
// it. In-flight work from the previous run keeps the old token and silently
// loses all subsequent writes.
func (s *Session) BeginRun() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch = uuid.NewString()
	s.scenes = nil
	return s.epoch
}

// Epoch returns the current run token.
func (s *Session) Epoch() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// ReplaceScenes swaps in a new scene list for the given run. The caller
// passes ownership of the slice and must not mutate it afterwards.
func (s *Session) ReplaceScenes(epoch string, scenes []*model.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return ErrStaleEpoch
	}
	s.scenes = scenes
	return nil
}

// Snapshot returns a copy of the current scene list. Scene values are
// cloned so callers can serialize them without racing later updates.
func (s *Session) Snapshot() []*model.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Scene, len(s.scenes))
	for i, scene := range s.scenes {
		out[i] = scene.Clone()
	}
	return out
}

// replaceScene applies fn to a clone of the identified scene and swaps the
// clone into a copied list. Copy-on-write keeps earlier snapshots intact.
func (s *Session) replaceScene(id int, fn func(*model.Scene) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, scene := range s.scenes {
		if scene.ID != id {
			continue
		}
		updated := scene.Clone()
		if err := fn(updated); err != nil {
			return err
		}
		next := make([]*model.Scene, len(s.scenes))
		copy(next, s.scenes)
		next[i] = updated
		s.scenes = next
		return nil
	}
	return ErrSceneNotFound
}

// AppendOptions adds a freshly fetched result page to the end of a scene's
// option list and advances its page cursor. Earlier pages are never
// re-fetched or reordered.
func (s *Session) AppendOptions(epoch string, id int, query string, aiGenerated bool, options []*model.MediaResult) error {
	s.mu.RLock()
	stale := epoch != s.epoch
	s.mu.RUnlock()
	if stale {
		return ErrStaleEpoch
	}
	return s.replaceScene(id, func(scene *model.Scene) error {
		scene.Query = query
		scene.IsAIGenerated = aiGenerated
		scene.MediaOptions = append(scene.MediaOptions, options...)
		scene.Page++
		if scene.Selected == nil && len(scene.MediaOptions) > 0 {
			scene.Selected = scene.MediaOptions[0]
		}
		return nil
	})
}

// Select marks one of a scene's fetched options as the chosen clip.
func (s *Session) Select(id int, mediaID string) error {
	return s.replaceScene(id, func(scene *model.Scene) error {
		for _, option := range scene.MediaOptions {
			if option.ID == mediaID {
				scene.Selected = option
				return nil
			}
		}
		return ErrUnknownMedia
	})
}

// SetCutDuration updates a scene's timeline duration, clamped to the
// allowed range.
func (s *Session) SetCutDuration(id int, seconds float64) error {
	if seconds < model.MinCutDuration {
		seconds = model.MinCutDuration
	}
	if seconds > model.MaxCutDuration {
		seconds = model.MaxCutDuration
	}
	return s.replaceScene(id, func(scene *model.Scene) error {
		scene.CutDuration = seconds
		return nil
	})
}

// Scene returns a clone of the identified scene.
func (s *Session) Scene(id int) (*model.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, scene := range s.scenes {
		if scene.ID == id {
			return scene.Clone(), nil
		}
	}
	return nil, ErrSceneNotFound
}
