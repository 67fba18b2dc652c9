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

// Package test provides utility functions and sample data for the test
// suite: a cached test configuration, scene fixtures, and a sample script
// exercising every line form the parser recognizes.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/providers"
)

// StateManager caches the test configuration so the TOML files are read
// once per test run.
type StateManager struct {
	config *providers.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. Convenience to cut
// boilerplate in tests.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestScript returns a script exercising every line form the parser
// recognizes: visual instructions, timestamped dialogue, narrator labels,
// sound cues, and noise.
func GetTestScript() string {
	return `(0:00) THE HOOK [Visuals: Fast montage of city lights]
Narrator: What if I told you everything changes tonight?
(0:05) The city never sleeps, and neither do its secrets.
[Visuals: Glitch effect over city skyline]
[Sound: Distant sirens in the rain]
ok
(1:12) Every step forward rewrites the story.`
}

// GetTestVideoResult returns a sample video media result in the shape the
// Pexels adapter produces.
func GetTestVideoResult() *model.MediaResult {
	return &model.MediaResult{
		ID:           "PEXELS-2499611-0",
		Source:       model.SourcePexels,
		Kind:         model.MediaKindVideo,
		Duration:     22,
		ThumbnailURL: "https://images.pexels.com/videos/2499611/free-video-2499611.jpg",
		StreamURL:    "https://player.vimeo.com/external/338571404.hd.mp4?s=abc&profile_id=175",
		PageURL:      "https://www.pexels.com/video/2499611/",
	}
}

// GetTestAudioResult returns a sample audio media result in the shape the
// Freesound adapter produces.
func GetTestAudioResult() *model.MediaResult {
	return &model.MediaResult{
		ID:          "FREESOUND-521492-0",
		Source:      model.SourceFreesound,
		Kind:        model.MediaKindAudio,
		Duration:    14.5,
		Name:        "City Rain Sirens",
		Artist:      "fieldrecorder",
		PreviewURL:  "https://cdn.freesound.org/previews/521/521492_11158332-hq.mp3",
		DownloadURL: "https://cdn.freesound.org/previews/521/521492_11158332-hq.mp3",
	}
}

// SetupOS points the configuration loader at the test TOML files, so the
// loader picks up .env.test.toml overrides.
func SetupOS() (err error) {
	err = os.Setenv(providers.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(providers.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *providers.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := providers.NewConfig()
		providers.LoadConfig(config)
		state.config = config
	}
	return state.config
}
