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

// Package export_test contains the test suite for the export package:
// frame placement, filename parity across the bundle members, and the
// archive packaging itself.
package export_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/zeebo/assert"

	"github.com/Mkzay/visualflow/internal/core/export"
	"github.com/Mkzay/visualflow/internal/core/model"
)

func selectedScene(id int, cut float64, mediaID, streamURL string) *model.Scene {
	media := &model.MediaResult{
		ID:        mediaID,
		Source:    model.SourcePexels,
		Kind:      model.MediaKindVideo,
		StreamURL: streamURL,
	}
	return &model.Scene{
		ID:           id,
		OriginalLine: "a line of script text that runs long enough to truncate",
		Kind:         model.SceneKindDialogue,
		CutDuration:  cut,
		MediaOptions: []*model.MediaResult{media},
		Selected:     media,
	}
}

func unselectedScene(id int) *model.Scene {
	return &model.Scene{
		ID:           id,
		OriginalLine: "nothing chosen here",
		Kind:         model.SceneKindDialogue,
		CutDuration:  model.DefaultCutDuration,
		MediaOptions: []*model.MediaResult{},
	}
}

func TestResolveClipsFrameMath(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/a.mp4"),
		selectedScene(1, 2, "PIXABAY-2-0", "https://example.com/b.mp4"),
	}

	clips := export.ResolveClips(scenes, 24)

	assert.Equal(t, 2, len(clips))
	assert.Equal(t, 0, clips[0].Start)
	assert.Equal(t, 96, clips[0].End)
	assert.Equal(t, 96, clips[1].Start)
	assert.Equal(t, 144, clips[1].End)
}

func TestResolveClipsSkipsUnselectedScenes(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/a.mp4"),
		unselectedScene(1),
		selectedScene(2, 2, "PIXABAY-2-0", "https://example.com/b.mp4"),
	}

	clips := export.ResolveClips(scenes, 24)

	// The unselected scene consumes no ordinal and no timeline space.
	assert.Equal(t, 2, len(clips))
	assert.Equal(t, 1, clips[0].Ordinal)
	assert.Equal(t, 2, clips[1].Ordinal)
	assert.Equal(t, 96, clips[1].Start)
	assert.Equal(t, "clip_2_PIXABAY-2-0.mp4", clips[1].Filename)
}

func TestResolveClipsRoundsFractionalDurations(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 1.5, "PEXELS-1-0", "https://example.com/a.mp4"),
	}
	clips := export.ResolveClips(scenes, 24)
	assert.Equal(t, 36, clips[0].Duration)
}

func TestResolveClipsExtensionFromURL(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/video.webm?width=1920"),
		selectedScene(1, 4, "PEXELS-2-0", "https://example.com/stream/178293"),
	}

	clips := export.ResolveClips(scenes, 24)

	assert.Equal(t, "clip_1_PEXELS-1-0.webm", clips[0].Filename)
	// No recognizable extension falls back to the container default.
	assert.Equal(t, "clip_2_PEXELS-2-0.mp4", clips[1].Filename)
}

func TestAudioClipsStayOffTheVideoTrack(t *testing.T) {
	audio := &model.MediaResult{
		ID:          "FREESOUND-9-0",
		Source:      model.SourceFreesound,
		Kind:        model.MediaKindAudio,
		DownloadURL: "https://cdn.freesound.org/previews/9/9_1-hq.mp3",
	}
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/a.mp4"),
		{
			ID:           1,
			OriginalLine: "Distant sirens",
			Kind:         model.SceneKindAudio,
			MediaOptions: []*model.MediaResult{audio},
			Selected:     audio,
		},
		selectedScene(2, 2, "PIXABAY-2-0", "https://example.com/b.mp4"),
	}

	clips := export.ResolveClips(scenes, 24)
	assert.Equal(t, 3, len(clips))

	// The audio clip holds an ordinal and appears in the scripts but must
	// not advance the video track's frame offset.
	assert.Equal(t, "clip_2_FREESOUND-9-0.mp3", clips[1].Filename)
	assert.Equal(t, 96, clips[2].Start)

	timeline, err := export.GenerateTimeline(clips, export.DefaultProjectName, 24)
	assert.NoError(t, err)
	assert.False(t, strings.Contains(string(timeline), "FREESOUND"))

	sh := export.GenerateShellScript(clips)
	assert.True(t, strings.Contains(sh, "clip_2_FREESOUND-9-0.mp3"))
}

func TestTimelineDocumentShape(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/a.mp4"),
	}
	clips := export.ResolveClips(scenes, 24)

	timeline, err := export.GenerateTimeline(clips, export.DefaultProjectName, 24)
	assert.NoError(t, err)

	doc := string(timeline)
	assert.True(t, strings.HasPrefix(doc, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE xmeml>"))
	assert.True(t, strings.Contains(doc, "<xmeml version=\"4\">"))
	assert.True(t, strings.Contains(doc, "<timebase>24</timebase>"))
	assert.True(t, strings.Contains(doc, "<width>1920</width>"))
	assert.True(t, strings.Contains(doc, "<height>1080</height>"))
	assert.True(t, strings.Contains(doc, "<pathurl>file://localhost/./media/clip_1_PEXELS-1-0.mp4</pathurl>"))
	// The clip display name is the scene text truncated to thirty runes.
	assert.True(t, strings.Contains(doc, "<name>a line of script text that run</name>"))
}

func TestTimelineExportIsIdempotent(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/a.mp4"),
		selectedScene(1, 2, "PIXABAY-2-0", "https://example.com/b.mp4"),
	}
	clips := export.ResolveClips(scenes, 24)

	first, err := export.GenerateTimeline(clips, export.DefaultProjectName, 24)
	assert.NoError(t, err)
	second, err := export.GenerateTimeline(clips, export.DefaultProjectName, 24)
	assert.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestScriptsShareFilenamesWithTimeline(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/a.mp4"),
		selectedScene(1, 2, "PIXABAY-2-0", "https://example.com/b.mp4"),
	}
	clips := export.ResolveClips(scenes, 24)

	timeline, err := export.GenerateTimeline(clips, export.DefaultProjectName, 24)
	assert.NoError(t, err)
	sh := export.GenerateShellScript(clips)
	bat := export.GenerateBatchScript(clips)

	for _, clip := range clips {
		assert.True(t, strings.Contains(string(timeline), clip.Filename))
		assert.True(t, strings.Contains(sh, "media/"+clip.Filename))
		assert.True(t, strings.Contains(bat, "media\\"+clip.Filename))
	}
	assert.True(t, strings.HasPrefix(sh, "#!/bin/bash\n"))
	assert.True(t, strings.HasPrefix(bat, "@echo off\n"))
	assert.True(t, strings.HasSuffix(bat, "pause"))
}

func TestBuildPackageContents(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/a.mp4"),
	}

	bundle, err := export.BuildPackage(scenes, "")
	assert.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle)))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(reader.File))

	names := make(map[string]bool)
	for _, f := range reader.File {
		names[f.Name] = true
	}
	assert.True(t, names[export.TimelineFileName])
	assert.True(t, names[export.ShellScriptFileName])
	assert.True(t, names[export.BatchScriptFileName])

	rc, err := reader.Open(export.TimelineFileName)
	assert.NoError(t, err)
	body, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.NoError(t, rc.Close())
	assert.True(t, strings.Contains(string(body), "clip_1_PEXELS-1-0.mp4"))
	// The empty project name falls back to the default sequence name.
	assert.True(t, strings.Contains(string(body), export.DefaultProjectName))
}

func TestBuildPackageProjectName(t *testing.T) {
	scenes := []*model.Scene{
		selectedScene(0, 4, "PEXELS-1-0", "https://example.com/a.mp4"),
	}

	bundle, err := export.BuildPackage(scenes, "Launch Teaser")
	assert.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle)))
	assert.NoError(t, err)
	rc, err := reader.Open(export.TimelineFileName)
	assert.NoError(t, err)
	body, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.NoError(t, rc.Close())
	assert.True(t, strings.Contains(string(body), "<name>Launch Teaser</name>"))
}

func TestBuildPackageWithNoSelections(t *testing.T) {
	bundle, err := export.BuildPackage([]*model.Scene{unselectedScene(0)}, "")
	assert.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle)))
	assert.NoError(t, err)
	// All three members are present even with an empty track.
	assert.Equal(t, 3, len(reader.File))

	rc, err := reader.Open(export.TimelineFileName)
	assert.NoError(t, err)
	body, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.NoError(t, rc.Close())
	assert.False(t, strings.Contains(string(body), "<clipitem"))
}
