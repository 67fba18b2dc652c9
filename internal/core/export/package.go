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

package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/Mkzay/visualflow/internal/core/model"
)

// Archive member names. project.xml is the name the scripts' completion
// message tells the user to import.
const (
	TimelineFileName    = "project.xml"
	ShellScriptFileName = "download_assets.sh"
	BatchScriptFileName = "download_assets.bat"
)

// BuildPackage renders the full export bundle for the finalized scene list
// and returns the zip archive bytes. An empty projectName falls back to the
// default sequence name. All three members are present even when no scene
// has a selection; the timeline then carries an empty track. Any
// construction error is terminal for this export only, so the caller can
// retry without losing run state.
func BuildPackage(scenes []*model.Scene, projectName string) ([]byte, error) {
	if projectName == "" {
		projectName = DefaultProjectName
	}
	clips := ResolveClips(scenes, DefaultFrameRate)

	timeline, err := GenerateTimeline(clips, projectName, DefaultFrameRate)
	if err != nil {
		return nil, err
	}

	members := []struct {
		name string
		body []byte
	}{
		{TimelineFileName, timeline},
		{ShellScriptFileName, []byte(GenerateShellScript(clips))},
		{BatchScriptFileName, []byte(GenerateBatchScript(clips))},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, member := range members {
		w, err := zw.Create(member.name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to export archive: %w", member.name, err)
		}
		if _, err := w.Write(member.body); err != nil {
			return nil, fmt.Errorf("failed to write %s to export archive: %w", member.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize export archive: %w", err)
	}
	return buf.Bytes(), nil
}
