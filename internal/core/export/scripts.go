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
	"fmt"
	"strings"
)

// GenerateShellScript renders the POSIX download script. Filenames match
// the timeline document exactly so the project resolves without renaming.
func GenerateShellScript(clips []Clip) string {
	var sh strings.Builder
	sh.WriteString("#!/bin/bash\n")
	sh.WriteString("echo \"Starting VisualFlow Asset Download...\"\n")
	sh.WriteString("mkdir -p " + mediaFolder + "\n")

	for _, clip := range clips {
		fmt.Fprintf(&sh, "echo \"Downloading %s...\"\n", clip.Filename)
		fmt.Fprintf(&sh, "curl -L -o \"%s/%s\" \"%s\"\n", mediaFolder, clip.Filename, clip.URL)
	}

	sh.WriteString("echo \"Download Complete! You can now import project.xml into Premiere Pro.\"")
	return sh.String()
}

// GenerateBatchScript renders the Windows flavor. curl ships with Windows
// 10 and later, so both scripts can share the same download tool.
func GenerateBatchScript(clips []Clip) string {
	var bat strings.Builder
	bat.WriteString("@echo off\n")
	bat.WriteString("echo Starting VisualFlow Asset Download...\n")
	bat.WriteString("mkdir " + mediaFolder + "\n")

	for _, clip := range clips {
		fmt.Fprintf(&bat, "echo Downloading %s...\n", clip.Filename)
		fmt.Fprintf(&bat, "curl -L -o \"%s\\%s\" \"%s\"\n", mediaFolder, clip.Filename, clip.URL)
	}

	bat.WriteString("echo Download Complete! You can now import project.xml into Premiere Pro.\n")
	bat.WriteString("pause")
	return bat.String()
}
