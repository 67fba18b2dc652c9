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

// Package commands holds the pipeline commands that make up the storyboard
// workflow: parsing the script into scenes and fanning the scenes out to
// the media providers in batches.
package commands

import (
	"regexp"
	"strings"

	"github.com/Mkzay/visualflow/internal/core/cor"
	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/core/services"
)

var (
	// skipPattern matches lines that carry no searchable payload: speaker
	// labels, bracketed sound cues (handled separately below), and lines
	// that are entirely parenthesized stage directions.
	skipPattern = regexp.MustCompile(`(?i)^(Narrator:|Speaker:|\[Sound:|\(.*\)$)`)

	// Sound cues come in a bracketed and a parenthesized form.
	bracketSoundPattern = regexp.MustCompile(`(?i)^\[Sound:\s*`)
	parenSoundPattern   = regexp.MustCompile(`(?i)^\(Sound:\s*`)

	// visualPattern captures the content of a [Visuals: ...] instruction
	// anywhere in a line.
	visualPattern = regexp.MustCompile(`(?i)\[Visuals:\s*(.*?)\]`)

	// timestampPattern matches a leading (m:ss) marker on dialogue lines.
	timestampPattern = regexp.MustCompile(`^\(\d+:\d+\)\s*`)
)

// minDialogueLength is the shortest line, after timestamp stripping, still
// considered content rather than noise.
const minDialogueLength = 3

// ParseScript converts raw script text into an ordered scene list. The
// function is pure and total: malformed lines are dropped silently, never
// reported, and the result may be empty.
//
// Per line, the precedence is: sound cue, then visual instruction, then
// dialogue. Audio scenes get their query pre-seeded from literal keyword
// extraction because the audio path never consults the AI query builder.
func ParseScript(scriptText string) []*model.Scene {
	scenes := make([]*model.Scene, 0)
	idCounter := 0

	for _, line := range strings.Split(scriptText, "\n") {
		cleanLine := strings.TrimSpace(line)
		if cleanLine == "" {
			continue
		}

		if skipPattern.MatchString(cleanLine) {
			// A sound cue hides inside the skip set because it shares the
			// bracket prefix with other metadata tags.
			if bracketSoundPattern.MatchString(cleanLine) || parenSoundPattern.MatchString(cleanLine) {
				content := bracketSoundPattern.ReplaceAllString(cleanLine, "")
				content = strings.TrimSuffix(content, "]")
				content = parenSoundPattern.ReplaceAllString(content, "")
				content = strings.TrimSuffix(content, ")")
				scenes = append(scenes, &model.Scene{
					ID:           idCounter,
					OriginalLine: content,
					Kind:         model.SceneKindAudio,
					Query:        services.ExtractKeywords(content),
					MediaOptions: []*model.MediaResult{},
				})
				idCounter++
			}
			continue
		}

		content := ""
		kind := model.SceneKindDialogue

		if match := visualPattern.FindStringSubmatch(cleanLine); match != nil {
			content = match[1]
			kind = model.SceneKindVisual
		} else {
			content = timestampPattern.ReplaceAllString(cleanLine, "")
			if len(content) < minDialogueLength {
				continue
			}
		}

		if content == "" {
			continue
		}

		scenes = append(scenes, &model.Scene{
			ID:           idCounter,
			OriginalLine: content,
			Kind:         kind,
			CutDuration:  model.DefaultCutDuration,
			MediaOptions: []*model.MediaResult{},
		})
		idCounter++
	}

	return scenes
}

// ScriptParser is the pipeline command wrapper around ParseScript. It reads
// the raw script text from the context and emits the ordered scene list.
type ScriptParser struct {
	cor.BaseCommand
}

// NewScriptParser creates the parser command.
func NewScriptParser(name string) *ScriptParser {
	return &ScriptParser{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable requires the raw script text to be present in the context.
func (s *ScriptParser) IsExecutable(context cor.Context) bool {
	if context == nil {
		return false
	}
	_, ok := context.Get(s.GetInputParam()).(string)
	return ok
}

// Execute parses the script and forwards the scene list to the next
// command. Parsing cannot fail; an unusable script simply produces zero
// scenes.
func (s *ScriptParser) Execute(context cor.Context) {
	scriptText := context.Get(s.GetInputParam()).(string)
	scenes := ParseScript(scriptText)

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), scenes)
	context.Add(cor.CtxOut, scenes)
}
