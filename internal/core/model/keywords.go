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
// This file holds the fixed aesthetic vocabularies. A vibe and a color
// grade are keyword suffixes the aggregation engine appends to every
// provider query: base query first, then the vibe phrase, then the color
// phrase, space-joined with empty segments omitted.
package model

// Vibe is a fixed-vocabulary aesthetic modifier.
type Vibe string

const (
	VibeNone      Vibe = "none"
	VibeDark      Vibe = "dark"
	VibeCyberpunk Vibe = "cyberpunk"
	VibeCinematic Vibe = "cinematic"
	VibeCorporate Vibe = "corporate"
)

// ColorGrade is a fixed-vocabulary color treatment modifier.
type ColorGrade string

const (
	ColorGradeNone    ColorGrade = "none"
	ColorGradeWarm    ColorGrade = "warm"
	ColorGradeCold    ColorGrade = "cold"
	ColorGradeVintage ColorGrade = "vintage"
)

// VibeKeywords maps each vibe to its search suffix. The "none" vibe
// contributes nothing.
var VibeKeywords = map[Vibe]string{
	VibeNone:      "",
	VibeDark:      "dark moody atmospheric",
	VibeCyberpunk: "cyberpunk neon glitch futuristic",
	VibeCinematic: "cinematic 4k film look shallow depth of field",
	VibeCorporate: "clean bright business professional office",
}

// ColorGradeKeywords maps each color grade to its search suffix.
var ColorGradeKeywords = map[ColorGrade]string{
	ColorGradeNone:    "",
	ColorGradeWarm:    "golden hour orange yellow warm tones sunset",
	ColorGradeCold:    "cold blue teal cool tones winter",
	ColorGradeVintage: "vintage film grain retro faded analog",
}

// Keywords returns the suffix for v, or the empty string for an unknown vibe.
func (v Vibe) Keywords() string { return VibeKeywords[v] }

// Keywords returns the suffix for g, or the empty string for an unknown grade.
func (g ColorGrade) Keywords() string { return ColorGradeKeywords[g] }
