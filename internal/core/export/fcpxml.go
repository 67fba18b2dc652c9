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

// Package export turns a finalized scene list into an NLE interchange
// bundle: an xmeml v4 timeline document, POSIX and Windows download
// scripts, and a zip archive holding all three. Every file in the bundle
// references clips by the same synthetic local filename so the project
// resolves cleanly after the download script has run.
package export

import (
	"encoding/xml"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/h2non/filetype"

	"github.com/Mkzay/visualflow/internal/core/model"
)

const (
	// DefaultFrameRate is the fixed timeline frame rate.
	DefaultFrameRate = 24

	// DefaultProjectName names the exported sequence.
	DefaultProjectName = "VisualFlow Sequence"

	sequenceWidth  = 1920
	sequenceHeight = 1080

	// clipNameLength caps the clip display name taken from the scene text.
	clipNameLength = 30

	// mediaFolder is the relative folder both the timeline and the download
	// scripts reference.
	mediaFolder = "media"
)

// xmemlHeader precedes the marshaled document. Premiere and other xmeml
// consumers require the DOCTYPE declaration.
const xmemlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE xmeml>\n"

// Clip is one exported timeline entry: a scene's selected media plus its
// resolved frame placement and synthetic filename.
type Clip struct {
	Ordinal  int    // 1-based position among exported clips.
	Filename string // clip_<ordinal>_<media id>.<ext>
	Name     string // Display name, truncated scene text.
	URL      string // Remote asset URL for the download scripts.
	Kind     model.MediaKind
	Start    int // Frame offset on the video track, video clips only.
	End      int
	Duration int
}

// xmeml v4 document structure. Only the elements the interchange needs are
// modeled; unknown elements are not round-tripped.

type rateElement struct {
	Timebase int    `xml:"timebase"`
	NTSC     string `xml:"ntsc"`
}

type sampleCharacteristics struct {
	Rate             rateElement `xml:"rate"`
	Width            int         `xml:"width"`
	Height           int         `xml:"height"`
	Anamorphic       string      `xml:"anamorphic,omitempty"`
	PixelAspectRatio string      `xml:"pixelaspectratio,omitempty"`
	FieldDominance   string      `xml:"fielddominance,omitempty"`
}

type videoFormat struct {
	SampleCharacteristics sampleCharacteristics `xml:"samplecharacteristics"`
}

type fileMediaVideo struct {
	SampleCharacteristics sampleCharacteristics `xml:"samplecharacteristics"`
}

type fileMedia struct {
	Video fileMediaVideo `xml:"video"`
}

type clipFile struct {
	ID       string      `xml:"id,attr"`
	Name     string      `xml:"name"`
	PathURL  string      `xml:"pathurl"`
	Rate     rateElement `xml:"rate"`
	Duration int         `xml:"duration"`
	Media    fileMedia   `xml:"media"`
}

type clipItem struct {
	ID       string      `xml:"id,attr"`
	Name     string      `xml:"name"`
	Duration int         `xml:"duration"`
	Rate     rateElement `xml:"rate"`
	Start    int         `xml:"start"`
	End      int         `xml:"end"`
	In       int         `xml:"in"`
	Out      int         `xml:"out"`
	File     clipFile    `xml:"file"`
}

type videoTrack struct {
	ClipItems []clipItem `xml:"clipitem"`
}

type sequenceVideo struct {
	Format videoFormat `xml:"format"`
	Track  videoTrack  `xml:"track"`
}

type audioTrack struct{}

type sequenceAudio struct {
	Track audioTrack `xml:"track"`
}

type sequenceMedia struct {
	Video sequenceVideo `xml:"video"`
	Audio sequenceAudio `xml:"audio"`
}

type sequence struct {
	ID    string        `xml:"id,attr"`
	Name  string        `xml:"name"`
	Rate  rateElement   `xml:"rate"`
	Media sequenceMedia `xml:"media"`
}

type xmeml struct {
	XMLName  xml.Name `xml:"xmeml"`
	Version  string   `xml:"version,attr"`
	Sequence sequence `xml:"sequence"`
}

// clipExtension resolves the filename extension for a media asset. The
// remote URL's path extension is trusted when it names a known media type;
// otherwise the kind's container default applies.
func clipExtension(kind model.MediaKind, assetURL string) string {
	ext := strings.TrimPrefix(path.Ext(stripQuery(assetURL)), ".")
	if ext != "" && filetype.GetType(ext) != filetype.Unknown {
		return strings.ToLower(ext)
	}
	if kind == model.MediaKindAudio {
		return "mp3"
	}
	return "mp4"
}

func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}

// truncateName shortens the scene text to the clip display length without
// splitting a multi-byte rune.
func truncateName(in string) string {
	runes := []rune(in)
	if len(runes) <= clipNameLength {
		return in
	}
	return string(runes[:clipNameLength])
}

// ResolveClips flattens the scene list into the ordered exported clip list.
// Scenes without a selection are skipped and consume no ordinal and no
// timeline space. Video and dialogue clips advance the running frame
// offset; audio clips appear in the download scripts but not on the video
// track, so they leave the offset untouched.
func ResolveClips(scenes []*model.Scene, frameRate int) []Clip {
	clips := make([]Clip, 0, len(scenes))
	startFrame := 0
	ordinal := 0

	for _, scene := range scenes {
		if scene.Selected == nil {
			continue
		}
		ordinal++

		selected := scene.Selected
		clip := Clip{
			Ordinal:  ordinal,
			Name:     truncateName(scene.OriginalLine),
			URL:      selected.AssetURL(),
			Kind:     selected.Kind,
			Filename: fmt.Sprintf("clip_%d_%s.%s", ordinal, selected.ID, clipExtension(selected.Kind, selected.AssetURL())),
		}

		if selected.Kind == model.MediaKindVideo {
			durationFrames := int(math.Round(scene.CutDuration * float64(frameRate)))
			clip.Start = startFrame
			clip.End = startFrame + durationFrames
			clip.Duration = durationFrames
			startFrame += durationFrames
		}

		clips = append(clips, clip)
	}
	return clips
}

// GenerateTimeline renders the xmeml v4 document for the exported clips.
// The output is deterministic for a given clip list, so repeated exports of
// the same selections are byte-identical.
func GenerateTimeline(clips []Clip, projectName string, frameRate int) ([]byte, error) {
	rate := rateElement{Timebase: frameRate, NTSC: "FALSE"}

	items := make([]clipItem, 0, len(clips))
	for _, clip := range clips {
		if clip.Kind != model.MediaKindVideo {
			continue
		}
		items = append(items, clipItem{
			ID:       fmt.Sprintf("clipitem-%d", clip.Ordinal),
			Name:     clip.Name,
			Duration: clip.Duration,
			Rate:     rate,
			Start:    clip.Start,
			End:      clip.End,
			In:       0,
			Out:      clip.Duration,
			File: clipFile{
				ID:       fmt.Sprintf("file-%d", clip.Ordinal),
				Name:     clip.Filename,
				PathURL:  fmt.Sprintf("file://localhost/./%s/%s", mediaFolder, clip.Filename),
				Rate:     rate,
				Duration: clip.Duration,
				Media: fileMedia{
					Video: fileMediaVideo{
						SampleCharacteristics: sampleCharacteristics{
							Rate:   rate,
							Width:  sequenceWidth,
							Height: sequenceHeight,
						},
					},
				},
			},
		})
	}

	doc := xmeml{
		Version: "4",
		Sequence: sequence{
			ID:   "sequence-1",
			Name: projectName,
			Rate: rate,
			Media: sequenceMedia{
				Video: sequenceVideo{
					Format: videoFormat{
						SampleCharacteristics: sampleCharacteristics{
							Rate:             rate,
							Width:            sequenceWidth,
							Height:           sequenceHeight,
							Anamorphic:       "FALSE",
							PixelAspectRatio: "square",
							FieldDominance:   "none",
						},
					},
					Track: videoTrack{ClipItems: items},
				},
				Audio: sequenceAudio{},
			},
		},
	}

	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timeline document: %w", err)
	}
	return append([]byte(xmemlHeader), body...), nil
}
