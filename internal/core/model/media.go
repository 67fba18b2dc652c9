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
// This file holds the MediaResult, the tagged union a provider adapter
// produces for each search hit. The Kind field selects which variant
// fields are populated: video results carry thumbnail/stream/page URLs,
// audio results carry name/artist/preview/download URLs. Consumers branch
// on Kind rather than on the presence of individual fields.
package model

import "fmt"

// Source identifies the upstream provider a result came from. The set is
// closed; the aggregation engine interleaves video sources in a fixed
// priority order derived from it.
type Source string

const (
	SourcePexels    Source = "PEXELS"
	SourcePixabay   Source = "PIXABAY"
	SourceCoverr    Source = "COVERR"
	SourceFreesound Source = "FREESOUND"
)

// MediaKind distinguishes the two MediaResult variants.
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// MediaResult is a single candidate clip or sound. Immutable once
// constructed; scenes reference results, they never own or mutate them.
type MediaResult struct {
	// ID is globally unique, composed as {source}-{nativeID}-{ordinal}
	// so results never collide across providers or across repeated
	// fetches of the same provider page.
	ID     string    `json:"id"`
	Source Source    `json:"source"`
	Kind   MediaKind `json:"kind"`

	// Duration is the intrinsic source duration in seconds.
	Duration float64 `json:"duration"`

	// Video variant.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	StreamURL    string `json:"stream_url,omitempty"`
	PageURL      string `json:"page_url,omitempty"`

	// Audio variant.
	Name        string `json:"name,omitempty"`
	Artist      string `json:"artist,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// AssetURL returns the URL a fetch script should download for this result:
// the stream URL for video, the download URL for audio.
func (m *MediaResult) AssetURL() string {
	if m.Kind == MediaKindAudio {
		return m.DownloadURL
	}
	return m.StreamURL
}

// ComposeMediaID builds the collision-free media result identifier from a
// provider tag, the provider's native identifier and the result's ordinal
// within its fetched batch.
func ComposeMediaID(source Source, nativeID any, ordinal int) string {
	return fmt.Sprintf("%s-%v-%d", source, nativeID, ordinal)
}
