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
	"context"
	"strings"
	"sync"

	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/providers"
)

// SearchService fans a query out to the configured media providers and
// merges the per-provider pages into a single ordered option list.
type SearchService struct {
	video []providers.VideoProvider // Fixed priority order for the interleave.
	audio providers.AudioProvider
}

// NewSearchService builds the aggregation layer over the initialized
// provider adapters.
func NewSearchService(clients *providers.ServiceClients) *SearchService {
	return &SearchService{video: clients.Video, audio: clients.Audio}
}

// AugmentQuery appends the vibe and color grade keyword phrases to the base
// query. Empty segments contribute nothing, so "none" settings leave the
// base query untouched.
func AugmentQuery(base string, vibe model.Vibe, grade model.ColorGrade) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{base, vibe.Keywords(), grade.Keywords()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Interleave merges per-provider result pages round-robin: for ordinal i
// from 0 upward it takes each provider's i-th result in priority order.
// This keeps the front of the merged list visually diverse even when one
// provider returns far more results than another.
func Interleave(pages ...[]*model.MediaResult) []*model.MediaResult {
	total, longest := 0, 0
	for _, page := range pages {
		total += len(page)
		if len(page) > longest {
			longest = len(page)
		}
	}

	merged := make([]*model.MediaResult, 0, total)
	for i := 0; i < longest; i++ {
		for _, page := range pages {
			if i < len(page) {
				merged = append(merged, page[i])
			}
		}
	}
	return merged
}

// SearchVideos runs the augmented query against every enabled video
// provider concurrently and interleaves the results in provider priority
// order. Disabled or uncredentialed providers contribute empty pages, and
// provider failures have already been absorbed by the adapters, so the
// result is always usable (possibly empty).
func (s *SearchService) SearchVideos(ctx context.Context, query string, orientation model.Orientation, page int) []*model.MediaResult {
	pages := make([][]*model.MediaResult, len(s.video))

	var wg sync.WaitGroup
	for i, provider := range s.video {
		if !provider.Enabled() {
			continue
		}
		wg.Add(1)
		go func(slot int, p providers.VideoProvider) {
			defer wg.Done()
			pages[slot] = p.Search(ctx, query, orientation, page)
		}(i, provider)
	}
	wg.Wait()

	return Interleave(pages...)
}

// SearchAudio runs the query against the audio provider. Audio results are
// never interleaved with video results; audio scenes form a disjoint path.
func (s *SearchService) SearchAudio(ctx context.Context, query string, page int) []*model.MediaResult {
	if s.audio == nil || !s.audio.Enabled() {
		return []*model.MediaResult{}
	}
	return s.audio.Search(ctx, query, page)
}

// HasVideoCredentials reports whether at least one video provider can
// actually be called. A run with no usable video source is rejected up
// front instead of silently producing empty storyboards.
func (s *SearchService) HasVideoCredentials() bool {
	for _, p := range s.video {
		if p.Enabled() {
			return true
		}
	}
	return false
}
