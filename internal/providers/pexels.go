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

// Package providers contains the boundary components that talk to external
// media and AI services. This file implements the Pexels video adapter,
// the primary video source in the interleave order.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/Mkzay/visualflow/internal/core/model"
)

// DefaultPexelsEndpoint is the production search URL, overridable in config.
const DefaultPexelsEndpoint = "https://api.pexels.com/videos/search"

// PexelsProvider searches the Pexels video library. Pexels authenticates
// with the raw API key in the Authorization header and understands the
// shared orientation vocabulary directly.
type PexelsProvider struct {
	cfg     ProviderConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewPexelsProvider builds the adapter from its configuration section.
func NewPexelsProvider(cfg ProviderConfig) *PexelsProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultPexelsEndpoint
	}
	return &PexelsProvider{
		cfg:     cfg,
		client:  newHTTPClient(),
		limiter: newLimiter(cfg.RequestsPerSecond),
	}
}

// Source returns the Pexels provider tag.
func (p *PexelsProvider) Source() model.Source { return model.SourcePexels }

// Enabled reports whether the adapter is administratively on and holds a
// credential.
func (p *PexelsProvider) Enabled() bool { return p.cfg.Enabled && p.cfg.APIKey != "" }

// pexelsResponse mirrors the subset of the Pexels search response the
// adapter consumes.
type pexelsResponse struct {
	Videos []struct {
		ID         int64   `json:"id"`
		Image      string  `json:"image"`
		Duration   float64 `json:"duration"`
		URL        string  `json:"url"`
		VideoFiles []struct {
			Height int    `json:"height"`
			Link   string `json:"link"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Search returns up to PageSize Pexels results for the query, or an empty
// slice on any failure.
func (p *PexelsProvider) Search(ctx context.Context, query string, orientation model.Orientation, page int) []*model.MediaResult {
	out := make([]*model.MediaResult, 0, PageSize)
	if !p.Enabled() {
		return out
	}

	u := fmt.Sprintf("%s?query=%s&per_page=%d&page=%d&orientation=%s&size=medium",
		p.cfg.Endpoint, url.QueryEscape(query), PageSize, page, orientation)

	var resp pexelsResponse
	headers := map[string]string{"Authorization": p.cfg.APIKey}
	if err := getJSON(ctx, p.client, p.limiter, u, headers, &resp); err != nil {
		logSearchFailure(p.Source(), page, err)
		return out
	}

	for i, v := range resp.Videos {
		// Best-available rendition: first encoding at or above 720p,
		// otherwise whatever comes first.
		stream := ""
		for _, f := range v.VideoFiles {
			if f.Height >= 720 {
				stream = f.Link
				break
			}
		}
		if stream == "" && len(v.VideoFiles) > 0 {
			stream = v.VideoFiles[0].Link
		}
		if stream == "" {
			continue
		}

		out = append(out, &model.MediaResult{
			ID:           model.ComposeMediaID(model.SourcePexels, v.ID, i),
			Source:       model.SourcePexels,
			Kind:         model.MediaKindVideo,
			Duration:     v.Duration,
			ThumbnailURL: v.Image,
			StreamURL:    stream,
			PageURL:      v.URL,
		})
	}
	return out
}
