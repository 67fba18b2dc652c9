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
// media and AI services. This file implements the Coverr video adapter,
// the tertiary video source in the interleave order. Coverr's free library
// is comparatively small, so the adapter ships disabled by default in the
// sample configuration.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/Mkzay/visualflow/internal/core/model"
)

// DefaultCoverrEndpoint is the production search URL, overridable in config.
const DefaultCoverrEndpoint = "https://api.coverr.co/videos"

// CoverrProvider searches the Coverr video library. Coverr uses bearer
// authentication and returns download URLs only when asked via urls=true.
type CoverrProvider struct {
	cfg     ProviderConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewCoverrProvider builds the adapter from its configuration section.
func NewCoverrProvider(cfg ProviderConfig) *CoverrProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultCoverrEndpoint
	}
	return &CoverrProvider{
		cfg:     cfg,
		client:  newHTTPClient(),
		limiter: newLimiter(cfg.RequestsPerSecond),
	}
}

// Source returns the Coverr provider tag.
func (c *CoverrProvider) Source() model.Source { return model.SourceCoverr }

// Enabled reports whether the adapter is administratively on and holds a
// credential.
func (c *CoverrProvider) Enabled() bool { return c.cfg.Enabled && c.cfg.APIKey != "" }

// coverrResponse mirrors the subset of the Coverr search response the
// adapter consumes.
type coverrResponse struct {
	Hits []struct {
		ID        string  `json:"id"`
		Title     string  `json:"title"`
		Poster    string  `json:"poster"`
		Duration  float64 `json:"duration"`
		PageURL   string  `json:"page_url"`
		URLs      struct {
			MP4        string `json:"mp4"`
			MP4Preview string `json:"mp4_preview"`
		} `json:"urls"`
	} `json:"hits"`
}

// Search returns up to PageSize Coverr results for the query, or an empty
// slice on any failure. Coverr pages are zero-based upstream, so the shared
// one-based cursor is shifted here.
func (c *CoverrProvider) Search(ctx context.Context, query string, orientation model.Orientation, page int) []*model.MediaResult {
	out := make([]*model.MediaResult, 0, PageSize)
	if !c.Enabled() {
		return out
	}

	u := fmt.Sprintf("%s?query=%s&page_size=%d&page=%d&urls=true",
		c.cfg.Endpoint, url.QueryEscape(query), PageSize, page-1)

	var resp coverrResponse
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	if err := getJSON(ctx, c.client, c.limiter, u, headers, &resp); err != nil {
		logSearchFailure(c.Source(), page, err)
		return out
	}

	for i, v := range resp.Hits {
		stream := v.URLs.MP4
		if stream == "" {
			stream = v.URLs.MP4Preview
		}
		if stream == "" {
			continue
		}

		out = append(out, &model.MediaResult{
			ID:           model.ComposeMediaID(model.SourceCoverr, v.ID, i),
			Source:       model.SourceCoverr,
			Kind:         model.MediaKindVideo,
			Duration:     v.Duration,
			ThumbnailURL: v.Poster,
			StreamURL:    stream,
			PageURL:      v.PageURL,
		})
	}
	return out
}
