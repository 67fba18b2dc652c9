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
// media and AI services. This file implements the Pixabay video adapter,
// the secondary video source in the interleave order.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/Mkzay/visualflow/internal/core/model"
)

// DefaultPixabayEndpoint is the production search URL, overridable in config.
const DefaultPixabayEndpoint = "https://pixabay.com/api/videos/"

// PixabayProvider searches the Pixabay video library. Pixabay takes the
// credential as a query parameter and speaks "horizontal"/"vertical"
// instead of the shared orientation vocabulary.
type PixabayProvider struct {
	cfg     ProviderConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewPixabayProvider builds the adapter from its configuration section.
func NewPixabayProvider(cfg ProviderConfig) *PixabayProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultPixabayEndpoint
	}
	return &PixabayProvider{
		cfg:     cfg,
		client:  newHTTPClient(),
		limiter: newLimiter(cfg.RequestsPerSecond),
	}
}

// Source returns the Pixabay provider tag.
func (p *PixabayProvider) Source() model.Source { return model.SourcePixabay }

// Enabled reports whether the adapter is administratively on and holds a
// credential.
func (p *PixabayProvider) Enabled() bool { return p.cfg.Enabled && p.cfg.APIKey != "" }

// pixabayResponse mirrors the subset of the Pixabay search response the
// adapter consumes.
type pixabayResponse struct {
	Hits []struct {
		ID        int64   `json:"id"`
		PictureID string  `json:"picture_id"`
		Duration  float64 `json:"duration"`
		PageURL   string  `json:"pageURL"`
		Videos    struct {
			Large struct {
				URL string `json:"url"`
			} `json:"large"`
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"videos"`
	} `json:"hits"`
}

// mapOrientation translates the shared vocabulary to Pixabay's.
func (p *PixabayProvider) mapOrientation(orientation model.Orientation) string {
	if orientation == model.OrientationPortrait {
		return "vertical"
	}
	return "horizontal"
}

// Search returns up to PageSize Pixabay results for the query, or an empty
// slice on any failure.
func (p *PixabayProvider) Search(ctx context.Context, query string, orientation model.Orientation, page int) []*model.MediaResult {
	out := make([]*model.MediaResult, 0, PageSize)
	if !p.Enabled() {
		return out
	}

	u := fmt.Sprintf("%s?key=%s&q=%s&per_page=%d&page=%d&video_type=film&orientation=%s",
		p.cfg.Endpoint, url.QueryEscape(p.cfg.APIKey), url.QueryEscape(query), PageSize, page, p.mapOrientation(orientation))

	var resp pixabayResponse
	if err := getJSON(ctx, p.client, p.limiter, u, nil, &resp); err != nil {
		logSearchFailure(p.Source(), page, err)
		return out
	}

	for i, v := range resp.Hits {
		stream := v.Videos.Large.URL
		if stream == "" {
			stream = v.Videos.Medium.URL
		}
		if stream == "" {
			continue
		}

		out = append(out, &model.MediaResult{
			ID:           model.ComposeMediaID(model.SourcePixabay, v.ID, i),
			Source:       model.SourcePixabay,
			Kind:         model.MediaKindVideo,
			Duration:     v.Duration,
			ThumbnailURL: fmt.Sprintf("https://i.vimeocdn.com/video/%s_640x360.jpg", v.PictureID),
			StreamURL:    stream,
			PageURL:      v.PageURL,
		})
	}
	return out
}
