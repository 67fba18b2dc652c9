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

package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/Mkzay/visualflow/internal/core/model"
)

// DefaultFreesoundEndpoint is the production text-search URL.
const DefaultFreesoundEndpoint = "https://freesound.org/apiv2/search/text/"

// FreesoundProvider is the sole audio source. Freesound authenticates with
// a token query parameter and serves MP3 previews that double as download
// URLs for the generated fetch scripts.
type FreesoundProvider struct {
	cfg     ProviderConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewFreesoundProvider builds the adapter from its configuration section.
func NewFreesoundProvider(cfg ProviderConfig) *FreesoundProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultFreesoundEndpoint
	}
	return &FreesoundProvider{
		cfg:     cfg,
		client:  newHTTPClient(),
		limiter: newLimiter(cfg.RequestsPerSecond),
	}
}

// Source returns the Freesound provider tag.
func (f *FreesoundProvider) Source() model.Source { return model.SourceFreesound }

// Enabled reports whether the adapter is administratively on and holds a
// credential.
func (f *FreesoundProvider) Enabled() bool { return f.cfg.Enabled && f.cfg.APIKey != "" }

// freesoundResponse mirrors the fielded search response. The preview keys
// use hyphens upstream, hence the explicit tags.
type freesoundResponse struct {
	Results []struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Username string  `json:"username"`
		Duration float64 `json:"duration"`
		Previews struct {
			HQMP3 string `json:"preview-hq-mp3"`
			LQMP3 string `json:"preview-lq-mp3"`
		} `json:"previews"`
	} `json:"results"`
}

// Search returns up to PageSize sound results for the query, or an empty
// slice on any failure. The high quality preview is preferred; entries with
// no preview at all are skipped since they cannot be scripted for download.
func (f *FreesoundProvider) Search(ctx context.Context, query string, page int) []*model.MediaResult {
	out := make([]*model.MediaResult, 0, PageSize)
	if !f.Enabled() {
		return out
	}

	u := fmt.Sprintf("%s?query=%s&page_size=%d&page=%d&fields=id,name,username,previews,duration&token=%s",
		f.cfg.Endpoint, url.QueryEscape(query), PageSize, page, url.QueryEscape(f.cfg.APIKey))

	var resp freesoundResponse
	if err := getJSON(ctx, f.client, f.limiter, u, nil, &resp); err != nil {
		logSearchFailure(f.Source(), page, err)
		return out
	}

	for i, s := range resp.Results {
		preview := s.Previews.HQMP3
		if preview == "" {
			preview = s.Previews.LQMP3
		}
		if preview == "" {
			continue
		}

		out = append(out, &model.MediaResult{
			ID:          model.ComposeMediaID(model.SourceFreesound, s.ID, i),
			Source:      model.SourceFreesound,
			Kind:        model.MediaKindAudio,
			Duration:    s.Duration,
			Name:        s.Name,
			Artist:      s.Username,
			PreviewURL:  preview,
			DownloadURL: preview,
		})
	}
	return out
}
