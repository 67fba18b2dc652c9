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

// Package providers_test contains the test suite for the provider
// adapters, exercised against local httptest servers.
package providers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/providers"
)

func providerConfig(endpoint string) providers.ProviderConfig {
	return providers.ProviderConfig{
		APIKey:            "test-key",
		Enabled:           true,
		Endpoint:          endpoint,
		RequestsPerSecond: 100,
	}
}

func TestPexelsQualityPolicy(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"videos": [
			{"id": 101, "image": "https://img/101.jpg", "duration": 12, "url": "https://pexels/101",
			 "video_files": [
				{"height": 360, "link": "https://cdn/101-sd.mp4"},
				{"height": 1080, "link": "https://cdn/101-hd.mp4"},
				{"height": 720, "link": "https://cdn/101-720.mp4"}
			 ]},
			{"id": 102, "image": "https://img/102.jpg", "duration": 8, "url": "https://pexels/102",
			 "video_files": [
				{"height": 480, "link": "https://cdn/102-sd.mp4"}
			 ]}
		]}`))
	}))
	defer srv.Close()

	p := providers.NewPexelsProvider(providerConfig(srv.URL))
	results := p.Search(context.Background(), "city night", model.OrientationLandscape, 1)

	assert.Equal(t, "test-key", gotAuth)
	assert.Equal(t, "city night", gotQuery)
	assert.Len(t, results, 2)

	// The first rendition at or above 720p wins.
	assert.Equal(t, "https://cdn/101-hd.mp4", results[0].StreamURL)
	// With nothing at 720p, the first rendition is used.
	assert.Equal(t, "https://cdn/102-sd.mp4", results[1].StreamURL)
	assert.Equal(t, "PEXELS-101-0", results[0].ID)
	assert.Equal(t, model.MediaKindVideo, results[0].Kind)
}

func TestPexelsErrorsBecomeEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := providers.NewPexelsProvider(providerConfig(srv.URL))
	results := p.Search(context.Background(), "city", model.OrientationLandscape, 1)
	assert.Len(t, results, 0)
}

func TestUncredentialedProviderNeverCalls(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := providerConfig(srv.URL)
	cfg.APIKey = ""
	p := providers.NewPexelsProvider(cfg)

	assert.False(t, p.Enabled())
	results := p.Search(context.Background(), "city", model.OrientationLandscape, 1)
	assert.Len(t, results, 0)
	assert.False(t, called)
}

func TestPixabayOrientationMappingAndThumbnails(t *testing.T) {
	var gotOrientation, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrientation = r.URL.Query().Get("orientation")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits": [
			{"id": 201, "picture_id": "pic-201", "duration": 30, "pageURL": "https://pixabay/201",
			 "videos": {"large": {"url": "https://cdn/201-large.mp4"}, "medium": {"url": "https://cdn/201-medium.mp4"}}},
			{"id": 202, "picture_id": "pic-202", "duration": 15, "pageURL": "https://pixabay/202",
			 "videos": {"large": {"url": ""}, "medium": {"url": "https://cdn/202-medium.mp4"}}}
		]}`))
	}))
	defer srv.Close()

	p := providers.NewPixabayProvider(providerConfig(srv.URL))
	results := p.Search(context.Background(), "city", model.OrientationPortrait, 1)

	// The shared orientation vocabulary maps onto Pixabay's words.
	assert.Equal(t, "vertical", gotOrientation)
	assert.Equal(t, "test-key", gotKey)
	assert.Len(t, results, 2)

	assert.Equal(t, "https://cdn/201-large.mp4", results[0].StreamURL)
	assert.Equal(t, "https://cdn/202-medium.mp4", results[1].StreamURL)
	assert.Equal(t, "https://i.vimeocdn.com/video/pic-201_640x360.jpg", results[0].ThumbnailURL)
	assert.Equal(t, "PIXABAY-201-0", results[0].ID)
}

func TestCoverrBearerAuthAndFallbacks(t *testing.T) {
	var gotAuth, gotPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPage = r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits": [
			{"id": "abc123", "title": "City", "poster": "https://cdn/abc123.jpg", "duration": 11,
			 "page_url": "https://coverr/abc123",
			 "urls": {"mp4": "https://cdn/abc123.mp4", "mp4_preview": "https://cdn/abc123-preview.mp4"}},
			{"id": "def456", "title": "Rain", "poster": "https://cdn/def456.jpg", "duration": 9,
			 "page_url": "https://coverr/def456",
			 "urls": {"mp4": "", "mp4_preview": "https://cdn/def456-preview.mp4"}}
		]}`))
	}))
	defer srv.Close()

	p := providers.NewCoverrProvider(providerConfig(srv.URL))
	results := p.Search(context.Background(), "city", model.OrientationLandscape, 1)

	assert.Equal(t, "Bearer test-key", gotAuth)
	// Coverr pages are zero-based upstream.
	assert.Equal(t, "0", gotPage)
	assert.Len(t, results, 2)
	assert.Equal(t, "https://cdn/abc123.mp4", results[0].StreamURL)
	assert.Equal(t, "https://cdn/def456-preview.mp4", results[1].StreamURL)
	assert.Equal(t, "COVERR-abc123-0", results[0].ID)
}

func TestFreesoundPreviewPolicy(t *testing.T) {
	var gotToken, gotFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		gotFields = r.URL.Query().Get("fields")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [
			{"id": 301, "name": "City Rain", "username": "fieldrecorder", "duration": 14.5,
			 "previews": {"preview-hq-mp3": "https://cdn/301-hq.mp3", "preview-lq-mp3": "https://cdn/301-lq.mp3"}},
			{"id": 302, "name": "Sirens", "username": "urban", "duration": 9.1,
			 "previews": {"preview-hq-mp3": "", "preview-lq-mp3": "https://cdn/302-lq.mp3"}}
		]}`))
	}))
	defer srv.Close()

	p := providers.NewFreesoundProvider(providerConfig(srv.URL))
	results := p.Search(context.Background(), "rain", 1)

	assert.Equal(t, "test-key", gotToken)
	assert.Equal(t, "id,name,username,previews,duration", gotFields)
	assert.Len(t, results, 2)

	// The high quality preview wins when present.
	assert.Equal(t, "https://cdn/301-hq.mp3", results[0].PreviewURL)
	assert.Equal(t, "https://cdn/302-lq.mp3", results[1].PreviewURL)
	assert.Equal(t, model.MediaKindAudio, results[0].Kind)
	assert.Equal(t, "fieldrecorder", results[0].Artist)
	// The preview doubles as the download target for the fetch scripts.
	assert.Equal(t, results[0].PreviewURL, results[0].DownloadURL)
	assert.Equal(t, "FREESOUND-301-0", results[0].ID)
}

func TestDisabledProviderContributesNothing(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := providerConfig(srv.URL)
	cfg.Enabled = false

	video := providers.NewCoverrProvider(cfg)
	assert.Len(t, video.Search(context.Background(), "city", model.OrientationLandscape, 1), 0)

	audio := providers.NewFreesoundProvider(cfg)
	assert.Len(t, audio.Search(context.Background(), "rain", 1), 0)

	assert.False(t, called)
}
