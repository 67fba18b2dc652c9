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
// media and AI services. This file defines the uniform adapter contracts
// and the shared HTTP plumbing.
//
// Every adapter obeys the same rules:
//   - A page holds at most PageSize results.
//   - A missing credential or a disabled flag means an immediate empty
//     result, with no network call.
//   - Any transport error, non-success status, or unparseable body is
//     logged and becomes an empty result. Adapters never return errors to
//     their callers; partial provider failure must not fail a search round.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Mkzay/visualflow/internal/core/model"
)

// PageSize is the fixed number of results requested from each provider per
// call. Small on purpose: search rounds fan out to several providers and
// the interleaved front of the list is what the user sees first.
const PageSize = 3

// VideoProvider is the uniform search capability of a stock-video source.
type VideoProvider interface {
	// Source returns the provider tag stamped onto every result.
	Source() model.Source

	// Enabled reports whether the adapter may be called at all: the
	// administrative flag is on and a credential is present.
	Enabled() bool

	// Search returns up to PageSize results for the query. It never fails;
	// every internal error degrades to an empty slice.
	Search(ctx context.Context, query string, orientation model.Orientation, page int) []*model.MediaResult
}

// AudioProvider is the uniform search capability of a sound-effect source.
// Audio results are not interleaved with video, so orientation does not
// apply.
type AudioProvider interface {
	Source() model.Source
	Enabled() bool
	Search(ctx context.Context, query string, page int) []*model.MediaResult
}

// newHTTPClient returns the client adapters share. Provider APIs answer
// small JSON documents; a short timeout keeps a stalled provider from
// holding up a whole batch.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// newLimiter builds a token-bucket limiter from a requests-per-second
// config value, defaulting to a conservative 2 rps when unset.
func newLimiter(requestsPerSecond int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
}

// getJSON performs a rate-limited GET and decodes the JSON response into
// out. The caller supplies any provider-specific headers. A non-2xx status
// is an error; the body is not inspected further in that case.
func getJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, url string, headers map[string]string, out interface{}) error {
	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// logSearchFailure records a provider failure. Failures are absorbed, never
// propagated, so the log line is the only trace they leave.
func logSearchFailure(source model.Source, page int, err error) {
	slog.Warn("provider search failed", "source", string(source), "page", page, "error", err)
}
