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

// Package services_test contains the test suite for the services package.
// This file covers keyword extraction and the query builder.
package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mkzay/visualflow/internal/core/services"
	"github.com/Mkzay/visualflow/internal/providers"
)

func TestExtractKeywordsDropsStopWordsAndShortTokens(t *testing.T) {
	query := services.ExtractKeywords("The city never sleeps, and neither do its secrets.")
	assert.Equal(t, "city never sleeps neither", query)
}

func TestExtractKeywordsStripsPunctuationAndLowercases(t *testing.T) {
	query := services.ExtractKeywords("NEON-SOAKED streets! (after midnight)")
	assert.Equal(t, "neonsoaked streets after midnight", query)
}

func TestExtractKeywordsCapsAtFourTokens(t *testing.T) {
	query := services.ExtractKeywords("golden sunrise over misty mountain valleys with eagles soaring")
	assert.Equal(t, "golden sunrise over misty", query)
}

func TestExtractKeywordsEmptyResult(t *testing.T) {
	assert.Equal(t, "", services.ExtractKeywords("it is of a"))
	assert.Equal(t, "", services.ExtractKeywords(""))
}

// fakeGenerator scripts the AI response for the query builder.
type fakeGenerator struct {
	enabled  bool
	response string
	calls    int
}

func (f *fakeGenerator) Enabled() bool { return f.enabled }

func (f *fakeGenerator) GenerateQuery(_ context.Context, _ string, _ providers.QueryMode) string {
	f.calls++
	return f.response
}

func TestQueryServiceUsesGeneratorWhenAvailable(t *testing.T) {
	gen := &fakeGenerator{enabled: true, response: "neon rain street"}
	svc := services.NewQueryService(gen, providers.QueryModeLiteral, true)

	query, aiGenerated := svc.Build(context.Background(), "The city never sleeps")

	assert.Equal(t, "neon rain street", query)
	assert.True(t, aiGenerated)
	assert.Equal(t, 1, gen.calls)
}

func TestQueryServiceFallsBackOnEmptyResponse(t *testing.T) {
	gen := &fakeGenerator{enabled: true, response: ""}
	svc := services.NewQueryService(gen, providers.QueryModeLiteral, true)

	query, aiGenerated := svc.Build(context.Background(), "The city never sleeps")

	assert.Equal(t, "city never sleeps", query)
	assert.False(t, aiGenerated)
}

func TestQueryServiceSkipsDisabledGenerator(t *testing.T) {
	gen := &fakeGenerator{enabled: false, response: "should not be used"}
	svc := services.NewQueryService(gen, providers.QueryModeLiteral, true)

	query, aiGenerated := svc.Build(context.Background(), "Rooftop sunrise timelapse")

	assert.Equal(t, "rooftop sunrise timelapse", query)
	assert.False(t, aiGenerated)
	assert.Equal(t, 0, gen.calls)
}

func TestQueryServiceHonorsUseAIToggle(t *testing.T) {
	gen := &fakeGenerator{enabled: true, response: "should not be used"}
	svc := services.NewQueryService(gen, providers.QueryModeLiteral, false)

	_, aiGenerated := svc.Build(context.Background(), "Rooftop sunrise timelapse")

	assert.False(t, aiGenerated)
	assert.Equal(t, 0, gen.calls)
}

func TestQueryServiceWithNilGenerator(t *testing.T) {
	svc := services.NewQueryService(nil, providers.QueryModeMetaphorical, true)

	query, aiGenerated := svc.Build(context.Background(), "The beginning of everything")

	assert.Equal(t, "beginning everything", query)
	assert.False(t, aiGenerated)
}
