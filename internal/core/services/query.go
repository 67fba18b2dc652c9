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

// Package services contains the domain logic between the command pipeline
// and the provider adapters: query construction, multi-provider search
// aggregation, and the session that owns the evolving scene list.
package services

import (
	"context"
	"strings"

	"github.com/Mkzay/visualflow/internal/providers"
)

// stopWords are dropped during literal keyword extraction. The list covers
// articles, conjunctions, prepositions, auxiliaries, and pronouns.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "but": {}, "or": {}, "for": {},
	"nor": {}, "on": {}, "at": {}, "to": {}, "from": {}, "by": {}, "in": {},
	"of": {}, "with": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "being": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "shall": {}, "should": {},
	"can": {}, "could": {}, "may": {}, "might": {}, "must": {}, "it": {},
	"its": {}, "he": {}, "she": {}, "they": {}, "we": {}, "i": {}, "you": {},
	"my": {}, "your": {}, "his": {}, "her": {}, "their": {}, "our": {},
	"this": {}, "that": {}, "these": {}, "those": {},
}

// strippedPunctuation is removed wholesale before tokenizing.
const strippedPunctuation = ".,/#!$%^&*;:{}=-_`~()"

// maxQueryKeywords caps how many surviving tokens make it into a query.
const maxQueryKeywords = 4

// ExtractKeywords reduces a sentence to a short literal search query. It
// lowercases, strips punctuation, drops stop words and tokens shorter than
// three characters, and joins the first four survivors with spaces. The
// function is pure and may return an empty string.
func ExtractKeywords(sentence string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, strings.ToLower(sentence))

	keywords := make([]string, 0, maxQueryKeywords)
	for _, word := range strings.Fields(cleaned) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if len(word) <= 2 {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxQueryKeywords {
			break
		}
	}
	return strings.Join(keywords, " ")
}

// queryGenerator is the slice of the Gemini client the builder needs.
type queryGenerator interface {
	Enabled() bool
	GenerateQuery(ctx context.Context, line string, mode providers.QueryMode) string
}

// QueryService builds per-scene search queries, optionally delegating to a
// generative model. AI failures degrade silently to literal extraction so
// that query construction can never fail a run.
type QueryService struct {
	generator queryGenerator
	mode      providers.QueryMode
	useAI     bool
}

// NewQueryService wires the builder to its optional generator. A nil
// generator or useAI=false pins the service to literal extraction.
func NewQueryService(generator queryGenerator, mode providers.QueryMode, useAI bool) *QueryService {
	if mode != providers.QueryModeMetaphorical {
		mode = providers.QueryModeLiteral
	}
	return &QueryService{generator: generator, mode: mode, useAI: useAI}
}

// Build returns the search query for a script line along with a flag
// reporting whether a generative model produced it. The literal fallback is
// always available, so Build never errors.
func (q *QueryService) Build(ctx context.Context, line string) (query string, aiGenerated bool) {
	if q.useAI && q.generator != nil && q.generator.Enabled() {
		if generated := q.generator.GenerateQuery(ctx, line, q.mode); generated != "" {
			return generated, true
		}
	}
	return ExtractKeywords(line), false
}
