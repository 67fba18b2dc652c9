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
)

// ServiceClients holds the initialized external service adapters for the
// lifetime of the application. Video adapters are kept in priority order;
// the aggregation layer's interleave depends on that ordering being stable.
type ServiceClients struct {
	Video  []VideoProvider // Priority order: Pexels, Pixabay, Coverr.
	Audio  AudioProvider
	Gemini *GeminiClient
}

// NewServiceClients initializes every configured adapter. Adapters whose
// credentials are absent are still constructed (they decline searches on
// their own); only a malformed Gemini setup is a construction error.
func NewServiceClients(ctx context.Context, cfg *Config) (*ServiceClients, error) {
	gemini, err := NewGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	return &ServiceClients{
		Video: []VideoProvider{
			NewPexelsProvider(cfg.Provider(ProviderKeyPexels)),
			NewPixabayProvider(cfg.Provider(ProviderKeyPixabay)),
			NewCoverrProvider(cfg.Provider(ProviderKeyCoverr)),
		},
		Audio:  NewFreesoundProvider(cfg.Provider(ProviderKeyFreesound)),
		Gemini: gemini,
	}, nil
}
