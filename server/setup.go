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

// Package main contains the setup and initialization logic for the
// application state: configuration loading, provider client construction,
// and the shared services the HTTP handlers depend on.
package main

import (
	"context"
	"log"
	"os"

	"github.com/Mkzay/visualflow/internal/core/services"
	"github.com/Mkzay/visualflow/internal/core/workflow"
	"github.com/Mkzay/visualflow/internal/providers"
)

// StateManager holds the shared dependencies for the application, acting as
// a centralized container for clients and services so handlers do not reach
// for globals individually.
type StateManager struct {
	config     *providers.Config
	clients    *providers.ServiceClients
	session    *services.Session
	queries    *services.QueryService
	search     *services.SearchService
	storyboard *workflow.StoryboardWorkflow
}

// state is the single package-level StateManager instance.
var state = &StateManager{}

// SetupOS points the configuration loader at the TOML files for the local
// runtime. The runtime can still be overridden externally before startup.
func SetupOS() (err error) {
	err = os.Setenv(providers.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	if os.Getenv(providers.EnvConfigRuntime) == "" {
		err = os.Setenv(providers.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig provides a singleton instance of the application configuration,
// loading the TOML files on first use.
func GetConfig() *providers.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		config := providers.NewConfig()
		providers.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState constructs the provider clients and the services over them.
// Provider adapters with missing credentials are still built; they decline
// searches on their own, and the storyboard handler enforces the "at least
// one video source" precondition per run.
func InitState(ctx context.Context) {
	config := GetConfig()

	clients, err := providers.NewServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.clients = clients

	state.session = services.NewSession()
	state.queries = services.NewQueryService(
		clients.Gemini,
		providers.QueryMode(config.Gemini.QueryMode),
		config.Defaults.UseAI,
	)
	state.search = services.NewSearchService(clients)
	state.storyboard = workflow.NewStoryboardWorkflow(config, state.queries, state.search, state.session)
}
