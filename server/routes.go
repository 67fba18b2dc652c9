// Copyright 2025 VisualFlow Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mkzay/visualflow/internal/core/export"
	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/core/services"
	"github.com/Mkzay/visualflow/internal/core/workflow"
	"github.com/Mkzay/visualflow/internal/providers"
)

// storyboardRequest is the body of a storyboard run. Orientation, vibe, and
// color grade fall back to the configured defaults when omitted.
type storyboardRequest struct {
	Script      string `json:"script" binding:"required"`
	Orientation string `json:"orientation"`
	Vibe        string `json:"vibe"`
	ColorGrade  string `json:"color_grade"`
}

// storyboardUpdate is one NDJSON line of a streaming storyboard response:
// the run's epoch token plus the full accumulated scene list after a batch.
// The final line carries done=true.
type storyboardUpdate struct {
	Epoch  string         `json:"epoch"`
	Scenes []*model.Scene `json:"scenes"`
	Done   bool           `json:"done"`
}

// StoryboardRouter registers the storyboard run endpoint.
//
// POST /storyboard starts a new run and streams progress as NDJSON: one
// line per settled batch, each carrying the full scene list so far, and a
// terminal line with done=true. Starting a run supersedes any run still in
// flight. The request is rejected with 412 when no video provider holds a
// credential, since every run would come back empty.
func StoryboardRouter(r *gin.RouterGroup) {
	r.POST("/storyboard", func(c *gin.Context) {
		var req storyboardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !state.search.HasVideoCredentials() {
			c.JSON(http.StatusPreconditionFailed, gin.H{
				"error": "no video provider credentials configured",
			})
			return
		}

		c.Header("Content-Type", "application/x-ndjson")
		c.Header("Cache-Control", "no-cache")

		encoder := json.NewEncoder(c.Writer)
		flusher, _ := c.Writer.(http.Flusher)

		emit := func(scenes []*model.Scene) {
			_ = encoder.Encode(storyboardUpdate{
				Epoch:  state.session.Epoch(),
				Scenes: scenes,
			})
			if flusher != nil {
				flusher.Flush()
			}
		}

		scenes := state.storyboard.Run(c.Request.Context(), req.Script, workflow.RunOptions{
			Orientation: model.Orientation(req.Orientation),
			Vibe:        model.Vibe(req.Vibe),
			ColorGrade:  model.ColorGrade(req.ColorGrade),
			Emit:        emit,
		})

		_ = encoder.Encode(storyboardUpdate{
			Epoch:  state.session.Epoch(),
			Scenes: scenes,
			Done:   true,
		})
	})
}

// loadMoreRequest identifies the run a "load more" belongs to and may
// override the run-level search settings, mirroring a user who changed the
// global controls between the run and the click.
type loadMoreRequest struct {
	Epoch       string `json:"epoch" binding:"required"`
	Orientation string `json:"orientation"`
	Vibe        string `json:"vibe"`
	ColorGrade  string `json:"color_grade"`
}

type selectRequest struct {
	MediaID string `json:"media_id" binding:"required"`
}

type durationRequest struct {
	Seconds float64 `json:"seconds" binding:"required"`
}

// SceneRouter registers the per-scene refinement endpoints.
//
//   - POST /scenes/:id/more fetches the next result page for one scene and
//     appends it to the existing options. A stale epoch gets 409: the run
//     that produced the scene no longer owns the session.
//   - PUT /scenes/:id/select marks one fetched option as the scene's clip.
//   - PUT /scenes/:id/duration adjusts the scene's timeline cut length.
func SceneRouter(r *gin.RouterGroup) {
	scenes := r.Group("/scenes")
	{
		scenes.POST("/:id/more", func(c *gin.Context) {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			var req loadMoreRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if req.Epoch != state.session.Epoch() {
				c.JSON(http.StatusConflict, gin.H{"error": "run superseded, reload the storyboard"})
				return
			}

			scene, err := state.session.Scene(id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}

			nextPage := scene.Page + 1
			var options []*model.MediaResult
			if scene.Kind == model.SceneKindAudio {
				options = state.search.SearchAudio(c.Request.Context(), scene.Query, nextPage)
			} else {
				cfg := state.config.Defaults
				orientation := valueOr(req.Orientation, cfg.Orientation)
				vibe := valueOr(req.Vibe, cfg.Vibe)
				grade := valueOr(req.ColorGrade, cfg.ColorGrade)
				augmented := services.AugmentQuery(scene.Query, model.Vibe(vibe), model.ColorGrade(grade))
				options = state.search.SearchVideos(c.Request.Context(), augmented, model.Orientation(orientation), nextPage)
			}

			err = state.session.AppendOptions(req.Epoch, id, scene.Query, scene.IsAIGenerated, options)
			if errors.Is(err, services.ErrStaleEpoch) {
				c.JSON(http.StatusConflict, gin.H{"error": "run superseded, reload the storyboard"})
				return
			}
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}

			updated, err := state.session.Scene(id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, updated)
		})

		scenes.PUT("/:id/select", func(c *gin.Context) {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			var req selectRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			err = state.session.Select(id, req.MediaID)
			if errors.Is(err, services.ErrUnknownMedia) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "media id not among scene options"})
				return
			}
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}

			scene, err := state.session.Scene(id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, scene)
		})

		scenes.PUT("/:id/duration", func(c *gin.Context) {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			var req durationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			if err := state.session.SetCutDuration(id, req.Seconds); err != nil {
				c.Status(http.StatusNotFound)
				return
			}

			scene, err := state.session.Scene(id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, scene)
		})
	}
}

// ExportRouter registers the bundle download endpoint.
//
// GET /export renders the timeline document and download scripts for the
// current selections and returns them as a zip attachment. The optional
// name query names the exported sequence. A bundling failure is terminal
// for this export only; the session is untouched and the client may simply
// retry.
func ExportRouter(r *gin.RouterGroup) {
	r.GET("/export", func(c *gin.Context) {
		bundle, err := export.BuildPackage(state.session.Snapshot(), c.Query("name"))
		if err != nil {
			slog.Error("export bundling failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export bundle"})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="visualflow_export.zip"`)
		c.Data(http.StatusOK, "application/zip", bundle)
	})
}

// sourceStatus reports a provider's availability without ever echoing the
// credential itself. Video sources are listed in search priority order.
type sourceStatus struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Enabled       bool   `json:"enabled"`
	HasCredential bool   `json:"has_credential"`
}

// ConfigRouter registers the settings introspection endpoint used by the
// front end to decide which source toggles and AI controls to show.
func ConfigRouter(r *gin.RouterGroup) {
	r.GET("/config/sources", func(c *gin.Context) {
		ordered := []struct {
			key  string
			kind model.MediaKind
		}{
			{providers.ProviderKeyPexels, model.MediaKindVideo},
			{providers.ProviderKeyPixabay, model.MediaKindVideo},
			{providers.ProviderKeyCoverr, model.MediaKindVideo},
			{providers.ProviderKeyFreesound, model.MediaKindAudio},
		}

		sources := make([]sourceStatus, 0, len(ordered))
		for _, entry := range ordered {
			cfg := state.config.Providers[entry.key]
			sources = append(sources, sourceStatus{
				ID:            entry.key,
				Kind:          string(entry.kind),
				Enabled:       cfg.Enabled,
				HasCredential: cfg.APIKey != "",
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"sources":     sources,
			"ai_enabled":  state.config.Defaults.UseAI && state.clients.Gemini.Enabled(),
			"orientation": state.config.Defaults.Orientation,
			"vibe":        state.config.Defaults.Vibe,
			"color_grade": state.config.Defaults.ColorGrade,
		})
	})
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
