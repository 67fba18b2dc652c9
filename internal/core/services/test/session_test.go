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

package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mkzay/visualflow/internal/core/model"
	"github.com/Mkzay/visualflow/internal/core/services"
)

func sceneFixture(id int) *model.Scene {
	return &model.Scene{
		ID:           id,
		OriginalLine: "city at night",
		Kind:         model.SceneKindDialogue,
		Query:        "city night",
		CutDuration:  model.DefaultCutDuration,
		MediaOptions: []*model.MediaResult{
			{ID: "m1", Source: model.SourcePexels, Kind: model.MediaKindVideo},
			{ID: "m2", Source: model.SourcePixabay, Kind: model.MediaKindVideo},
		},
	}
}

func TestSessionEpochSupersedesOldRun(t *testing.T) {
	session := services.NewSession()

	first := session.BeginRun()
	second := session.BeginRun()
	assert.NotEqual(t, first, second)

	err := session.ReplaceScenes(first, []*model.Scene{sceneFixture(0)})
	assert.ErrorIs(t, err, services.ErrStaleEpoch)

	err = session.ReplaceScenes(second, []*model.Scene{sceneFixture(0)})
	assert.NoError(t, err)
	assert.Len(t, session.Snapshot(), 1)
}

func TestSessionSnapshotIsIsolated(t *testing.T) {
	session := services.NewSession()
	epoch := session.BeginRun()
	assert.NoError(t, session.ReplaceScenes(epoch, []*model.Scene{sceneFixture(0)}))

	snapshot := session.Snapshot()
	snapshot[0].Query = "mutated"

	fresh, err := session.Scene(0)
	assert.NoError(t, err)
	assert.Equal(t, "city night", fresh.Query)
}

func TestSessionSelect(t *testing.T) {
	session := services.NewSession()
	epoch := session.BeginRun()
	assert.NoError(t, session.ReplaceScenes(epoch, []*model.Scene{sceneFixture(0)}))

	assert.NoError(t, session.Select(0, "m2"))
	scene, err := session.Scene(0)
	assert.NoError(t, err)
	assert.Equal(t, "m2", scene.Selected.ID)

	err = session.Select(0, "nope")
	assert.ErrorIs(t, err, services.ErrUnknownMedia)

	err = session.Select(99, "m1")
	assert.ErrorIs(t, err, services.ErrSceneNotFound)
}

func TestSessionSetCutDurationClamps(t *testing.T) {
	session := services.NewSession()
	epoch := session.BeginRun()
	assert.NoError(t, session.ReplaceScenes(epoch, []*model.Scene{sceneFixture(0)}))

	assert.NoError(t, session.SetCutDuration(0, 99))
	scene, _ := session.Scene(0)
	assert.Equal(t, model.MaxCutDuration, scene.CutDuration)

	assert.NoError(t, session.SetCutDuration(0, 0.2))
	scene, _ = session.Scene(0)
	assert.Equal(t, model.MinCutDuration, scene.CutDuration)

	assert.NoError(t, session.SetCutDuration(0, 6.5))
	scene, _ = session.Scene(0)
	assert.Equal(t, 6.5, scene.CutDuration)
}

func TestSessionAppendOptionsIsAdditive(t *testing.T) {
	session := services.NewSession()
	epoch := session.BeginRun()
	assert.NoError(t, session.ReplaceScenes(epoch, []*model.Scene{sceneFixture(0)}))

	more := []*model.MediaResult{
		{ID: "m3", Source: model.SourceCoverr, Kind: model.MediaKindVideo},
	}
	assert.NoError(t, session.AppendOptions(epoch, 0, "city night", false, more))

	scene, err := session.Scene(0)
	assert.NoError(t, err)
	assert.Len(t, scene.MediaOptions, 3)
	// Earlier entries keep their order; the new page lands at the end.
	assert.Equal(t, "m1", scene.MediaOptions[0].ID)
	assert.Equal(t, "m2", scene.MediaOptions[1].ID)
	assert.Equal(t, "m3", scene.MediaOptions[2].ID)
	assert.Equal(t, 1, scene.Page)
}

func TestSessionAppendOptionsRejectsStaleEpoch(t *testing.T) {
	session := services.NewSession()
	epoch := session.BeginRun()
	assert.NoError(t, session.ReplaceScenes(epoch, []*model.Scene{sceneFixture(0)}))

	session.BeginRun()

	err := session.AppendOptions(epoch, 0, "city night", false, nil)
	assert.ErrorIs(t, err, services.ErrStaleEpoch)
}
