package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/apitrail/apitrail/internal/models"
	"github.com/apitrail/apitrail/internal/store"
)

func TestCreateApi_RecordsCreationMarker(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	apiID := createTestApi(t, f)

	apis := store.NewApiStore(f.base)

	detail, err := apis.GetApi(ctx, apiID)
	if err != nil {
		t.Fatalf("getting api: %v", err)
	}
	if detail.Name != "list users" || detail.Method != "GET" {
		t.Errorf("unexpected api: %+v", detail.Api)
	}
	if detail.BaseURL != "http://dev.local" {
		t.Errorf("got base url %q", detail.BaseURL)
	}

	versions := store.NewVersionStore(f.base)

	history, err := versions.ListProjectHistory(ctx, f.projectID)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(history))
	}
	if !history[0].Changes.Contains(models.ChangeCreated) {
		t.Errorf("expected creation marker, got %v", history[0].Changes)
	}
	if history[0].UserName != "test-user" {
		t.Errorf("got user name %q", history[0].UserName)
	}
}

func TestUpdateApi_NothingToUpdate(t *testing.T) {
	f := setupFixture(t)
	apiID := createTestApi(t, f)

	apis := store.NewApiStore(f.base)

	_, err := apis.UpdateApi(context.Background(), f.userID, apiID,
		models.UpdateApiRequest{ProjectID: f.projectID})
	if !errors.Is(err, models.ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}
}

func TestUpdateApi_BasicInfoBackedUp(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	apiID := createTestApi(t, f)

	apis := store.NewApiStore(f.base)

	versionID, err := apis.UpdateApi(ctx, f.userID, apiID, models.UpdateApiRequest{
		ProjectID: f.projectID,
		BasicInfo: &models.BasicInfoPayload{
			Name: "list members", Method: "POST", URL: "/members",
		},
	})
	if err != nil {
		t.Fatalf("updating api: %v", err)
	}
	if versionID == 0 {
		t.Fatal("expected a version id for an aspect edit")
	}

	detail, err := apis.GetApi(ctx, apiID)
	if err != nil {
		t.Fatalf("getting api: %v", err)
	}
	if detail.Name != "list members" || detail.Method != "POST" || detail.URL != "/members" {
		t.Errorf("basic info not overwritten: %+v", detail.Api)
	}
	if detail.CurrentVersionID == nil || *detail.CurrentVersionID != versionID {
		t.Errorf("api not pointing at version %d: %v", versionID, detail.CurrentVersionID)
	}

	var backups int
	if err := f.base.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM api_backups WHERE version_id = $1", versionID,
	).Scan(&backups); err != nil {
		t.Fatalf("counting backups: %v", err)
	}
	if backups != 1 {
		t.Errorf("expected 1 backup row, got %d", backups)
	}
}

func TestUpdateApi_DictionaryMoveUnversioned(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	apiID := createTestApi(t, f)

	var otherDict int64
	err := f.base.Pool.QueryRow(ctx,
		"INSERT INTO dictionaries (project_id, dictionary_name) VALUES ($1, 'archive') RETURNING dictionary_id",
		f.projectID,
	).Scan(&otherDict)
	if err != nil {
		t.Fatalf("creating dictionary: %v", err)
	}

	versions := store.NewVersionStore(f.base)

	before, err := versions.ListProjectHistory(ctx, f.projectID)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}

	apis := store.NewApiStore(f.base)

	versionID, err := apis.UpdateApi(ctx, f.userID, apiID, models.UpdateApiRequest{
		ProjectID:    f.projectID,
		DictionaryID: &otherDict,
	})
	if err != nil {
		t.Fatalf("moving api: %v", err)
	}
	if versionID != 0 {
		t.Errorf("move-only edit produced version %d", versionID)
	}

	detail, err := apis.GetApi(ctx, apiID)
	if err != nil {
		t.Fatalf("getting api: %v", err)
	}
	if detail.DictionaryID != otherDict {
		t.Errorf("api not moved: dictionary %d", detail.DictionaryID)
	}

	after, err := versions.ListProjectHistory(ctx, f.projectID)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("ledger grew from %d to %d on a move", len(before), len(after))
	}
}

func TestUpdateApi_SkipsEmptyParamNames(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	apiID := createTestApi(t, f)

	apis := store.NewApiStore(f.base)

	params := []models.ParamGroup{
		{Class: models.ParamClassQuery, Params: []models.ParamPayload{
			{ParamName: "page", ParamType: 1},
			{ParamName: ""},
			{ParamName: "limit", ParamType: 1},
		}},
		{Class: models.ParamClassHeader, Params: []models.ParamPayload{
			{ParamName: ""},
		}},
	}

	if _, err := apis.UpdateApi(ctx, f.userID, apiID, models.UpdateApiRequest{
		ProjectID: f.projectID,
		Params:    &params,
	}); err != nil {
		t.Fatalf("updating params: %v", err)
	}

	detail, err := apis.GetApi(ctx, apiID)
	if err != nil {
		t.Fatalf("getting api: %v", err)
	}

	var total int
	for _, group := range detail.Params {
		total += len(group.Params)
		for _, p := range group.Params {
			if p.ParamName == "" {
				t.Error("empty-name param was stored")
			}
		}
	}
	if total != 2 {
		t.Errorf("expected 2 stored params, got %d", total)
	}
}

func TestUpdateApi_BodyOnlyChangeSet(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	apiID := createTestApi(t, f)

	apis := store.NewApiStore(f.base)

	body := "{\n\t\"page\": 1\n}"
	versionID, err := apis.UpdateApi(ctx, f.userID, apiID, models.UpdateApiRequest{
		ProjectID: f.projectID,
		BodyJSON:  &body,
	})
	if err != nil {
		t.Fatalf("updating body: %v", err)
	}

	versions := store.NewVersionStore(f.base)

	v, err := versions.GetVersion(ctx, f.projectID, versionID)
	if err != nil {
		t.Fatalf("getting version: %v", err)
	}
	if len(v.Changes) != 1 || !v.Changes.Contains(models.ChangeBody) {
		t.Errorf("expected body-only change set, got %v", v.Changes)
	}

	// Literal newlines and tabs are stripped on insert.
	detail, err := apis.GetApi(ctx, apiID)
	if err != nil {
		t.Fatalf("getting api: %v", err)
	}
	if detail.BodyJSON != `{"page": 1}` {
		t.Errorf("got body %q", detail.BodyJSON)
	}
}

func TestUpdateApi_ActiveRowUniqueness(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	apiID := createTestApi(t, f)

	apis := store.NewApiStore(f.base)

	for _, body := range []string{`{"v":1}`, `{"v":2}`, `{"v":3}`} {
		b := body
		if _, err := apis.UpdateApi(ctx, f.userID, apiID, models.UpdateApiRequest{
			ProjectID: f.projectID,
			BodyJSON:  &b,
		}); err != nil {
			t.Fatalf("updating body: %v", err)
		}
	}

	var active int
	if err := f.base.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM request_bodies WHERE api_id = $1 AND active", apiID,
	).Scan(&active); err != nil {
		t.Fatalf("counting active bodies: %v", err)
	}
	if active != 1 {
		t.Errorf("expected exactly 1 active body row, got %d", active)
	}

	var total int
	if err := f.base.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM request_bodies WHERE api_id = $1", apiID,
	).Scan(&total); err != nil {
		t.Fatalf("counting bodies: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 body rows kept as history, got %d", total)
	}
}

func TestDeleteApi_SoftDelete(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	apiID := createTestApi(t, f)

	apis := store.NewApiStore(f.base)

	if err := apis.DeleteApi(ctx, f.userID, apiID, f.projectID); err != nil {
		t.Fatalf("deleting api: %v", err)
	}

	if _, err := apis.GetApi(ctx, apiID); !errors.Is(err, models.ErrApiDeleted) {
		t.Fatalf("expected ErrApiDeleted, got %v", err)
	}

	// Second delete sees no live row.
	if err := apis.DeleteApi(ctx, f.userID, apiID, f.projectID); !errors.Is(err, models.ErrApiNotFound) {
		t.Fatalf("expected ErrApiNotFound, got %v", err)
	}

	versions := store.NewVersionStore(f.base)

	v, err := versions.GetVersion(ctx, f.projectID, latestVersionID(t, f))
	if err != nil {
		t.Fatalf("getting version: %v", err)
	}
	if !v.Changes.Contains(models.ChangeDeleted) {
		t.Errorf("expected deletion marker, got %v", v.Changes)
	}
}
