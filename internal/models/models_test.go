package models

import "testing"

func TestChangeSetContains(t *testing.T) {
	set := ChangeSet{ChangeBasic, ChangeBody}

	if !set.Contains(ChangeBasic) {
		t.Error("Contains(ChangeBasic) = false, want true")
	}
	if set.Contains(ChangeResponses) {
		t.Error("Contains(ChangeResponses) = true, want false")
	}
}

func TestChangeSetRollbackable(t *testing.T) {
	tests := []struct {
		name string
		set  ChangeSet
		want bool
	}{
		{"basic only", ChangeSet{ChangeBasic}, true},
		{"multi aspect", ChangeSet{ChangeBasic, ChangeResponses, ChangeBody}, true},
		{"created", ChangeSet{ChangeCreated}, false},
		{"deleted", ChangeSet{ChangeDeleted}, false},
		{"empty", ChangeSet{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Rollbackable(); got != tt.want {
				t.Errorf("Rollbackable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChangeSetInt16sRoundTrip(t *testing.T) {
	set := ChangeSet{ChangeResponses, ChangeParams}

	got := ChangeSetFromInt16s(set.Int16s())
	if len(got) != 2 || got[0] != ChangeResponses || got[1] != ChangeParams {
		t.Errorf("round trip = %v, want %v", got, set)
	}
}

func TestUpdateApiRequestEmpty(t *testing.T) {
	var req UpdateApiRequest
	if !req.Empty() {
		t.Error("Empty() = false for zero request")
	}

	dict := int64(3)
	req.DictionaryID = &dict
	if !req.Empty() {
		t.Error("dictionary move alone should still count as empty")
	}

	body := "{}"
	req.BodyJSON = &body
	if req.Empty() {
		t.Error("Empty() = true with body payload")
	}
}

func TestUpdateApiRequestValidate(t *testing.T) {
	body := "{}"

	req := UpdateApiRequest{ProjectID: 1, BodyJSON: &body}
	if err := req.Validate(); err != nil {
		t.Errorf("valid request: %v", err)
	}

	req = UpdateApiRequest{BodyJSON: &body}
	if err := req.Validate(); err == nil {
		t.Error("missing project_id should fail validation")
	}

	req = UpdateApiRequest{
		ProjectID: 1,
		BasicInfo: &BasicInfoPayload{Name: "login", Method: "TRACE", URL: "/login"},
	}
	if err := req.Validate(); err == nil {
		t.Error("unknown method should fail validation")
	}

	req = UpdateApiRequest{
		ProjectID: 1,
		Params:    &[]ParamGroup{{Class: 9}},
	}
	if err := req.Validate(); err == nil {
		t.Error("out-of-range param class should fail validation")
	}
}

func TestCreateApiRequestValidate(t *testing.T) {
	req := CreateApiRequest{
		ProjectID:    1,
		DictionaryID: 2,
		Name:         "get user",
		Method:       "GET",
		URL:          "/users",
	}
	if err := req.Validate(); err != nil {
		t.Errorf("valid request: %v", err)
	}

	req.Method = ""
	if err := req.Validate(); err == nil {
		t.Error("missing method should fail validation")
	}
}

func TestParamClassValid(t *testing.T) {
	for c := ParamClass(0); c < 5; c++ {
		if !c.Valid() {
			t.Errorf("class %d should be valid", c)
		}
	}
	if ParamClass(5).Valid() || ParamClass(-1).Valid() {
		t.Error("out-of-range classes should be invalid")
	}
}
