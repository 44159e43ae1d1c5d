package patch

import (
	"testing"

	"github.com/studiowebux/restdesk/internal/types"
)

func baseRequest() *types.Request {
	headers := types.NewParamMap()
	headers.Set("h1", &types.Param{ID: "h1", Name: "Accept", Value: "application/json", Enabled: true})
	headers.Set("h2", &types.Param{ID: "h2", Name: "X-Trace", Value: "on", Enabled: true})

	return &types.Request{
		ID:       "r1",
		FolderID: types.RootFolderID,
		Name:     "List users",
		Kind:     types.KindHTTP,
		Method:   "GET",
		URL:      "https://api.example.com/users",
		Headers:  headers,
		Auth:     &types.Auth{Type: types.AuthInherit},
		Patch:    &types.RequestPatch{},
	}
}

func TestApplyStagesScalar(t *testing.T) {
	r := baseRequest()
	before := r.Updated

	Apply(r, &Update{URL: String("https://api.example.com/v2/users")})

	if r.URL != "https://api.example.com/users" {
		t.Errorf("Expected base url untouched, got %q", r.URL)
	}
	if r.Patch.URL == nil || *r.Patch.URL != "https://api.example.com/v2/users" {
		t.Errorf("Expected staged url, got %v", r.Patch.URL)
	}
	if r.Updated <= before {
		t.Error("Expected updated counter to advance")
	}
}

func TestApplyPrunesValueEqualToBase(t *testing.T) {
	r := baseRequest()

	Apply(r, &Update{Method: String("POST")})
	if r.Patch.IsEmpty() {
		t.Fatal("Expected staged method")
	}

	// Editing back to the base value leaves no trace.
	Apply(r, &Update{Method: String("GET")})
	if !r.Patch.IsEmpty() {
		t.Errorf("Expected empty patch after revert, got %+v", r.Patch)
	}
}

func TestApplyNoopKeepsPatchEmpty(t *testing.T) {
	r := baseRequest()

	Apply(r, &Update{Name: String("List users")})

	if !r.Patch.IsEmpty() {
		t.Errorf("Expected empty patch after no-op edit, got %+v", r.Patch)
	}
	if r.Patch == nil {
		t.Error("Expected explicit empty patch, got nil")
	}
}

func TestApplyHeaderTombstone(t *testing.T) {
	r := baseRequest()

	Apply(r, &Update{Headers: map[string]*ParamUpdate{"h2": nil}})

	if r.Headers.Len() != 2 {
		t.Errorf("Expected base headers untouched, got %d entries", r.Headers.Len())
	}
	if r.Patch.Headers == nil {
		t.Fatal("Expected staged header map")
	}
	if _, ok := r.Patch.Headers.Get("h2"); ok {
		t.Error("Expected h2 tombstoned out of the staged map")
	}
	if _, ok := r.Patch.Headers.Get("h1"); !ok {
		t.Error("Expected h1 carried into the staged map")
	}
}

func TestCommitAppliesTombstones(t *testing.T) {
	r := baseRequest()
	Apply(r, &Update{Headers: map[string]*ParamUpdate{"h2": nil}})

	Commit(r)

	if r.Headers.Len() != 1 {
		t.Errorf("Expected 1 header after commit, got %d", r.Headers.Len())
	}
	if _, ok := r.Headers.Get("h2"); ok {
		t.Error("Expected h2 deleted by commit")
	}
	if !r.Patch.IsEmpty() {
		t.Errorf("Expected empty patch after commit, got %+v", r.Patch)
	}
	if r.Patch == nil {
		t.Error("Expected explicit empty patch, got nil")
	}
}

func TestApplyHeaderUpsert(t *testing.T) {
	r := baseRequest()

	Apply(r, &Update{Headers: map[string]*ParamUpdate{
		"h3": {Name: String("Authorization"), Value: String("Bearer tok"), Secure: Bool(true)},
	}})
	Commit(r)

	h, ok := r.Headers.Get("h3")
	if !ok {
		t.Fatal("Expected new header after commit")
	}
	if h.Name != "Authorization" || !h.Enabled || !h.Secure {
		t.Errorf("Expected enabled secure Authorization header, got %+v", h)
	}
}

func TestStageCommitRestage(t *testing.T) {
	r := baseRequest()

	Apply(r, &Update{URL: String("https://api.example.com/v2/users")})
	Commit(r)

	if r.URL != "https://api.example.com/v2/users" {
		t.Errorf("Expected committed url, got %q", r.URL)
	}

	// The committed value is now the base; staging it again is a no-op.
	Apply(r, &Update{URL: String("https://api.example.com/v2/users")})
	if !r.Patch.IsEmpty() {
		t.Errorf("Expected empty patch restaging committed value, got %+v", r.Patch)
	}
}

func TestCommitEmptyPatchChangesNothing(t *testing.T) {
	r := baseRequest()
	before := r.Updated

	Commit(r)

	if r.Method != "GET" || r.URL != "https://api.example.com/users" {
		t.Error("Expected no base change from empty commit")
	}
	if r.Updated <= before {
		t.Error("Expected updated counter to advance")
	}
}

func TestDiscard(t *testing.T) {
	r := baseRequest()
	Apply(r, &Update{Name: String("Draft name"), Method: String("PUT")})

	Discard(r)

	if !r.Patch.IsEmpty() {
		t.Errorf("Expected empty patch after discard, got %+v", r.Patch)
	}
	if r.Name != "List users" || r.Method != "GET" {
		t.Error("Expected base fields untouched by discard")
	}
}

func TestAuthTypeSwitchPurgesOnCommit(t *testing.T) {
	r := baseRequest()
	r.Auth = &types.Auth{Type: types.AuthBasic, Basic: &types.BasicAuth{Username: "u", Password: "p"}}

	Apply(r, &Update{Auth: &types.Auth{Type: types.AuthBearer, Bearer: &types.BearerAuth{Token: "tok"}}})
	Commit(r)

	if r.Auth.Type != types.AuthBearer {
		t.Errorf("Expected bearer auth, got %q", r.Auth.Type)
	}
	if r.Auth.Basic != nil {
		t.Error("Expected stale basic payload purged on commit")
	}
	if r.Auth.Bearer == nil || r.Auth.Bearer.Token != "tok" {
		t.Errorf("Expected bearer token, got %+v", r.Auth.Bearer)
	}
}

func TestApplyAuthEqualToBasePrunes(t *testing.T) {
	r := baseRequest()

	Apply(r, &Update{Auth: &types.Auth{Type: types.AuthInherit}})

	if r.Patch.Auth != nil {
		t.Errorf("Expected auth edit equal to base pruned, got %+v", r.Patch.Auth)
	}
}

func TestApplyBody(t *testing.T) {
	r := baseRequest()

	Apply(r, &Update{Body: &BodyUpdate{
		Type:     String(types.BodyText),
		Language: String("json"),
		Content:  String(`{"name":"demo"}`),
	}})
	Commit(r)

	if r.Body == nil {
		t.Fatal("Expected body after commit")
	}
	if r.Body.Type != types.BodyText || r.Body.Content != `{"name":"demo"}` {
		t.Errorf("Expected text body with content, got %+v", r.Body)
	}
}

func TestApplyOptions(t *testing.T) {
	r := baseRequest()
	r.Options = map[string]any{"timeout": 30, "followRedirects": true}

	Apply(r, &Update{Options: map[string]any{"timeout": 60, "followRedirects": nil}})

	if r.Options["timeout"] != 30 {
		t.Error("Expected base options untouched")
	}
	if r.Patch.Options["timeout"] != 60 {
		t.Errorf("Expected staged timeout 60, got %v", r.Patch.Options["timeout"])
	}
	if _, ok := r.Patch.Options["followRedirects"]; ok {
		t.Error("Expected followRedirects deleted from staged options")
	}

	Commit(r)
	if r.Options["timeout"] != 60 {
		t.Errorf("Expected committed timeout 60, got %v", r.Options["timeout"])
	}
	if _, ok := r.Options["followRedirects"]; ok {
		t.Error("Expected followRedirects gone after commit")
	}
}

func TestEffectiveViewIsPure(t *testing.T) {
	r := baseRequest()
	Apply(r, &Update{
		Method:  String("POST"),
		Headers: map[string]*ParamUpdate{"h2": nil},
	})

	view := EffectiveView(r)

	if view.Method != "POST" {
		t.Errorf("Expected effective method POST, got %q", view.Method)
	}
	if _, ok := view.Headers.Get("h2"); ok {
		t.Error("Expected tombstoned header absent from effective view")
	}
	if !view.Patch.IsEmpty() {
		t.Error("Expected effective view to carry an empty patch")
	}

	// The source request keeps both its base and its draft.
	if r.Method != "GET" {
		t.Errorf("Expected base method untouched, got %q", r.Method)
	}
	if r.Patch.IsEmpty() {
		t.Error("Expected draft preserved on the source request")
	}
	if _, ok := r.Headers.Get("h2"); !ok {
		t.Error("Expected base headers untouched")
	}
}
