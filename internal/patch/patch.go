// Package patch implements the draft overlay on request definitions:
// staging edits against the committed base, pruning staged values that
// drift back to the base, and committing or discarding the draft
// atomically. It also computes the effective (base + draft) view handed
// to the execution pipeline.
package patch

import (
	"reflect"

	"github.com/studiowebux/restdesk/internal/types"
)

// ParamUpdate is a partial edit of one keyed entry. Nil fields are left
// untouched. In an Update map, a nil *ParamUpdate value is a tombstone:
// the entry is removed relative to the base.
type ParamUpdate struct {
	Name    *string
	Value   *string
	Enabled *bool
	Secure  *bool
}

// BodyUpdate is a partial edit of the request body.
type BodyUpdate struct {
	Type        *string
	Language    *string
	Content     *string
	Encoding    *string
	FormData    map[string]*ParamUpdate
	FilePath    *string
	FileName    *string
	ContentType *string
}

// Update carries one batch of staged edits. Nil fields are untouched.
type Update struct {
	Name   *string
	Kind   *string
	Method *string
	URL    *string

	Params  map[string]*ParamUpdate
	Query   map[string]*ParamUpdate
	Headers map[string]*ParamUpdate
	Cookies map[string]*ParamUpdate

	Body    *BodyUpdate
	Auth    *types.Auth
	Options map[string]any // nil value deletes the key
}

// String returns a pointer to s, for building updates inline.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building updates inline.
func Bool(b bool) *bool { return &b }

// Apply stages the update onto the request's patch without touching any
// base field. Values equal to the base are pruned so that a no-op edit
// leaves no trace, and an emptied patch collapses back to the explicit
// empty patch. The request's updated counter is bumped.
func Apply(r *types.Request, u *Update) {
	if r.Patch == nil {
		r.Patch = &types.RequestPatch{}
	}
	p := r.Patch

	applyScalar(&p.Name, r.Name, u.Name)
	applyScalar(&p.Kind, r.Kind, u.Kind)
	applyScalar(&p.Method, r.Method, u.Method)
	applyScalar(&p.URL, r.URL, u.URL)

	applyParamMap(&p.Params, r.Params, u.Params)
	applyParamMap(&p.Query, r.Query, u.Query)
	applyParamMap(&p.Headers, r.Headers, u.Headers)
	applyParamMap(&p.Cookies, r.Cookies, u.Cookies)

	applyBody(p, r, u.Body)
	applyAuth(p, r, u.Auth)
	applyOptions(p, r, u.Options)

	if p.IsEmpty() {
		r.Patch = &types.RequestPatch{}
	}
	r.Updated++
}

// Commit merges the patch onto the base fields and resets the patch to
// empty. Keyed maps are replaced wholesale, which is what makes
// tombstoned entries disappear: a deleted key is simply absent from the
// replacement map. A staged authentication change purges payloads left
// over from the previous type.
func Commit(r *types.Request) {
	merge(r, r.Patch)
	r.Patch = &types.RequestPatch{}
	r.Updated++
}

// Discard drops the draft unconditionally.
func Discard(r *types.Request) {
	r.Patch = &types.RequestPatch{}
	r.Updated++
}

// EffectiveView returns the request as the execution pipeline should see
// it: base with the draft applied, carrying an empty patch. It is a pure
// projection; neither the input nor shared state is mutated.
func EffectiveView(r *types.Request) *types.Request {
	view := r.Clone()
	merge(view, view.Patch)
	view.Patch = &types.RequestPatch{}
	return view
}

// merge folds a patch into the request in place. Used by both Commit and
// EffectiveView so the two can never drift apart.
func merge(r *types.Request, p *types.RequestPatch) {
	if p == nil {
		return
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Kind != nil {
		r.Kind = *p.Kind
	}
	if p.Method != nil {
		r.Method = *p.Method
	}
	if p.URL != nil {
		r.URL = *p.URL
	}
	if p.Params != nil {
		r.Params = p.Params.Clone()
	}
	if p.Query != nil {
		r.Query = p.Query.Clone()
	}
	if p.Headers != nil {
		r.Headers = p.Headers.Clone()
	}
	if p.Cookies != nil {
		r.Cookies = p.Cookies.Clone()
	}
	if p.Body != nil {
		mergeBody(r, p.Body)
	}
	if p.Auth != nil {
		r.Auth = p.Auth.Clone()
		r.Auth.Purge()
	}
	if p.Options != nil {
		r.Options = types.CloneOptions(p.Options)
	}
}

func mergeBody(r *types.Request, bp *types.BodyPatch) {
	if r.Body == nil {
		r.Body = &types.Body{Type: types.BodyNone}
	}
	if bp.Type != nil {
		r.Body.Type = *bp.Type
	}
	if bp.Language != nil {
		r.Body.Language = *bp.Language
	}
	if bp.Content != nil {
		r.Body.Content = *bp.Content
	}
	if bp.Encoding != nil {
		r.Body.Encoding = *bp.Encoding
	}
	if bp.FormData != nil {
		r.Body.FormData = bp.FormData.Clone()
	}
	if bp.FilePath != nil {
		r.Body.FilePath = *bp.FilePath
	}
	if bp.FileName != nil {
		r.Body.FileName = *bp.FileName
	}
	if bp.ContentType != nil {
		r.Body.ContentType = *bp.ContentType
	}
}

// applyScalar stages a scalar edit: storing the value only while it
// differs from the base, clearing the slot when it matches again.
func applyScalar(slot **string, base string, update *string) {
	if update == nil {
		return
	}
	if *update == base {
		*slot = nil
		return
	}
	value := *update
	*slot = &value
}

// applyParamMap stages edits to one keyed map. On first touch the patch
// map is seeded as a clone of the base map; tombstones then remove keys
// from it, upserts merge onto the current entry (patched or base). The
// whole map is pruned from the patch once it matches the base again.
func applyParamMap(slot **types.ParamMap, base *types.ParamMap, updates map[string]*ParamUpdate) {
	if len(updates) == 0 {
		return
	}
	pm := *slot
	if pm == nil {
		if base != nil {
			pm = base.Clone()
		} else {
			pm = types.NewParamMap()
		}
	}
	for id, update := range updates {
		if update == nil {
			pm.Delete(id)
			continue
		}
		entry, ok := pm.Get(id)
		if !ok {
			if baseEntry, inBase := base.Get(id); inBase {
				entry = baseEntry.Clone()
			} else {
				entry = &types.Param{ID: id, Enabled: true}
			}
			pm.Set(id, entry)
		}
		if update.Name != nil {
			entry.Name = *update.Name
		}
		if update.Value != nil {
			entry.Value = *update.Value
		}
		if update.Enabled != nil {
			entry.Enabled = *update.Enabled
		}
		if update.Secure != nil {
			entry.Secure = *update.Secure
		}
	}
	if pm.Equal(base) {
		*slot = nil
		return
	}
	*slot = pm
}

// applyBody stages body edits field by field. Each scalar is pruned
// independently when it returns to the base value; FormData follows the
// keyed-map rules; the body patch is dropped entirely once empty.
func applyBody(p *types.RequestPatch, r *types.Request, u *BodyUpdate) {
	if u == nil {
		return
	}
	bp := p.Body
	if bp == nil {
		bp = &types.BodyPatch{}
	}
	base := r.Body
	if base == nil {
		base = &types.Body{Type: types.BodyNone}
	}
	applyScalar(&bp.Type, base.Type, u.Type)
	applyScalar(&bp.Language, base.Language, u.Language)
	applyScalar(&bp.Content, base.Content, u.Content)
	applyScalar(&bp.Encoding, base.Encoding, u.Encoding)
	applyScalar(&bp.FilePath, base.FilePath, u.FilePath)
	applyScalar(&bp.FileName, base.FileName, u.FileName)
	applyScalar(&bp.ContentType, base.ContentType, u.ContentType)
	applyParamMap(&bp.FormData, base.FormData, u.FormData)

	if bp.IsEmpty() {
		p.Body = nil
		return
	}
	p.Body = bp
}

// applyAuth stages an authentication edit. The patch holds a full copy
// seeded from the base on first touch; incoming fields are shallow-merged
// onto it, and the copy is pruned once equal to the base again.
func applyAuth(p *types.RequestPatch, r *types.Request, u *types.Auth) {
	if u == nil {
		return
	}
	staged := p.Auth
	if staged == nil {
		if r.Auth != nil {
			staged = r.Auth.Clone()
		} else {
			staged = &types.Auth{Type: types.AuthInherit}
		}
	}
	if u.Type != "" {
		staged.Type = u.Type
	}
	if u.Basic != nil {
		basic := *u.Basic
		staged.Basic = &basic
	}
	if u.Bearer != nil {
		bearer := *u.Bearer
		staged.Bearer = &bearer
	}
	if u.APIKey != nil {
		key := *u.APIKey
		staged.APIKey = &key
	}
	if u.OAuth2 != nil {
		oauth := *u.OAuth2
		staged.OAuth2 = &oauth
	}
	if authEqual(staged, r.Auth) {
		p.Auth = nil
		return
	}
	p.Auth = staged
}

// applyOptions stages client-option edits, seeding a full copy of the
// base map on first touch. A nil value deletes the key.
func applyOptions(p *types.RequestPatch, r *types.Request, updates map[string]any) {
	if updates == nil {
		return
	}
	staged := p.Options
	if staged == nil {
		staged = types.CloneOptions(r.Options)
		if staged == nil {
			staged = map[string]any{}
		}
	}
	for k, v := range updates {
		if v == nil {
			delete(staged, k)
			continue
		}
		staged[k] = v
	}
	if optionsEqual(staged, r.Options) {
		p.Options = nil
		return
	}
	p.Options = staged
}

func authEqual(a, b *types.Auth) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

func optionsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
