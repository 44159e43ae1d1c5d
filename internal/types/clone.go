package types

// Clone returns a deep copy of the body.
func (b *Body) Clone() *Body {
	if b == nil {
		return nil
	}
	c := *b
	c.FormData = b.FormData.Clone()
	return &c
}

// Clone returns a deep copy of the body patch.
func (b *BodyPatch) Clone() *BodyPatch {
	if b == nil {
		return nil
	}
	c := &BodyPatch{
		Type:        cloneString(b.Type),
		Language:    cloneString(b.Language),
		Content:     cloneString(b.Content),
		Encoding:    cloneString(b.Encoding),
		FormData:    b.FormData.Clone(),
		FilePath:    cloneString(b.FilePath),
		FileName:    cloneString(b.FileName),
		ContentType: cloneString(b.ContentType),
	}
	return c
}

// Clone returns a deep copy of the patch.
func (p *RequestPatch) Clone() *RequestPatch {
	if p == nil {
		return nil
	}
	return &RequestPatch{
		Name:    cloneString(p.Name),
		Kind:    cloneString(p.Kind),
		Method:  cloneString(p.Method),
		URL:     cloneString(p.URL),
		Params:  p.Params.Clone(),
		Query:   p.Query.Clone(),
		Headers: p.Headers.Clone(),
		Cookies: p.Cookies.Clone(),
		Body:    p.Body.Clone(),
		Auth:    p.Auth.Clone(),
		Options: CloneOptions(p.Options),
	}
}

// Clone returns a deep copy of the request, patch included.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	c := *r
	c.Params = r.Params.Clone()
	c.Query = r.Query.Clone()
	c.Headers = r.Headers.Clone()
	c.Cookies = r.Cookies.Clone()
	c.Body = r.Body.Clone()
	c.Auth = r.Auth.Clone()
	c.Options = CloneOptions(r.Options)
	c.Patch = r.Patch.Clone()
	return &c
}

// Clone returns a deep copy of the folder.
func (f *Folder) Clone() *Folder {
	if f == nil {
		return nil
	}
	c := *f
	c.Folders = append([]string(nil), f.Folders...)
	c.Requests = append([]string(nil), f.Requests...)
	return &c
}

// Clone returns a deep copy of the environment.
func (e *Environment) Clone() *Environment {
	if e == nil {
		return nil
	}
	c := *e
	if e.Variables != nil {
		c.Variables = make(map[string]string, len(e.Variables))
		for k, v := range e.Variables {
			c.Variables[k] = v
		}
	}
	return &c
}

// Clone returns a deep copy of the index entry.
func (e *IndexEntry) Clone() *IndexEntry {
	if e == nil {
		return nil
	}
	return &IndexEntry{
		FolderID: e.FolderID,
		Ancestry: append([]string(nil), e.Ancestry...),
	}
}

// Clone returns a deep copy of the collection, index included.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	out := *c
	out.Auth = c.Auth.Clone()
	if c.Environments != nil {
		out.Environments = make(map[string]*Environment, len(c.Environments))
		for id, env := range c.Environments {
			out.Environments[id] = env.Clone()
		}
	}
	if c.Folders != nil {
		out.Folders = make(map[string]*Folder, len(c.Folders))
		for id, f := range c.Folders {
			out.Folders[id] = f.Clone()
		}
	}
	if c.Requests != nil {
		out.Requests = make(map[string]*Request, len(c.Requests))
		for id, r := range c.Requests {
			out.Requests[id] = r.Clone()
		}
	}
	if c.Index != nil {
		out.Index = make(map[string]*IndexEntry, len(c.Index))
		for id, e := range c.Index {
			out.Index[id] = e.Clone()
		}
	}
	return &out
}

// CloneOptions copies a free-form options map one level deep. Nested
// values are shared; options are treated as opaque scalars by the core.
func CloneOptions(opts map[string]any) map[string]any {
	if opts == nil {
		return nil
	}
	out := make(map[string]any, len(opts))
	for k, v := range opts {
		out[k] = v
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
