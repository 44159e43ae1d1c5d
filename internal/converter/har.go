// Package converter turns third-party capture and specification formats
// into native export documents. The output is untrusted like any other
// document: it goes through the importer and the normalizer before the
// store accepts it.
package converter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/studiowebux/restdesk/internal/ident"
	"github.com/studiowebux/restdesk/internal/types"
)

// sensitiveHeaders are dropped from HAR imports unless explicitly kept;
// captures routinely contain live session material.
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
}

// HAROptions controls a HAR conversion.
type HAROptions struct {
	Name        string // collection name; defaults to the creator tool
	KeepSecrets bool   // keep authorization/cookie headers
	URLFilter   string // only convert entries whose url contains this
}

// HARFile is the envelope of an HTTP Archive capture.
type HARFile struct {
	Log HARLog `json:"log"`
}

// HARLog holds the capture metadata and entries.
type HARLog struct {
	Version string     `json:"version"`
	Creator HARCreator `json:"creator"`
	Entries []HAREntry `json:"entries"`
}

// HARCreator names the tool that produced the capture.
type HARCreator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HAREntry is one captured request. Responses are ignored; the store
// only keeps definitions.
type HAREntry struct {
	Request HARRequest `json:"request"`
}

// HARRequest is the request half of a capture entry.
type HARRequest struct {
	Method      string       `json:"method"`
	URL         string       `json:"url"`
	Headers     []HARPair    `json:"headers"`
	QueryString []HARPair    `json:"queryString"`
	Cookies     []HARPair    `json:"cookies"`
	PostData    *HARPostData `json:"postData,omitempty"`
}

// HARPair is a name/value element used for headers, query parameters and
// cookies.
type HARPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HARPostData is the captured request body.
type HARPostData struct {
	MimeType string    `json:"mimeType"`
	Text     string    `json:"text"`
	Params   []HARPair `json:"params,omitempty"`
}

// FromHAR converts a HAR capture into a native document. Entries are
// grouped into folders by host, ordered by capture sequence.
func FromHAR(data []byte, opts HAROptions) (*types.Document, error) {
	var har HARFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, fmt.Errorf("failed to parse HAR file: %w", err)
	}
	if len(har.Log.Entries) == 0 {
		return nil, fmt.Errorf("no entries found in HAR file")
	}

	name := opts.Name
	if name == "" {
		name = strings.TrimSpace(har.Log.Creator.Name + " capture")
	}
	c := &types.Collection{
		ID:   ident.New(),
		Name: name,
		Folders: map[string]*types.Folder{
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
		},
		Requests: make(map[string]*types.Request),
	}

	hostFolders := make(map[string]string)
	orderPerFolder := make(map[string]int)
	for _, entry := range har.Log.Entries {
		req := entry.Request
		if opts.URLFilter != "" && !strings.Contains(req.URL, opts.URLFilter) {
			continue
		}
		folderID := hostFolder(c, hostFolders, req.URL)
		orderPerFolder[folderID]++

		r := &types.Request{
			ID:       ident.New(),
			FolderID: folderID,
			Order:    orderPerFolder[folderID],
			Name:     requestName(req.Method, req.URL),
			Kind:     types.KindHTTP,
			Method:   strings.ToUpper(req.Method),
			URL:      req.URL,
			Headers:  pairsToParams(req.Headers, !opts.KeepSecrets),
			Query:    pairsToParams(req.QueryString, false),
			Cookies:  pairsToParams(req.Cookies, false),
			Body:     harBody(req.PostData),
			Patch:    &types.RequestPatch{},
		}
		c.Requests[r.ID] = r
	}
	if len(c.Requests) == 0 {
		return nil, fmt.Errorf("no entries matched filter %q", opts.URLFilter)
	}

	return &types.Document{
		Format:     types.DocumentFormat,
		Version:    types.DocumentVersion,
		ExportedAt: time.Now().UTC(),
		Collection: c,
	}, nil
}

// hostFolder returns (creating on first use) the folder for a url's host.
// Unparseable urls land in the root.
func hostFolder(c *types.Collection, hostFolders map[string]string, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return types.RootFolderID
	}
	if id, ok := hostFolders[u.Host]; ok {
		return id
	}
	f := &types.Folder{
		ID:       ident.New(),
		Name:     u.Host,
		ParentID: types.RootFolderID,
		Order:    len(hostFolders) + 1,
	}
	c.Folders[f.ID] = f
	hostFolders[u.Host] = f.ID
	return f.ID
}

// requestName derives a readable name from the method and url path.
func requestName(method, rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	return strings.ToUpper(method) + " " + path
}

// pairsToParams converts HAR name/value pairs into a keyed parameter map,
// optionally stripping sensitive headers.
func pairsToParams(pairs []HARPair, stripSecrets bool) *types.ParamMap {
	if len(pairs) == 0 {
		return nil
	}
	m := types.NewParamMap()
	for _, pair := range pairs {
		if stripSecrets && sensitiveHeaders[strings.ToLower(pair.Name)] {
			continue
		}
		id := ident.New()
		m.Set(id, &types.Param{ID: id, Name: pair.Name, Value: pair.Value, Enabled: true})
	}
	if m.Len() == 0 {
		return nil
	}
	return m
}

// harBody maps captured post data onto a body definition: form payloads
// become keyed form fields, everything else is carried as text.
func harBody(pd *HARPostData) *types.Body {
	if pd == nil {
		return nil
	}
	if len(pd.Params) > 0 {
		form := types.NewParamMap()
		for _, p := range pd.Params {
			id := ident.New()
			form.Set(id, &types.Param{ID: id, Name: p.Name, Value: p.Value, Enabled: true})
		}
		encoding := types.EncodingURL
		if strings.HasPrefix(pd.MimeType, "multipart/") {
			encoding = types.EncodingMultipart
		}
		return &types.Body{Type: types.BodyForm, Encoding: encoding, FormData: form}
	}
	if pd.Text == "" {
		return nil
	}
	body := &types.Body{Type: types.BodyText, Content: pd.Text, ContentType: pd.MimeType}
	if strings.Contains(pd.MimeType, "json") {
		body.Language = "json"
	}
	return body
}
