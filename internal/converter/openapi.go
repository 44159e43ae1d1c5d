package converter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/studiowebux/restdesk/internal/ident"
	"github.com/studiowebux/restdesk/internal/types"
	"gopkg.in/yaml.v3"
)

// OpenAPIOptions controls an OpenAPI conversion.
type OpenAPIOptions struct {
	Name       string // collection name; defaults to the spec title
	OrganizeBy string // "tags" (default) or "flat"
}

// OpenAPISpec is the subset of an OpenAPI 3.x document the converter
// reads. Anything it does not know about is ignored.
type OpenAPISpec struct {
	OpenAPI string                     `json:"openapi" yaml:"openapi"`
	Info    OpenAPIInfo                `json:"info" yaml:"info"`
	Servers []OpenAPIServer            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths   map[string]OpenAPIPathItem `json:"paths" yaml:"paths"`
}

// OpenAPIInfo carries the spec title and description.
type OpenAPIInfo struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// OpenAPIServer is one server entry; the first becomes the base url.
type OpenAPIServer struct {
	URL string `json:"url" yaml:"url"`
}

// OpenAPIPathItem holds the operations defined on one path.
type OpenAPIPathItem struct {
	Get    *OpenAPIOperation `json:"get,omitempty" yaml:"get,omitempty"`
	Post   *OpenAPIOperation `json:"post,omitempty" yaml:"post,omitempty"`
	Put    *OpenAPIOperation `json:"put,omitempty" yaml:"put,omitempty"`
	Delete *OpenAPIOperation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Patch  *OpenAPIOperation `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// OpenAPIOperation is one method on a path.
type OpenAPIOperation struct {
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters  []OpenAPIParameter  `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *OpenAPIRequestBody `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
}

// OpenAPIParameter is a declared query/path/header/cookie parameter.
type OpenAPIParameter struct {
	Name     string         `json:"name" yaml:"name"`
	In       string         `json:"in" yaml:"in"`
	Required bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Example  any            `json:"example,omitempty" yaml:"example,omitempty"`
	Schema   map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// OpenAPIRequestBody declares the request payload by media type.
type OpenAPIRequestBody struct {
	Required bool                        `json:"required,omitempty" yaml:"required,omitempty"`
	Content  map[string]OpenAPIMediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// OpenAPIMediaType carries the example payload for one media type.
type OpenAPIMediaType struct {
	Example any `json:"example,omitempty" yaml:"example,omitempty"`
}

// FromOpenAPI converts an OpenAPI 3.x specification (JSON or YAML) into a
// native document. Operations are grouped into folders by their first tag
// unless OrganizeBy is "flat".
func FromOpenAPI(data []byte, opts OpenAPIOptions) (*types.Document, error) {
	spec, err := parseOpenAPI(data)
	if err != nil {
		return nil, err
	}
	if len(spec.Paths) == 0 {
		return nil, fmt.Errorf("no paths found in OpenAPI spec")
	}

	name := opts.Name
	if name == "" {
		name = spec.Info.Title
	}
	c := &types.Collection{
		ID:          ident.New(),
		Name:        name,
		Description: spec.Info.Description,
		Folders: map[string]*types.Folder{
			types.RootFolderID: {ID: types.RootFolderID, Name: "Root"},
		},
		Requests: make(map[string]*types.Request),
	}

	baseURL := ""
	if len(spec.Servers) > 0 {
		baseURL = strings.TrimSuffix(spec.Servers[0].URL, "/")
	}

	tagFolders := make(map[string]string)
	orderPerFolder := make(map[string]int)

	paths := make([]string, 0, len(spec.Paths))
	for p := range spec.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := spec.Paths[path]
		for _, op := range []struct {
			method    string
			operation *OpenAPIOperation
		}{
			{"GET", item.Get},
			{"POST", item.Post},
			{"PUT", item.Put},
			{"DELETE", item.Delete},
			{"PATCH", item.Patch},
		} {
			if op.operation == nil {
				continue
			}
			folderID := types.RootFolderID
			if opts.OrganizeBy != "flat" && len(op.operation.Tags) > 0 {
				folderID = tagFolder(c, tagFolders, op.operation.Tags[0])
			}
			orderPerFolder[folderID]++

			name := op.operation.Summary
			if name == "" {
				name = op.method + " " + path
			}
			r := &types.Request{
				ID:       ident.New(),
				FolderID: folderID,
				Order:    orderPerFolder[folderID],
				Name:     name,
				Kind:     types.KindHTTP,
				Method:   op.method,
				URL:      baseURL + path,
				Body:     openAPIBody(op.operation.RequestBody),
				Patch:    &types.RequestPatch{},
			}
			r.Params, r.Query, r.Headers, r.Cookies = splitParameters(op.operation.Parameters)
			c.Requests[r.ID] = r
		}
	}

	return &types.Document{
		Format:     types.DocumentFormat,
		Version:    types.DocumentVersion,
		ExportedAt: time.Now().UTC(),
		Collection: c,
	}, nil
}

func parseOpenAPI(data []byte) (*OpenAPISpec, error) {
	var spec OpenAPISpec
	if jsonErr := json.Unmarshal(data, &spec); jsonErr != nil {
		if yamlErr := yaml.Unmarshal(data, &spec); yamlErr != nil {
			return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", jsonErr)
		}
	}
	if spec.OpenAPI == "" {
		return nil, fmt.Errorf("not an OpenAPI 3.x specification")
	}
	return &spec, nil
}

func tagFolder(c *types.Collection, tagFolders map[string]string, tag string) string {
	if id, ok := tagFolders[tag]; ok {
		return id
	}
	f := &types.Folder{
		ID:       ident.New(),
		Name:     tag,
		ParentID: types.RootFolderID,
		Order:    len(tagFolders) + 1,
	}
	c.Folders[f.ID] = f
	tagFolders[tag] = f.ID
	return f.ID
}

// splitParameters fans the declared parameters out into the four keyed
// maps. Required parameters are enabled by default, optional ones are not.
func splitParameters(params []OpenAPIParameter) (path, query, headers, cookies *types.ParamMap) {
	add := func(m *types.ParamMap, p OpenAPIParameter) *types.ParamMap {
		if m == nil {
			m = types.NewParamMap()
		}
		id := ident.New()
		m.Set(id, &types.Param{
			ID:      id,
			Name:    p.Name,
			Value:   exampleValue(p),
			Enabled: p.Required,
		})
		return m
	}
	for _, p := range params {
		switch p.In {
		case "path":
			path = add(path, p)
		case "query":
			query = add(query, p)
		case "header":
			headers = add(headers, p)
		case "cookie":
			cookies = add(cookies, p)
		}
	}
	return path, query, headers, cookies
}

func exampleValue(p OpenAPIParameter) string {
	if p.Example != nil {
		return fmt.Sprintf("%v", p.Example)
	}
	if ex, ok := p.Schema["example"]; ok {
		return fmt.Sprintf("%v", ex)
	}
	return ""
}

// openAPIBody turns the first media type's example into a text body.
func openAPIBody(rb *OpenAPIRequestBody) *types.Body {
	if rb == nil || len(rb.Content) == 0 {
		return nil
	}
	mediaTypes := make([]string, 0, len(rb.Content))
	for mt := range rb.Content {
		mediaTypes = append(mediaTypes, mt)
	}
	sort.Strings(mediaTypes)
	// Prefer JSON when the spec offers several media types.
	selected := mediaTypes[0]
	for _, mt := range mediaTypes {
		if strings.Contains(mt, "json") {
			selected = mt
			break
		}
	}

	body := &types.Body{Type: types.BodyText, ContentType: selected}
	if strings.Contains(selected, "json") {
		body.Language = "json"
	}
	if example := rb.Content[selected].Example; example != nil {
		if data, err := json.MarshalIndent(example, "", "  "); err == nil {
			body.Content = string(data)
		}
	}
	return body
}
