package gen

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// emitOpenAPI builds the auxiliary API-schema artifact: an OpenAPI 3.0
// document describing the list/create/get surface the generated service
// mounts for each model. Route segments are pluralized model names.
func (g *Generator) emitOpenAPI() ([]byte, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   g.title(),
			Version: g.version,
		},
		Paths: openapi3.NewPaths(),
	}
	for _, m := range g.models {
		route := "/" + m.Route()
		item := snake(m.Name)
		doc.Paths.Set(route, &openapi3.PathItem{
			Get:  operation("list_" + m.Route()),
			Post: operation("create_" + item),
		})
		doc.Paths.Set(route+"/{item_id}", &openapi3.PathItem{
			Get: operation("get_" + item),
			Parameters: openapi3.Parameters{
				&openapi3.ParameterRef{
					Value: openapi3.NewPathParameter("item_id").
						WithSchema(openapi3.NewStringSchema()),
				},
			},
		})
	}

	// Round-trip through JSON so the YAML encoder sees plain maps; it
	// sorts their keys, keeping the artifact byte-stable.
	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("gen: marshal api schema: %w", err)
	}
	var plain map[string]any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("gen: decode api schema: %w", err)
	}
	return yaml.Marshal(plain)
}

func operation(id string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: id,
		Responses:   openapi3.NewResponses(),
	}
}
