package gen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kilnproject/kiln/compiler/load"
)

// A File is one generated artifact: a name, its content, and the content
// type a viewer should render it as.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Artifact names.
const (
	ManifestFile = "pyproject.toml"
	MainFile     = "main.py"
	ReadmeFile   = "README.md"
	PinFile      = ".python-version"
	SchemaFile   = "openapi.yaml"
)

var (
	manifestTmpl = template.Must(template.New("manifest").Parse(`[project]
name = "{{ .Name }}"
version = "{{ .Version }}"
description = "{{ .Description }}"
requires-python = ">={{ .Runtime }}"
dependencies = [
{{- range .Dependencies }}
    "{{ . }}",
{{- end }}
]
`))

	readmeTmpl = template.Must(template.New("readme").Parse(`# {{ .Title }}

{{ .Description }}

## Running

` + "```bash" + `
pip install -e .
python {{ .Main }}
` + "```" + `

The service listens on port {{ .Port }}.

## Storage

{{ .StorageNote }}
{{- if .Models }}

## Models
{{ range .Models }}
- {{ . }}
{{- end }}
{{- end }}
`))
)

// Generate compiles the state into the final artifact set: the dependency
// manifest, the main source file, the README, and the runtime version pin —
// plus the API-schema document when its toggle is set. Two calls with an
// identical state produce byte-identical output.
func Generate(state *load.State, opts ...Option) ([]File, error) {
	g, err := New(state, opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate()
}

// Generate returns the generator's artifact set.
func (g *Generator) Generate() ([]File, error) {
	storage := g.compileStorage()

	manifest, err := g.emitManifest(storage)
	if err != nil {
		return nil, err
	}
	readme, err := g.emitReadme()
	if err != nil {
		return nil, err
	}
	files := []File{
		{Name: ManifestFile, ContentType: "application/toml", Content: manifest},
		{Name: MainFile, ContentType: "text/x-python", Content: []byte(g.emitMain(storage))},
		{Name: ReadmeFile, ContentType: "text/markdown", Content: readme},
		{Name: PinFile, ContentType: "text/plain", Content: []byte(g.state.Runtime + "\n")},
	}
	if g.state.APISchema {
		doc, err := g.emitOpenAPI()
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: SchemaFile, ContentType: "application/yaml", Content: doc})
	}
	return files, nil
}

func (g *Generator) emitManifest(storage *storagePlan) ([]byte, error) {
	var buf bytes.Buffer
	err := manifestTmpl.Execute(&buf, map[string]any{
		"Name":         distName(g.state.Project),
		"Version":      g.version,
		"Description":  g.description(),
		"Runtime":      g.state.Runtime,
		"Dependencies": g.dependencies(storage),
	})
	if err != nil {
		return nil, fmt.Errorf("gen: render manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) emitReadme() ([]byte, error) {
	models := make([]string, 0, len(g.models))
	for _, m := range g.models {
		models = append(models, m.ClassName())
	}
	var buf bytes.Buffer
	err := readmeTmpl.Execute(&buf, map[string]any{
		"Title":       g.title(),
		"Description": g.description(),
		"Main":        MainFile,
		"Port":        g.state.Port,
		"StorageNote": g.storageNote(),
		"Models":      models,
	})
	if err != nil {
		return nil, fmt.Errorf("gen: render readme: %w", err)
	}
	return buf.Bytes(), nil
}

// title returns the configured service title, falling back to a humanized
// form of the project name.
func (g *Generator) title() string {
	if g.state.Title != "" {
		return g.state.Title
	}
	words := strings.ReplaceAll(snake(g.state.Project), "_", " ")
	return cases.Title(language.English).String(words)
}

func (g *Generator) description() string {
	return g.title() + " is a storekit-based backend service."
}

func (g *Generator) storageNote() string {
	switch g.state.Storage.Backend {
	case "disk":
		return "Items are persisted on the local filesystem."
	case "s3":
		return "Items are persisted in S3-compatible object storage."
	case "postgresql":
		return "Items are persisted in PostgreSQL."
	case "custom":
		return "Items are persisted through a custom store factory; see the factory class in " + MainFile + "."
	default:
		return "Items are held in memory and lost on restart."
	}
}

// distName normalizes the project name for the manifest (PEP 503 style).
func distName(project string) string {
	return strings.ReplaceAll(snake(project), "_", "-")
}
