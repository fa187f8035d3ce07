// Package load holds the flat, serializable form of a wizard configuration.
//
// The wizard (or a YAML state file fed to the CLI) produces these flat
// descriptors; Resolve methods convert them into the typed vocabulary of the
// schema package. Conversion never fails: unknown kinds and missing details
// degrade to documented fallbacks, mirroring the generator's no-throw
// contract.
package load

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilnproject/kiln/schema"
)

// Defaults applied by Defaulted when the wizard leaves a choice empty.
const (
	DefaultRuntime = "3.12"
	DefaultPort    = 8000
)

// State is the complete configuration value consumed by the generator.
// It is populated by UI code (or decoded from YAML) and handed to the
// generator as an immutable snapshot.
type State struct {
	// Project is the package/distribution name of the generated project.
	Project string `yaml:"project" msgpack:"project"`
	// Runtime is the target Python version, e.g. "3.12".
	Runtime string `yaml:"runtime" msgpack:"runtime"`
	// Title is the human-facing service title.
	Title string `yaml:"title" msgpack:"title"`
	// Port the generated service listens on.
	Port int `yaml:"port" msgpack:"port"`
	// Storage selects the backend and its per-backend configuration.
	Storage Storage `yaml:"storage" msgpack:"storage"`
	// Naming is the field naming convention: "snake" (default) or "camel".
	Naming string `yaml:"naming" msgpack:"naming"`
	// Encoding is the store payload encoding: "json" (default) or "msgpack".
	Encoding string `yaml:"encoding" msgpack:"encoding"`
	// Timezone is the default-clock policy. Empty means UTC; any other
	// value is an IANA zone name wired into the app and imported from
	// zoneinfo.
	Timezone string `yaml:"timezone" msgpack:"timezone"`
	// CORS toggles CORS wiring in the app-setup block.
	CORS bool `yaml:"cors" msgpack:"cors"`
	// APISchema toggles the auxiliary API-schema artifact and wiring.
	APISchema bool `yaml:"api_schema" msgpack:"api_schema"`
	// ModelStyle selects between the two interchangeable declaration
	// styles: "model" (default, base-class) or "dataclass" (decorator).
	ModelStyle string `yaml:"model_style" msgpack:"model_style"`
	// Models in declaration order.
	Models []*Model `yaml:"models" msgpack:"models"`
}

// Storage is the per-backend storage configuration. Only the fields of the
// selected backend are consulted; the rest are ignored.
type Storage struct {
	// Backend is one of: memory, disk, s3, postgresql, custom.
	Backend string `yaml:"backend" msgpack:"backend"`

	// Disk.
	Root string `yaml:"root" msgpack:"root"`

	// S3 / object storage.
	Bucket    string `yaml:"bucket" msgpack:"bucket"`
	Endpoint  string `yaml:"endpoint" msgpack:"endpoint"`
	Region    string `yaml:"region" msgpack:"region"`
	AccessKey string `yaml:"access_key" msgpack:"access_key"`
	SecretKey string `yaml:"secret_key" msgpack:"secret_key"`

	// PostgreSQL.
	DSN string `yaml:"dsn" msgpack:"dsn"`

	// Custom backend: two independently selected leaf stores.
	Meta     *MetaStore     `yaml:"meta" msgpack:"meta"`
	Resource *ResourceStore `yaml:"resource" msgpack:"resource"`
}

// MetaStore selects the structured metadata/index store of a custom backend.
type MetaStore struct {
	// Kind is one of: memory, disk, memory-indexed, file-indexed,
	// object-store-indexed, relational, orm, cache-backed, fast-slow.
	Kind string `yaml:"kind" msgpack:"kind"`

	Root      string `yaml:"root" msgpack:"root"`
	Bucket    string `yaml:"bucket" msgpack:"bucket"`
	Endpoint  string `yaml:"endpoint" msgpack:"endpoint"`
	Region    string `yaml:"region" msgpack:"region"`
	AccessKey string `yaml:"access_key" msgpack:"access_key"`
	SecretKey string `yaml:"secret_key" msgpack:"secret_key"`
	DSN       string `yaml:"dsn" msgpack:"dsn"`
	CacheURL  string `yaml:"cache_url" msgpack:"cache_url"`

	// Fast-slow composite: a fast path in front of a slow durable path,
	// synchronized every SyncInterval seconds.
	Fast         *MetaStore `yaml:"fast" msgpack:"fast"`
	Slow         *MetaStore `yaml:"slow" msgpack:"slow"`
	SyncInterval int        `yaml:"sync_interval" msgpack:"sync_interval"`
}

// ResourceStore selects the primary resource/blob store of a custom backend.
type ResourceStore struct {
	// Kind is one of: memory, disk, object-store, cached-object-store,
	// etag-cached-object-store, queue-cached-object-store.
	Kind string `yaml:"kind" msgpack:"kind"`

	Root        string `yaml:"root" msgpack:"root"`
	Bucket      string `yaml:"bucket" msgpack:"bucket"`
	Endpoint    string `yaml:"endpoint" msgpack:"endpoint"`
	Region      string `yaml:"region" msgpack:"region"`
	AccessKey   string `yaml:"access_key" msgpack:"access_key"`
	SecretKey   string `yaml:"secret_key" msgpack:"secret_key"`
	CacheURL    string `yaml:"cache_url" msgpack:"cache_url"`
	BrokerURL   string `yaml:"broker_url" msgpack:"broker_url"`
	QueuePrefix string `yaml:"queue_prefix" msgpack:"queue_prefix"`
}

// Model is the flat form of one model declaration.
type Model struct {
	Name    string `yaml:"name" msgpack:"name"`
	Version string `yaml:"version" msgpack:"version"`
	// Mode is "form" (structured fields) or "code" (raw body).
	Mode       string       `yaml:"mode" msgpack:"mode"`
	Fields     []*Field     `yaml:"fields" msgpack:"fields"`
	Raw        string       `yaml:"raw" msgpack:"raw"`
	Enums      []*Enum      `yaml:"enums" msgpack:"enums"`
	SubStructs []*SubStruct `yaml:"sub_structs" msgpack:"sub_structs"`
	// Validator toggles the validator class; ValidatorBody optionally
	// replaces the stub implementation.
	Validator     bool   `yaml:"validator" msgpack:"validator"`
	ValidatorBody string `yaml:"validator_body" msgpack:"validator_body"`
}

// Field is the flat form of one field declaration. Only the detail fields
// relevant to Type are consulted during resolution.
type Field struct {
	Name string `yaml:"name" msgpack:"name"`
	// Type is the field-kind tag: string, int, float, bool, datetime,
	// binary, ref, revision_ref, map, struct, union, enum.
	Type        string `yaml:"type" msgpack:"type"`
	Optional    bool   `yaml:"optional" msgpack:"optional"`
	List        bool   `yaml:"list" msgpack:"list"`
	Default     string `yaml:"default" msgpack:"default"`
	DisplayName bool   `yaml:"display_name" msgpack:"display_name"`
	Indexed     bool   `yaml:"indexed" msgpack:"indexed"`

	// Reference detail.
	Target   string `yaml:"target" msgpack:"target"`
	OnDelete string `yaml:"on_delete" msgpack:"on_delete"`

	// Mapping detail.
	Key   string `yaml:"key" msgpack:"key"`
	Value string `yaml:"value" msgpack:"value"`

	// Nested-struct detail.
	Struct string `yaml:"struct" msgpack:"struct"`

	// Union detail.
	Members []string `yaml:"members" msgpack:"members"`
}

// Enum is the flat form of an enum declaration. Values preserve order.
type Enum struct {
	Name   string      `yaml:"name" msgpack:"name"`
	Values []EnumValue `yaml:"values" msgpack:"values"`
}

// EnumValue is one (key, label) pair.
type EnumValue struct {
	Key   string `yaml:"key" msgpack:"key"`
	Label string `yaml:"label" msgpack:"label"`
}

// SubStruct is the flat form of a sub-structure declaration.
type SubStruct struct {
	Name   string   `yaml:"name" msgpack:"name"`
	Tag    string   `yaml:"tag" msgpack:"tag"`
	Fields []*Field `yaml:"fields" msgpack:"fields"`
}

// Read decodes a YAML state file.
func Read(r io.Reader) (*State, error) {
	s := &State{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("load: decode state: %w", err)
	}
	return s, nil
}

// Defaulted returns a shallow copy of the state with empty choices replaced
// by their defaults. The receiver is not modified.
func (s *State) Defaulted() *State {
	d := *s
	if d.Project == "" {
		d.Project = "service"
	}
	if d.Runtime == "" {
		d.Runtime = DefaultRuntime
	}
	if d.Port == 0 {
		d.Port = DefaultPort
	}
	if d.Storage.Backend == "" {
		d.Storage.Backend = "memory"
	}
	if d.Naming == "" {
		d.Naming = "snake"
	}
	if d.Encoding == "" {
		d.Encoding = "json"
	}
	if d.ModelStyle == "" {
		d.ModelStyle = "model"
	}
	return &d
}

// Resolve converts the flat field descriptor into the schema sum type.
// Unknown kind tags fall back to a plain string scalar; missing details
// fall back as documented on each schema variant. Resolution never fails.
func (f *Field) Resolve() *schema.Field {
	rf := &schema.Field{
		Name:        f.Name,
		Optional:    f.Optional,
		List:        f.List,
		Default:     f.Default,
		DisplayName: f.DisplayName,
		Indexed:     f.Indexed,
	}
	switch strings.ToLower(f.Type) {
	case "int", "integer":
		rf.Type = schema.Scalar{Kind: schema.Int}
	case "float", "number":
		rf.Type = schema.Scalar{Kind: schema.Float}
	case "bool", "boolean":
		rf.Type = schema.Scalar{Kind: schema.Bool}
	case "datetime", "timestamp":
		rf.Type = schema.DateTime{}
	case "binary", "bytes":
		rf.Type = schema.Binary{}
	case "ref", "reference":
		rf.Type = schema.Ref{Target: f.Target, OnDelete: deletePolicy(f.OnDelete)}
	case "revision_ref", "revision-ref", "revision_reference":
		rf.Type = schema.RevisionRef{Target: f.Target}
	case "map", "mapping", "dict":
		rf.Type = schema.Mapping{Key: f.Key, Value: f.Value}
	case "struct", "nested":
		rf.Type = schema.Struct{Name: f.Struct}
	case "union":
		rf.Type = schema.Union{Members: f.Members}
	case "enum":
		rf.Type = schema.Enum{}
	default:
		// "string", "str", and anything unrecognized.
		rf.Type = schema.Scalar{Kind: schema.String}
	}
	return rf
}

// Definition converts the flat model descriptor into its schema form.
func (m *Model) Definition() *schema.Model {
	d := &schema.Model{
		Name:    m.Name,
		Version: m.Version,
		Mode:    schema.InputMode(m.Mode),
		Raw:     m.Raw,
	}
	if d.Mode != schema.Code {
		d.Mode = schema.Form
	}
	for _, f := range m.Fields {
		d.Fields = append(d.Fields, f.Resolve())
	}
	for _, e := range m.Enums {
		def := &schema.EnumDef{Name: e.Name}
		for _, v := range e.Values {
			def.Values = append(def.Values, schema.EnumValue{Key: v.Key, Label: v.Label})
		}
		d.Enums = append(d.Enums, def)
	}
	for _, s := range m.SubStructs {
		sub := &schema.SubStruct{Name: s.Name, Tag: s.Tag}
		for _, f := range s.Fields {
			sub.Fields = append(sub.Fields, f.Resolve())
		}
		d.SubStructs = append(d.SubStructs, sub)
	}
	if m.Validator {
		d.Validator = &schema.Validator{Body: m.ValidatorBody}
	}
	return d
}

func deletePolicy(s string) schema.DeletePolicy {
	switch strings.ToLower(s) {
	case "cascade":
		return schema.Cascade
	case "restrict":
		return schema.Restrict
	case "nullify", "set_null":
		return schema.Nullify
	default:
		return schema.Dangling
	}
}
