// Package schema holds the data-model vocabulary consumed by the Kiln
// generator: models, enums, sub-structures, and a closed set of field kinds.
//
// Values in this package are pure data. They carry no behavior beyond small
// accessors, and the generator treats them as an immutable snapshot: nothing
// here is mutated after construction.
//
// A field's kind is a sealed sum: exactly one FieldType variant per kind,
// each carrying only the data that kind needs:
//
//	schema.Field{Name: "email", Type: schema.Scalar{Kind: schema.String}}
//	schema.Field{Name: "owner", Type: schema.Ref{Target: "User", OnDelete: schema.Cascade}}
//	schema.Field{Name: "tags", Type: schema.Mapping{Key: "str", Value: "str"}}
//
// The generator resolves every variant to exactly one type-annotation string;
// see the compiler/gen package.
package schema
