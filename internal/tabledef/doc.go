// Package tabledef describes table templates: the Go counterpart of a table
// class whose upstream tables and helper methods are only known when a
// pipeline is assembled.
//
// A TableDef lists its own requirements explicitly through Upstream, Requires
// and Optional. Nothing is discovered by reflection or naming convention.
// When a template is declared, the resolved dependencies for one table are
// handed to the schema binder as a Bound value instead of being patched onto
// the definition.
package tabledef
