// Package memschema provides an in-memory schema that implements
// binding.Binder.
//
// # Purpose
//
// A Schema stands in for a database schema when declaring table templates
// without a database server: the CLI uses it for dry runs and every package
// test uses it as the schema binder.
//
// # Foreign keys
//
// Each line of a definition that starts with "->" names a parent table:
//
//	-> Subject
//	-> [nullable] lab.Protocol
//	session_id : int
//
// The reference is resolved through binding.Namespace.Lookup, so dotted
// module references work when the namespace nests another namespace. An
// unresolved reference, or one that resolves to something other than a
// binding.Table, fails the bind.
//
// # Concurrency
//
// A Schema is guarded by a sync.RWMutex. Binding is normally done once at
// start-up, but reads from other goroutines afterwards are safe.
package memschema
