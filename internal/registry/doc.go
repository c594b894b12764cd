// Package registry provides the central "glue" for table templates.
//
// A Registry collects table templates whose upstream tables and helper
// methods are only known when a pipeline is assembled. Registration records,
// per template and across all templates, which names must be supplied.
// Declaration then validates a single dependency mapping against the union
// of those names, hands each template and its own resolved dependencies to a
// schema binder in registration order, and publishes every resulting table
// into the shared namespace so later templates can reference it.
//
// A Registry declares at most once. Registration and declaration are meant
// to run once at start-up and are not safe for concurrent use.
package registry
