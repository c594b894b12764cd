package manifest

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a manifest file.
type fileRoot struct {
	Tables []*tableBlock `hcl:"table,block"`
}

// tableBlock is a `table "Name" { ... }` block.
type tableBlock struct {
	Name       string         `hcl:"name,label"`
	Tier       string         `hcl:"tier,optional"`
	Comment    string         `hcl:"comment,optional"`
	Definition string         `hcl:"definition,optional"`
	Contents   hcl.Expression `hcl:"contents,optional"`
	Upstream   []*nameBlock   `hcl:"upstream,block"`
	Requires   []*nameBlock   `hcl:"requires,block"`
	Optional   []*nameBlock   `hcl:"optional,block"`
}

// nameBlock is a requirement marker such as `upstream "Subject" {}`.
type nameBlock struct {
	Name string `hcl:"name,label"`
}
