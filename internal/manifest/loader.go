// Package manifest loads table templates from HCL manifest files.
//
// A manifest declares one or more tables together with the upstream tables
// and methods they expect to be supplied at declaration time:
//
//	table "Session" {
//	  definition = <<-EOT
//	    -> Subject
//	    session_datetime : datetime
//	  EOT
//	  upstream "Subject" {}
//	  requires "get_session_directory" {}
//	  optional "get_session_note" {}
//	}
package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/schematemplate/internal/ctxlog"
	"github.com/vk/schematemplate/internal/fsutil"
	"github.com/vk/schematemplate/internal/tabledef"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// contentsType is the shape every lookup table's contents are converted to.
var contentsType = cty.List(cty.List(cty.String))

// Load reads every .hcl file under paths and returns the table templates in
// file order, then block order.
func Load(ctx context.Context, paths ...string) ([]*tabledef.TableDef, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	var defs []*tabledef.TableDef
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		fileDefs, err := decodeFile(hclFile)
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
		defs = append(defs, fileDefs...)
		logger.Debug("Loaded manifest file.", "file", file, "tables", len(fileDefs))
	}

	logger.Debug("Manifest loading complete.", "tables", len(defs))
	return defs, nil
}

// Parse decodes a single manifest held in memory. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) ([]*tabledef.TableDef, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	return decodeFile(hclFile)
}

func decodeFile(f *hcl.File) ([]*tabledef.TableDef, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return nil, diags
	}

	defs := make([]*tabledef.TableDef, 0, len(root.Tables))
	for _, block := range root.Tables {
		def, err := translateTable(block)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// translateTable converts the HCL block into a table template.
func translateTable(b *tableBlock) (*tabledef.TableDef, error) {
	def := tabledef.New(b.Name).
		WithComment(b.Comment).
		WithDefinition(dedent(b.Definition))
	if b.Tier != "" {
		def.WithTier(tabledef.Tier(b.Tier))
	}

	rows, err := decodeContents(b.Contents)
	if err != nil {
		return nil, fmt.Errorf("table %q: contents: %w", b.Name, err)
	}
	if len(rows) > 0 {
		def.WithContents(rows...)
	}

	for _, u := range b.Upstream {
		def.Upstream(u.Name)
	}
	for _, m := range b.Requires {
		def.Requires(m.Name)
	}
	for _, m := range b.Optional {
		def.Optional(m.Name)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func decodeContents(expr hcl.Expression) ([][]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(val, contentsType)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to a list of rows: %w", val.Type().FriendlyName(), err)
	}
	var rows [][]string
	if err := gocty.FromCtyValue(converted, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// dedent trims the surrounding blank lines and per-line indentation of a
// heredoc definition.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
