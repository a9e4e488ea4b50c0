// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// renameRow is one line of a rename table: an original side-A relative path
// and the identity it should be matched under.
type renameRow struct {
	Old string
	New string
}

// ParseRenames reads a headerless two-column TSV rename table.  Lines
// starting with '#' are ignored.  A path listed twice is a ConfigError.
func ParseRenames(r io.Reader) (map[string]string, error) {
	tr := tsv.NewReader(r)
	tr.Comment = '#'
	renames := map[string]string{}
	for {
		var row renameRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, &ConfigError{Arg: "rename-table", Msg: err.Error()}
		}
		if prev, ok := renames[row.Old]; ok {
			return nil, &ConfigError{Arg: "rename-table", Msg: fmt.Sprintf("%s renamed twice (to %s and %s)", row.Old, prev, row.New)}
		}
		renames[row.Old] = row.New
	}
	return renames, nil
}

// ReadRenames is a wrapper for ParseRenames that takes a path.
func ReadRenames(ctx context.Context, path string) (renames map[string]string, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open rename table", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	return ParseRenames(in.Reader(ctx))
}
