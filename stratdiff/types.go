// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import "strings"

// FileHandle is a stratification file's path relative to its root, e.g.
// "LowComplexity/GRCh38_AllTandemRepeats.bed.gz".
type FileHandle string

// FilePair is a file from each side judged to represent the same
// stratification.
type FilePair struct {
	A FileHandle
	B FileHandle
}

func (p FilePair) String() string {
	return string(p.A) + " <-> " + string(p.B)
}

// Source identifies one side of the comparison.
type Source uint8

const (
	// SourceA is the first root.
	SourceA Source = iota
	// SourceB is the second root.
	SourceB
)

func (s Source) String() string {
	if s == SourceA {
		return "A"
	}
	return "B"
}

// joinPath joins a root and a relative path.  Roots may be URLs, so
// filepath.Join is not appropriate.
func joinPath(root string, rel FileHandle) string {
	return strings.TrimSuffix(root, "/") + "/" + string(rel)
}
