// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import "fmt"

// ConfigError reports an invalid option.  It is always returned before any
// input file is read.
type ConfigError struct {
	// Arg names the offending option, e.g. "rewrite".
	Arg string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Arg, e.Msg)
}

// CollisionError reports two files on one side that resolve to the same
// identity.  Neither could be paired unambiguously.
type CollisionError struct {
	Side     Source
	Identity string
	First    FileHandle
	Second   FileHandle
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("side %v: %s and %s both resolve to %s", e.Side, e.First, e.Second, e.Identity)
}
