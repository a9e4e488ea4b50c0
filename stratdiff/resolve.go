// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import (
	"fmt"
	"regexp"
)

// Stage is one step of identity resolution.
type Stage interface {
	// Name describes the stage in log messages.
	Name() string
	// Apply maps an identity to its replacement.
	Apply(id string) string
}

// RenameStage replaces identities that exactly match a key of the table.
type RenameStage map[string]string

// Name implements Stage.
func (s RenameStage) Name() string { return fmt.Sprintf("rename(%d entries)", len(s)) }

// Apply implements Stage.
func (s RenameStage) Apply(id string) string {
	if renamed, ok := s[id]; ok {
		return renamed
	}
	return id
}

// RewriteStage replaces every match of Pattern with Replacement, which may
// refer to submatches as $1, ${name}, etc.
type RewriteStage struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Name implements Stage.
func (s RewriteStage) Name() string {
	return fmt.Sprintf("rewrite(%s -> %s)", s.Pattern, s.Replacement)
}

// Apply implements Stage.
func (s RewriteStage) Apply(id string) string {
	return s.Pattern.ReplaceAllString(id, s.Replacement)
}

// NewRewriteStages parses a flat pattern, replacement, pattern, replacement,
// ... list.
func NewRewriteStages(strs []string) ([]Stage, error) {
	if len(strs)%2 != 0 {
		return nil, &ConfigError{Arg: "rewrite", Msg: fmt.Sprintf("got %d strings, want pattern/replacement pairs", len(strs))}
	}
	stages := make([]Stage, 0, len(strs)/2)
	for i := 0; i < len(strs); i += 2 {
		re, err := regexp.Compile(strs[i])
		if err != nil {
			return nil, &ConfigError{Arg: "rewrite", Msg: err.Error()}
		}
		stages = append(stages, RewriteStage{Pattern: re, Replacement: strs[i+1]})
	}
	return stages, nil
}

// Resolver applies its stages in order.  The zero Resolver maps every
// identity to itself.
type Resolver []Stage

// NewResolver returns the side-A pipeline: the rename table first, then each
// rewrite pair in the order given.
func NewResolver(renames map[string]string, rewrites []string) (Resolver, error) {
	var r Resolver
	if len(renames) > 0 {
		r = append(r, RenameStage(renames))
	}
	stages, err := NewRewriteStages(rewrites)
	if err != nil {
		return nil, err
	}
	return append(r, stages...), nil
}

// Resolve maps an original relative path to its canonical identity.
func (r Resolver) Resolve(path string) string {
	id := path
	for _, stage := range r {
		id = stage.Apply(id)
	}
	return id
}

// compilePatterns compiles a list of ignore regexps.
func compilePatterns(arg string, patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &ConfigError{Arg: arg, Msg: err.Error()}
		}
		res[i] = re
	}
	return res, nil
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
