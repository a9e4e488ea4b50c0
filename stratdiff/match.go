// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// DefaultSuffix is the file-name suffix of stratification files.
const DefaultSuffix = ".bed.gz"

// MatchOpts defines how the two trees are paired up.
type MatchOpts struct {
	RootA string
	RootB string
	// Suffix selects stratification files; DefaultSuffix if empty.
	Suffix string
	// Renames maps side-A relative paths to replacement identities.  It is
	// applied before Rewrites.
	Renames map[string]string
	// Rewrites is a flat list of (regexp, replacement) pairs applied in order
	// to side-A identities.
	Rewrites []string
	// IgnoreA and IgnoreB drop files whose original relative path matches any
	// of the regexps.
	IgnoreA []string
	IgnoreB []string
}

// Unmatched is a file present on only one side.
type Unmatched struct {
	Side Source
	Path FileHandle
	// Identity is Path after resolution.
	Identity string
	// Closest is the other side's unmatched file with the most similar
	// identity, or "" if the other side has none.
	Closest FileHandle
}

// MatchResult is the outcome of Match.  Pairs and both unmatched lists are
// sorted by identity.
type MatchResult struct {
	Pairs []FilePair
	OnlyA []Unmatched
	OnlyB []Unmatched
}

// ListStratifications returns the files directly inside root's immediate
// subdirectories whose names end with suffix, sorted.
func ListStratifications(ctx context.Context, root, suffix string) ([]FileHandle, error) {
	root = cleanRoot(root)
	var handles []FileHandle
	lister := file.List(ctx, root, true /*recursive*/)
	for lister.Scan() {
		rel, ok := relPath(root, lister.Path())
		if !ok {
			continue
		}
		slash := strings.IndexByte(rel, '/')
		if slash <= 0 || strings.IndexByte(rel[slash+1:], '/') >= 0 {
			continue
		}
		if !strings.HasSuffix(rel[slash+1:], suffix) {
			continue
		}
		handles = append(handles, FileHandle(rel))
	}
	if err := lister.Err(); err != nil {
		return nil, errors.E(err, "list", root)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles, nil
}

func isURL(path string) bool {
	return strings.Contains(path, "://")
}

// cleanRoot normalizes root for listing.  URL roots lose any trailing slash;
// local roots are cleaned, so "./", "g/.." and "." all list the same tree.
func cleanRoot(root string) string {
	if isURL(root) {
		return strings.TrimSuffix(root, "/")
	}
	return filepath.Clean(root)
}

// relPath returns path relative to the cleaned root, with '/' separators.
// file.List drops a leading "./" from local paths, so local paths are
// compared lexically with filepath.Rel rather than by prefix.
func relPath(root, path string) (string, bool) {
	if isURL(root) {
		if !strings.HasPrefix(path, root) {
			return "", false
		}
		return strings.TrimPrefix(path[len(root):], "/"), true
	}
	rel, err := filepath.Rel(root, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// identity is an llrb entry holding whatever each side resolved to one
// canonical identity.
type identity struct {
	id   string
	a, b FileHandle
}

// Compare implements llrb.Comparable.
func (e *identity) Compare(c llrb.Comparable) int {
	return strings.Compare(e.id, c.(*identity).id)
}

// matcher reconciles the two sides through an identity-ordered tree.
type matcher struct {
	byID llrb.Tree
}

func (m *matcher) add(side Source, path FileHandle, id string) error {
	e, _ := m.byID.Get(&identity{id: id}).(*identity)
	if e == nil {
		e = &identity{id: id}
		m.byID.Insert(e)
	}
	prev := &e.a
	if side == SourceB {
		prev = &e.b
	}
	if *prev != "" {
		return &CollisionError{Side: side, Identity: id, First: *prev, Second: path}
	}
	*prev = path
	return nil
}

func (m *matcher) result() MatchResult {
	var r MatchResult
	m.byID.Do(func(c llrb.Comparable) bool {
		e := c.(*identity)
		switch {
		case e.a != "" && e.b != "":
			r.Pairs = append(r.Pairs, FilePair{A: e.a, B: e.b})
		case e.a != "":
			r.OnlyA = append(r.OnlyA, Unmatched{Side: SourceA, Path: e.a, Identity: e.id})
		default:
			r.OnlyB = append(r.OnlyB, Unmatched{Side: SourceB, Path: e.b, Identity: e.id})
		}
		return false
	})
	suggest(r.OnlyA, r.OnlyB)
	suggest(r.OnlyB, r.OnlyA)
	return r
}

// suggest fills in Closest for each of dst by edit distance against the
// identities in others.  Ties go to the earlier identity.
func suggest(dst, others []Unmatched) {
	for i := range dst {
		best := -1
		for _, o := range others {
			if d := matchr.Levenshtein(dst[i].Identity, o.Identity); best < 0 || d < best {
				best = d
				dst[i].Closest = o.Path
			}
		}
	}
}

// Match pairs up the stratification files under opts.RootA and opts.RootB.
// Option errors are reported before either tree is listed.  Files on only
// one side are logged and returned in OnlyA/OnlyB; they are not an error.
func Match(ctx context.Context, opts MatchOpts) (MatchResult, error) {
	resolver, err := NewResolver(opts.Renames, opts.Rewrites)
	if err != nil {
		return MatchResult{}, err
	}
	ignoreA, err := compilePatterns("ignore-a", opts.IgnoreA)
	if err != nil {
		return MatchResult{}, err
	}
	ignoreB, err := compilePatterns("ignore-b", opts.IgnoreB)
	if err != nil {
		return MatchResult{}, err
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	for _, stage := range resolver {
		log.Debug.Printf("stratdiff.Match: side A stage %s", stage.Name())
	}

	sides := []struct {
		side     Source
		root     string
		resolver Resolver
		ignore   []*regexp.Regexp
	}{
		{SourceA, opts.RootA, resolver, ignoreA},
		{SourceB, opts.RootB, nil, ignoreB},
	}
	var m matcher
	for _, s := range sides {
		handles, err := ListStratifications(ctx, s.root, suffix)
		if err != nil {
			return MatchResult{}, err
		}
		for _, h := range handles {
			// Ignore patterns see the original path, not the resolved identity.
			if matchesAny(s.ignore, string(h)) {
				log.Debug.Printf("stratdiff.Match: ignoring %v/%s", s.side, h)
				continue
			}
			if err := m.add(s.side, h, s.resolver.Resolve(string(h))); err != nil {
				return MatchResult{}, err
			}
		}
	}

	r := m.result()
	for _, u := range r.OnlyA {
		log.Printf("only in %s: %s (resolved to %s)", opts.RootA, u.Path, u.Identity)
	}
	for _, u := range r.OnlyB {
		log.Printf("only in %s: %s", opts.RootB, u.Path)
	}
	log.Printf("stratdiff.Match: %d pairs, %d only in A, %d only in B", len(r.Pairs), len(r.OnlyA), len(r.OnlyB))
	return r, nil
}
