// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
Package stratdiff compares two trees of stratification BED files.

A stratification tree looks like <root>/<group>/<name>.bed.gz.  Files in the
two trees are paired by identity: a file's identity is its path relative to
the root, after side A's rename table and regex rewrites have been applied.
Each pair is then compared region by region:

  - the two files' interval-unions are partitioned into regions covered by A
    only, B only, or both ("concordant");
  - every A-only or B-only ("discordant") region is labeled by whether it
    touches a concordant region immediately before it ("<"), after it (">"),
    on both sides ("<>"), or neither (".");
  - per-pair totals give the fraction of each side's coverage that is shared.

Pairs are compared in parallel; output order always follows the pair order
produced by Match.
*/
package stratdiff
