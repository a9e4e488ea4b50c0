// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*Command bio-stratdiff compares two trees of stratification BED files and
  reports where they disagree.

  Usage: bio-stratdiff [flags] root-a root-b out-dir

  Each root holds <group>/<name>.bed.gz files.  Files are paired by relative
  path, after side A's paths are passed through -rename-table and then each
  -rewrite pair in order.  For example, to compare a v3.0 tree against a v3.1
  tree whose files gained a GRCh38_ prefix:

    bio-stratdiff -rewrite '/' -rewrite '/GRCh38_' -chrom chr1,chr2 v3.0 v3.1 out

  Three tables are written to out-dir:
    discordant.tsv   regions covered by only one side of a pair, with the
                     side (0 = A, 1 = B) and their adjacency to shared regions
                     (".", "<", ">", or "<>")
    diagnostics.tsv  per-pair covered bases and percentage shared
    unmatched.tsv    files found on only one side, with the closest name on
                     the other side
  With -bgzip, the tables are BGZF-compressed and named *.tsv.gz.

  Progress, each file found on only one side, and a seahash digest of every
  table are logged to standard error.  Standard output is unused;
  unmatched.tsv is the record of side-only files.

  Roots and out-dir may be s3:// URLs.
*/
package main
