// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRun(t *testing.T, tempDir string) Opts {
	opts := DefaultOpts
	opts.RootA = filepath.Join(tempDir, "a")
	opts.RootB = filepath.Join(tempDir, "b")
	writeTree(t, opts.RootA, map[string]string{
		"Union/v1_overlap.bed.gz": "chr1\t0\t100\n",
		"Union/v1_nested.bed.gz":  "chr1\t0\t10\nchr1\t10\t40\nchr2\t5\t15\n",
		"Union/v1_extra.bed.gz":   "chr1\t0\t10\n",
		"Union/v1_empty.bed.gz":   "# nothing\n",
	})
	writeTree(t, opts.RootB, map[string]string{
		"Union/v2_overlap.bed.gz": "chr1\t50\t150\n",
		"Union/v2_nested.bed.gz":  "chr1\t10\t20\nchr2\t0\t100\n",
		"Union/v2_empty.bed.gz":   "chr1\t0\t10\n",
		"Union/v2_missing.bed.gz": "chr1\t0\t10\n",
	})
	opts.Rewrites = []string{"/v1_", "/v2_"}
	opts.Parallelism = 2
	return opts
}

const (
	wantDiscordant = `chrom	start	end	source	adjacency	path_a	path_b
chr1	0	10	1	.	Union/v1_empty.bed.gz	Union/v2_empty.bed.gz
chr1	0	10	0	>	Union/v1_nested.bed.gz	Union/v2_nested.bed.gz
chr1	20	40	0	<	Union/v1_nested.bed.gz	Union/v2_nested.bed.gz
chr2	0	5	1	>	Union/v1_nested.bed.gz	Union/v2_nested.bed.gz
chr2	15	100	1	<	Union/v1_nested.bed.gz	Union/v2_nested.bed.gz
chr1	0	50	0	>	Union/v1_overlap.bed.gz	Union/v2_overlap.bed.gz
chr1	100	150	1	<	Union/v1_overlap.bed.gz	Union/v2_overlap.bed.gz
`
	wantDiagnostics = `path_a	path_b	total_a	total_b	total_shared	pct_shared_a	pct_shared_b
Union/v1_empty.bed.gz	Union/v2_empty.bed.gz	0	10	0	0.000000	0.000000
Union/v1_nested.bed.gz	Union/v2_nested.bed.gz	50	110	20	40.000000	18.181818
Union/v1_overlap.bed.gz	Union/v2_overlap.bed.gz	100	100	50	50.000000	50.000000
`
	wantUnmatched = `side	path	closest
A	Union/v1_extra.bed.gz	Union/v2_missing.bed.gz
B	Union/v2_missing.bed.gz	Union/v1_extra.bed.gz
`
)

func readTable(t *testing.T, path string, gzipped bool) string {
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	if gzipped {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		data, err = ioutil.ReadAll(gz)
		require.NoError(t, err)
	}
	return string(data)
}

func TestRun(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "run")
	defer cleanup()
	opts := setupRun(t, tempDir)
	ctx := context.Background()
	outDir := filepath.Join(tempDir, "out")
	require.NoError(t, Run(ctx, opts, outDir))

	assert.Equal(t, wantDiscordant, readTable(t, TablePath(outDir, DiscordantTable, false), false))
	assert.Equal(t, wantDiagnostics, readTable(t, TablePath(outDir, DiagnosticsTable, false), false))
	assert.Equal(t, wantUnmatched, readTable(t, TablePath(outDir, UnmatchedTable, false), false))

	// Reruns are byte-identical, whatever the parallelism.
	for _, parallelism := range []int{1, 0, 16} {
		opts.Parallelism = parallelism
		rerunDir := filepath.Join(tempDir, "rerun")
		require.NoError(t, Run(ctx, opts, rerunDir))
		for _, name := range []string{DiscordantTable, DiagnosticsTable, UnmatchedTable} {
			testutil.CompareFiles(t, TablePath(rerunDir, name, false), TablePath(outDir, name, false), nil)
		}
	}
}

func TestRunBgzip(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "run")
	defer cleanup()
	opts := setupRun(t, tempDir)
	opts.Bgzip = true
	outDir := filepath.Join(tempDir, "out")
	require.NoError(t, Run(context.Background(), opts, outDir))

	path := TablePath(outDir, DiscordantTable, true)
	assert.True(t, strings.HasSuffix(path, ".tsv.gz"))
	assert.Equal(t, wantDiscordant, readTable(t, path, true))
	assert.Equal(t, wantDiagnostics, readTable(t, TablePath(outDir, DiagnosticsTable, true), true))
}

func TestRunRenameTable(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "run")
	defer cleanup()
	opts := setupRun(t, tempDir)
	opts.RenameTable = filepath.Join(tempDir, "renames.tsv")
	require.NoError(t, ioutil.WriteFile(opts.RenameTable,
		[]byte("# old\tnew\nUnion/v1_extra.bed.gz\tUnion/v1_missing.bed.gz\n"), 0644))

	report, err := Reconcile(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, report.Unmatched)
	assert.Len(t, report.Diagnostics, 4)
	assert.Equal(t, FilePair{"Union/v1_extra.bed.gz", "Union/v2_missing.bed.gz"}, report.Diagnostics[1].Pair)
	assert.Equal(t, 100.0, report.Diagnostics[1].PctSharedA)
}

// Option errors surface before the output directory or either tree is
// touched.
func TestRunConfigError(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "run")
	defer cleanup()
	opts := DefaultOpts
	opts.RootA = filepath.Join(tempDir, "missing-a")
	opts.RootB = filepath.Join(tempDir, "missing-b")
	opts.RenameTable = filepath.Join(tempDir, "missing.tsv")
	opts.Rewrites = []string{"^old_", "new_", "^extra"}
	outDir := filepath.Join(tempDir, "out")

	err := Run(context.Background(), opts, outDir)
	require.Error(t, err)
	ce, ok := err.(*ConfigError)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "rewrite", ce.Arg)
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestParseRenames(t *testing.T) {
	renames, err := ParseRenames(strings.NewReader("# comment\na/x.bed.gz\ta/y.bed.gz\nb/z.bed.gz\tb/w.bed.gz\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a/x.bed.gz": "a/y.bed.gz", "b/z.bed.gz": "b/w.bed.gz"}, renames)

	_, err = ParseRenames(strings.NewReader("a/x.bed.gz\ta/y.bed.gz\na/x.bed.gz\ta/z.bed.gz\n"))
	_, ok := err.(*ConfigError)
	assert.True(t, ok)

	_, err = ParseRenames(strings.NewReader("a/x.bed.gz\n"))
	assert.Error(t, err)
}
