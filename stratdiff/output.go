// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import (
	"context"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
)

// Output table base names, relative to the output directory.
const (
	DiscordantTable  = "discordant"
	DiagnosticsTable = "diagnostics"
	UnmatchedTable   = "unmatched"
)

const (
	discordantHeader  = "chrom\tstart\tend\tsource\tadjacency\tpath_a\tpath_b"
	diagnosticsHeader = "path_a\tpath_b\ttotal_a\ttotal_b\ttotal_shared\tpct_shared_a\tpct_shared_b"
	unmatchedHeader   = "side\tpath\tclosest"
)

// TablePath returns the path of the named output table under dir.
func TablePath(dir, name string, bgzip bool) string {
	p := strings.TrimSuffix(dir, "/") + "/" + name + ".tsv"
	if bgzip {
		p += ".gz"
	}
	return p
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// writeTable creates path, writes header, and calls rows to fill in the body.
// The seahash of the uncompressed text is logged so that reruns can be
// compared without diffing.
func writeTable(ctx context.Context, path string, bgzip bool, header string, rows func(w *tsv.Writer) error) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	dst := io.Writer(out.Writer(ctx))
	if bgzip {
		bgzfWriter := bgzf.NewWriter(dst, runtime.NumCPU())
		defer func() {
			if e := bgzfWriter.Close(); e != nil && err == nil {
				err = e
			}
		}()
		dst = bgzfWriter
	}
	digest := seahash.New()
	w := tsv.NewWriter(io.MultiWriter(dst, digest))
	w.WriteString(header)
	if err = w.EndLine(); err != nil {
		return errors.E(err, "write", path)
	}
	if err = rows(w); err != nil {
		return errors.E(err, "write", path)
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, "write", path)
	}
	log.Printf("stratdiff: wrote %s (seahash %016x)", path, digest.Sum64())
	return nil
}

func writeDiscordant(w *tsv.Writer, regions []DiscordantRegion) error {
	for _, r := range regions {
		w.WriteString(r.ChrName)
		w.WriteInt64(int64(r.Start0))
		w.WriteInt64(int64(r.End))
		w.WriteInt64(int64(r.Source))
		w.WriteString(r.Adjacency.String())
		w.WriteString(string(r.Pair.A))
		w.WriteString(string(r.Pair.B))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func writeDiagnostics(w *tsv.Writer, diags []Diagnostics) error {
	for _, d := range diags {
		w.WriteString(string(d.Pair.A))
		w.WriteString(string(d.Pair.B))
		w.WriteInt64(d.TotalA)
		w.WriteInt64(d.TotalB)
		w.WriteInt64(d.TotalShared)
		w.WriteString(formatPct(d.PctSharedA))
		w.WriteString(formatPct(d.PctSharedB))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func writeUnmatched(w *tsv.Writer, unmatched []Unmatched) error {
	for _, u := range unmatched {
		closest := string(u.Closest)
		if closest == "" {
			closest = "."
		}
		w.WriteString(u.Side.String())
		w.WriteString(string(u.Path))
		w.WriteString(closest)
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport writes the report's three tables under dir.
func WriteReport(ctx context.Context, report Report, dir string, bgzip bool) error {
	if !isURL(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.E(err, "mkdir", dir)
		}
	}
	if err := writeTable(ctx, TablePath(dir, DiscordantTable, bgzip), bgzip, discordantHeader, func(w *tsv.Writer) error {
		return writeDiscordant(w, report.Discordant)
	}); err != nil {
		return err
	}
	if err := writeTable(ctx, TablePath(dir, DiagnosticsTable, bgzip), bgzip, diagnosticsHeader, func(w *tsv.Writer) error {
		return writeDiagnostics(w, report.Diagnostics)
	}); err != nil {
		return err
	}
	return writeTable(ctx, TablePath(dir, UnmatchedTable, bgzip), bgzip, unmatchedHeader, func(w *tsv.Writer) error {
		return writeUnmatched(w, report.Unmatched)
	})
}
