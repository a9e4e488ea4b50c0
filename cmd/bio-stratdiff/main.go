// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/stratcmp/stratdiff"
	"v.io/x/lib/cmdline"
)

// listFlag collects every occurrence of a repeated flag.  With split set, each
// occurrence may also hold a comma-separated list.
type listFlag struct {
	values []string
	split  bool
}

func (f *listFlag) String() string {
	return strings.Join(f.values, ",")
}

func (f *listFlag) Set(v string) error {
	if !f.split {
		f.values = append(f.values, v)
		return nil
	}
	for _, s := range strings.Split(v, ",") {
		if s != "" {
			f.values = append(f.values, s)
		}
	}
	return nil
}

func newCmdStratdiff() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bio-stratdiff",
		Short:    "Compare two trees of stratification BED files",
		ArgsName: "root-a root-b out-dir",
	}
	opts := stratdiff.DefaultOpts
	chroms := listFlag{split: true}
	rewrites := listFlag{}
	ignoreA := listFlag{}
	ignoreB := listFlag{}
	cmd.Flags.Var(&chroms, "chrom", "Restrict the comparison to these chromosomes. Repeatable, or comma-separated; default is all chromosomes")
	cmd.Flags.StringVar(&opts.RenameTable, "rename-table", "", "Headerless two-column TSV mapping side-A relative paths to the paths they should be matched as")
	cmd.Flags.Var(&rewrites, "rewrite", `Side-A path rewrite. Repeatable; consecutive values form (regexp, replacement)
pairs, applied in order after -rename-table. An odd number of values is an error.`)
	cmd.Flags.Var(&ignoreA, "ignore-a", "Skip side-A files whose relative path matches this regexp. Repeatable")
	cmd.Flags.Var(&ignoreB, "ignore-b", "Skip side-B files whose relative path matches this regexp. Repeatable")
	cmd.Flags.StringVar(&opts.Suffix, "suffix", opts.Suffix, "File-name suffix of stratification files")
	cmd.Flags.IntVar(&opts.Parallelism, "parallelism", opts.Parallelism, "Maximum number of file pairs compared at once; 0 = runtime.NumCPU()")
	cmd.Flags.BoolVar(&opts.Bgzip, "bgzip", opts.Bgzip, "BGZF-compress the output tables")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("bio-stratdiff takes root-a root-b out-dir, but got %v", argv)
		}
		opts.Chroms = chroms.values
		opts.Rewrites = rewrites.values
		opts.IgnoreA = ignoreA.values
		opts.IgnoreB = ignoreB.values
		opts.RootA = argv[0]
		opts.RootB = argv[1]
		ctx := vcontext.Background()
		if err := stratdiff.Run(ctx, opts, argv[2]); err != nil {
			return err
		}
		log.Debug.Printf("exiting")
		return nil
	})
	return cmd
}

func registerS3() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func main() {
	registerS3()
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdStratdiff())
}
