// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command track-explorer browses the stellar model grids kept on a
// shared Google Drive. Configuration is read from TRACKEXPLORER_*
// environment variables; flags override them.
package main

import (
	"context"
	"flag"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/trackexplorer/cmd/track-explorer/cmd"
	"github.com/grailbio/trackexplorer/explorer"
	"github.com/grailbio/trackexplorer/track"
	"v.io/x/lib/cmdline"
)

var (
	credentialsFlag string
	driveFlag       string
	indexFlag       string
	cacheDirFlag    string

	forceFlag       bool
	folderFlag      string
	modelFolderFlag string
	outFlag         string
	columnsFlag     string
)

func addConfigFlags(fs *flag.FlagSet) {
	fs.StringVar(&credentialsFlag, "credentials", "", "Service account key; overrides TRACKEXPLORER_CREDENTIALS.")
	fs.StringVar(&driveFlag, "drive", "", "Shared drive name; overrides TRACKEXPLORER_DRIVE.")
	fs.StringVar(&indexFlag, "index", "", "Grid index file; overrides TRACKEXPLORER_INDEX.")
	fs.StringVar(&cacheDirFlag, "cache-dir", "", "Directory of local copies; overrides TRACKEXPLORER_CACHE_DIR.")
}

func newExplorer(ctx context.Context, force bool) (*explorer.Explorer, error) {
	cfg, err := explorer.LoadConfig()
	if err != nil {
		return nil, err
	}
	override(&cfg.Credentials, credentialsFlag)
	override(&cfg.Drive, driveFlag)
	override(&cfg.Index, indexFlag)
	override(&cfg.CacheDir, cacheDirFlag)
	return explorer.Open(ctx, cfg, force)
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "track-explorer",
		Short:    "Browse stellar model grids stored on Google Drive",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdIndex(),
			newCmdList(),
			newCmdSummary(),
			newCmdTrack(),
		},
	}
}

func newCmdIndex() *cmdline.Command {
	c := &cmdline.Command{
		Runner: cmdutil.RunnerFunc(runIndex),
		Name:   "index",
		Short:  "Load the grid index, building it from the master listing if needed",
	}
	addConfigFlags(&c.Flags)
	c.Flags.BoolVar(&forceFlag, "force", false, "Rebuild the index even if a valid one is stored.")
	return c
}

func newCmdList() *cmdline.Command {
	c := &cmdline.Command{
		Runner:   cmdutil.RunnerFunc(runList),
		Name:     "list",
		Short:    "List the grids in the index",
		ArgsName: "[pattern]",
		ArgsLong: "<pattern> is a glob, as defined by https://github.com/gobwas/glob, matched against grid names.",
	}
	addConfigFlags(&c.Flags)
	return c
}

func newCmdSummary() *cmdline.Command {
	c := &cmdline.Command{
		Runner:   cmdutil.RunnerFunc(runSummary),
		Name:     "summary",
		Short:    "Print the summary table of a grid",
		ArgsName: "<grid>",
	}
	addConfigFlags(&c.Flags)
	return c
}

func newCmdTrack() *cmdline.Command {
	c := &cmdline.Command{
		Runner:   cmdutil.RunnerFunc(runTrack),
		Name:     "track",
		Short:    "Print or save a track file of a grid",
		ArgsName: "<grid> <file>",
	}
	addConfigFlags(&c.Flags)
	c.Flags.StringVar(&folderFlag, "folder", "", "Base folder of the track, for grids whose model folders are listed in the summary.")
	c.Flags.StringVar(&modelFolderFlag, "model-folder", "", "Model folder of the track, for grids whose model folders are listed in the summary.")
	c.Flags.StringVar(&outFlag, "o", "", "Save the track to this path instead of printing it.")
	c.Flags.StringVar(&columnsFlag, "columns", "", "Comma-separated columns to print; all by default.")
	return c
}

func runIndex(env *cmdline.Env, args []string) error {
	if len(args) != 0 {
		return env.UsageErrorf("index takes no arguments")
	}
	ctx := context.Background()
	x, err := newExplorer(ctx, forceFlag)
	if err != nil {
		return err
	}
	return cmd.Index(ctx, env.Stdout, x)
}

func runList(env *cmdline.Env, args []string) error {
	if len(args) > 1 {
		return env.UsageErrorf("list takes at most one pattern")
	}
	ctx := context.Background()
	x, err := newExplorer(ctx, false)
	if err != nil {
		return err
	}
	var pattern string
	if len(args) == 1 {
		pattern = args[0]
	}
	return cmd.List(ctx, env.Stdout, x, pattern)
}

func runSummary(env *cmdline.Env, args []string) error {
	if len(args) != 1 {
		return env.UsageErrorf("summary takes exactly one grid name")
	}
	ctx := context.Background()
	x, err := newExplorer(ctx, false)
	if err != nil {
		return err
	}
	return cmd.Summary(ctx, env.Stdout, x, args[0])
}

func runTrack(env *cmdline.Env, args []string) error {
	if len(args) != 2 {
		return env.UsageErrorf("track takes a grid name and a file name")
	}
	ctx := context.Background()
	x, err := newExplorer(ctx, false)
	if err != nil {
		return err
	}
	var columns []string
	if columnsFlag != "" {
		columns = strings.Split(columnsFlag, ",")
	}
	opts := track.TrackOptions{
		FolderName:      folderFlag,
		ModelFolderName: modelFolderFlag,
		SavePath:        outFlag,
	}
	return cmd.Track(ctx, env.Stdout, x, args[0], args[1], opts, columns)
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.AddFlags()
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
