// Copyright 2024 The Fragplan Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Command fragplan is a development driver for the parallelizer: it
// reads a JSON-described fragment tree and parameter set from a file
// (or stdin) and prints a one-line summary of the resulting plan
// fragments (plus one line per minor fragment with --verbose), or the
// failure reason code on error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pedia/dremio-oss/endpoint"
	"github.com/pedia/dremio-oss/fragment"
	"github.com/pedia/dremio-oss/planner"
)

// planDoc is the on-disk shape fed to the run command: a fragment tree
// plus the knobs callers would otherwise set via session options.
type planDoc struct {
	Root                           *fragment.Fragment  `json:"root"`
	ActiveEndpoints                []endpoint.Endpoint `json:"activeEndpoints"`
	SliceTarget                    int                 `json:"sliceTarget"`
	MaxWidthPerNode                int                 `json:"maxWidthPerNode"`
	MaxGlobalWidth                 int                 `json:"maxGlobalWidth"`
	AffinityFactor                 float64             `json:"affinityFactor"`
	UseNewAssignmentCreator        bool                `json:"useNewAssignmentCreator"`
	AssignmentCreatorBalanceFactor float64             `json:"assignmentCreatorBalanceFactor"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fragplan",
		Short: "Parallelize a fragment tree and print the resulting plan fragments",
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		input   string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the parallelizer against a JSON plan document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.OutOrStdout(), input, verbose)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "path to a JSON plan document, or - for stdin")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print per-minor-fragment detail after the summary")
	return cmd
}

func runPlan(out io.Writer, inputPath string, verbose bool) error {
	raw, err := readInput(inputPath)
	if err != nil {
		return fmt.Errorf("reading plan document: %w", err)
	}

	var doc planDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing plan document: %w", err)
	}
	if doc.Root == nil {
		return fmt.Errorf("plan document has no root fragment")
	}

	params := planner.DefaultParams()
	if doc.SliceTarget > 0 {
		params.SliceTarget = doc.SliceTarget
	}
	if doc.MaxWidthPerNode > 0 {
		params.MaxWidthPerNode = doc.MaxWidthPerNode
	}
	if doc.MaxGlobalWidth > 0 {
		params.MaxGlobalWidth = doc.MaxGlobalWidth
	}
	params.AffinityFactor = doc.AffinityFactor
	params.UseNewAssignmentCreator = doc.UseNewAssignmentCreator
	if doc.AssignmentCreatorBalanceFactor > 0 {
		params.AssignmentCreatorBalanceFactor = doc.AssignmentCreatorBalanceFactor
	}

	logger := zap.NewNop()
	p, err := planner.NewPlanner(params, nil, logger)
	if err != nil {
		return err
	}

	fragments, err := p.GetFragments(context.Background(), planner.Request{
		QueryID:         uuid.New(),
		RootFragment:    doc.Root,
		ActiveEndpoints: doc.ActiveEndpoints,
	})
	if err != nil {
		var setupErr *planner.PlanSetupError
		if errors.As(err, &setupErr) {
			fmt.Fprintf(out, "FAILED %s (fragment %d): %v\n", setupErr.Reason, setupErr.FragmentID, err)
			return nil
		}
		return err
	}

	printFragments(out, fragments, verbose)
	return nil
}

func printFragments(out io.Writer, fragments []*planner.PlanFragment, verbose bool) {
	byMajor := map[int]int{}
	for _, f := range fragments {
		byMajor[f.Handle.MajorFragmentID]++
	}
	fmt.Fprintf(out, "plan: %d major fragment(s), %d minor fragment(s) total\n", len(byMajor), len(fragments))
	if !verbose {
		return
	}
	for _, f := range fragments {
		fmt.Fprintf(out, "  fragment %d/%d -> %s (leaf=%v, mem=%d..%d, codec=%s)\n",
			f.Handle.MajorFragmentID, f.Handle.MinorFragmentID, f.AssignedEndpoint,
			f.Leaf, f.MemInitial, f.MemMax, f.Codec)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
