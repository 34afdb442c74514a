package flow

import (
	"context"
	"fmt"
	"strings"
)

// List prints the branches of a workflow, marking the checked-out one. With
// verbose each branch is annotated with its relation to the workflow's
// integration branch.
func (f *Flow) List(ctx context.Context, kind Kind, verbose bool) error {
	branches, err := f.Git.LocalBranches(ctx)
	if err != nil {
		return err
	}

	prefix := kind.Prefix(f.Cfg)
	var matches []string
	for _, b := range branches {
		if strings.HasPrefix(b, prefix) {
			matches = append(matches, b)
		}
	}

	if len(matches) == 0 {
		fmt.Fprintf(f.Out, "No %s branches exist.\n\n", kind)
		fmt.Fprintf(f.Out, "You can start a new %s branch:\n\n", kind)
		fmt.Fprintf(f.Out, "    gflow %s start <name>\n\n", kind)
		return nil
	}

	current, err := f.Git.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	base := kind.Base(f.Cfg)
	for _, b := range matches {
		marker := "  "
		if b == current {
			marker = "* "
		}
		short := strings.TrimPrefix(b, prefix)

		if !verbose {
			fmt.Fprintf(f.Out, "%s%s\n", marker, short)
			continue
		}

		note, err := f.describeBranch(ctx, b, base)
		if err != nil {
			return err
		}
		fmt.Fprintf(f.Out, "%s%s%s\n", marker, short, note)
	}
	return nil
}

// describeBranch summarizes how a workflow branch relates to its base.
func (f *Flow) describeBranch(ctx context.Context, branch, base string) (string, error) {
	branchHash, err := f.Git.RevParse(ctx, branch)
	if err != nil {
		return "", err
	}
	baseHash, err := f.Git.RevParse(ctx, base)
	if err != nil {
		return "", err
	}
	if branchHash == baseHash {
		return " (no commits yet)", nil
	}

	mergeBase, err := f.Git.MergeBase(ctx, branch, base)
	if err != nil {
		return "", err
	}
	switch mergeBase {
	case branchHash:
		return fmt.Sprintf(" (is behind %s, may ff)", base), nil
	case baseHash:
		return fmt.Sprintf(" (based on latest %s)", base), nil
	default:
		return " (may be rebased)", nil
	}
}
