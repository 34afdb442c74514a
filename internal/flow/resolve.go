package flow

import (
	"context"
	"fmt"
	"strings"
)

// NoBranchError reports that no local branch matches a name prefix.
type NoBranchError struct {
	// Prefix is the full branch-name prefix that matched nothing.
	Prefix string
}

func (e *NoBranchError) Error() string {
	return fmt.Sprintf("no branch matches prefix %q", e.Prefix)
}

// AmbiguousNameError reports that a short name prefix matches more than one
// branch. Candidates holds the full branch names so the user can pick one.
type AmbiguousNameError struct {
	Given      string
	Candidates []string
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("multiple branches match prefix %q:\n    %s\n(give a longer prefix)",
		e.Given, strings.Join(e.Candidates, "\n    "))
}

// ResolveName finds the unique local branch whose name starts with the
// workflow prefix followed by short, and returns its short name. An exact
// match short-circuits, so an existing branch is never shadowed by a longer
// one sharing its name as a prefix.
func (f *Flow) ResolveName(ctx context.Context, kind Kind, short string) (string, error) {
	branches, err := f.Git.LocalBranches(ctx)
	if err != nil {
		return "", err
	}

	prefix := kind.Prefix(f.Cfg)
	want := prefix + short
	for _, b := range branches {
		if b == want {
			return short, nil
		}
	}

	var matches []string
	for _, b := range branches {
		if strings.HasPrefix(b, want) {
			matches = append(matches, b)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NoBranchError{Prefix: want}
	case 1:
		return strings.TrimPrefix(matches[0], prefix), nil
	default:
		return "", &AmbiguousNameError{Given: short, Candidates: matches}
	}
}

// resolveOrCurrent resolves short when given; with an empty short it falls
// back to the checked-out branch, which must carry the workflow prefix.
func (f *Flow) resolveOrCurrent(ctx context.Context, kind Kind, short string) (string, error) {
	if short != "" {
		return f.ResolveName(ctx, kind, short)
	}

	current, err := f.Git.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}
	prefix := kind.Prefix(f.Cfg)
	if !strings.HasPrefix(current, prefix) {
		return "", fmt.Errorf("current branch %q is not a %s branch; name required", current, kind)
	}
	return strings.TrimPrefix(current, prefix), nil
}
