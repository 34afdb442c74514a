package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ShellManager implements the Manager interface by shelling out to git.
type ShellManager struct {
	workDir string
}

// NewShellManager creates a new ShellManager operating on the repository
// rooted at workDir.
func NewShellManager(workDir string) *ShellManager {
	return &ShellManager{workDir: workDir}
}

// runGit executes a git command and returns the trimmed stdout.
func (m *ShellManager) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = m.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		stderrStr := stderr.String()
		if strings.Contains(strings.ToLower(stderrStr), "not a git repository") {
			return "", &GitError{
				Command: "git " + strings.Join(args, " "),
				Output:  stderrStr,
				Err:     ErrNotAGitRepo,
			}
		}
		return "", &GitError{
			Command: "git " + strings.Join(args, " "),
			Output:  strings.TrimSpace(stderrStr + stdout.String()),
			Err:     err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// runGitExit executes a git command where a non-zero exit code is a valid
// answer rather than a failure (show-ref probes, --quiet diffs, ancestor
// tests). It returns the exit code and any error that was not an exit error.
func (m *ShellManager) runGitExit(ctx context.Context, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = m.workDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		stderrStr := stderr.String()
		if strings.Contains(strings.ToLower(stderrStr), "not a git repository") {
			return 0, &GitError{
				Command: "git " + strings.Join(args, " "),
				Output:  stderrStr,
				Err:     ErrNotAGitRepo,
			}
		}
		return exitErr.ExitCode(), nil
	}
	return 0, &GitError{
		Command: "git " + strings.Join(args, " "),
		Output:  stderr.String(),
		Err:     err,
	}
}

// GitDir returns the absolute path of the repository's .git directory.
func (m *ShellManager) GitDir(ctx context.Context) (string, error) {
	return m.runGit(ctx, "rev-parse", "--absolute-git-dir")
}

// CurrentBranch returns the name of the checked-out branch. Uses
// symbolic-ref so it works in repositories with no commits yet.
func (m *ShellManager) CurrentBranch(ctx context.Context) (string, error) {
	return m.runGit(ctx, "symbolic-ref", "--short", "HEAD")
}

// LocalBranches returns the short names of all local branches.
func (m *ShellManager) LocalBranches(ctx context.Context) ([]string, error) {
	out, err := m.runGit(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// RemoteBranches returns remote-tracking branch names such as "origin/develop".
func (m *ShellManager) RemoteBranches(ctx context.Context) ([]string, error) {
	out, err := m.runGit(ctx, "for-each-ref", "--format=%(refname:short)", "refs/remotes")
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, b := range splitLines(out) {
		// Skip symbolic remote HEAD entries like "origin/HEAD".
		if strings.HasSuffix(b, "/HEAD") {
			continue
		}
		branches = append(branches, b)
	}
	return branches, nil
}

// Tags returns all tag names.
func (m *ShellManager) Tags(ctx context.Context) ([]string, error) {
	out, err := m.runGit(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// BranchExists reports whether a local branch exists.
func (m *ShellManager) BranchExists(ctx context.Context, name string) (bool, error) {
	code, err := m.runGitExit(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	if err != nil {
		return false, err
	}
	return code == 0, nil
}

// RemoteBranchExists reports whether a remote-tracking branch exists.
func (m *ShellManager) RemoteBranchExists(ctx context.Context, name string) (bool, error) {
	code, err := m.runGitExit(ctx, "show-ref", "--verify", "--quiet", "refs/remotes/"+name)
	if err != nil {
		return false, err
	}
	return code == 0, nil
}

// TagExists reports whether a tag exists.
func (m *ShellManager) TagExists(ctx context.Context, name string) (bool, error) {
	code, err := m.runGitExit(ctx, "show-ref", "--verify", "--quiet", "refs/tags/"+name)
	if err != nil {
		return false, err
	}
	return code == 0, nil
}

// HasUnstagedChanges reports whether the working tree differs from the index.
func (m *ShellManager) HasUnstagedChanges(ctx context.Context) (bool, error) {
	code, err := m.runGitExit(ctx, "diff", "--no-ext-diff", "--ignore-submodules", "--quiet", "--exit-code")
	if err != nil {
		return false, err
	}
	return code != 0, nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (m *ShellManager) HasStagedChanges(ctx context.Context) (bool, error) {
	code, err := m.runGitExit(ctx, "diff-index", "--cached", "--quiet", "--ignore-submodules", "HEAD", "--")
	if err != nil {
		return false, err
	}
	return code != 0, nil
}

// CreateBranch creates a branch pointing at base without checking it out.
func (m *ShellManager) CreateBranch(ctx context.Context, name, base string) error {
	_, err := m.runGit(ctx, "branch", "--no-track", name, base)
	return err
}

// CreateTrackingBranch creates a local branch tracking remoteRef and checks
// it out.
func (m *ShellManager) CreateTrackingBranch(ctx context.Context, name, remoteRef string) error {
	_, err := m.runGit(ctx, "checkout", "-b", name, "--track", remoteRef)
	return err
}

// Checkout switches the working tree to the given branch.
func (m *ShellManager) Checkout(ctx context.Context, name string) error {
	_, err := m.runGit(ctx, "checkout", name)
	return err
}

// Merge merges branch into the current branch. Conflicts are reported as
// ErrMergeConflict; the merge is left in progress for manual resolution.
func (m *ShellManager) Merge(ctx context.Context, branch string, noFF bool) error {
	args := []string{"merge"}
	if noFF {
		args = append(args, "--no-ff")
	} else {
		args = append(args, "--ff")
	}
	args = append(args, branch)

	_, err := m.runGit(ctx, args...)
	if err != nil {
		if gitErr, ok := err.(*GitError); ok && isConflictOutput(gitErr.Output) {
			gitErr.Err = ErrMergeConflict
		}
		return err
	}
	return nil
}

// MergeSquash squash-merges branch into the current branch. The squashed
// changes are left staged; the caller commits them.
func (m *ShellManager) MergeSquash(ctx context.Context, branch string) error {
	_, err := m.runGit(ctx, "merge", "--squash", branch)
	if err != nil {
		if gitErr, ok := err.(*GitError); ok && isConflictOutput(gitErr.Output) {
			gitErr.Err = ErrMergeConflict
		}
		return err
	}
	return nil
}

// Commit commits staged changes with the given message.
func (m *ShellManager) Commit(ctx context.Context, message string) error {
	_, err := m.runGit(ctx, "commit", "-m", message)
	return err
}

// Init initializes a repository in the working directory. It is a no-op
// when the directory is already inside a repository.
func (m *ShellManager) Init(ctx context.Context) error {
	_, err := m.runGit(ctx, "rev-parse", "--git-dir")
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotAGitRepo) {
		return err
	}
	_, err = m.runGit(ctx, "init")
	return err
}

// Rebase rebases the current branch onto upstream. Interactive rebases hand
// the terminal to git so the user can edit the todo list.
func (m *ShellManager) Rebase(ctx context.Context, upstream string, interactive bool) error {
	if interactive {
		cmd := exec.CommandContext(ctx, "git", "rebase", "-i", upstream)
		cmd.Dir = m.workDir
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return &GitError{
				Command: "git rebase -i " + upstream,
				Err:     ErrRebaseConflict,
			}
		}
		return nil
	}

	_, err := m.runGit(ctx, "rebase", upstream)
	if err != nil {
		if gitErr, ok := err.(*GitError); ok && isConflictOutput(gitErr.Output) {
			gitErr.Err = ErrRebaseConflict
		}
		return err
	}
	return nil
}

// CreateTag creates an annotated tag at HEAD. With sign the tag is
// GPG-signed; a non-empty signingKey selects the key (-u).
func (m *ShellManager) CreateTag(ctx context.Context, name, message string, sign bool, signingKey string) error {
	if message == "" {
		message = name
	}
	args := []string{"tag", "-a", "-m", message}
	if signingKey != "" {
		args = append(args, "-u", signingKey)
	} else if sign {
		args = append(args, "-s")
	}
	args = append(args, name)
	_, err := m.runGit(ctx, args...)
	return err
}

// DeleteBranch deletes a local branch.
func (m *ShellManager) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := m.runGit(ctx, "branch", flag, name)
	return err
}

// Fetch fetches from the given remote.
func (m *ShellManager) Fetch(ctx context.Context, remote string) error {
	_, err := m.runGit(ctx, "fetch", "-q", remote)
	return err
}

// Push pushes a refspec to the remote.
func (m *ShellManager) Push(ctx context.Context, remote, refspec string) error {
	_, err := m.runGit(ctx, "push", remote, refspec)
	return err
}

// PushSetUpstream pushes a branch and records it as the upstream.
func (m *ShellManager) PushSetUpstream(ctx context.Context, remote, branch string) error {
	_, err := m.runGit(ctx, "push", "-u", remote, branch+":refs/heads/"+branch)
	return err
}

// DeleteRemoteBranch deletes a branch on the remote.
func (m *ShellManager) DeleteRemoteBranch(ctx context.Context, remote, branch string) error {
	_, err := m.runGit(ctx, "push", remote, ":refs/heads/"+branch)
	return err
}

// Diff returns the diff between two revisions.
func (m *ShellManager) Diff(ctx context.Context, from, to string) (string, error) {
	return m.runGit(ctx, "diff", from+".."+to)
}

// MergeBase returns the best common ancestor of two revisions.
func (m *ShellManager) MergeBase(ctx context.Context, a, b string) (string, error) {
	return m.runGit(ctx, "merge-base", a, b)
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (m *ShellManager) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	code, err := m.runGitExit(ctx, "merge-base", "--is-ancestor", ancestor, descendant)
	if err != nil {
		return false, err
	}
	return code == 0, nil
}

// CommitCount returns the number of commits on head that are not on base.
func (m *ShellManager) CommitCount(ctx context.Context, base, head string) (int, error) {
	out, err := m.runGit(ctx, "rev-list", "--count", base+".."+head)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(out)
}

// RevParse resolves a revision to a commit hash.
func (m *ShellManager) RevParse(ctx context.Context, rev string) (string, error) {
	return m.runGit(ctx, "rev-parse", rev)
}

// Compare classifies how local relates to remote by commit identity and
// common ancestry.
func (m *ShellManager) Compare(ctx context.Context, local, remote string) (Relation, error) {
	localHash, err := m.RevParse(ctx, local)
	if err != nil {
		return RelationEqual, err
	}
	remoteHash, err := m.RevParse(ctx, remote)
	if err != nil {
		return RelationEqual, err
	}
	if localHash == remoteHash {
		return RelationEqual, nil
	}

	base, err := m.MergeBase(ctx, local, remote)
	if err != nil {
		return RelationEqual, err
	}
	switch base {
	case localHash:
		return RelationBehind, nil
	case remoteHash:
		return RelationAhead, nil
	default:
		return RelationDiverged, nil
	}
}

// isConflictOutput recognizes the output git prints when a merge or rebase
// stops on conflicts.
func isConflictOutput(output string) bool {
	return strings.Contains(output, "CONFLICT") ||
		strings.Contains(output, "Automatic merge failed") ||
		strings.Contains(output, "could not apply")
}

func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
