// Package runtime provides the per-invocation context shared by commands:
// the open repository, the optional project, and the logger.
package runtime

import (
	"fmt"

	"workbench.dev/workbench/internal/git"
	"workbench.dev/workbench/internal/output"
	"workbench.dev/workbench/internal/project"
)

// Context provides access to the repository, project and output for
// commands.
type Context struct {
	Repo    *git.Repository
	Project *project.Project
	Splog   *output.Splog
}

// GetContext opens the repository containing dir and looks up its project
// context. A repository that was never initialized as a project yields a
// context with a nil Project; commands then run headless.
func GetContext(dir string) (*Context, error) {
	repo, err := git.OpenRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	proj, err := project.Find(repo.Root())
	if err != nil {
		return nil, err
	}

	splog, err := output.NewSplogWithLogFile(output.GetLogFilePath())
	if err != nil {
		splog = output.NewSplog()
	}

	return &Context{Repo: repo, Project: proj, Splog: splog}, nil
}

// Close releases the context's resources
func (c *Context) Close() error {
	if c.Splog != nil {
		return c.Splog.Close()
	}
	return nil
}
