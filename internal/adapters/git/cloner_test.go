package git_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
	"github.com/go-git/go-git/v5/plumbing/transport/server"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/git"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	// Serve local repositories in-process so the tests do not need a git binary.
	client.InstallProtocol("file", server.DefaultServer)
}

// initSourceRepo creates a repository with one commit on branch and returns
// the path of its .git directory, usable as a clone URL.
func initSourceRepo(t *testing.T, branch string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("project(ngfx)\n"), domain.FilePerm))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("CMakeLists.txt")
	require.NoError(t, err)
	_, err = wt.Commit("initial import", &gogit.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)

	return filepath.Join(dir, ".git")
}

func newTestCloner(t *testing.T) *git.Cloner {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	return git.NewCloner(mockLogger)
}

func TestCloner_Clone(t *testing.T) {
	url := initSourceRepo(t, "develop")
	dst := filepath.Join(t.TempDir(), "external", "ngfx")

	var progress bytes.Buffer
	err := newTestCloner(t).Clone(t.Context(), url, "develop", dst, &progress)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Equal(t, "project(ngfx)\n", string(data))

	repo, err := gogit.PlainOpen(dst)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, plumbing.NewBranchReferenceName("develop"), head.Name())

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp clone directory must be renamed")
}

func TestCloner_Clone_MissingBranch(t *testing.T) {
	url := initSourceRepo(t, "main")
	dst := filepath.Join(t.TempDir(), "ngfx")

	err := newTestCloner(t).Clone(t.Context(), url, "release", dst, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCloneFailed.Error())

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
