package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExtensions = []string{".ear", ".war", ".jar"}

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestFindArchives_Directory(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "shop.ear")
	touch(t, root, "web/store.war")
	touch(t, root, "web/lib/util.JAR")
	touch(t, root, "notes.txt")
	touch(t, root, ".hidden/secret.jar")
	touch(t, root, ".git/objects/pack.jar")
	touch(t, root, "target/build.jar")

	archives, err := FindArchives(root, Options{
		Extensions: testExtensions,
		IgnoreDirs: []string{".git", "target"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"shop.ear", "web/lib/util.JAR", "web/store.war"}, relAll(t, root, archives))
}

func TestFindArchives_IncludeHidden(t *testing.T) {
	root := t.TempDir()
	touch(t, root, ".hidden/secret.jar")

	archives, err := FindArchives(root, Options{Extensions: testExtensions, IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden/secret.jar"}, relAll(t, root, archives))
}

func TestFindArchives_Excludes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "app.ear")
	touch(t, root, "lib/app-tests.jar")
	touch(t, root, "lib/core.jar")
	touch(t, root, "legacy/old.war")

	tests := []struct {
		name     string
		excludes []string
		want     []string
	}{
		{
			name: "no excludes",
			want: []string{"app.ear", "legacy/old.war", "lib/app-tests.jar", "lib/core.jar"},
		},
		{
			name:     "file glob",
			excludes: []string{"*-tests.jar"},
			want:     []string{"app.ear", "legacy/old.war", "lib/core.jar"},
		},
		{
			name:     "directory",
			excludes: []string{"legacy/"},
			want:     []string{"app.ear", "lib/app-tests.jar", "lib/core.jar"},
		},
		{
			name:     "several",
			excludes: []string{"*.ear", "lib"},
			want:     []string{"legacy/old.war"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archives, err := FindArchives(root, Options{Extensions: testExtensions, Excludes: tt.excludes})
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, root, archives))
		})
	}
}

func TestFindArchives_SingleFile(t *testing.T) {
	root := t.TempDir()
	path := touch(t, root, "shop.ear")

	archives, err := FindArchives(path, Options{Extensions: testExtensions})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, archives)

	archives, err = FindArchives(path, Options{Extensions: testExtensions, Excludes: []string{"*.ear"}})
	require.NoError(t, err)
	assert.Empty(t, archives)
}

func TestFindArchives_Errors(t *testing.T) {
	root := t.TempDir()

	_, err := FindArchives(filepath.Join(root, "missing"), Options{Extensions: testExtensions})
	assert.ErrorIs(t, err, os.ErrNotExist)

	notes := touch(t, root, "notes.txt")
	_, err = FindArchives(notes, Options{Extensions: testExtensions})
	assert.Error(t, err)
}

func TestIsArchive(t *testing.T) {
	assert.True(t, IsArchive("WEB-INF/lib/spring-core.jar", testExtensions))
	assert.True(t, IsArchive("APP.EAR", testExtensions))
	assert.False(t, IsArchive("META-INF/MANIFEST.MF", testExtensions))
	assert.False(t, IsArchive("jar", testExtensions))
}

func TestCollectGitMetadata_NotARepository(t *testing.T) {
	dir := t.TempDir()
	metadata := CollectGitMetadata(dir)
	require.NotNil(t, metadata)
	assert.False(t, metadata.IsGitRepo)
}

func TestCollectGitMetadata_Repository(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.com/acme/shop.git"},
	})
	require.NoError(t, err)

	archive := touch(t, dir, "dist/shop.ear")

	metadata := CollectGitMetadata(archive)
	assert.True(t, metadata.IsGitRepo)
	assert.Equal(t, "https://example.com/acme/shop.git", metadata.RemoteURL)
	// No commits yet, so HEAD does not resolve
	assert.Empty(t, metadata.Commit)
	assert.True(t, metadata.HasUncommitted)
}

func TestCollectGitMetadata_RemoteSelection(t *testing.T) {
	tests := []struct {
		name    string
		remotes []*gitconfig.RemoteConfig
		want    string
	}{
		{
			name: "origin preferred",
			remotes: []*gitconfig.RemoteConfig{
				{Name: "mirror", URLs: []string{"https://mirror.example.com/shop.git"}},
				{Name: "origin", URLs: []string{"https://example.com/shop.git"}},
			},
			want: "https://example.com/shop.git",
		},
		{
			name: "other remote without origin",
			remotes: []*gitconfig.RemoteConfig{
				{Name: "upstream", URLs: []string{"https://upstream.example.com/shop.git"}},
			},
			want: "https://upstream.example.com/shop.git",
		},
		{
			name: "no remotes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			repo, err := git.PlainInit(dir, false)
			require.NoError(t, err)
			for _, rc := range tt.remotes {
				_, err := repo.CreateRemote(rc)
				require.NoError(t, err)
			}

			metadata := CollectGitMetadata(dir)
			assert.True(t, metadata.IsGitRepo)
			assert.Equal(t, tt.want, metadata.RemoteURL)
		})
	}
}
