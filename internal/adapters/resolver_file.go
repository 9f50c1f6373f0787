package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depman/internal/ports"
	"depman/internal/shared"
	"depman/internal/types"
)

// FileResolverAdapter is a repository rooted at a local directory, laid out
// as <root>/<group>/<module>/<version>/<file>.
type FileResolverAdapter struct {
	ResolverName string
	Root         string
	Versions     types.VersionScheme
}

func NewFileResolverAdapter(name string, root string, scheme types.VersionScheme) FileResolverAdapter {
	if scheme == "" {
		scheme = types.VersionSchemeSemver
	}
	return FileResolverAdapter{ResolverName: name, Root: root, Versions: scheme}
}

func (a FileResolverAdapter) Name() string {
	return a.ResolverName
}

func (a FileResolverAdapter) Scheme() types.VersionScheme {
	return a.Versions
}

func (a FileResolverAdapter) ListVersions(ctx context.Context, group string, module string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	dir := filepath.Join(a.Root, filepath.FromSlash(group), module)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("module %s:%s not found in %s", group, module, a.ResolverName))
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list module versions").
			WithCause(err)
	}
	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)
	return versions, nil
}

func (a FileResolverAdapter) Get(ctx context.Context, ref types.ArtifactRef, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.validate(); err != nil {
		return err
	}
	src := a.path(ref)
	if _, err := os.Stat(src); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("artifact %s not found in %s", ref.Path(), a.ResolverName)).
			WithCause(err)
	}
	return shared.CopyFile(src, dest)
}

func (a FileResolverAdapter) Put(ctx context.Context, ref types.ArtifactRef, src string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.validate(); err != nil {
		return err
	}
	dest := a.path(ref)
	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("artifact %s already exists in %s", ref.Path(), a.ResolverName))
		}
	}
	return shared.CopyFile(src, dest)
}

func (a FileResolverAdapter) validate() error {
	if strings.TrimSpace(a.Root) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("resolver %s has no root directory", a.ResolverName))
	}
	return nil
}

func (a FileResolverAdapter) path(ref types.ArtifactRef) string {
	return filepath.Join(a.Root, filepath.FromSlash(ref.Path()))
}

var _ ports.ResolverPort = FileResolverAdapter{}
