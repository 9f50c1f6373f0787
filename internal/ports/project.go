package ports

import "depman/internal/types"

type ProjectSourcePort interface {
	LoadProject(path string) (types.Project, error)
}
