package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/avoronova/tally/internal/domain"
)

// FileDirectory implements DirectoryProvider from a local JSON file using
// the same shape as the remote /groups response. Used in local-store mode,
// where no directory service is reachable.
type FileDirectory struct {
	Path string
}

func (f FileDirectory) FetchGroups(ctx context.Context) (*domain.Directory, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	var resp groupsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrDirectoryUnavailable, f.Path, err)
	}

	dir := &domain.Directory{}
	for _, g := range resp.Groups {
		group := domain.Group{ID: g.ID, Name: g.Name}
		for _, m := range g.Members {
			group.Members = append(group.Members, domain.Member{
				FirstName: m.FirstName,
				LastName:  m.LastName,
				FullName:  m.FullName,
			})
		}
		dir.Groups = append(dir.Groups, group)
	}
	return dir, nil
}
