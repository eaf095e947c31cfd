package store

import (
	"context"

	"github.com/revaer/revaer/pkg/types"
)

// GetFsPolicy reads the singleton fs_policy row.
func (q *Queries) GetFsPolicy(ctx context.Context) (*types.FsPolicy, error) {
	row := q.q.QueryRow(ctx, `
		SELECT id, library_root, extract, par2, flatten, move_mode,
		       cleanup_keep, cleanup_drop, chmod_file, chmod_dir, owner,
		       group_name, umask, allow_paths
		FROM fs_policy WHERE id = $1`, singletonID)

	var p types.FsPolicy
	var par2, moveMode string
	err := row.Scan(&p.ID, &p.LibraryRoot, &p.Extract, &par2, &p.Flatten, &moveMode,
		&p.CleanupKeep, &p.CleanupDrop, &p.ChmodFile, &p.ChmodDir, &p.Owner,
		&p.Group, &p.Umask, &p.AllowPaths)
	if err != nil {
		return nil, wrapDB("get_fs_policy", err)
	}
	p.Par2 = types.Par2Mode(par2)
	p.MoveMode = types.MoveMode(moveMode)
	return &p, nil
}

// SeedFsPolicy inserts a default fs_policy row if missing.
func (q *Queries) SeedFsPolicy(ctx context.Context, libraryRoot string) error {
	_, err := q.q.Exec(ctx, `
		INSERT INTO fs_policy (id, library_root, extract, par2, flatten, move_mode,
		                        cleanup_keep, cleanup_drop, chmod_file, chmod_dir,
		                        owner, group_name, umask, allow_paths)
		VALUES ($1, $2, false, 'off', false, 'copy', '{}', '{}', '', '', '', '', '022', '{}')
		ON CONFLICT (id) DO NOTHING`, singletonID, libraryRoot)
	return wrapDB("seed_fs_policy", err)
}

// PutFsPolicy overwrites the singleton fs_policy row.
func (q *Queries) PutFsPolicy(ctx context.Context, p *types.FsPolicy) error {
	if p.CleanupKeep == nil {
		p.CleanupKeep = []string{}
	}
	if p.CleanupDrop == nil {
		p.CleanupDrop = []string{}
	}
	if p.AllowPaths == nil {
		p.AllowPaths = []string{}
	}
	_, err := q.q.Exec(ctx, `
		UPDATE fs_policy
		SET library_root = $2, extract = $3, par2 = $4, flatten = $5, move_mode = $6,
		    cleanup_keep = $7, cleanup_drop = $8, chmod_file = $9, chmod_dir = $10,
		    owner = $11, group_name = $12, umask = $13, allow_paths = $14
		WHERE id = $1`,
		singletonID, p.LibraryRoot, p.Extract, p.Par2, p.Flatten, p.MoveMode,
		p.CleanupKeep, p.CleanupDrop, p.ChmodFile, p.ChmodDir, p.Owner, p.Group,
		p.Umask, p.AllowPaths)
	return wrapDB("put_fs_policy", err)
}
