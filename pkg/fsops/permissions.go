package fsops

import (
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/revaer/revaer/pkg/types"
)

// permissionPlan is the resolved, ready-to-apply permission/ownership
// configuration derived from an FsPolicy for one run, per spec §4.7
// step 10.
type permissionPlan struct {
	fileMode  fs.FileMode
	dirMode   fs.FileMode
	uid       int
	gid       int
	ownerDesc string
	groupDesc string
	chown     bool
	active    bool
}

// resolvePermissionPlan derives fileMode/dirMode from the configured
// chmod_file/chmod_dir, falling back to umask-derived defaults
// (file=0666&~umask, dir=0777&~umask) when not explicitly set, and
// resolves owner/group names to numeric ids via os/user. active is
// false when nothing in the policy requests a permission change at
// all, per the "permissions=unchanged" detail string.
func resolvePermissionPlan(p *types.FsPolicy) (*permissionPlan, error) {
	plan := &permissionPlan{fileMode: 0o666, dirMode: 0o777}

	if p.ChmodFile == "" && p.ChmodDir == "" && p.Owner == "" && p.Group == "" && p.Umask == "" {
		return plan, nil
	}
	plan.active = true

	umask := fs.FileMode(0)
	if p.Umask != "" {
		v, err := strconv.ParseUint(p.Umask, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("parse umask: %w", err)
		}
		umask = fs.FileMode(v)
	}
	plan.fileMode &^= umask
	plan.dirMode &^= umask

	if p.ChmodFile != "" {
		v, err := strconv.ParseUint(p.ChmodFile, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("parse chmod_file: %w", err)
		}
		plan.fileMode = fs.FileMode(v)
	}
	if p.ChmodDir != "" {
		v, err := strconv.ParseUint(p.ChmodDir, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("parse chmod_dir: %w", err)
		}
		plan.dirMode = fs.FileMode(v)
	}

	if p.Owner != "" || p.Group != "" {
		plan.chown = true
		plan.uid, plan.gid = -1, -1
		if p.Owner != "" {
			uid, desc, err := resolveUID(p.Owner)
			if err != nil {
				return nil, err
			}
			plan.uid = uid
			plan.ownerDesc = desc
		}
		if p.Group != "" {
			gid, desc, err := resolveGID(p.Group)
			if err != nil {
				return nil, err
			}
			plan.gid = gid
			plan.groupDesc = desc
		}
	}

	return plan, nil
}

// resolveUID resolves owner to a numeric uid via the OS user database,
// falling back to treating it as a bare numeric id. The returned
// description mirrors the original implementation's resolve_owner
// labeling: "name(uid)" when a symbolic name resolved, "uid(uid)" when
// owner was already numeric.
func resolveUID(owner string) (int, string, error) {
	if u, err := user.Lookup(owner); err == nil {
		uid, err := strconv.Atoi(u.Uid)
		if err != nil {
			return 0, "", fmt.Errorf("parse resolved uid: %w", err)
		}
		return uid, fmt.Sprintf("%s(%d)", owner, uid), nil
	}
	uid, err := strconv.Atoi(owner)
	if err != nil {
		return 0, "", fmt.Errorf("resolve owner %q: not a known user and not numeric", owner)
	}
	return uid, fmt.Sprintf("uid(%d)", uid), nil
}

func resolveGID(group string) (int, string, error) {
	if g, err := user.LookupGroup(group); err == nil {
		gid, err := strconv.Atoi(g.Gid)
		if err != nil {
			return 0, "", fmt.Errorf("parse resolved gid: %w", err)
		}
		return gid, fmt.Sprintf("%s(%d)", group, gid), nil
	}
	gid, err := strconv.Atoi(group)
	if err != nil {
		return 0, "", fmt.Errorf("resolve group %q: not a known group and not numeric", group)
	}
	return gid, fmt.Sprintf("gid(%d)", gid), nil
}

// apply walks root applying the plan to every entry.
func (p *permissionPlan) apply(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		mode := p.fileMode
		if d.IsDir() {
			mode = p.dirMode
		}
		if err := os.Chmod(path, mode); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}
		if p.chown {
			if err := os.Chown(path, p.uid, p.gid); err != nil {
				return fmt.Errorf("chown %s: %w", path, err)
			}
		}
		return nil
	})
}

// detail renders the step-record detail string per spec §4.7 step 10:
// "permissions=<comma-joined-components>" or "permissions=unchanged".
func (p *permissionPlan) detail() string {
	if !p.active {
		return "permissions=unchanged"
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("file=0o%o", p.fileMode))
	parts = append(parts, fmt.Sprintf("dir=0o%o", p.dirMode))
	if p.chown {
		if p.ownerDesc != "" {
			parts = append(parts, "owner="+p.ownerDesc)
		}
		if p.groupDesc != "" {
			parts = append(parts, "group="+p.groupDesc)
		}
	}
	return "permissions=" + strings.Join(parts, ",")
}
