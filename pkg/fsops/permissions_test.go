package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/revaer/revaer/pkg/types"
)

func TestResolvePermissionPlanInactiveWhenUnconfigured(t *testing.T) {
	plan, err := resolvePermissionPlan(&types.FsPolicy{})
	if err != nil {
		t.Fatalf("resolvePermissionPlan: %v", err)
	}
	if plan.active {
		t.Error("expected an unconfigured policy to produce an inactive plan")
	}
	if plan.detail() != "permissions=unchanged" {
		t.Errorf("detail = %q, want permissions=unchanged", plan.detail())
	}
}

func TestResolvePermissionPlanAppliesChmodFileAndDir(t *testing.T) {
	plan, err := resolvePermissionPlan(&types.FsPolicy{ChmodFile: "644", ChmodDir: "755"})
	if err != nil {
		t.Fatalf("resolvePermissionPlan: %v", err)
	}
	if !plan.active {
		t.Fatal("expected an active plan")
	}
	if plan.fileMode != 0o644 || plan.dirMode != 0o755 {
		t.Errorf("fileMode=%o dirMode=%o, want 644/755", plan.fileMode, plan.dirMode)
	}
}

func TestResolvePermissionPlanRejectsBadOctal(t *testing.T) {
	if _, err := resolvePermissionPlan(&types.FsPolicy{ChmodFile: "999"}); err == nil {
		t.Fatal("expected an error for a non-octal chmod_file")
	}
}

func TestResolvePermissionPlanResolvesNumericOwner(t *testing.T) {
	plan, err := resolvePermissionPlan(&types.FsPolicy{Owner: "1000"})
	if err != nil {
		t.Fatalf("resolvePermissionPlan: %v", err)
	}
	if plan.uid != 1000 {
		t.Errorf("uid = %d, want 1000", plan.uid)
	}
	if plan.ownerDesc != "uid(1000)" {
		t.Errorf("ownerDesc = %q, want uid(1000)", plan.ownerDesc)
	}
}

func TestPermissionPlanApplyChmodsTree(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "sub"))
	mustWriteFile(t, filepath.Join(root, "sub", "file.txt"), "x")

	plan, err := resolvePermissionPlan(&types.FsPolicy{ChmodFile: "600", ChmodDir: "700"})
	if err != nil {
		t.Fatalf("resolvePermissionPlan: %v", err)
	}
	if err := plan.apply(root); err != nil {
		t.Fatalf("apply: %v", err)
	}

	info, err := os.Stat(filepath.Join(root, "sub", "file.txt"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %o, want 600", info.Mode().Perm())
	}
}
