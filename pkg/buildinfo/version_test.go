package buildinfo

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()
	Version, Commit = "v1.2.3", "abc1234"

	if got := Short(); got != "v1.2.3 (abc1234)" {
		t.Errorf("Short() = %q", got)
	}
	if got := String(); !strings.Contains(got, "version: v1.2.3") || !strings.Contains(got, "commit: abc1234") {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", got)
	}
}
