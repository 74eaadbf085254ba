package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version = "v1.2.3"
	Commit = "abc1234"

	if got := Short(); got != "v1.2.3" {
		t.Errorf("Short() = %q, want v1.2.3", got)
	}
	info := Info()
	for _, want := range []string{"weatherbot v1.2.3", "commit:     abc1234", "go version: go"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() = %q, want it to contain %q", info, want)
		}
	}
}
