package browser

import (
	"errors"
	"os/exec"
	"reflect"
	"testing"
)

func TestCommandPerPlatform(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", "https://x"}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", "https://x"}},
		{"linux", []string{"xdg-open", "https://x"}},
		{"freebsd", []string{"xdg-open", "https://x"}},
	}
	for _, tt := range tests {
		if got := command(tt.goos, "https://x").Args; !reflect.DeepEqual(got, tt.want) {
			t.Errorf("command(%q) = %v, want %v", tt.goos, got, tt.want)
		}
	}
}

func TestOpenFailure(t *testing.T) {
	orig := command
	command = func(_, url string) *exec.Cmd {
		return exec.Command("/nonexistent/dangit-browser", url)
	}
	t.Cleanup(func() { command = orig })

	err := Open("https://example.com")
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("Open() error = %v, want *OpenError", err)
	}
	if oe.URL != "https://example.com" {
		t.Errorf("OpenError.URL = %q", oe.URL)
	}
}
