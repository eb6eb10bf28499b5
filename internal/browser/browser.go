// Package browser opens links in the user's default browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenError reports that the browser could not be launched.
type OpenError struct {
	URL string
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.URL, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// command builds the platform's open command. Replaced in tests.
var command = func(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// Open starts the browser and returns without waiting for it.
func Open(url string) error {
	cmd := command(runtime.GOOS, url)
	if err := cmd.Start(); err != nil {
		return &OpenError{URL: url, Err: err}
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}
