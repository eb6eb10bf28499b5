package forge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// tokenEnv is checked in order before falling back to the gh CLI.
var tokenEnv = []string{"GH_TOKEN", "GITHUB_TOKEN"}

// ghAuthToken runs `gh auth token`. Replaced in tests.
var ghAuthToken = func(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("gh auth token: %s", trimOutput(exitErr.Stderr))
		}
		return nil, fmt.Errorf("gh auth token: %w", err)
	}
	return out, nil
}

// Token resolves the bearer token: explicit if set, then the GH_TOKEN
// and GITHUB_TOKEN environment variables, then the gh CLI's stored
// credentials.
func Token(ctx context.Context, explicit string) (string, error) {
	if t := strings.TrimSpace(explicit); t != "" {
		return t, nil
	}
	for _, name := range tokenEnv {
		if t := strings.TrimSpace(os.Getenv(name)); t != "" {
			return t, nil
		}
	}

	out, err := ghAuthToken(ctx)
	if err != nil {
		return "", &FetchError{Op: "token", Err: err}
	}
	t := strings.TrimSpace(string(out))
	if t == "" {
		return "", &FetchError{Op: "token", Err: errors.New("gh returned an empty token, run: gh auth login")}
	}
	return t, nil
}
