// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

const defaultUserAgent = "cxr-trainer/1.0"

// Bundle reads a YAML case bundle from a local path or an http(s) URL
// and validates every case in it. Bundles with zero cases are rejected.
func Bundle(ctx context.Context, cfg types.ImportConfig, source string) (*types.CaseBundle, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = download(ctx, cfg, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", source, err)
	}

	var bundle types.CaseBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing bundle %s: %w", source, err)
	}
	if bundle.Source == "" {
		bundle.Source = source
	}
	if len(bundle.Cases) == 0 {
		return nil, fmt.Errorf("bundle %s: %w: no cases", source, types.ErrInvalidCase)
	}

	for _, c := range bundle.Cases {
		if err := library.ValidateCase(c); err != nil {
			return nil, fmt.Errorf("bundle %s case %q: %w", source, c.ID, err)
		}
	}

	return &bundle, nil
}

func download(ctx context.Context, cfg types.ImportConfig, url string) ([]byte, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := doWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
