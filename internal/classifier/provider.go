// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"resty.dev/v3"
)

const DefaultSpecificationURL = "https://d1uauaxba7bl26.cloudfront.net/latest/gzip/CloudFormationResourceSpecification.json"

const DefaultFetchTimeout = 30 * time.Second

var gzipMagic = []byte{0x1f, 0x8b}

type HTTPProvider struct {
	url    string
	client *resty.Client
}

func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	if url == "" {
		url = DefaultSpecificationURL
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return &HTTPProvider{
		url:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

func (p *HTTPProvider) Fetch(ctx context.Context) ([]byte, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		Get(p.url)
	if err != nil {
		return nil, err
	}

	//nolint:errcheck
	defer resp.Body.Close()

	if resp.IsError() {
		switch resp.StatusCode() {
		case 404:
			return nil, fmt.Errorf("not found: %s", resp.Request.URL)
		case 403:
			return nil, fmt.Errorf("access denied: %s", resp.Request.URL)
		default:
			return nil, fmt.Errorf("server error %d: %s", resp.StatusCode(), resp.Request.URL)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return gunzipIfCompressed(body)
}

// FileProvider reads the specification from disk, gzip compressed or not.
type FileProvider struct {
	Path string
}

func (p FileProvider) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, err
	}

	return gunzipIfCompressed(data)
}

// StaticProvider returns Data, or Err when set.
type StaticProvider struct {
	Data []byte
	Err  error
}

func (p StaticProvider) Fetch(_ context.Context) ([]byte, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Data, nil
}

// The CloudFront distribution may serve the gzip object without a
// Content-Encoding header, in which case the transport hands us raw gzip.
func gunzipIfCompressed(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	//nolint:errcheck
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	return out, nil
}
