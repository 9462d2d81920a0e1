package rest

import (
	"context"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"AMProject/logger"
	"AMProject/tools/errs"
)

// Download streams a binary endpoint into destDir and returns the written
// path. The filename comes from Content-Disposition when the server sets
// one, else from the URL path. This is the local-file analogue of the
// browser client's synthesized anchor-click download.
func (c *Client) Download(ctx context.Context, urlPath, destDir string) (string, error) {
	resp, err := c.r.R().SetContext(ctx).SetDoNotParseResponse(true).Get(urlPath)
	if err != nil {
		return "", asError(nil, err)
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	if resp.StatusCode() >= 400 {
		return "", errs.NewCodeError(resp.StatusCode(), "download failed").WithDetail("GET " + urlPath)
	}

	name := ""
	if cd := resp.Header().Get("Content-Disposition"); cd != "" {
		if _, params, perr := mime.ParseMediaType(cd); perr == nil {
			name = params["filename"]
		}
	}
	if name == "" {
		name = path.Base(urlPath)
	}
	name = filepath.Base(strings.TrimSpace(name)) // never escape destDir
	if name == "" || name == "." || name == "/" {
		name = "download.bin"
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errs.Wrap(err, "create download dir")
	}
	dest := filepath.Join(destDir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", errs.Wrap(err, "create download file")
	}
	defer func() { _ = f.Close() }()

	n, err := io.Copy(f, body)
	if err != nil {
		return "", errs.Wrap(err, "write download")
	}
	logger.Infof("[rest] downloaded %s (%d bytes)", dest, n)
	return dest, nil
}
