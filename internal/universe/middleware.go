package universe

import (
	"bytes"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
)

// decompressMiddleware decodes brotli bodies; resty only unwraps gzip.
func decompressMiddleware(_ *resty.Client, resp *resty.Response) error {
	if !strings.EqualFold(resp.Header().Get("Content-Encoding"), "br") {
		return nil
	}
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(resp.Body())))
	if err != nil {
		return err
	}
	resp.SetBody(decoded)
	resp.Header().Del("Content-Encoding")
	return nil
}
