package rest

import (
	"context"
	"encoding/json"
	"io"

	"github.com/go-resty/resty/v2"

	"AMProject/global"
	"AMProject/tools/errs"
)

// Client wraps the collaborator REST API. Every call carries the session's
// bearer credential; request errors are mapped to errs.CodeError with the
// server-supplied message when one is present. No retries: request errors
// surface to the triggering view, transport recovery is the realtime
// layer's job.
type Client struct {
	r    *resty.Client
	sess *global.Session
}

func NewClient(cfg *global.Config, sess *global.Session) *Client {
	r := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetHeader("Accept", "application/json")
	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if tok := sess.Token(); tok != "" {
			req.SetAuthToken(tok)
		}
		return nil
	})
	return &Client{r: r, sess: sess}
}

func (c *Client) Session() *global.Session { return c.sess }

// errEnvelope is the error body shape the API uses; some endpoints say
// "message", older ones say "msg".
type errEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func asError(resp *resty.Response, err error) error {
	if err != nil {
		return errs.NewCodeError(errs.CodeNetwork, "network error").WithDetail(err.Error())
	}
	if resp == nil || !resp.IsError() {
		return nil
	}
	var env errEnvelope
	msg := ""
	if jerr := json.Unmarshal(resp.Body(), &env); jerr == nil {
		msg = env.Message
		if msg == "" {
			msg = env.Msg
		}
	}
	if msg == "" {
		msg = "request failed, please try again"
	}
	return errs.NewCodeError(resp.StatusCode(), msg).WithDetail(resp.Request.Method + " " + resp.Request.URL)
}

func (c *Client) GetJSON(ctx context.Context, path string, query map[string]string, out any) error {
	req := c.r.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Get(path)
	return asError(resp, err)
}

func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	req := c.r.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	return asError(resp, err)
}

func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	req := c.r.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Put(path)
	return asError(resp, err)
}

func (c *Client) PatchJSON(ctx context.Context, path string, body, out any) error {
	req := c.r.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Patch(path)
	return asError(resp, err)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.r.R().SetContext(ctx).Delete(path)
	return asError(resp, err)
}

// PatchMultipart sends a PATCH with one file part plus form fields (payment
// proof upload).
func (c *Client) PatchMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	req := c.r.R().SetContext(ctx).
		SetFileReader(fileField, fileName, file)
	if len(fields) > 0 {
		req.SetFormData(fields)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Patch(path)
	return asError(resp, err)
}
