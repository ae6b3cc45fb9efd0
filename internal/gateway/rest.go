package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/civicfix/civicfix_client/internal/lifecycle"
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// apiEnvelope is the backend's response wrapper.
type apiEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pageQuery struct {
	View    string `url:"view"`
	Page    int    `url:"page"`
	PerPage int    `url:"per_page"`
	model.Filter
}

// RestClient talks to the municipal complaint backend.
type RestClient struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewRestClient(baseURL string, timeout time.Duration, retries int, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only reads retry inline. A timed-out mutation may already
			// be applied server-side, and replaying a toggle undoes it;
			// failed mutations surface to the caller and queued creates
			// are replayed by the pending sync under their client ref.
			return err != nil && r != nil && r.Request.Method == http.MethodGet
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RestClient{http: client, logger: logger}
}

func (c *RestClient) Create(ctx context.Context, payload model.CreateComplaintRequest, actorID string) (model.Complaint, error) {
	var created model.Complaint
	err := c.call(ctx, actorID, "/complaints", &created, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(payload).Post("/complaints")
	})
	return created, err
}

func (c *RestClient) FetchPage(ctx context.Context, view model.View, page, perPage int, filter model.Filter) (model.ComplaintPage, error) {
	q, err := query.Values(pageQuery{View: string(view), Page: page, PerPage: perPage, Filter: filter})
	if err != nil {
		return model.ComplaintPage{}, errors.Wrap(err, "encoding page query")
	}

	var result model.ComplaintPage
	err = c.call(ctx, "", "/complaints", &result, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParamsFromValues(q).Get("/complaints")
	})
	return result, err
}

func (c *RestClient) UpdateStatus(ctx context.Context, id string, newStatus model.Status, actorID, notes string, images []string) (model.Complaint, error) {
	body := struct {
		Status model.Status `json:"status"`
		Notes  string       `json:"notes,omitempty"`
		Images []string     `json:"images,omitempty"`
	}{Status: newStatus, Notes: notes, Images: images}

	var updated model.Complaint
	path := fmt.Sprintf("/complaints/%s/status", id)
	err := c.call(ctx, actorID, path, &updated, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).Patch(path)
	})
	return updated, err
}

func (c *RestClient) Assign(ctx context.Context, id, employeeID, actorID string) (model.Complaint, error) {
	body := struct {
		EmployeeID string `json:"employee_id"`
	}{EmployeeID: employeeID}

	var updated model.Complaint
	path := fmt.Sprintf("/complaints/%s/assign", id)
	err := c.call(ctx, actorID, path, &updated, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).Post(path)
	})
	return updated, err
}

func (c *RestClient) ToggleUpvote(ctx context.Context, id, actorID string) (bool, error) {
	var result struct {
		Upvoted bool `json:"upvoted"`
	}
	path := fmt.Sprintf("/complaints/%s/upvote", id)
	err := c.call(ctx, actorID, path, &result, func(r *resty.Request) (*resty.Response, error) {
		return r.Post(path)
	})
	return result.Upvoted, err
}

func (c *RestClient) AddComment(ctx context.Context, id, actorID, content string, images []string, isOfficial bool) (model.Comment, error) {
	body := struct {
		Content    string   `json:"content"`
		Images     []string `json:"images,omitempty"`
		IsOfficial bool     `json:"is_official"`
	}{Content: content, Images: images, IsOfficial: isOfficial}

	var comment model.Comment
	path := fmt.Sprintf("/complaints/%s/comments", id)
	err := c.call(ctx, actorID, path, &comment, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).Post(path)
	})
	return comment, err
}

func (c *RestClient) FetchCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := c.call(ctx, "", "/categories", &categories, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/categories")
	})
	return categories, err
}

// call runs one backend request and unmarshals the envelope's data into
// out. Transport failures map to ErrNetwork; HTTP rejections map through
// mapError.
func (c *RestClient) call(ctx context.Context, actorID, path string, out interface{}, send func(*resty.Request) (*resty.Response, error)) error {
	req := c.http.R().SetContext(ctx)
	if actorID != "" {
		req.SetHeader("X-Actor-ID", actorID)
	}

	var env, envErr apiEnvelope
	req.SetResult(&env).SetError(&envErr)

	resp, err := send(req)
	if err != nil {
		c.logger.Warn("backend call failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return errors.Wrapf(ErrNetwork, "calling %s: %v", path, err)
	}
	if resp.IsError() {
		mapped := c.mapError(resp, &envErr)
		c.logger.Debug("backend rejected request",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("status", envErr.Status),
		)
		return mapped
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrapf(ErrNetwork, "decoding %s response: %v", path, err)
	}
	return nil
}

func (c *RestClient) mapError(resp *resty.Response, env *apiEnvelope) error {
	switch resp.StatusCode() {
	case 400, 422:
		return errors.Wrap(ErrValidation, env.Message)
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 409:
		if env.Status == "already-upvoted" {
			return ErrAlreadyUpvoted
		}
		return errors.Wrap(lifecycle.ErrInvalidTransition, env.Message)
	default:
		return errors.Wrapf(ErrNetwork, "backend returned %d", resp.StatusCode())
	}
}
