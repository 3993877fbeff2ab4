package impl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	domainerrors "portal/internal/domain/errors"
	"portal/internal/infra/apiclient"
	"portal/internal/usecase"

	"github.com/pkg/errors"
)

// listEnvelopeKeys are tried, after the page's own key, when a list arrives wrapped in an object.
var listEnvelopeKeys = []string{"data", "items", "results"}

// fetchList reads a list that upstream returns either bare or wrapped under key.
func fetchList[T any](ctx context.Context, api UpstreamClient, path, key string) ([]T, error) {
	if path == "" {
		return nil, domainerrors.ErrNotSupportedByTenant
	}

	var raw json.RawMessage
	if err := api.Get(ctx, path, nil, &raw); err != nil {
		return nil, upstreamError(err)
	}

	items, err := decodeList[T](raw, key)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	return items, nil
}

func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.WithStack(err)
		}

		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, k := range append([]string{key}, listEnvelopeKeys...) {
		inner, ok := envelope[k]
		if !ok {
			continue
		}
		inner = bytes.TrimSpace(inner)
		if len(inner) == 0 || inner[0] != '[' {
			continue
		}

		var items []T
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, errors.WithStack(err)
		}

		return items, nil
	}

	return nil, errors.Errorf("no list found in response")
}

// fetchOne reads a record that upstream returns either bare or wrapped under key.
func fetchOne[T any](ctx context.Context, api UpstreamClient, path, key string) (*T, error) {
	if path == "" {
		return nil, domainerrors.ErrNotSupportedByTenant
	}

	var raw json.RawMessage
	if err := api.Get(ctx, path, nil, &raw); err != nil {
		return nil, upstreamError(err)
	}

	out, err := decodeOne[T](raw, key)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	return out, nil
}

func decodeOne[T any](raw json.RawMessage, key string) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, domainerrors.ErrNotFound
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner, ok := envelope[key]; ok {
			inner = bytes.TrimSpace(inner)
			if len(inner) > 0 && inner[0] == '[' {
				var items []T
				if err := json.Unmarshal(inner, &items); err != nil {
					return nil, errors.WithStack(err)
				}
				if len(items) == 0 {
					return nil, domainerrors.ErrNotFound
				}

				return &items[0], nil
			}
			if len(inner) > 0 && inner[0] == '{' {
				raw = inner
			}
		}
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, errors.WithStack(err)
	}

	return out, nil
}

// mutate sends a single write and surfaces the server's answer as is.
func mutate(ctx context.Context, send func(out any) error) (*usecase.ActionResult, error) {
	var out usecase.ActionResult
	if err := send(&out); err != nil {
		return nil, upstreamError(err)
	}

	return &out, nil
}

// upstreamError maps API client failures onto domain errors.
func upstreamError(err error) error {
	if errors.Is(err, apiclient.ErrTransport) {
		return domainerrors.ErrUpstreamUnavailable.WrapMessage(err.Error())
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.Status)
		}

		return domainerrors.NewUpstreamError(apiErr.Status, message)
	}

	return errors.WithStack(err)
}

// pathWithID fills the ID into a route pattern. Routes a tenant lacks stay empty.
func pathWithID(pattern string, id int64) string {
	if pattern == "" {
		return ""
	}

	return fmt.Sprintf(pattern, id)
}
