package apiclient

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"

	"portal/internal/domain/entity"
	"portal/internal/errors"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// PostMultipart sends fields and files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []entity.RegistrationFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.WriteField(name, fields[name]); err != nil {
			return errors.Wrapf(err, "write field %s", name)
		}
	}

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+quoteEscaper.Replace(f.Field)+`"; filename="`+quoteEscaper.Replace(f.Filename)+`"`)
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return errors.Wrapf(err, "create part %s", f.Field)
		}
		if _, err := part.Write(f.Content); err != nil {
			return errors.Wrapf(err, "write part %s", f.Field)
		}
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, "close multipart body")
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, out)
}
