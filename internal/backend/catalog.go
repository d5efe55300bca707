package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/dean3213321/pos-go/internal/domain"
)

// Categories fetches the sidebar category list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.getJSON(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Items fetches the items of one category. An empty category name returns the
// full item list (admin view).
func (c *Client) Items(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	path := "/api/items"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out struct {
		Data []domain.CatalogItem `json:"data"`
	}
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CategoryForm carries the admin create/edit category fields. Photo is
// optional on edit.
type CategoryForm struct {
	Name      string
	Photo     []byte
	PhotoName string
}

// ItemForm carries the admin create/edit item fields.
type ItemForm struct {
	Name      string
	Price     string
	Category  string
	Photo     []byte
	PhotoName string
}

func (c *Client) CreateCategory(ctx context.Context, form CategoryForm) (domain.Category, error) {
	var out domain.Category
	body, contentType, err := encodeMultipart(map[string]string{"name": form.Name}, form.Photo, form.PhotoName)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPost, "/api/categories", contentType, body, &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, form CategoryForm) error {
	body, contentType, err := encodeMultipart(map[string]string{"name": form.Name}, form.Photo, form.PhotoName)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), contentType, body, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), "", nil, nil)
}

func (c *Client) CreateItem(ctx context.Context, form ItemForm) (domain.CatalogItem, error) {
	var out domain.CatalogItem
	body, contentType, err := encodeMultipart(map[string]string{
		"name":     form.Name,
		"price":    form.Price,
		"category": form.Category,
	}, form.Photo, form.PhotoName)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPost, "/api/item", contentType, body, &out)
	return out, err
}

func (c *Client) UpdateItem(ctx context.Context, id int64, form ItemForm) error {
	body, contentType, err := encodeMultipart(map[string]string{
		"name":     form.Name,
		"price":    form.Price,
		"category": form.Category,
	}, form.Photo, form.PhotoName)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/items/%d", id), contentType, body, nil)
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%d", id), "", nil, nil)
}

// encodeMultipart builds the multipart body the backend's upload endpoints
// expect. A nil photo sends fields only.
func encodeMultipart(fields map[string]string, photo []byte, photoName string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("multipart field %s: %w", key, err)
		}
	}
	if photo != nil {
		if photoName == "" {
			photoName = "photo"
		}
		part, err := w.CreateFormFile("photo", photoName)
		if err != nil {
			return nil, "", fmt.Errorf("multipart photo: %w", err)
		}
		if _, err := part.Write(photo); err != nil {
			return nil, "", fmt.Errorf("multipart photo write: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
