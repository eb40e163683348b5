// sijil-crm/internal/client/client.go

// Package client implements the synchronization engine used by the table
// front-ends. It keeps two snapshots of the record set: the baseline (last
// fetched-or-saved state) and the working copy mutated by edits. Edits to the
// money fields re-derive the remaining balance immediately; Save diffs the
// working copy against the baseline and sends one update per changed record.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"sijil-crm/models"
)

type Client struct {
	baseURL string
	httpc   *http.Client

	records  []models.Record
	baseline map[uint]models.Record
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    http.DefaultClient,
		baseline: make(map[uint]models.Record),
	}
}

// Records exposes the working copy.
func (c *Client) Records() []models.Record {
	return c.records
}

// Fetch loads the full record set and establishes it as both the working copy
// and the baseline for subsequent diffs.
func (c *Client) Fetch(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/records", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	var records []models.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	// Local re-derivation is only a display preview; the server value is
	// authoritative and normally identical.
	for i := range records {
		records[i].Recalc()
	}

	c.records = records
	c.baseline = snapshot(records)
	return nil
}

// SetField applies one edit to the working copy. Money fields go through the
// lenient numeric parse and re-derive remaining; remaining itself is derived
// and cannot be edited.
func (c *Client) SetField(id uint, key, value string) error {
	for i := range c.records {
		if c.records[i].ID != id {
			continue
		}
		r := &c.records[i]
		switch key {
		case "number":
			r.Number = value
		case "fullName":
			r.FullName = value
		case "birthInfo":
			r.BirthInfo = value
		case "specialization":
			r.Specialization = value
		case "cycle":
			r.Cycle = value
		case "group":
			r.Group = value
		case "intermediary":
			r.Intermediary = value
		case "paymentDate1":
			r.PaymentDate1 = value
		case "paymentDate2":
			r.PaymentDate2 = value
		case "diploma":
			r.Diploma = value
		case "note":
			r.Note = value
		case "rowColor":
			r.RowColor = value
		case "fileAmount":
			r.FileAmount = models.ParseAmount(value)
			r.Recalc()
		case "payment1":
			r.Payment1 = models.ParseAmount(value)
			r.Recalc()
		case "payment2":
			r.Payment2 = models.ParseAmount(value)
			r.Recalc()
		case "remaining":
			return fmt.Errorf("field %q is derived and read-only", key)
		default:
			return fmt.Errorf("unknown field %q", key)
		}
		return nil
	}
	return fmt.Errorf("no record with id %d", id)
}

// Save persists the records whose working copy differs from the baseline,
// dispatching one update call per changed record concurrently. The returned
// count is the number of records saved; (0, nil) means there was nothing to
// save.
//
// On any failure a single aggregate error is returned and the baseline is
// left in place, so a retry recomputes the same diff. Re-sending records that
// did go through is harmless because updates are idempotent.
func (c *Client) Save(ctx context.Context) (int, error) {
	var changed []models.Record
	for _, rec := range c.records {
		base, ok := c.baseline[rec.ID]
		if !ok {
			// Newly created records are persisted by Create, not by the diff.
			continue
		}
		if !reflect.DeepEqual(rec, base) {
			changed = append(changed, rec)
		}
	}
	if len(changed) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0
	for _, rec := range changed {
		wg.Add(1)
		go func(rec models.Record) {
			defer wg.Done()
			if err := c.putRecord(ctx, rec); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(rec)
	}
	wg.Wait()

	if failed > 0 {
		return 0, fmt.Errorf("bulk save failed: %d of %d updates did not go through", failed, len(changed))
	}
	c.baseline = snapshot(c.records)
	return len(changed), nil
}

// Create inserts one record through an immediate call, outside the diff
// protocol. The created record joins both snapshots so the next Save does not
// re-send it.
func (c *Client) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	rec.Recalc()
	body, err := json.Marshal(rec)
	if err != nil {
		return models.Record{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/records", bytes.NewReader(body), "application/json")
	if err != nil {
		return models.Record{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return models.Record{}, responseError(resp)
	}

	var created models.Record
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return models.Record{}, fmt.Errorf("decode created record: %w", err)
	}
	c.records = append(c.records, created)
	c.baseline[created.ID] = cloneRecord(created)
	return created, nil
}

// Delete removes records as a batch of independent per-record calls. On any
// failure the local snapshots are left untouched and a single aggregate error
// is returned.
func (c *Client) Delete(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/records/%d", id), nil, "")
			if err == nil {
				defer resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return
				}
			}
			mu.Lock()
			failed++
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("delete failed for %d of %d records", failed, len(ids))
	}

	drop := make(map[uint]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := c.records[:0]
	for _, rec := range c.records {
		if !drop[rec.ID] {
			kept = append(kept, rec)
		}
	}
	c.records = kept
	for id := range drop {
		delete(c.baseline, id)
	}
	return nil
}

// SetColumnColor broadcasts a display color for one column, then refetches to
// reestablish the baseline.
func (c *Client) SetColumnColor(ctx context.Context, field, color string) error {
	body, _ := json.Marshal(map[string]string{"field": field, "color": color})
	resp, err := c.do(ctx, http.MethodPost, "/update-column-color", bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return c.Fetch(ctx)
}

// SetRowColors sets rowColor on the listed records, then refetches.
func (c *Client) SetRowColors(ctx context.Context, ids []uint, color string) error {
	body, _ := json.Marshal(map[string]any{"ids": ids, "color": color})
	resp, err := c.do(ctx, http.MethodPost, "/update-row-colors", bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return c.Fetch(ctx)
}

// UploadExcel streams a local spreadsheet to the store and returns the number
// of records imported. The record set is refetched afterwards.
func (c *Client) UploadExcel(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return 0, err
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/upload-excel", body, writer.FormDataContentType())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, responseError(resp)
	}

	var result struct {
		Message  string `json:"message"`
		Imported int    `json:"imported"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode import result: %w", err)
	}
	if err := c.Fetch(ctx); err != nil {
		return result.Imported, err
	}
	return result.Imported, nil
}

func (c *Client) putRecord(ctx context.Context, rec models.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/records/%d", rec.ID), bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpc.Do(req)
}

func responseError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, body.Error)
	}
	return fmt.Errorf("request failed: %s", resp.Status)
}

func snapshot(records []models.Record) map[uint]models.Record {
	m := make(map[uint]models.Record, len(records))
	for _, rec := range records {
		m[rec.ID] = cloneRecord(rec)
	}
	return m
}

func cloneRecord(rec models.Record) models.Record {
	cp := rec
	if rec.ColumnColors != nil {
		cp.ColumnColors = make(models.ColorMap, len(rec.ColumnColors))
		for k, v := range rec.ColumnColors {
			cp.ColumnColors[k] = v
		}
	}
	return cp
}
