// Package pdfkit merges, splits and encrypts PDF documents in memory.
package pdfkit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"convertapi/internal/apperr"
)

// AESKeyLength is the key size used by Encrypt.
const AESKeyLength = 256

var disableConfigDir sync.Once

// Document is a named PDF payload. Name is only used in error messages.
type Document struct {
	Name string
	Data []byte
}

// Kit runs pdfcpu operations. The zero value is not usable; call New.
type Kit struct{}

// New returns a Kit. pdfcpu's on-disk config directory is disabled so every
// call runs with built-in defaults.
func New() *Kit {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Kit{}
}

func (k *Kit) config() *model.Configuration {
	return model.NewDefaultConfiguration()
}

// PageCount returns the number of pages in data.
func (k *Kit) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), k.config())
	if err != nil {
		return 0, apperr.Wrapf(apperr.KindContent, "pdfkit.PageCount", err, "input is not a readable PDF")
	}
	return n, nil
}

// Merge concatenates the pages of docs in order. Each input is validated
// first so a bad one can be reported by name.
func (k *Kit) Merge(ctx context.Context, docs []Document) ([]byte, error) {
	const op = "pdfkit.Merge"

	if len(docs) == 0 {
		return nil, apperr.New(apperr.KindValidation, op, "at least one PDF is required")
	}

	readers := make([]io.ReadSeeker, 0, len(docs))
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := api.PageCount(bytes.NewReader(d.Data), k.config()); err != nil {
			return nil, apperr.Wrapf(apperr.KindContent, op, err, "%s is not a readable PDF", d.Name)
		}
		readers = append(readers, bytes.NewReader(d.Data))
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, k.config()); err != nil {
		return nil, apperr.Wrapf(apperr.KindConversion, op, err, "merge failed")
	}
	return out.Bytes(), nil
}

// Split returns one single-page PDF per page of data, in page order.
func (k *Kit) Split(ctx context.Context, data []byte) ([][]byte, error) {
	const op = "pdfkit.Split"

	n, err := k.PageCount(data)
	if err != nil {
		return nil, err
	}

	pages := make([][]byte, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var out bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &out, []string{strconv.Itoa(i)}, k.config()); err != nil {
			return nil, apperr.Wrapf(apperr.KindConversion, op, err, "extract page %d", i)
		}
		pages = append(pages, out.Bytes())
	}
	return pages, nil
}

// Encrypt returns an AES-256 encrypted copy of data. passphrase is both the
// user and the owner password. An empty passphrase yields a document that
// opens without a password but whose owner password is random.
func (k *Kit) Encrypt(ctx context.Context, data []byte, passphrase string) ([]byte, error) {
	const op = "pdfkit.Encrypt"

	if _, err := k.PageCount(data); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	owner := passphrase
	if owner == "" {
		owner = uuid.NewString()
	}
	conf := model.NewAESConfiguration(passphrase, owner, AESKeyLength)
	var out bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &out, conf); err != nil {
		return nil, apperr.Wrapf(apperr.KindConversion, op, err, "encrypt failed")
	}
	return out.Bytes(), nil
}

// SplitName is the file name of page i (0-based) of a split.
func SplitName(i int) string {
	return fmt.Sprintf("split_%d.pdf", i)
}
