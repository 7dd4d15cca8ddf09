package loader

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ledongthuc/pdf"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/pdfrag/internal/filestore"
	"github.com/xxxsen/pdfrag/internal/model"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

// info dictionary entries copied into page metadata, keyed by metadata name.
var infoFields = []struct {
	meta string
	key  string
}{
	{meta: "title", key: "Title"},
	{meta: "author", key: "Author"},
	{meta: "subject", key: "Subject"},
	{meta: "keywords", key: "Keywords"},
	{meta: "creator", key: "Creator"},
	{meta: "producer", key: "Producer"},
	{meta: "creationdate", key: "CreationDate"},
	{meta: "moddate", key: "ModDate"},
}

type Opener interface {
	Open(ctx context.Context, location string) (filestore.Object, error)
}

// PDFLoader turns a PDF into one Document per page.
type PDFLoader struct {
	opener Opener
}

func NewPDFLoader(opener Opener) *PDFLoader {
	return &PDFLoader{opener: opener}
}

func (l *PDFLoader) Load(ctx context.Context, location string) ([]model.Document, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("source", location))
	obj, err := l.opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	docs, err := readPages(obj, obj.Name())
	if err != nil {
		logger.Error("read pdf failed", zap.Error(err))
		return nil, err
	}
	logger.Info("pdf loaded", zap.Int("pages", len(docs)), zap.Int64("size", obj.Size()))
	return docs, nil
}

func readPages(obj filestore.Object, source string) (docs []model.Document, err error) {
	// the pdf package panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("%w: parse pdf %s: %v", appErr.ErrProcessing, source, r)
		}
	}()
	reader, err := pdf.NewReader(obj, obj.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf %s: %w", appErr.ErrProcessing, source, err)
	}
	info := readInfo(reader)
	total := reader.NumPage()
	docs = make([]model.Document, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: extract text of page %d: %w", appErr.ErrProcessing, i, err)
		}
		meta := make(map[string]any, len(info)+4)
		for k, v := range info {
			meta[k] = v
		}
		meta["source"] = source
		meta["page"] = i - 1
		meta["page_label"] = strconv.Itoa(i)
		meta["total_pages"] = total
		docs = append(docs, model.Document{Content: text, Metadata: meta})
	}
	return docs, nil
}

func readInfo(reader *pdf.Reader) map[string]any {
	info := reader.Trailer().Key("Info")
	out := make(map[string]any, len(infoFields))
	for _, f := range infoFields {
		out[f.meta] = info.Key(f.key).Text()
	}
	return out
}
