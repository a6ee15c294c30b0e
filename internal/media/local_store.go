package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/config"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils/response"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const productsDir = "products"

// sniffLen is what mimetype inspects by default.
const sniffLen = 3072

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Store keeps uploaded product images. Save returns the public URL written to products.image.
type Store interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(cfg config.Media) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Root, productsDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}

	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStore{root: cfg.Root, baseURL: baseURL}, nil
}

func (s *LocalStore) Save(_ context.Context, r io.Reader) (string, error) {
	const op = "media.LocalStore.Save"

	head := make([]byte, sniffLen)

	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%s: reading upload: %w", op, err)
	}

	head = head[:n]

	mtype := mimetype.Detect(head)
	if n == 0 || !mimetype.EqualsAny(mtype.String(), imageTypes...) {
		return "", appErrors.AddValidationError("image",
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	name := path.Join(productsDir, uuid.NewString()+mtype.Extension())
	dst := filepath.Join(s.root, filepath.FromSlash(name))

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), r)); err != nil {
		f.Close()
		os.Remove(dst)

		return "", fmt.Errorf("%s: writing %s: %w", op, name, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.baseURL + name, nil
}

// Remove deletes a file this store saved. URLs it did not issue are ignored.
func (s *LocalStore) Remove(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || path.Clean(rel) != rel || !strings.HasPrefix(rel, productsDir+"/") {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("media.LocalStore.Remove: %w", err)
	}

	return nil
}

// Handler serves saved files read-only below prefix. Directories are not listed.
func (s *LocalStore) Handler(prefix string) http.Handler {
	files := http.FileServer(http.Dir(s.root))

	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			response.Error(w, appErrors.NotFoundError("Not found."))
			return
		}

		files.ServeHTTP(w, r)
	}))
}
