package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"BrandMember/internal/domain"
	"BrandMember/internal/infrastructure/platform"
)

// ErrMissing reports that no usable catalog exists locally or remotely; the
// run has nothing to enroll against.
var ErrMissing = errors.New("shop catalog missing")

// CorruptError reports an unparsable local catalog file. The file has already
// been deleted so the next run can rebuild it from the remote copy.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("catalog file %s corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

const dateLayout = "2006-01-02"

// Document is the shop-id catalog with its declared freshness date.
type Document struct {
	UpdateTime string   `yaml:"update_time"`
	ShopIDs    []shopID `yaml:"shop_id"`
}

// IDs returns the catalog's shop ids in order.
func (d Document) IDs() []string {
	ids := make([]string, len(d.ShopIDs))
	for i, id := range d.ShopIDs {
		ids[i] = string(id)
	}
	return ids
}

// shopID accepts both bare integers and quoted strings in the yaml source.
type shopID string

func (s *shopID) UnmarshalYAML(node *yaml.Node) error {
	*s = shopID(node.Value)
	return nil
}

// Cache keeps the local catalog file in sync with the remote copy, rewriting
// it only when the remote declares a strictly newer update date.
type Cache struct {
	path      string
	remoteURL string
	client    *platform.Client
	logger    *slog.Logger
}

// NewCache wires the local file path with the remote catalog endpoint.
func NewCache(path, remoteURL string, client *platform.Client, logger *slog.Logger) *Cache {
	return &Cache{path: path, remoteURL: remoteURL, client: client, logger: logger}
}

// Load produces the catalog for this run. The remote copy is fetched
// best-effort: when it is unreachable or unparsable the local file is used
// unchanged; when it is strictly newer it replaces the local file; when no
// local file exists it seeds one. A corrupt local file is deleted and the
// run aborts.
func (c *Cache) Load(ctx context.Context) (Document, error) {
	remoteRaw := c.fetchRemote(ctx)

	localRaw, err := os.ReadFile(c.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c.seedFromRemote(remoteRaw)
	case err != nil:
		return Document{}, fmt.Errorf("read catalog %s: %w", c.path, err)
	}

	var local Document
	if err := yaml.Unmarshal(localRaw, &local); err != nil {
		// A broken file never heals on its own; drop it so the next run
		// rebuilds it from the remote copy.
		if rmErr := os.Remove(c.path); rmErr != nil {
			c.logger.Error("cannot delete corrupt catalog", "path", c.path, "error", rmErr)
		}
		return Document{}, &CorruptError{Path: c.path, Err: err}
	}

	if remote, ok := newerRemote(local, remoteRaw); ok {
		if err := os.WriteFile(c.path, remoteRaw, 0o644); err != nil {
			c.logger.Error("cannot persist refreshed catalog", "path", c.path, "error", err)
		} else {
			c.logger.Info("catalog refreshed", "updated", remote.UpdateTime)
		}
		return remote, nil
	}

	return local, nil
}

func (c *Cache) fetchRemote(ctx context.Context) []byte {
	if c.remoteURL == "" {
		return nil
	}
	body, err := c.client.Get(ctx, "catalog fetch", c.remoteURL, nil, domain.Account{}, "")
	if err != nil {
		c.logger.Error("remote catalog fetch failed", "error", err)
		return nil
	}
	return body
}

func (c *Cache) seedFromRemote(remoteRaw []byte) (Document, error) {
	if remoteRaw == nil {
		return Document{}, ErrMissing
	}
	var doc Document
	if err := yaml.Unmarshal(remoteRaw, &doc); err != nil {
		c.logger.Error("remote catalog unparsable", "error", err)
		return Document{}, ErrMissing
	}
	if err := os.WriteFile(c.path, remoteRaw, 0o644); err != nil {
		return Document{}, fmt.Errorf("seed catalog %s: %w", c.path, err)
	}
	c.logger.Info("catalog seeded from remote", "updated", doc.UpdateTime)
	return doc, nil
}

// newerRemote parses the remote payload and reports whether it strictly
// supersedes the local document. Any trouble parsing dates or payload keeps
// the local copy.
func newerRemote(local Document, remoteRaw []byte) (Document, bool) {
	if remoteRaw == nil {
		return Document{}, false
	}
	var remote Document
	if err := yaml.Unmarshal(remoteRaw, &remote); err != nil {
		return Document{}, false
	}
	localDate, err := time.Parse(dateLayout, local.UpdateTime)
	if err != nil {
		return Document{}, false
	}
	remoteDate, err := time.Parse(dateLayout, remote.UpdateTime)
	if err != nil {
		return Document{}, false
	}
	if !remoteDate.After(localDate) {
		return Document{}, false
	}
	return remote, true
}
