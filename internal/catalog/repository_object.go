package catalog

import (
	"bytes"
	"context"
)

// ObjectStore is the part of the object storage client the catalog needs.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// ObjectSource reads the catalog document from an R2/S3 bucket.
type ObjectSource struct {
	store ObjectStore
	key   string
}

func NewObjectSource(store ObjectStore, key string) *ObjectSource {
	return &ObjectSource{store: store, key: key}
}

func (o *ObjectSource) Name() string {
	return "object:" + o.key
}

func (o *ObjectSource) Load(ctx context.Context) (*Catalog, error) {
	data, err := o.store.Get(ctx, o.key)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}
