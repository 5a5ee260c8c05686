// Package snapshot exports and imports namespace contents through a
// blobstore. Snapshots are self-describing: each blob carries a small
// header naming the codec and compression used, so any snapshot can be
// imported regardless of the writer's configuration.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/stratuspay/vecstore/blobstore"
	"github.com/stratuspay/vecstore/codec"
	"github.com/stratuspay/vecstore/engine"
	"github.com/stratuspay/vecstore/model"
)

// Options configure how snapshots are written.
type Options struct {
	// Codec encodes the snapshot payload. Defaults to codec.Default.
	Codec codec.Codec

	// Compression applied to the encoded payload. Defaults to zstd.
	Compression Compression

	// Parallelism bounds concurrent namespace exports in ExportAll.
	Parallelism int
}

// document is the encoded snapshot body. Records appear in insertion
// order so an import reproduces the source namespace's ordering.
type document struct {
	Namespace string         `json:"namespace"`
	Records   []model.Record `json:"records"`
}

// BlobName returns the blob name under which a namespace snapshot is
// stored.
func BlobName(namespace string) string {
	return "namespaces/" + namespace + ".snap"
}

// Export writes the contents of a single namespace to the blobstore.
// Empty namespaces produce an empty (but valid) snapshot.
func Export(ctx context.Context, store engine.Store, bs blobstore.BlobStore, namespace string, optFns ...func(o *Options)) error {
	opts := Options{
		Codec:       codec.Default,
		Compression: CompressionZstd,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	records, err := store.Snapshot(namespace)
	if err != nil {
		return fmt.Errorf("snapshotting namespace %q: %w", namespace, err)
	}

	payload, err := opts.Codec.Marshal(document{Namespace: namespace, Records: records})
	if err != nil {
		return fmt.Errorf("encoding namespace %q: %w", namespace, err)
	}

	compressed, err := compress(payload, opts.Compression)
	if err != nil {
		return fmt.Errorf("compressing namespace %q: %w", namespace, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(compressed) + 64)
	if err := writeHeader(&buf, opts.Codec.Name(), opts.Compression); err != nil {
		return err
	}
	buf.Write(compressed)

	if err := bs.Put(ctx, BlobName(namespace), buf.Bytes()); err != nil {
		return fmt.Errorf("writing snapshot for namespace %q: %w", namespace, err)
	}
	return nil
}

// ExportAll exports every namespace in the store, one blob per
// namespace, in parallel.
func ExportAll(ctx context.Context, store engine.Store, bs blobstore.BlobStore, optFns ...func(o *Options)) error {
	opts := Options{Parallelism: 4}
	for _, fn := range optFns {
		fn(&opts)
	}

	namespaces, err := store.Namespaces()
	if err != nil {
		return fmt.Errorf("listing namespaces: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for _, ns := range namespaces {
		g.Go(func() error {
			return Export(ctx, store, bs, ns, optFns...)
		})
	}
	return g.Wait()
}

// Import reads a namespace snapshot and loads its records into the
// store in their original insertion order. Timestamps are preserved;
// records that already exist in the target namespace are overwritten.
func Import(ctx context.Context, store engine.Store, bs blobstore.BlobStore, namespace string) error {
	data, err := blobstore.ReadAll(ctx, bs, BlobName(namespace))
	if err != nil {
		return fmt.Errorf("reading snapshot for namespace %q: %w", namespace, err)
	}

	r := bytes.NewReader(data)
	codecName, comp, err := readHeader(r)
	if err != nil {
		return fmt.Errorf("snapshot for namespace %q: %w", namespace, err)
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return fmt.Errorf("snapshot for namespace %q: unknown codec %q", namespace, codecName)
	}

	compressed := make([]byte, r.Len())
	if _, err := r.Read(compressed); err != nil {
		return fmt.Errorf("reading snapshot payload for namespace %q: %w", namespace, err)
	}
	payload, err := decompress(compressed, comp)
	if err != nil {
		return fmt.Errorf("decompressing snapshot for namespace %q: %w", namespace, err)
	}

	var doc document
	if err := c.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("decoding snapshot for namespace %q: %w", namespace, err)
	}

	for _, rec := range doc.Records {
		rec.Namespace = namespace
		if err := store.Put(namespace, rec); err != nil {
			return fmt.Errorf("loading record %q into namespace %q: %w", rec.ID, namespace, err)
		}
	}
	return nil
}

// ListSnapshots returns the namespaces that have a snapshot in the
// blobstore.
func ListSnapshots(ctx context.Context, bs blobstore.BlobStore) ([]string, error) {
	names, err := bs.List(ctx, "namespaces/")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		ns := strings.TrimPrefix(n, "namespaces/")
		if trimmed := strings.TrimSuffix(ns, ".snap"); trimmed != ns && trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}
