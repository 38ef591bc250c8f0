package catalog

import (
	"context"
)

// Source provides catalog metadata. It is implemented by *Reader and
// DatabaseSource for live databases and by StaticSource and FileSource for
// snapshots.
type Source interface {
	Read(ctx context.Context) (Schemas, error)
}

var (
	_ Source = (*Reader)(nil)
	_ Source = DatabaseSource{}
	_ Source = StaticSource{}
	_ Source = FileSource{}
)

// DatabaseSource connects to the database on every Read and closes the
// connection afterwards.
type DatabaseSource struct {
	Driver           Driver
	ConnectionString string
	Options          []interface{}
}

func (s DatabaseSource) Read(ctx context.Context) (Schemas, error) {
	return ReadDatabase(ctx, s.Driver, s.ConnectionString, s.Options...)
}

// StaticSource serves metadata held in memory, typically a loaded snapshot.
type StaticSource struct {
	Schemas Schemas
}

func (s StaticSource) Read(ctx context.Context) (Schemas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Schemas, nil
}

// FileSource reads a snapshot file on every Read, so edits to the file are
// picked up without a restart.
type FileSource struct {
	Path string
}

func (s FileSource) Read(ctx context.Context) (Schemas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadSnapshotFile(s.Path)
}
