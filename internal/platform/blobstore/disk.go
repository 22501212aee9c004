package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
)

// DiskStore writes objects under Root, one directory per category.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	for _, c := range []Category{PatientPhotos, DoctorPhotos, HospitalPhotos, MedicalReports} {
		if err := os.MkdirAll(filepath.Join(root, string(c)), 0o755); err != nil {
			return nil, fmt.Errorf("create media dir: %w", err)
		}
	}
	return &DiskStore{Root: root}, nil
}

func (s *DiskStore) Put(_ context.Context, category Category, fileName string, content io.Reader) (*Object, error) {
	obj, data, err := prepare(category, fileName, content)
	if err != nil {
		return nil, err
	}

	dst := filepath.Join(s.Root, filepath.FromSlash(obj.Key))
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write %s: %w", obj.Key, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", obj.Key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return nil, fmt.Errorf("store %s: %w", obj.Key, err)
	}
	return obj, nil
}

func (s *DiskStore) Open(_ context.Context, key string) (io.ReadCloser, *Object, error) {
	if !ValidKey(key) {
		return nil, nil, ErrInvalidKey
	}
	f, err := os.Open(filepath.Join(s.Root, filepath.FromSlash(key)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat %s: %w", key, err)
	}

	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return f, &Object{
		Key:         key,
		FileName:    path.Base(key),
		ContentType: ct,
		Size:        info.Size(),
		CreatedAt:   info.ModTime().UTC(),
	}, nil
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
