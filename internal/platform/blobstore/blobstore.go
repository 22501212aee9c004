// Package blobstore stores uploaded media: profile and hospital photos and
// medical report files. Objects are addressed by a key of the form
// "<category>/<uuid><ext>" which is also the path under the media URL for
// the public categories.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("media object not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("file type is not allowed")
	ErrEmptyFile          = errors.New("the submitted file is empty")
	ErrInvalidKey         = errors.New("invalid media key")
)

// MaxFileSize bounds a single stored object (10 MB).
const MaxFileSize = 10 << 20

type Category string

const (
	PatientPhotos  Category = "patient_photos"
	DoctorPhotos   Category = "doctor_photos"
	HospitalPhotos Category = "hospital_photos"
	MedicalReports Category = "medical_reports"
)

var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var reportTypes = map[string]string{
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// allowed returns the accepted content types for c and the extension used
// for each.
func (c Category) allowed() map[string]string {
	if c == MedicalReports {
		m := make(map[string]string, len(imageTypes)+len(reportTypes))
		for k, v := range imageTypes {
			m[k] = v
		}
		for k, v := range reportTypes {
			m[k] = v
		}
		return m
	}
	return imageTypes
}

func (c Category) Valid() bool {
	switch c {
	case PatientPhotos, DoctorPhotos, HospitalPhotos, MedicalReports:
		return true
	}
	return false
}

// Public reports whether objects in c may be served without authentication.
// Report files are only reachable through their appointment.
func (c Category) Public() bool {
	return c.Valid() && c != MedicalReports
}

// CategoryOf returns the category segment of key.
func CategoryOf(key string) Category {
	dir, _ := path.Split(key)
	return Category(strings.TrimSuffix(dir, "/"))
}

type Object struct {
	Key         string    `json:"key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

type Store interface {
	Put(ctx context.Context, category Category, fileName string, content io.Reader) (*Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	Delete(ctx context.Context, key string) error
}

// prepare reads content, enforces the size limit and sniffs the content
// type. The client's declared type is ignored.
func prepare(category Category, fileName string, content io.Reader) (*Object, []byte, error) {
	if !category.Valid() {
		return nil, nil, fmt.Errorf("category %q: %w", category, ErrInvalidKey)
	}
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("reading content: %w", err)
	}
	if len(data) == 0 {
		return nil, nil, ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return nil, nil, ErrFileTooLarge
	}

	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ext, ok := category.allowed()[ct]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", ct, ErrInvalidContentType)
	}

	sum := sha256.Sum256(data)
	obj := &Object{
		Key:         string(category) + "/" + uuid.NewString() + ext,
		FileName:    path.Base(fileName),
		ContentType: ct,
		Size:        int64(len(data)),
		Hash:        fmt.Sprintf("%x", sum),
		CreatedAt:   time.Now().UTC(),
	}
	return obj, data, nil
}

// ValidKey rejects keys that could escape the category directories.
func ValidKey(key string) bool {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	_, file := path.Split(key)
	return CategoryOf(key).Valid() && file != ""
}

// URL joins the public media prefix and a key.
func URL(prefix, key string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + key
}

type storedObject struct {
	meta    Object
	content []byte
}

// MemoryStore keeps objects in memory. Used by tests and when no media
// directory is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*storedObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]*storedObject)}
}

func (s *MemoryStore) Put(_ context.Context, category Category, fileName string, content io.Reader) (*Object, error) {
	obj, data, err := prepare(category, fileName, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.objects[obj.Key] = &storedObject{meta: *obj, content: data}
	s.mu.Unlock()

	out := *obj
	return &out, nil
}

func (s *MemoryStore) Open(_ context.Context, key string) (io.ReadCloser, *Object, error) {
	s.mu.RLock()
	o, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrNotFound
	}
	meta := o.meta
	return io.NopCloser(bytes.NewReader(o.content)), &meta, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
