package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCartStorage keeps one JSON file per cart key. Writes go through a
// temporary file and a rename so a crashed write never leaves a truncated cart.
type DiskCartStorage struct {
	Path string
}

func NewDiskCartStorage(path string) *DiskCartStorage {
	return &DiskCartStorage{Path: path}
}

func (s *DiskCartStorage) fileName(key string) string {
	return filepath.Join(s.Path, key+".json")
}

func (s *DiskCartStorage) Fetch(_ context.Context, key string) ([]Line, error) {
	file, err := os.Open(s.fileName(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer file.Close()
	var lines []Line
	if err := json.NewDecoder(file).Decode(&lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *DiskCartStorage) Save(_ context.Context, key string, lines []Line) error {
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return err
	}
	fileName := s.fileName(key)
	tmpName := fileName + fmt.Sprintf(".tmp-%d", time.Now().UnixMilli())
	file, err := os.Create(tmpName)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(file).Encode(lines); err != nil {
		file.Close()
		os.Remove(tmpName)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, fileName)
}

func (s *DiskCartStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(s.fileName(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
