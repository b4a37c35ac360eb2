package storage

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadStore writes attachment files under a single uploads directory and
// hands back the public paths to record on the owning record. Files are
// never deleted: attachments live exactly as long as their parent, and
// complaints are never deleted.
type UploadStore struct {
	dir string
}

func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &UploadStore{dir: dir}, nil
}

// Save stores each file under a uuid-prefixed name so colliding client
// filenames cannot overwrite each other.
func (s *UploadStore) Save(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, file := range files {
		name := uuid.New().String() + "-" + filepath.Base(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(s.dir, name)); err != nil {
			return nil, err
		}
		paths = append(paths, "/uploads/"+name)
	}
	return paths, nil
}
