package catalog

import (
	"context"
	"lecturebot/internal/catalog/interfaces"
	"os"
)

// FileManager persists the catalog to a single file. Writes go to a
// temporary file that is synced and renamed over the target.
type FileManager struct {
	fileName   string
	compress   bool
	compressor interfaces.CompressorInterface
}

func NewFileManager(fileName string, compress bool, compressor interfaces.CompressorInterface) *FileManager {
	return &FileManager{
		fileName:   fileName,
		compress:   compress,
		compressor: compressor,
	}
}

func (f *FileManager) Write(_ context.Context, jsonData []byte) error {
	data, err := encodeBlob(f.compressor, f.compress, jsonData)
	if err != nil {
		return err
	}

	tmpFile := f.fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.fileName)
}

func (f *FileManager) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNoDocument
		}
		return nil, err
	}
	return decodeBlob(f.compressor, data)
}

func (f *FileManager) Close() error {
	return nil
}
