package util

import (
	"archive/zip"
	"io"
	"os"
	"time"
)

type ZipEntry struct {
	Name    string
	Content []byte
	Mode    os.FileMode
}

// ZipFiles writes an archive with given entries to w.
func ZipFiles(w io.Writer, entries []ZipEntry, modified time.Time) error {
	zw := zip.NewWriter(w)

	for _, e := range entries {
		header := &zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		}
		header.SetMode(e.Mode)

		fw, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}

		_, err = fw.Write(e.Content)
		if err != nil {
			return err
		}
	}

	return zw.Close()
}
