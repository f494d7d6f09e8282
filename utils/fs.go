package utils

import (
	"errors"
	"io"
	"os"

	"devup/log"
)

func CreateDirs(dirPath string) error {
	log.Debug("Creating directory if necessary %s ...", dirPath)
	err := os.MkdirAll(dirPath, 0755)
	if err != nil {
		msg := log.Error("Unable to create directory %s: %v", dirPath, err)
		return errors.New(msg)
	}

	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}

// CopyFile copies src to dst, preserving the source file's mode. dst is
// truncated when it already exists.
func CopyFile(src string, dst string) error {
	stat, err := os.Stat(src)
	if err != nil {
		msg := log.Error("Unable to stat %s: %v", src, err)
		return errors.New(msg)
	}

	in, err := os.Open(src)
	if err != nil {
		msg := log.Error("Unable to open %s: %v", src, err)
		return errors.New(msg)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stat.Mode())
	if err != nil {
		msg := log.Error("Unable to create %s: %v", dst, err)
		return errors.New(msg)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		msg := log.Error("Unable to copy %s to %s: %v", src, dst, err)
		return errors.New(msg)
	}

	return nil
}
