package fileantilog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

const (
	backupTimeFormat = "2006-01-02T15-04-05.000"
	compressSuffix   = ".gz"
)

// backupName returns a free name of the form "<filename>.<timestamp>"
func backupName(filename string, t time.Time) string {
	name := filename + "." + t.Format(backupTimeFormat)
	candidate := name
	for i := 1; exists(candidate) || exists(candidate+compressSuffix); i++ {
		candidate = fmt.Sprintf("%s.%d", name, i)
	}
	return candidate
}

func exists(name string) bool {
	_, err := os.Lstat(name)
	return err == nil
}

// compressFile gzips src into src.gz and removes src
func compressFile(src string) (err error) {
	in, err := os.Open(src)
	if os.IsNotExist(err) {
		// Already removed by cleanup
		return nil
	}
	if err != nil {
		return fmt.Errorf("compress backup: %w", err)
	}
	defer in.Close()

	dst := src + compressSuffix
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("compress backup: %w", err)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	gz := gzip.NewWriter(out)
	gz.Name = filepath.Base(src)
	if _, err = io.Copy(gz, in); err != nil {
		return fmt.Errorf("compress backup: %w", err)
	}
	if err = gz.Close(); err != nil {
		return fmt.Errorf("compress backup: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("compress backup: %w", err)
	}
	_ = in.Close()
	return os.Remove(src)
}

// listBackups returns the backups of filename, oldest first
func listBackups(filename string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(filename), globEscape(filepath.Base(filename))+".*"))
	if err != nil {
		return nil, err
	}
	// Timestamps sort lexically; ignore the compression suffix when ordering
	sort.Slice(matches, func(i, j int) bool {
		return strings.TrimSuffix(matches[i], compressSuffix) < strings.TrimSuffix(matches[j], compressSuffix)
	})
	return matches, nil
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return r.Replace(s)
}

// cleanupBackups removes backups beyond maxBackups and those older than
// maxAge. Zero disables the respective limit.
func cleanupBackups(filename string, maxBackups int, maxAge time.Duration, now time.Time) error {
	if maxBackups <= 0 && maxAge <= 0 {
		return nil
	}
	backups, err := listBackups(filename)
	if err != nil {
		return err
	}

	var remove []string
	if maxBackups > 0 && len(backups) > maxBackups {
		remove = append(remove, backups[:len(backups)-maxBackups]...)
		backups = backups[len(backups)-maxBackups:]
	}
	if maxAge > 0 {
		for _, b := range backups {
			info, err := os.Stat(b)
			if err == nil && now.Sub(info.ModTime()) > maxAge {
				remove = append(remove, b)
			}
		}
	}

	for _, b := range remove {
		if err := os.Remove(b); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove backup: %w", err)
		}
	}
	return nil
}
