package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Tx implements atomic multi-file writes to the data directory using a
// copy-on-write pattern: all modifications happen in a temporary copy, which
// is swapped into place on commit. A crash mid-transaction leaves the
// original directory untouched.
type Tx struct {
	baseDir   string
	tempDir   string
	backupDir string
	committed bool
}

// NewTx creates a transaction against the data directory.
func NewTx(baseDir string) *Tx {
	ts := time.Now().UnixNano()
	return &Tx{
		baseDir:   baseDir,
		tempDir:   fmt.Sprintf("%s.tmp.%d", baseDir, ts),
		backupDir: fmt.Sprintf("%s.backup.%d", baseDir, ts),
	}
}

// Begin copies the data directory into the temp directory. True file copies,
// not hard links: a hard-linked "copy" shares inodes with the original, so
// writes inside the transaction would corrupt the base directory before
// commit.
func (tx *Tx) Begin() error {
	if _, err := os.Stat(tx.baseDir); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(tx.tempDir, 0o755); err != nil {
				return fmt.Errorf("create temp directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("stat data directory: %w", err)
	}

	if err := copyTree(tx.baseDir, tx.tempDir); err != nil {
		_ = os.RemoveAll(tx.tempDir)
		return fmt.Errorf("copy data directory: %w", err)
	}
	return nil
}

// WriteFile writes content at a path relative to the data directory root.
func (tx *Tx) WriteFile(relativePath string, content []byte) error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}

	fullPath := filepath.Join(tx.tempDir, relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ReadFile reads a file from inside the transaction.
func (tx *Tx) ReadFile(relativePath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(tx.tempDir, relativePath))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// RemoveFile deletes a file inside the transaction. Missing files are fine.
func (tx *Tx) RemoveFile(relativePath string) error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}
	err := os.Remove(filepath.Join(tx.tempDir, relativePath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Commit swaps the temp directory into place. The previous state is renamed
// aside first so a failed swap can roll back.
func (tx *Tx) Commit() error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}

	baseExists := true
	if _, err := os.Stat(tx.baseDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("stat data directory: %w", err)
		}
		baseExists = false
	}

	if baseExists {
		if err := os.Rename(tx.baseDir, tx.backupDir); err != nil {
			return fmt.Errorf("back up data directory: %w", err)
		}
		if err := os.Rename(tx.tempDir, tx.baseDir); err != nil {
			if rbErr := os.Rename(tx.backupDir, tx.baseDir); rbErr != nil {
				return fmt.Errorf("commit failed and rollback failed: commit error: %w, rollback error: %v", err, rbErr)
			}
			return fmt.Errorf("commit data directory (rolled back): %w", err)
		}
		_ = os.RemoveAll(tx.backupDir)
	} else {
		if err := os.Rename(tx.tempDir, tx.baseDir); err != nil {
			return fmt.Errorf("commit data directory (new): %w", err)
		}
	}

	tx.committed = true
	return nil
}

// Rollback discards the transaction.
func (tx *Tx) Rollback() error {
	if tx.committed {
		return fmt.Errorf("cannot rollback committed transaction")
	}
	if err := os.RemoveAll(tx.tempDir); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

func copyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyRegular(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyRegular(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copy contents: %w", err)
	}
	return nil
}
