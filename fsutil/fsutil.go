package fsutil

// This module writes post processing outputs
// on the local file system. Operations are
// skipped after the first failure, whose
// error is kept in Transaction.Err.

import (
	"fmt"
	"log"
	"os"
	"path"
)

// Path ...
type Path string

// Join ...
func (pt Path) Join(part string) Path {
	return Path(path.Join(string(pt), part))
}

// JoinP ...
func (pt Path) JoinP(part Path) Path {
	if path.IsAbs(string(part)) {
		return part
	}
	return Path(path.Join(string(pt), string(part)))
}

// PathF ...
func PathF(format string, args ...interface{}) Path {
	p := fmt.Sprintf(format, args...)
	return Path(p)
}

func (pt Path) String() string {
	return string(pt)
}

// Transaction ...
type Transaction struct {
	Root Path
	Err  error
}

// Logf ...
func Logf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// Exists ...
func (tr *Transaction) Exists(file Path) bool {
	if tr.Err != nil {
		return false
	}
	_, err := os.Stat(tr.Root.JoinP(file).String())
	if !os.IsNotExist(err) && err != nil {
		tr.Err = fmt.Errorf("Exists `%s`: Stat error: %w", file.String(), err)
	}
	return err == nil
}

// MkDir ...
func (tr *Transaction) MkDir(dir Path) {
	if tr.Err != nil {
		return
	}

	err := os.MkdirAll(tr.Root.JoinP(dir).String(), os.FileMode(0755))
	if err != nil {
		tr.Err = fmt.Errorf("MkDir `%s`: MkdirAll error: %w", dir.String(), err)
	}
}

// Save ...
func (tr *Transaction) Save(targetPath Path, content []byte) {
	if tr.Err != nil {
		return
	}

	target := tr.Root.JoinP(targetPath)
	Logf("\tSave %s\n", target)
	err := os.WriteFile(target.String(), content, os.FileMode(0664))
	if err != nil {
		tr.Err = fmt.Errorf("Save to `%s`: WriteFile error: %w", targetPath.String(), err)
	}
}

// Create opens a new file for writing, truncating
// an existing one. The caller must close it.
func (tr *Transaction) Create(targetPath Path) *os.File {
	if tr.Err != nil {
		return nil
	}

	target := tr.Root.JoinP(targetPath)
	Logf("\tCreate %s\n", target)
	f, err := os.OpenFile(target.String(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(0664))
	if err != nil {
		tr.Err = fmt.Errorf("Create `%s`: OpenFile error: %w", targetPath.String(), err)
		return nil
	}
	return f
}

// RmFile ...
func (tr *Transaction) RmFile(file Path) {
	if tr.Err != nil {
		return
	}
	Logf("\tRmFile %s\n", file)
	err := os.Remove(tr.Root.JoinP(file).String())
	if err != nil {
		tr.Err = fmt.Errorf("RmFile `%s`: Remove error: %w", file.String(), err)
	}
}
