package output

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// CreateFS defines a file system interface that supports creating files and
// directories, for writing generated sources.
type CreateFS interface {
	// Sub returns a filesystem for a subdirectory.
	Sub(name string) (sub CreateFS, err error)
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
	// Mkdir creates a new directory with the specified permissions.
	Mkdir(name string, filemode fs.FileMode) (err error)
	// Remove removes a file.
	Remove(name string) (err error)
}

// SubDir returns the subdirectory of a file system, creating it if it is
// missing.
func SubDir(filesys CreateFS, name string) (sub CreateFS, err error) {
	sub, err = filesys.Sub(name)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return
	}

	err = filesys.Mkdir(name, 0755)
	if err != nil {
		return
	}

	return filesys.Sub(name)
}

// dirFS is a CreateFS rooted at an operating system directory.
type dirFS string

// DirFS returns a CreateFS for an operating system directory.
func DirFS(dir string) CreateFS {
	return dirFS(dir)
}

func (dir dirFS) join(name string) string {
	return filepath.Join(string(dir), filepath.FromSlash(name))
}

func (dir dirFS) Sub(name string) (sub CreateFS, err error) {
	full := dir.join(name)
	info, err := os.Stat(full)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = &fs.PathError{Op: "sub", Path: full, Err: fs.ErrInvalid}
		return
	}
	sub = dirFS(full)
	return
}

func (dir dirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(dir.join(name))
}

func (dir dirFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	return os.Mkdir(dir.join(name), filemode)
}

func (dir dirFS) Remove(name string) (err error) {
	return os.Remove(dir.join(name))
}

// MemFS is an in-memory CreateFS. Files are keyed by slash separated path.
// The zero value is an empty file system.
type MemFS struct {
	Files map[string]*bytes.Buffer
	Dirs  map[string]bool

	prefix string
	root   *MemFS
}

// NewMemFS returns an empty in-memory file system.
func NewMemFS() *MemFS {
	mem := &MemFS{
		Files: map[string]*bytes.Buffer{},
		Dirs:  map[string]bool{},
	}
	mem.root = mem
	return mem
}

// top returns the root file system, allocating it for a zero MemFS.
func (mem *MemFS) top() *MemFS {
	if mem.root == nil {
		mem.root = mem
	}
	root := mem.root
	if root.Files == nil {
		root.Files = map[string]*bytes.Buffer{}
	}
	if root.Dirs == nil {
		root.Dirs = map[string]bool{}
	}
	return root
}

func (mem *MemFS) Sub(name string) (sub CreateFS, err error) {
	full := path.Join(mem.prefix, name)
	root := mem.top()
	if !root.Dirs[full] {
		err = &fs.PathError{Op: "sub", Path: full, Err: fs.ErrNotExist}
		return
	}
	sub = &MemFS{Files: root.Files, Dirs: root.Dirs, prefix: full, root: root}
	return
}

type memFile struct {
	*bytes.Buffer
}

func (memFile) Close() error {
	return nil
}

func (mem *MemFS) Create(name string) (file io.WriteCloser, err error) {
	full := path.Join(mem.prefix, name)
	dir := path.Dir(full)
	if dir != "." && !mem.top().Dirs[dir] {
		err = &fs.PathError{Op: "create", Path: full, Err: fs.ErrNotExist}
		return
	}
	buf := &bytes.Buffer{}
	mem.top().Files[full] = buf
	file = memFile{Buffer: buf}
	return
}

func (mem *MemFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	full := path.Join(mem.prefix, name)
	if mem.top().Dirs[full] {
		err = &fs.PathError{Op: "mkdir", Path: full, Err: fs.ErrExist}
		return
	}
	mem.top().Dirs[full] = true
	return
}

func (mem *MemFS) Remove(name string) (err error) {
	full := path.Join(mem.prefix, name)
	root := mem.top()
	if _, ok := root.Files[full]; !ok {
		err = &fs.PathError{Op: "remove", Path: full, Err: fs.ErrNotExist}
		return
	}
	delete(root.Files, full)
	return
}

// Names returns the sorted names of the files under the file system.
func (mem *MemFS) Names() (names []string) {
	for name := range mem.top().Files {
		if len(mem.prefix) == 0 || strings.HasPrefix(name, mem.prefix+"/") {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return
}
