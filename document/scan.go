// Copyright 2025 Gabriel Ramos
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package document

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// RootCategory is the category assigned to files directly under the
// corpus root, with no subdirectory.
const RootCategory = "Root"

// File is a corpus file found by Scan, not yet parsed.
type File struct {
	// Path is the file path relative to the scanned directory,
	// using forward slashes.
	Path string

	// AbsPath is the path to open the file with.
	AbsPath string

	// Category is the first element of Path, or RootCategory.
	Category string
}

// Scan walks dir recursively and returns all .docx files, sorted by
// relative path. Hidden files and directories (leading dot) and Office
// lock files (leading "~$") are skipped.
func Scan(dir string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".docx") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		files = append(files, File{
			Path:     rel,
			AbsPath:  path,
			Category: categoryOf(rel),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// categoryOf returns the first path element of a relative slash path,
// or RootCategory for top-level files.
func categoryOf(rel string) string {
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return RootCategory
}
