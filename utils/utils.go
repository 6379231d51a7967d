package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/layman-lang/layman/token"
	"gopkg.in/yaml.v3"
)

// PosError is an error positioned at a token.
type PosError struct {
	Where token.Token
	Err   error
}

func (e PosError) Error() string {
	switch e.Where.Kind {
	case token.EOF:
		return fmt.Sprintf("%v: at end: %s", e.Where.Location, e.Err.Error())
	case token.NEWLINE:
		return fmt.Sprintf("%v: at end of line: %s", e.Where.Location, e.Err.Error())
	}
	return fmt.Sprintf("%v: at `%s`: %s", e.Where.Location, e.Where.Text, e.Err.Error())
}

func (e PosError) Unwrap() error {
	return e.Err
}

type TestData struct {
	Label    string
	Enable   bool
	Input    string
	Expected map[string]string
}

func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	// Remove disabled test cases.
	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data
}

// SourceExt is the file extension of source files.
const SourceExt = ".lay"

// FindSourceFiles returns the source files under root, sorted by path.
func FindSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	return files, nil
}
