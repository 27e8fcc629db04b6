// Package filelist implements DC++ file lists with a TTH of every shared file.
package filelist

import (
	"compress/bzip2"
	"context"
	"encoding/xml"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/direct-connect/go-tth/tiger"
	"github.com/direct-connect/go-tth/tth"
	"github.com/direct-connect/go-tth/version"
)

type Dir struct {
	Name       string `xml:"Name,attr"`
	Incomplete int    `xml:"Incomplete,attr"`
	Dirs       []Dir  `xml:"Directory"`
	Files      []File `xml:"File"`
}

type File struct {
	Name string     `xml:"Name,attr"`
	Size int64      `xml:"Size,attr"`
	TTH  tiger.Hash `xml:"TTH,attr"`
}

type FileList struct {
	XMLName   xml.Name `xml:"FileListing"`
	Version   int      `xml:"Version,attr"`
	CID       string   `xml:"CID,attr,omitempty"`
	Base      string   `xml:"Base,attr"`
	Generator string   `xml:"Generator,attr"`
	Dirs      []Dir    `xml:"Directory"`
	Files     []File   `xml:"File"`
}

func Decode(r io.Reader) (*FileList, error) {
	var list FileList
	err := xml.NewDecoder(r).Decode(&list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func DecodeBZIP(r io.Reader) (*FileList, error) {
	return Decode(bzip2.NewReader(r))
}

// Encode writes the file list in XML format.
func Encode(w io.Writer, list *FileList) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(list); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Build walks the directory and computes the TTH of every regular file in it using a given engine.
// The engine must read files from the same filesystem.
func Build(ctx context.Context, fs afero.Fs, root string, e tth.Engine) (*FileList, error) {
	dirs, files, err := buildDir(ctx, fs, root, e)
	if err != nil {
		return nil, err
	}
	return &FileList{
		Version:   1,
		Base:      "/",
		Generator: "go-tth " + version.Vers,
		Dirs:      dirs,
		Files:     files,
	}, nil
}

func buildDir(ctx context.Context, fs afero.Fs, dir string, e tth.Engine) ([]Dir, []File, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, nil, err
	}
	var (
		dirs  []Dir
		files []File
	)
	for _, fi := range infos {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		path := filepath.Join(dir, fi.Name())
		switch {
		case fi.IsDir():
			sdirs, sfiles, err := buildDir(ctx, fs, path, e)
			if err != nil {
				return nil, nil, err
			}
			dirs = append(dirs, Dir{Name: fi.Name(), Dirs: sdirs, Files: sfiles})
		case fi.Mode().IsRegular():
			h, err := e.Root(ctx, path)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, File{Name: fi.Name(), Size: fi.Size(), TTH: h})
		}
	}
	return dirs, files, nil
}

// Walk calls fnc for every file in the list, with a slash-separated path relative to the list root.
func (l *FileList) Walk(fnc func(path string, f File) error) error {
	return walk("", l.Dirs, l.Files, fnc)
}

func walk(prefix string, dirs []Dir, files []File, fnc func(path string, f File) error) error {
	for _, f := range files {
		if err := fnc(prefix+f.Name, f); err != nil {
			return err
		}
	}
	for _, d := range dirs {
		if err := walk(prefix+d.Name+"/", d.Dirs, d.Files, fnc); err != nil {
			return err
		}
	}
	return nil
}
