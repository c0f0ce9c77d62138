// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"sync"
	"time"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/utility/kar"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	currentUserName = "unknown"

	author   = flag.String("author", "", "Set the author of the package when compressing")
	version  = flag.Int64("version", 1, "Archive version number to create it with")
	extract  = flag.String("e", "", "Extract the file given")
	compress = flag.String("c", "", "Compress the compiled shaders of the given folder")
	list     = flag.Bool("l", false, "List the contents of the archive")
	dstFile  = flag.String("f", "out.kar", "Archive file")
	silent   = flag.Bool("s", false, "Silent")
)

func init() {
	if u, err := user.Current(); err == nil && u.Name != "" {
		currentUserName = u.Name
	}
}

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	var ops int
	for _, set := range []bool{*extract != "", *compress != "", *list} {
		if set {
			ops++
		}
	}

	var err error
	switch {
	case ops > 1:
		err = errors.New("only one operation at a time")
	case *compress != "":
		err = compressShaders(*compress, *dstFile)
	case *extract != "":
		err = extractFile(*dstFile, *extract)
	case *list:
		err = listArchive(*dstFile)
	default:
		flag.PrintDefaults()
	}
	if err != nil {
		log.WithError(err).Fatal("kar")
	}
}

func compressShaders(dir, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	shaders, err := core.FindShaders(dir)
	if err != nil {
		return err
	}
	if len(shaders) == 0 {
		return errors.Errorf("no compiled shaders in %s", dir)
	}

	name := *author
	if name == "" {
		name = currentUserName
	}
	builder := kar.NewBuilder(kar.Header{
		Author:      name,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, path := range shaders {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			if err := addFile(builder, dir, path); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(path)
	}
	wg.Wait()
	if len(errs) > 0 {
		return errs[0]
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	written, err := builder.WriteTo(f)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"archive": dst,
		"files":   builder.Len(),
		"bytes":   written,
	}).Info("archive written")
	return nil
}

// addFile stores path under its name relative to dir, which is the
// name shaders are loaded by.
func addFile(builder *kar.Builder, dir, path string) error {
	name, err := filepath.Rel(dir, path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	log.WithField("file", name).Debug("adding")
	return builder.Add(filepath.ToSlash(name), f)
}

func extractFile(archivePath, name string) error {
	archive, err := kar.OpenFile(archivePath)
	if err != nil {
		return err
	}
	defer archive.Close()

	data, err := archive.ReadAll(name)
	if err != nil {
		return err
	}
	out := filepath.Base(name)
	if err := ioutil.WriteFile(out, data, 0644); err != nil {
		return err
	}
	log.WithFields(log.Fields{"file": name, "to": out}).Info("extracted")
	return nil
}

func listArchive(archivePath string) error {
	archive, err := kar.OpenFile(archivePath)
	if err != nil {
		return err
	}
	defer archive.Close()

	header := archive.Header()
	log.WithFields(log.Fields{
		"author":  header.Author,
		"version": header.Version,
		"created": time.Unix(header.DateCreated, 0),
	}).Info(archivePath)
	for _, e := range header.Index {
		log.WithFields(log.Fields{
			"size":       e.Size,
			"compressed": e.CompressedSize,
		}).Info(e.Name)
	}
	return nil
}
