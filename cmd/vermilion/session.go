package main

import (
	"fmt"
	"os"

	"github.com/vermilionhq/vermilion/pkg/config"
	"github.com/vermilionhq/vermilion/pkg/metadata"
	"github.com/vermilionhq/vermilion/pkg/store"
)

// session bundles the opened backend and metadata context for one command
// invocation. Commands open it, do their work, and Close it.
type session struct {
	cfg   *config.Config
	store *store.FileStore
	meta  *metadata.Metadata
}

func openSession(dir string) (*session, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("open %s: %w (run \"vermilion init\" first)", dir, err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	fs, err := store.NewFileStore(dir, store.FileStoreOptions{
		Compress: cfg.Store.Compress,
		Level:    cfg.Store.Level,
	})
	if err != nil {
		return nil, err
	}
	var flags metadata.Flags
	if cfg.Metadata.FilesMeta {
		flags |= metadata.FlagFilesMeta
	}
	return &session{
		cfg:   cfg,
		store: fs,
		meta:  metadata.New(fs, flags),
	}, nil
}

func (s *session) Close() {
	s.meta.Close()
	s.store.Close()
}

// namespaceHandle maps a command-line namespace name to its handle.
func namespaceHandle(name string) (metadata.Handle, error) {
	switch name {
	case "git2hg":
		return metadata.Git2Hg, nil
	case "hg2git":
		return metadata.Hg2Git, nil
	case "files-meta":
		return metadata.FilesMeta, nil
	}
	return 0, fmt.Errorf("unknown namespace %q (want git2hg, hg2git, or files-meta)", name)
}
